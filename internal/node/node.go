package node

import (
	"github.com/specialistvlad/reactordebug/internal/nodeid"
)

// Node is a single vertex in the dataflow graph as seen by the debugger: its
// identity, its static role and the ids of the nodes it feeds.
//
// The debugger never owns a Node's value; values live in the graph adapter
// and are read or written by id.
type Node struct {
	// ID is the stable identifier assigned at graph construction.
	ID nodeid.ID
	// Name is the human-readable name from the program definition.
	// Example: "clicks"
	Name string
	// Role is the node's static classification.
	Role Role
	// Kids are the ids of the nodes this node propagates to.
	Kids []nodeid.ID
}

// Role classifies a node by how values enter or leave it.
type Role int

const (
	// Internal is a derived node that is neither an input nor an output.
	Internal Role = iota
	// Mailbox is an external input that user code sends messages to.
	Mailbox
	// CoreLibInput is an external input driven by the runtime itself,
	// such as a timer.
	CoreLibInput
	// Main is the program's primary observable output.
	Main
	// OutputPort is any other observable output.
	OutputPort
)

// IsInput reports whether external events can be delivered to the node.
func (r Role) IsInput() bool {
	return r == Mailbox || r == CoreLibInput
}

// IsOutput reports whether the node is observable from outside the graph.
func (r Role) IsOutput() bool {
	return r == Main || r == OutputPort
}

func (r Role) String() string {
	switch r {
	case Internal:
		return "internal"
	case Mailbox:
		return "mailbox"
	case CoreLibInput:
		return "input"
	case Main:
		return "main"
	case OutputPort:
		return "output"
	default:
		return "unknown"
	}
}

// ParseRole is the inverse of Role.String.
func ParseRole(s string) (Role, bool) {
	for _, r := range []Role{Internal, Mailbox, CoreLibInput, Main, OutputPort} {
		if r.String() == s {
			return r, true
		}
	}
	return Internal, false
}
