package node

import (
	"github.com/specialistvlad/reactordebug/internal/nodeid"
)

// Info is the per-node entry of a Shape.
type Info struct {
	Name string
	Role Role
	Kids []nodeid.ID
}

// Shape is the static outline of a graph instance handed to debugger
// front-ends: every node by id plus the id of the main output, if any.
type Shape struct {
	Nodes   map[nodeid.ID]Info
	MainID  nodeid.ID
	HasMain bool
}

// NewShape builds a Shape from enumerated nodes. If several nodes claim the
// Main role the one with the highest id wins, matching enumeration order.
func NewShape(nodes []Node) Shape {
	shape := Shape{
		Nodes:  make(map[nodeid.ID]Info, len(nodes)),
		MainID: nodeid.None,
	}
	for _, n := range nodes {
		kids := make([]nodeid.ID, len(n.Kids))
		copy(kids, n.Kids)
		shape.Nodes[n.ID] = Info{Name: n.Name, Role: n.Role, Kids: kids}
		if n.Role == Main {
			shape.MainID = n.ID
			shape.HasMain = true
		}
	}
	return shape
}

// IDs returns all node ids in ascending order.
func (s Shape) IDs() []nodeid.ID {
	ids := make([]nodeid.ID, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	return nodeid.Sort(ids)
}

// WithRole returns the ids of all nodes with one of the given roles, ascending.
func (s Shape) WithRole(roles ...Role) []nodeid.ID {
	var ids []nodeid.ID
	for _, id := range s.IDs() {
		for _, r := range roles {
			if s.Nodes[id].Role == r {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

// Lookup finds a node id by name.
func (s Shape) Lookup(name string) (nodeid.ID, bool) {
	for _, id := range s.IDs() {
		if s.Nodes[id].Name == name {
			return id, true
		}
	}
	return nodeid.None, false
}
