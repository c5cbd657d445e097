package graph

import (
	"context"

	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/timers"
)

// Interceptor is called for every externally originated event before normal
// propagation. It returns whether the event was accepted.
type Interceptor func(ctx context.Context, id nodeid.ID, value any) bool

// WatchFunc receives values the program explicitly flags for inspection
// during a propagation step.
type WatchFunc func(tag string, value any)

// Adapter is the debugger's view of one live graph instance.
type Adapter interface {
	// EnumerateNodes returns every node reachable from the input set,
	// sorted by id.
	EnumerateNodes(ctx context.Context) []node.Node

	// Value reads a node's current value.
	Value(ctx context.Context, id nodeid.ID) (any, bool)

	// SetValue overwrites a node's current value without propagating.
	// Used when a snapshot is restored.
	SetValue(ctx context.Context, id nodeid.ID, value any) error

	// ApplyEvent delivers value to the input node id and propagates it. It
	// never consults the interceptor. changed reports whether any node
	// value changed.
	ApplyEvent(ctx context.Context, id nodeid.ID, value any) (changed bool, err error)

	// InstallInterceptor sets the hook for external events. Installing a
	// new hook replaces the previous one.
	InstallInterceptor(hook Interceptor)

	// Dispose tears down the instance. It is called exactly once.
	Dispose(ctx context.Context) error
}

// Host is what the debugger lends an instrumented program: suspendable
// timers, a clock that stops while paused and a sink for flagged values.
type Host struct {
	Timers *timers.Queue
	Clock  *timers.Clock
	Watch  WatchFunc
}

// Program is something that can be instantiated into a live graph.
type Program interface {
	// Name identifies the program in logs and persisted history.
	Name() string

	// Instantiate builds a fresh graph instance wired to host.
	Instantiate(ctx context.Context, host Host) (Adapter, error)
}

// ShapeHinter is implemented by adapters whose runtime uses record-like
// values for internal machinery. Each entry is an exact set of field names
// that must never be displayed as a user record.
type ShapeHinter interface {
	InternalShapes() [][]string
}
