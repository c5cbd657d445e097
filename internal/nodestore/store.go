// Package nodestore defines the interface for storing and retrieving the
// mutable values of nodes in an instrumented dataflow graph.
//
// # Why Node Store Exists
//
// The node store isolates **mutable node values** from the **immutable graph
// structure** managed by topologystore. Every node is addressed by its dense
// nodeid.ID, which gives the debugger index-based access to the live graph
// without holding references into it.
//
// # Lifecycle and Usage
//
// The node store is:
//  1. **Created** once per graph instance
//  2. **Initialized** with every node's initial value when the program is instantiated
//  3. **Mutated** on every propagation step, and wholesale when a snapshot is restored
//  4. **Read** when snapshots are taken and when subscribed values are reported
//  5. **Discarded** when the debug session is disposed
package nodestore

import (
	"context"

	"github.com/specialistvlad/reactordebug/internal/nodeid"
)

// Store is the interface for managing the current value of every node.
//
// Implementations MUST be safe for concurrent use: timer callbacks and
// debugger queries may touch the store from different goroutines.
type Store interface {
	// Set records the current value of a node.
	Set(ctx context.Context, id nodeid.ID, value any) error

	// Get retrieves the current value of a node. The boolean reports whether
	// a value was ever set.
	Get(ctx context.Context, id nodeid.ID) (any, bool)

	// Values returns a copy of every stored value keyed by id. Mutating the
	// returned map does not affect the store.
	Values(ctx context.Context) map[nodeid.ID]any
}
