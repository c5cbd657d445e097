// Package topologystore defines the interface for storing and retrieving the
// static structure of an instrumented dataflow graph.
//
// # Why Topology Store Exists
//
// The topology store isolates the **immutable graph structure** (nodes and
// their parent to kid edges) from the **mutable node values** managed by
// nodestore. The debugger rewinds and replays values constantly but never
// changes the shape of the graph it is debugging.
//
// This separation provides several benefits:
//   - **Clarity:** Propagation order queries don't mix with value writes
//   - **Thread-Safety:** Read-heavy topology queries use RLocks without contention from value writes
//   - **Testability:** Graph structure can be validated independently of values
//
// # Lifecycle and Usage
//
// The topology store is:
//  1. **Created** once per graph instance
//  2. **Populated** while the program is instantiated (nodes + edges added)
//  3. **Read-only** while events are recorded and replayed
//  4. **Discarded** when the debug session is disposed
//
// During propagation the runtime walks TopologicalOrder once per event and
// consults Parents to decide whether a derived node has a changed source.
package topologystore

import (
	"context"
	"errors"

	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
)

// ErrCycle is returned by TopologicalOrder when the edges do not form a DAG.
var ErrCycle = errors.New("topology contains a cycle")

// Store is the interface for managing the static topology of a dataflow graph.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. See internal/inmemorytopology
// for the reference implementation.
type Store interface {
	// AddNode registers a node. Adding the same id twice is idempotent.
	AddNode(ctx context.Context, n node.Node) error

	// AddEdge records that values propagate from parent to kid. Both nodes
	// must already exist and self-edges are rejected.
	AddEdge(ctx context.Context, parent, kid nodeid.ID) error

	// Node retrieves a single node by id. The returned node carries its
	// current kid list.
	Node(ctx context.Context, id nodeid.ID) (node.Node, bool)

	// AllNodes returns a snapshot of every node, sorted by id.
	AllNodes(ctx context.Context) []node.Node

	// Kids returns the ids fed by the given node, sorted.
	Kids(ctx context.Context, id nodeid.ID) ([]nodeid.ID, error)

	// Parents returns the ids feeding the given node, sorted.
	Parents(ctx context.Context, id nodeid.ID) ([]nodeid.ID, error)

	// TopologicalOrder returns every node id such that each parent precedes
	// its kids. Ties are broken by ascending id so the order is stable.
	// Returns an error wrapping ErrCycle if no such order exists.
	TopologicalOrder(ctx context.Context) ([]nodeid.ID, error)
}
