package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/reactordebug/internal/ctxlog"
	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/nodestore"
	"github.com/specialistvlad/reactordebug/internal/topologystore"
)

// Manager composes a topology store and a node store into one API.
type Manager struct {
	topology topologystore.Store
	values   nodestore.Store

	mu    sync.RWMutex
	order []nodeid.ID
}

// New creates a graph manager over the given stores.
func New(ts topologystore.Store, ns nodestore.Store) *Manager {
	return &Manager{topology: ts, values: ns}
}

// AddNode registers n with its initial value.
func (m *Manager) AddNode(ctx context.Context, n node.Node, initial any) error {
	if err := m.topology.AddNode(ctx, n); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("Node added to graph.", "id", n.ID.String(), "name", n.Name, "role", n.Role.String())
	return m.values.Set(ctx, n.ID, initial)
}

// AddEdge links parent to kid.
func (m *Manager) AddEdge(ctx context.Context, parent, kid nodeid.ID) error {
	return m.topology.AddEdge(ctx, parent, kid)
}

// Seal computes the propagation order. It must be called once every node
// and edge has been added.
func (m *Manager) Seal(ctx context.Context) error {
	order, err := m.topology.TopologicalOrder(ctx)
	if err != nil {
		return fmt.Errorf("sealing graph: %w", err)
	}

	m.mu.Lock()
	m.order = order
	m.mu.Unlock()

	ctxlog.FromContext(ctx).Debug("Graph sealed.", "nodes", len(order))
	return nil
}

// Order returns the propagation order computed by Seal.
func (m *Manager) Order() []nodeid.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.order
}

// Node looks up a node by id.
func (m *Manager) Node(ctx context.Context, id nodeid.ID) (node.Node, bool) {
	return m.topology.Node(ctx, id)
}

// AllNodes returns every node sorted by id.
func (m *Manager) AllNodes(ctx context.Context) []node.Node {
	return m.topology.AllNodes(ctx)
}

// Parents returns the nodes feeding id.
func (m *Manager) Parents(ctx context.Context, id nodeid.ID) ([]nodeid.ID, error) {
	return m.topology.Parents(ctx, id)
}

// Value reads a node's current value.
func (m *Manager) Value(ctx context.Context, id nodeid.ID) (any, bool) {
	return m.values.Get(ctx, id)
}

// SetValue writes a node's current value. Unknown ids are rejected so a
// stale snapshot can never grow the graph.
func (m *Manager) SetValue(ctx context.Context, id nodeid.ID, value any) error {
	if _, ok := m.topology.Node(ctx, id); !ok {
		return fmt.Errorf("node '%s' not found in graph", id)
	}
	return m.values.Set(ctx, id, value)
}

// Values returns a copy of every node value.
func (m *Manager) Values(ctx context.Context) map[nodeid.ID]any {
	return m.values.Values(ctx)
}
