package graph

import (
	"context"
	"testing"

	"github.com/specialistvlad/reactordebug/internal/inmemorystore"
	"github.com/specialistvlad/reactordebug/internal/inmemorytopology"
	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/topologystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestGraph creates a graph manager with in-memory stores for testing.
func createTestGraph() *Manager {
	return New(inmemorytopology.New(), inmemorystore.New())
}

func addNode(t *testing.T, m *Manager, id nodeid.ID, role node.Role, initial any) {
	t.Helper()
	require.NoError(t, m.AddNode(context.Background(), node.Node{ID: id, Name: id.String(), Role: role}, initial))
}

func TestManager_AddNodeStoresInitialValue(t *testing.T) {
	m := createTestGraph()
	ctx := context.Background()
	addNode(t, m, 0, node.Mailbox, 7)

	v, ok := m.Value(ctx, 0)
	require.True(t, ok)
	assert.Equal(t, 7, v)

	n, ok := m.Node(ctx, 0)
	require.True(t, ok)
	assert.Equal(t, node.Mailbox, n.Role)
}

func TestManager_SetValue(t *testing.T) {
	m := createTestGraph()
	ctx := context.Background()
	addNode(t, m, 0, node.Mailbox, 0)

	require.NoError(t, m.SetValue(ctx, 0, "x"))
	v, _ := m.Value(ctx, 0)
	assert.Equal(t, "x", v)

	assert.Error(t, m.SetValue(ctx, 5, "nope"), "unknown nodes must be rejected")
	assert.Equal(t, map[nodeid.ID]any{0: "x"}, m.Values(ctx))
}

func TestManager_SealOrdersParentsFirst(t *testing.T) {
	// --- Arrange ---
	m := createTestGraph()
	ctx := context.Background()
	addNode(t, m, 0, node.Mailbox, 0)
	addNode(t, m, 1, node.Main, 0)
	addNode(t, m, 2, node.Internal, 0)
	require.NoError(t, m.AddEdge(ctx, 0, 2))
	require.NoError(t, m.AddEdge(ctx, 2, 1))

	// --- Act ---
	require.NoError(t, m.Seal(ctx))

	// --- Assert ---
	assert.Equal(t, []nodeid.ID{0, 2, 1}, m.Order())

	parents, err := m.Parents(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []nodeid.ID{2}, parents)

	nodes := m.AllNodes(ctx)
	require.Len(t, nodes, 3)
	assert.Equal(t, []nodeid.ID{2}, nodes[0].Kids)
}

func TestManager_SealRejectsCycles(t *testing.T) {
	m := createTestGraph()
	ctx := context.Background()
	addNode(t, m, 0, node.Internal, 0)
	addNode(t, m, 1, node.Internal, 0)
	require.NoError(t, m.AddEdge(ctx, 0, 1))
	require.NoError(t, m.AddEdge(ctx, 1, 0))

	err := m.Seal(ctx)
	assert.ErrorIs(t, err, topologystore.ErrCycle)
}
