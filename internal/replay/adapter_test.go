package replay

import (
	"context"
	"fmt"
	"testing"

	"github.com/specialistvlad/reactordebug/internal/graph"
	"github.com/specialistvlad/reactordebug/internal/inmemorystore"
	"github.com/specialistvlad/reactordebug/internal/inmemorytopology"
	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/stretchr/testify/require"
)

const (
	inputID  nodeid.ID = 0
	sumID    nodeid.ID = 1
	doubleID nodeid.ID = 2
)

// sumAdapter is a three node graph: an input, a running sum of the input
// and the input doubled.
type sumAdapter struct {
	*graph.Manager
	applied int
}

func newSumAdapter(t *testing.T) *sumAdapter {
	t.Helper()
	ctx := context.Background()
	m := graph.New(inmemorytopology.New(), inmemorystore.New())
	require.NoError(t, m.AddNode(ctx, node.Node{ID: inputID, Name: "in", Role: node.Mailbox}, 0))
	require.NoError(t, m.AddNode(ctx, node.Node{ID: sumID, Name: "sum", Role: node.Internal}, 0))
	require.NoError(t, m.AddNode(ctx, node.Node{ID: doubleID, Name: "double", Role: node.Main}, 0))
	require.NoError(t, m.AddEdge(ctx, inputID, sumID))
	require.NoError(t, m.AddEdge(ctx, inputID, doubleID))
	require.NoError(t, m.Seal(ctx))
	return &sumAdapter{Manager: m}
}

func (a *sumAdapter) EnumerateNodes(ctx context.Context) []node.Node {
	return a.AllNodes(ctx)
}

func (a *sumAdapter) ApplyEvent(ctx context.Context, id nodeid.ID, v any) (bool, error) {
	if id != inputID {
		return false, fmt.Errorf("node '%s' is not an input", id)
	}
	n := v.(int)
	a.applied++

	sum, _ := a.Value(ctx, sumID)
	_ = a.SetValue(ctx, inputID, n)
	_ = a.SetValue(ctx, sumID, sum.(int)+n)
	_ = a.SetValue(ctx, doubleID, 2*n)
	return true, nil
}

func (a *sumAdapter) InstallInterceptor(graph.Interceptor) {}

func (a *sumAdapter) Dispose(context.Context) error { return nil }
