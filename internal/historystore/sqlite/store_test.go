package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/reactordebug/internal/event"
	reactorhcl "github.com/specialistvlad/reactordebug/internal/hcl"
	"github.com/specialistvlad/reactordebug/internal/historystore"
	"github.com/specialistvlad/reactordebug/internal/historystore/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func codec() *historystore.Codec {
	return historystore.NewCodec(reactorhcl.NewConverter())
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) historystore.Store {
		s, err := Open(context.Background(), Config{Path: filepath.Join(t.TempDir(), "history.db")}, codec())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_InMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) historystore.Store {
		s, err := Open(context.Background(), Config{Path: ":memory:"}, codec())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	s, err := Open(ctx, Config{Path: path}, codec())
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, "a", 0, event.Event{Value: cty.StringVal("kept")}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, Config{Path: path}, codec())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Value.(cty.Value).AsString())
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), Config{}, codec())
	assert.ErrorContains(t, err, "path is required")
}
