package badger

import (
	"context"
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

func TestStore_InMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T) historystore.Store {
		s, err := Open(Config{InMemory: true}, codec())
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(Config{Path: dir, SyncWrites: true}, codec())
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, "a", 0, event.Event{Value: cty.NumberIntVal(9)}))
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: dir}, codec())
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Value.(cty.Value).Equals(cty.NumberIntVal(9)).True())
}

func TestStore_SessionPrefixesDoNotOverlap(t *testing.T) {
	ctx := context.Background()
	s, err := Open(Config{InMemory: true}, codec())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Append(ctx, "a", 0, event.Event{Value: cty.True}))
	require.NoError(t, s.Append(ctx, "ab", 0, event.Event{Value: cty.False}))

	got, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(Config{}, codec())
	assert.ErrorContains(t, err, "path is required")
}
