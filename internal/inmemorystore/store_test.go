package inmemorystore

import (
	"context"
	"sync"
	"testing"

	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	// Get a value that was never set.
	v, ok := s.Get(ctx, 3)
	assert.False(t, ok)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, 3, 42))

	v, ok = s.Get(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, 42, v)

	// A nil value is still a set value.
	require.NoError(t, s.Set(ctx, 4, nil))
	_, ok = s.Get(ctx, 4)
	assert.True(t, ok)
}

func TestValues_IsCopy(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, 0, "a"))
	require.NoError(t, s.Set(ctx, 1, "b"))

	values := s.Values(ctx)
	assert.Equal(t, map[nodeid.ID]any{0: "a", 1: "b"}, values)

	values[0] = "mutated"
	v, _ := s.Get(ctx, 0)
	assert.Equal(t, "a", v)
}

// TestStore_ConcurrentAccess verifies that the store can be safely accessed by
// multiple goroutines simultaneously without data races or lost writes.
func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	ctx := context.Background()
	numGoroutines := 100
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			_ = s.Set(ctx, nodeid.ID(i), i)
		}(i)
	}
	wg.Wait()

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			v, ok := s.Get(ctx, nodeid.ID(i))
			assert.True(t, ok)
			assert.Equal(t, i, v, "mismatched value for node %d", i)
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Values(ctx), numGoroutines)
}
