// Package storetest holds the behaviour every historystore backend must
// share, as a test suite backends run against themselves.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/reactordebug/internal/event"
	"github.com/specialistvlad/reactordebug/internal/historystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// Run exercises a fresh store returned by open for every subtest.
func Run(t *testing.T, open func(t *testing.T) historystore.Store) {
	t.Run("append and load in order", func(t *testing.T) {
		// --- Arrange ---
		ctx := context.Background()
		s := open(t)
		events := event.History{
			{NodeID: 0, Value: cty.NumberIntVal(1), Time: 10 * time.Millisecond},
			{NodeID: 1, Value: cty.StringVal("two"), Time: 20 * time.Millisecond},
			{NodeID: 0, Value: cty.NumberIntVal(3), Time: 30 * time.Millisecond},
		}

		// --- Act ---
		for i := len(events) - 1; i >= 0; i-- {
			require.NoError(t, s.Append(ctx, "a", i, events[i]))
		}
		got, err := s.Load(ctx, "a")

		// --- Assert ---
		require.NoError(t, err)
		require.Len(t, got, len(events))
		for i := range events {
			assert.Equal(t, events[i].NodeID, got[i].NodeID)
			assert.Equal(t, events[i].Time, got[i].Time)
			assert.True(t, events[i].Value.(cty.Value).Equals(got[i].Value.(cty.Value)).True(), "event %d", i)
		}
	})

	t.Run("sessions are isolated and listed sorted", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.Append(ctx, "b", 0, event.Event{Value: cty.True}))
		require.NoError(t, s.Append(ctx, "a", 0, event.Event{Value: cty.False}))
		require.NoError(t, s.Append(ctx, "a", 1, event.Event{Value: cty.True}))

		ids, err := s.Sessions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ids)

		b, err := s.Load(ctx, "b")
		require.NoError(t, err)
		assert.Len(t, b, 1)
	})

	t.Run("duplicate sequence", func(t *testing.T) {
		ctx := context.Background()
		s := open(t)
		require.NoError(t, s.Append(ctx, "a", 0, event.Event{Value: cty.True}))

		err := s.Append(ctx, "a", 0, event.Event{Value: cty.False})
		assert.ErrorIs(t, err, historystore.ErrSequenceExists)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := open(t).Load(context.Background(), "missing")
		assert.ErrorIs(t, err, historystore.ErrSessionNotFound)
	})

	t.Run("empty store lists nothing", func(t *testing.T) {
		ids, err := open(t).Sessions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}
