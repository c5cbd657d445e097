package socketio

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/reactordebug/internal/event"
	"github.com/specialistvlad/reactordebug/internal/notify"
	"github.com/specialistvlad/reactordebug/internal/reflector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload(t *testing.T) {
	n := notify.Notification{
		Session: "abc",
		Frame:   1,
		Event:   event.Event{NodeID: 2, Value: "hi"},
		Subscribed: []notify.NodeValue{
			{NodeID: 3, Value: reflector.Number{Value: 4}},
		},
	}

	got, err := payload(n)
	require.NoError(t, err)

	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "abc", m["session"])
	assert.Equal(t, float64(1), m["frame"])

	ev := m["event"].(map[string]any)
	assert.Equal(t, map[string]any{"ctor": "String", "_0": "hi"}, ev["value"])

	subscribed := m["subscribed"].([]any)
	require.Len(t, subscribed, 1)
	assert.Equal(t, float64(3), subscribed[0].(map[string]any)["node"])
}

func TestDial_Errors(t *testing.T) {
	t.Run("bad url", func(t *testing.T) {
		_, err := Dial(context.Background(), Options{URL: "://nope"})
		assert.ErrorContains(t, err, "failed to parse URL")
	})

	t.Run("nothing listening", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		_, err := Dial(ctx, Options{URL: "http://127.0.0.1:1/socket.io/", ConnectTimeout: time.Second})
		assert.Error(t, err)
	})
}
