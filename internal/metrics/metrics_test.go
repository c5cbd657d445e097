package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	// --- Arrange ---
	reg := prometheus.NewRegistry()
	m := New(reg)

	// --- Act ---
	m.EventRecorded(0)
	m.EventRecorded(0)
	m.EventRecorded(3)
	m.SnapshotTaken(1)
	m.Replayed(4, 2*time.Millisecond)
	m.Replayed(1, time.Millisecond)
	m.EventDropped()
	m.SessionStarted()
	m.SessionStarted()
	m.SessionDisposed()

	// --- Assert ---
	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsRecorded.WithLabelValues("0")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsRecorded.WithLabelValues("3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotsTaken))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.replayedEvents))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))

	expected := `
# HELP reactordebug_sessions_active Debug sessions initialized and not yet disposed
# TYPE reactordebug_sessions_active gauge
reactordebug_sessions_active 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "reactordebug_sessions_active"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.jumpDuration))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
