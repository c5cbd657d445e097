// Package metrics exposes debugger activity as Prometheus collectors. All
// collectors are registered on an injected registry so tests and embedding
// programs never share global state.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/replay"
)

const namespace = "reactordebug"

// Metrics holds every collector. It implements replay.Observer.
type Metrics struct {
	eventsRecorded *prometheus.CounterVec
	eventsDropped  prometheus.Counter
	snapshotsTaken prometheus.Counter
	replayedEvents prometheus.Counter
	jumpDuration   prometheus.Histogram
	sessionsActive prometheus.Gauge
}

var _ replay.Observer = (*Metrics)(nil)

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		eventsRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_recorded_total",
			Help:      "Events appended to a session log, by input node",
		}, []string{"node"}),
		eventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "External events discarded because their session was paused",
		}),
		snapshotsTaken: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_taken_total",
			Help:      "Checkpoint snapshots captured",
		}),
		replayedEvents: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replayed_events_total",
			Help:      "Events re-applied while jumping between frames",
		}),
		jumpDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "jump_duration_seconds",
			Help:      "Time spent restoring a snapshot and replaying to a frame",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Debug sessions initialized and not yet disposed",
		}),
	}
}

// EventRecorded implements replay.Observer.
func (m *Metrics) EventRecorded(id nodeid.ID) {
	m.eventsRecorded.WithLabelValues(id.String()).Inc()
}

// SnapshotTaken implements replay.Observer.
func (m *Metrics) SnapshotTaken(int) {
	m.snapshotsTaken.Inc()
}

// Replayed implements replay.Observer.
func (m *Metrics) Replayed(events int, took time.Duration) {
	m.replayedEvents.Add(float64(events))
	m.jumpDuration.Observe(took.Seconds())
}

// EventDropped counts an event discarded while paused.
func (m *Metrics) EventDropped() {
	m.eventsDropped.Inc()
}

// SessionStarted and SessionDisposed track live sessions.
func (m *Metrics) SessionStarted()  { m.sessionsActive.Inc() }
func (m *Metrics) SessionDisposed() { m.sessionsActive.Dec() }
