package session

import (
	"time"

	"github.com/specialistvlad/reactordebug/internal/historystore"
	"github.com/specialistvlad/reactordebug/internal/metrics"
	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/notify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/specialistvlad/reactordebug/internal/session"

// InitialNodes picks the nodes a new session subscribes to, given the
// shape of the instantiated graph.
type InitialNodes func(shape node.Shape) []nodeid.ID

// MainNode subscribes to the main output, if the program has one.
func MainNode(shape node.Shape) []nodeid.ID {
	if !shape.HasMain {
		return nil
	}
	return []nodeid.ID{shape.MainID}
}

// Option configures Initialize.
type Option func(*options)

type options struct {
	id       string
	interval int
	sink     notify.Sink
	store    historystore.Store
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
	paused   bool
}

func defaultOptions() options {
	return options{
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
}

// WithID fixes the session id instead of generating one.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithInterval sets the checkpoint interval K.
func WithInterval(k int) Option {
	return func(o *options) { o.interval = k }
}

// WithSink sets where per-event notifications go.
func WithSink(s notify.Sink) Option {
	return func(o *options) { o.sink = s }
}

// WithHistoryStore persists every recorded event.
func WithHistoryStore(s historystore.Store) Option {
	return func(o *options) { o.store = s }
}

// WithMetrics reports session and engine activity.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracerProvider traces jumps and range queries.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp.Tracer(tracerName) }
}

// WithNow overrides the wall clock behind the session clock.
func WithNow(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// StartPaused returns the session paused, with program timers suspended,
// so a resumed log can be inspected before anything new is recorded.
func StartPaused() Option {
	return func(o *options) { o.paused = true }
}
