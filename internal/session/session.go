package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/specialistvlad/reactordebug/internal/ctxlog"
	"github.com/specialistvlad/reactordebug/internal/event"
	"github.com/specialistvlad/reactordebug/internal/graph"
	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/notify"
	"github.com/specialistvlad/reactordebug/internal/reflector"
	"github.com/specialistvlad/reactordebug/internal/replay"
	"github.com/specialistvlad/reactordebug/internal/timers"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FrameValue is the reflected value of a node at one frame.
type FrameValue struct {
	Frame int
	Value reflector.Value
}

// NodeFrames is the value history of one node over a frame range.
type NodeFrames struct {
	NodeID nodeid.ID
	Frames []FrameValue
}

// Session is one debugged program instance.
type Session struct {
	id      string
	program graph.Program
	opts    options

	adapter   graph.Adapter
	engine    *replay.Engine
	shape     node.Shape
	queue     *timers.Queue
	clock     *timers.Clock
	reflector *reflector.Reflector

	// stateMu serializes SetPlaying; only SetPlaying changes playing
	// after Initialize.
	stateMu sync.Mutex

	mu         sync.Mutex
	playing    bool
	disposed   bool
	subscribed []nodeid.ID

	// flagged collects watched values during a live Record only.
	flagMu    sync.Mutex
	recording bool
	flagged   []notify.Flagged

	dropped atomic.Uint64
}

// Initialize instantiates program under instrumentation and returns the
// new session, playing unless StartPaused is given, together with the
// current values of the initial subscriptions. priorHistory, if any, is
// replayed first without notifications so the session continues a saved
// log.
func Initialize(
	ctx context.Context,
	program graph.Program,
	priorHistory event.History,
	initial InitialNodes,
	opts ...Option,
) (*Session, []notify.NodeValue, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}

	ctx = ctxlog.With(ctx, "session", o.id, "program", program.Name())
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Initializing debug session.", "prior_events", len(priorHistory))

	var start timers.ClockOption
	if last, ok := priorHistory.Last(); ok {
		start = timers.StartingAt(last.Time)
	} else {
		start = timers.StartingAt(0)
	}

	s := &Session{
		id:      o.id,
		program: program,
		opts:    o,
		queue:   timers.NewQueue(),
		clock:   timers.NewClock(timers.WithNow(o.now), start),
	}

	// Timers armed before the interceptor is installed would reach the
	// graph unrecorded, so they wait until the session is playing.
	s.queue.Pause()

	adapter, err := program.Instantiate(ctx, graph.Host{Timers: s.queue, Clock: s.clock, Watch: s.watch})
	if err != nil {
		s.queue.Stop()
		return nil, nil, fmt.Errorf("instantiating program %q: %w", program.Name(), err)
	}
	s.adapter = adapter

	var shapes [][]string
	if hinter, ok := adapter.(graph.ShapeHinter); ok {
		shapes = hinter.InternalShapes()
	}
	s.reflector = reflector.New(reflector.WithInternalShapes(shapes...))

	var observer replay.Observer
	if o.metrics != nil {
		observer = o.metrics
	}
	engine, err := replay.New(ctx, adapter, replay.Options{Interval: o.interval, Observer: observer})
	if err != nil {
		s.abort(ctx)
		return nil, nil, fmt.Errorf("starting replay engine: %w", err)
	}
	s.engine = engine
	s.shape = node.NewShape(adapter.EnumerateNodes(ctx))

	for i, ev := range priorHistory {
		recorded, _, err := engine.Record(ctx, ev.NodeID, ev.Value, ev.Time)
		if err != nil {
			s.abort(ctx)
			return nil, nil, fmt.Errorf("replaying prior event %d: %w", i, err)
		}
		s.persist(ctx, i, recorded)
	}

	if initial != nil {
		for _, id := range initial(s.shape) {
			if !slices.Contains(s.subscribed, id) {
				s.subscribed = append(s.subscribed, id)
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	adapter.InstallInterceptor(s.intercept)
	if o.paused {
		s.clock.Pause()
	} else {
		s.playing = true
		s.queue.Resume()
	}
	if o.metrics != nil {
		o.metrics.SessionStarted()
	}

	logger.Info("Debug session started.", "nodes", len(s.shape.Nodes), "frames", engine.NumFrames(), "subscriptions", len(s.subscribed))
	return s, s.subscribedValues(ctx), nil
}

// abort tears down a half-initialized session.
func (s *Session) abort(ctx context.Context) {
	s.queue.Stop()
	if err := s.adapter.Dispose(ctx); err != nil {
		ctxlog.FromContext(ctx).Warn("Disposing program after failed initialization.", "error", err)
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Program returns the program the session was initialized with.
func (s *Session) Program() graph.Program { return s.program }

// Shape returns the static outline of the instantiated graph.
func (s *Session) Shape() node.Shape { return s.shape }

// Dropped reports how many events arrived while paused.
func (s *Session) Dropped() uint64 { return s.dropped.Load() }

// Adapter returns the instrumented program instance. External events
// delivered through it are intercepted by the session.
func (s *Session) Adapter() graph.Adapter { return s.adapter }

// Reflector returns the reflector configured for this program's values.
func (s *Session) Reflector() *reflector.Reflector { return s.reflector }

// intercept is installed on the adapter and sees every external event.
func (s *Session) intercept(ctx context.Context, id nodeid.ID, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx = ctxlog.With(ctx, "session", s.id)
	logger := ctxlog.FromContext(ctx)

	if s.disposed {
		return false
	}
	if !s.playing {
		s.dropped.Add(1)
		if s.opts.metrics != nil {
			s.opts.metrics.EventDropped()
		}
		logger.Debug("Event dropped while paused.", "node", id.String())
		return false
	}

	s.flagMu.Lock()
	s.flagged = nil
	s.recording = true
	s.flagMu.Unlock()

	ev, _, err := s.engine.Record(ctx, id, v, s.clock.Now())

	s.flagMu.Lock()
	s.recording = false
	flagged := s.flagged
	s.flagged = nil
	s.flagMu.Unlock()

	if err != nil {
		logger.Error("Failed to record event.", "node", id.String(), "error", err)
		return false
	}

	seq := s.engine.NumFrames() - 2
	s.persist(ctx, seq, ev)

	if s.opts.sink != nil {
		n := notify.Notification{
			Session:    s.id,
			Frame:      seq + 1,
			Event:      ev,
			Value:      s.reflector.Decode(ev.Value),
			Flagged:    flagged,
			Subscribed: s.subscribedValues(ctx),
		}
		if err := s.opts.sink.Notify(ctx, n); err != nil {
			logger.Warn("Notification sink failed.", "frame", n.Frame, "error", err)
		}
	}
	return true
}

// watch receives values the program flags while an event propagates.
// Values flagged during replay are ignored.
func (s *Session) watch(tag string, v any) {
	s.flagMu.Lock()
	defer s.flagMu.Unlock()
	if !s.recording {
		return
	}
	s.flagged = append(s.flagged, notify.Flagged{Tag: tag, Value: s.reflector.Decode(v)})
}

func (s *Session) persist(ctx context.Context, seq int, ev event.Event) {
	if s.opts.store == nil {
		return
	}
	if err := s.opts.store.Append(ctx, s.id, seq, ev); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to persist event.", "seq", seq, "error", err)
	}
}

func (s *Session) subscribedValues(ctx context.Context) []notify.NodeValue {
	out := make([]notify.NodeValue, 0, len(s.subscribed))
	for _, id := range s.subscribed {
		v, ok := s.adapter.Value(ctx, id)
		if !ok {
			continue
		}
		out = append(out, notify.NodeValue{NodeID: id, Value: s.reflector.Decode(v)})
	}
	return out
}

// SetPlaying pauses or resumes the session. Asking for the current state
// fails with ErrInvalidTransition.
func (s *Session) SetPlaying(ctx context.Context, playing bool) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if err := s.checkTransition(playing); err != nil {
		return err
	}
	if !playing {
		// Timer callbacks already running need s.mu to record their tick,
		// so the queue is drained before the session lock is taken.
		s.queue.Pause()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrSessionDisposed
	}

	logger := ctxlog.FromContext(ctx).With("session", s.id)
	if !playing {
		s.clock.Pause()
		s.playing = false
		logger.Debug("Session paused.", "frames", s.engine.NumFrames())
		return nil
	}

	// Recording restores the head of the log lazily as well, so a failure
	// here only delays it until the next event.
	if head := s.engine.NumFrames() - 1; s.engine.Frame() != head {
		if err := s.engine.JumpTo(ctx, head); err != nil {
			logger.Warn("Failed to restore head of log on resume.", "error", err)
		}
	}
	s.clock.Resume()
	s.queue.Resume()
	s.playing = true
	logger.Debug("Session resumed.", "frames", s.engine.NumFrames())
	return nil
}

func (s *Session) checkTransition(playing bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrSessionDisposed
	}
	if s.playing == playing {
		return fmt.Errorf("%w: already %s", ErrInvalidTransition, stateName(playing))
	}
	return nil
}

// Playing reports whether the session is playing.
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func stateName(playing bool) string {
	if playing {
		return "playing"
	}
	return "paused"
}

// SetSubscribed adds or removes id from the subscription set. Requests that
// would not change the set fail with ErrAlreadyInState.
func (s *Session) SetSubscribed(ctx context.Context, id nodeid.ID, subscribed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrSessionDisposed
	}

	idx := slices.Index(s.subscribed, id)
	switch {
	case subscribed && idx >= 0:
		return fmt.Errorf("%w: node '%s' is subscribed", ErrAlreadyInState, id)
	case !subscribed && idx < 0:
		return fmt.Errorf("%w: node '%s' is not subscribed", ErrAlreadyInState, id)
	case subscribed:
		s.subscribed = append(s.subscribed, id)
	default:
		s.subscribed = slices.Delete(s.subscribed, idx, idx+1)
	}
	return nil
}

// Subscriptions returns the subscribed node ids in insertion order.
func (s *Session) Subscriptions(ctx context.Context) ([]nodeid.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil, ErrSessionDisposed
	}
	return slices.Clone(s.subscribed), nil
}

// JumpTo restores the live graph to frame. The session must be paused.
func (s *Session) JumpTo(ctx context.Context, frame int) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPaused(); err != nil {
		return err
	}

	ctx, span := s.opts.tracer.Start(ctx, "session.jump",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.Int("frame", frame),
		),
	)
	defer endSpan(span, &err)

	return s.engine.JumpTo(ctx, frame)
}

// QueryRange returns the reflected values of ids at every frame of the
// inclusive range [start, end], in ids order. Each node appears once even
// if repeated, and nodes the program does not have are left out, as they
// are for subscriptions. The session must be paused.
func (s *Session) QueryRange(ctx context.Context, start, end int, ids []nodeid.ID) (out []NodeFrames, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkPaused(); err != nil {
		return nil, err
	}

	ctx, span := s.opts.tracer.Start(ctx, "session.query_range",
		trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.Int("frame.start", start),
			attribute.Int("frame.end", end),
			attribute.Int("nodes", len(ids)),
		),
	)
	defer endSpan(span, &err)

	raw, err := s.engine.QueryRange(ctx, start, end, ids)
	if err != nil {
		return nil, err
	}

	ids = nodeid.Unique(ids)
	out = make([]NodeFrames, 0, len(ids))
	for _, id := range ids {
		frames, ok := raw[id]
		if !ok {
			continue
		}
		reflected := make([]FrameValue, len(frames))
		for i, f := range frames {
			reflected[i] = FrameValue{Frame: f.Index, Value: s.reflector.Decode(f.Value)}
		}
		out = append(out, NodeFrames{NodeID: id, Frames: reflected})
	}
	return out, nil
}

func endSpan(span trace.Span, err *error) {
	if *err != nil {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}

func (s *Session) checkPaused() error {
	if s.disposed {
		return ErrSessionDisposed
	}
	if s.playing {
		return ErrSessionPlaying
	}
	return nil
}

// History returns a copy of the event log.
func (s *Session) History(ctx context.Context) (event.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil, ErrSessionDisposed
	}
	return s.engine.History(), nil
}

// SplitHistory returns copies of the log before and from frame.
func (s *Session) SplitHistory(ctx context.Context, frame int) (prefix, suffix event.History, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil, nil, ErrSessionDisposed
	}
	prefix, suffix = s.engine.Split(frame)
	return prefix, suffix, nil
}

// NumFrames returns the number of addressable frames.
func (s *Session) NumFrames(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return 0, ErrSessionDisposed
	}
	return s.engine.NumFrames(), nil
}

// Snapshots returns the number of checkpoint snapshots taken so far.
func (s *Session) Snapshots(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return 0, ErrSessionDisposed
	}
	return len(s.engine.Snapshots()), nil
}

// Dispose tears the program instance down. It is irreversible; a second
// call fails with ErrSessionDisposed.
func (s *Session) Dispose(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrSessionDisposed
	}
	s.disposed = true
	s.queue.Stop()
	if s.opts.metrics != nil {
		s.opts.metrics.SessionDisposed()
	}

	if err := s.adapter.Dispose(ctx); err != nil {
		return fmt.Errorf("disposing program %q: %w", s.program.Name(), err)
	}
	ctxlog.FromContext(ctx).Info("Debug session disposed.", "session", s.id, "events", s.engine.NumFrames()-1)
	return nil
}
