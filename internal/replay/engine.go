package replay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/reactordebug/internal/ctxlog"
	"github.com/specialistvlad/reactordebug/internal/event"
	"github.com/specialistvlad/reactordebug/internal/graph"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/snapshot"
)

// ErrFrameOutOfRange is returned for frames outside [0, NumFrames).
var ErrFrameOutOfRange = errors.New("frame out of range")

// unknownFrame marks live state that no longer matches any frame, after a
// failed restore.
const unknownFrame = -1

// Frame is the value of one node at one frame.
type Frame struct {
	Index int
	Value any
}

// Options configures an Engine.
type Options struct {
	// Interval is the checkpoint interval K. Zero selects
	// snapshot.DefaultInterval.
	Interval int
	// Observer receives engine activity. Optional.
	Observer Observer
}

// Engine is the event log and replay engine for one graph instance.
type Engine struct {
	adapter   graph.Adapter
	snapshots *snapshot.Store
	history   event.History
	ids       []nodeid.ID
	frame     int
	observer  Observer
}

// New enumerates the adapter's nodes and takes snapshot 0 of their values.
func New(ctx context.Context, adapter graph.Adapter, opts Options) (*Engine, error) {
	observer := opts.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	e := &Engine{
		adapter:   adapter,
		snapshots: snapshot.NewStore(opts.Interval),
		observer:  observer,
	}
	for _, n := range adapter.EnumerateNodes(ctx) {
		e.ids = append(e.ids, n.ID)
	}
	e.ids = nodeid.Sort(e.ids)
	e.takeSnapshot(ctx)

	ctxlog.FromContext(ctx).Debug("Replay engine ready.", "nodes", len(e.ids), "interval", e.snapshots.Interval())
	return e, nil
}

// Record appends an event, applies it to the live graph and takes a
// snapshot when the log length reaches a multiple of K. If the live graph
// was left at an earlier frame by JumpTo, the head of the log is restored
// first. An event the adapter rejects is not recorded.
func (e *Engine) Record(ctx context.Context, id nodeid.ID, value any, at time.Duration) (event.Event, bool, error) {
	if e.frame != len(e.history) {
		if err := e.JumpTo(ctx, len(e.history)); err != nil {
			return event.Event{}, false, fmt.Errorf("restoring head of log: %w", err)
		}
	}

	changed, err := e.adapter.ApplyEvent(ctx, id, value)
	if err != nil {
		return event.Event{}, false, fmt.Errorf("applying event to node '%s': %w", id, err)
	}

	ev := event.Event{NodeID: id, Value: value, Time: at}
	e.history = append(e.history, ev)
	e.frame = len(e.history)
	e.observer.EventRecorded(id)

	if e.snapshots.Due(len(e.history)) {
		e.takeSnapshot(ctx)
	}
	return ev, changed, nil
}

// JumpTo restores the live graph to frame.
func (e *Engine) JumpTo(ctx context.Context, frame int) error {
	if frame < 0 || frame >= e.NumFrames() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, frame, e.NumFrames())
	}
	if frame == e.frame {
		return nil
	}

	start := time.Now()
	checkpoint, from := e.snapshots.CheckpointFor(frame)
	snap, ok := e.snapshots.At(checkpoint)
	if !ok {
		return fmt.Errorf("snapshot %d missing for frame %d", checkpoint, frame)
	}

	e.frame = unknownFrame
	for _, id := range nodeid.Sort(mapKeys(snap.Values)) {
		if err := e.adapter.SetValue(ctx, id, snap.Values[id]); err != nil {
			return fmt.Errorf("restoring snapshot %d: %w", checkpoint, err)
		}
	}
	if err := e.applyRange(ctx, from, frame); err != nil {
		return err
	}
	e.frame = frame

	took := time.Since(start)
	e.observer.Replayed(frame-from, took)
	ctxlog.FromContext(ctx).Debug("Jumped to frame.", "frame", frame, "checkpoint", checkpoint, "replayed", frame-from, "took", took)
	return nil
}

// QueryRange returns, for every requested node, its value at each frame of
// the inclusive range [start, end]. Repeated ids are queried once. Ids the
// adapter does not know have no entry in the result. The live graph is left
// at frame end.
func (e *Engine) QueryRange(ctx context.Context, start, end int, ids []nodeid.ID) (map[nodeid.ID][]Frame, error) {
	if start < 0 || end < start || end >= e.NumFrames() {
		return nil, fmt.Errorf("%w: [%d, %d] not within [0, %d)", ErrFrameOutOfRange, start, end, e.NumFrames())
	}
	if err := e.JumpTo(ctx, start); err != nil {
		return nil, err
	}

	ids = nodeid.Unique(ids)
	out := make(map[nodeid.ID][]Frame, len(ids))
	for f := start; f <= end; f++ {
		for _, id := range ids {
			v, ok := e.adapter.Value(ctx, id)
			if !ok {
				continue
			}
			out[id] = append(out[id], Frame{Index: f, Value: v})
		}
		if f < end {
			e.frame = unknownFrame
			if err := e.applyRange(ctx, f, f+1); err != nil {
				return nil, err
			}
			e.frame = f + 1
		}
	}
	return out, nil
}

// History returns a copy of the event log.
func (e *Engine) History() event.History {
	return e.history.Clone()
}

// Split returns copies of the log before and from frame.
func (e *Engine) Split(frame int) (prefix, suffix event.History) {
	return e.history.Split(frame)
}

// NumFrames returns the number of addressable frames, one more than the
// number of events.
func (e *Engine) NumFrames() int {
	return len(e.history) + 1
}

// Frame returns the frame the live graph currently reflects, or -1 if a
// failed restore left it in between frames.
func (e *Engine) Frame() int {
	return e.frame
}

// Snapshots returns the snapshots taken so far, in checkpoint order.
func (e *Engine) Snapshots() []snapshot.Snapshot {
	out := make([]snapshot.Snapshot, e.snapshots.Len())
	for i := range out {
		out[i], _ = e.snapshots.At(i)
	}
	return out
}

// Interval returns the checkpoint interval K.
func (e *Engine) Interval() int {
	return e.snapshots.Interval()
}

func (e *Engine) applyRange(ctx context.Context, from, to int) error {
	for i := from; i < to; i++ {
		ev := e.history[i]
		if _, err := e.adapter.ApplyEvent(ctx, ev.NodeID, ev.Value); err != nil {
			return fmt.Errorf("re-applying event %d: %w", i, err)
		}
	}
	return nil
}

func (e *Engine) takeSnapshot(ctx context.Context) {
	values := make(map[nodeid.ID]any, len(e.ids))
	for _, id := range e.ids {
		if v, ok := e.adapter.Value(ctx, id); ok {
			values[id] = v
		}
	}
	snap := e.snapshots.Take(values)
	e.observer.SnapshotTaken(snap.Checkpoint)
}

func mapKeys(m map[nodeid.ID]any) []nodeid.ID {
	keys := make([]nodeid.ID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
