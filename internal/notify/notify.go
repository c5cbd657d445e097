// Package notify carries the per-event bundle a debug session produces to
// whoever is watching: the recorded event, the values the program flagged
// while handling it and the current values of every subscribed node.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/specialistvlad/reactordebug/internal/event"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/reflector"
)

// Flagged is a value the program explicitly flagged for inspection while
// handling an event.
type Flagged struct {
	Tag   string          `json:"tag"`
	Value reflector.Value `json:"value"`
}

// NodeValue is the reflected current value of one node.
type NodeValue struct {
	NodeID nodeid.ID       `json:"node"`
	Value  reflector.Value `json:"value"`
}

// Notification is delivered once per recorded event. Subscribed is in
// subscription insertion order.
type Notification struct {
	Session string
	// Frame is the frame the event produced, i.e. the history length.
	Frame int
	Event event.Event
	// Value is the reflected event value. It is derived from Event when
	// left nil.
	Value      reflector.Value
	Flagged    []Flagged
	Subscribed []NodeValue
}

func (n Notification) value() reflector.Value {
	if n.Value != nil {
		return n.Value
	}
	return reflector.Decode(n.Event.Value)
}

type eventJSON struct {
	NodeID nodeid.ID       `json:"node"`
	TimeMS float64         `json:"time_ms"`
	Value  reflector.Value `json:"value"`
}

type notificationJSON struct {
	Session    string      `json:"session"`
	Frame      int         `json:"frame"`
	Event      eventJSON   `json:"event"`
	Flagged    []Flagged   `json:"flagged"`
	Subscribed []NodeValue `json:"subscribed"`
}

// MarshalJSON encodes the notification with the event value reflected.
func (n Notification) MarshalJSON() ([]byte, error) {
	flagged := n.Flagged
	if flagged == nil {
		flagged = []Flagged{}
	}
	subscribed := n.Subscribed
	if subscribed == nil {
		subscribed = []NodeValue{}
	}
	return json.Marshal(notificationJSON{
		Session: n.Session,
		Frame:   n.Frame,
		Event: eventJSON{
			NodeID: n.Event.NodeID,
			TimeMS: float64(n.Event.Time.Microseconds()) / 1000,
			Value:  n.value(),
		},
		Flagged:    flagged,
		Subscribed: subscribed,
	})
}

// Sink receives notifications. Notify is called from the session's
// critical section and must not call back into the session.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, n Notification) error

// Notify implements Sink.
func (f SinkFunc) Notify(ctx context.Context, n Notification) error { return f(ctx, n) }

// Multi fans a notification out to every sink. All sinks are called even
// if some fail.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(ctx context.Context, n Notification) error {
		var errs []error
		for _, s := range sinks {
			if err := s.Notify(ctx, n); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// ChannelSink hands notifications to an in-process consumer. It never
// blocks: when the buffer is full the notification is dropped and counted.
type ChannelSink struct {
	ch      chan Notification
	dropped atomic.Uint64
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan Notification, buffer)}
}

// C returns the receive side of the sink.
func (s *ChannelSink) C() <-chan Notification { return s.ch }

// Dropped reports how many notifications did not fit in the buffer.
func (s *ChannelSink) Dropped() uint64 { return s.dropped.Load() }

// Notify implements Sink.
func (s *ChannelSink) Notify(ctx context.Context, n Notification) error {
	select {
	case s.ch <- n:
	default:
		s.dropped.Add(1)
	}
	return nil
}

// LogSink writes one log line per notification.
type LogSink struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogSink creates a sink logging at level.
func NewLogSink(logger *slog.Logger, level slog.Level) *LogSink {
	return &LogSink{logger: logger, level: level}
}

// Notify implements Sink.
func (s *LogSink) Notify(ctx context.Context, n Notification) error {
	attrs := []any{
		"session", n.Session,
		"frame", n.Frame,
		"node", n.Event.NodeID.String(),
		"value", n.value().String(),
	}
	for _, f := range n.Flagged {
		attrs = append(attrs, slog.String("flag."+f.Tag, f.Value.String()))
	}
	for _, v := range n.Subscribed {
		attrs = append(attrs, slog.String("node."+v.NodeID.String(), v.Value.String()))
	}
	s.logger.Log(ctx, s.level, "Event recorded.", attrs...)
	return nil
}
