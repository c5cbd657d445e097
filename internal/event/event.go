// Package event defines the immutable record of one external stimulus and
// the ordered history the debugger replays.
package event

import (
	"fmt"
	"time"

	"github.com/specialistvlad/reactordebug/internal/nodeid"
)

// Event is one externally originated value delivered to an input node.
type Event struct {
	// NodeID is the input node that received the value.
	NodeID nodeid.ID
	// Value is the delivered value, exactly as the runtime saw it.
	Value any
	// Time is the session-relative playing time at arrival. Paused time is
	// never counted.
	Time time.Duration
}

func (e Event) String() string {
	return fmt.Sprintf("event(node=%s, t=%s)", e.NodeID, e.Time)
}

// History is an ordered event log. Index i holds the i-th event received.
type History []Event

// Clone returns a copy that shares no backing array with h.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Split returns copies of the events before frame and the events from frame
// on. frame is clamped to [0, len(h)].
func (h History) Split(frame int) (prefix, suffix History) {
	frame = max(0, min(frame, len(h)))
	prefix = make(History, frame)
	copy(prefix, h[:frame])
	suffix = make(History, len(h)-frame)
	copy(suffix, h[frame:])
	return prefix, suffix
}

// Last returns the most recent event.
func (h History) Last() (Event, bool) {
	if len(h) == 0 {
		return Event{}, false
	}
	return h[len(h)-1], true
}
