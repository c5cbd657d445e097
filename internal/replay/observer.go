package replay

import (
	"time"

	"github.com/specialistvlad/reactordebug/internal/nodeid"
)

// Observer is notified of engine activity. Implementations must not call
// back into the engine.
type Observer interface {
	EventRecorded(id nodeid.ID)
	SnapshotTaken(checkpoint int)
	Replayed(events int, took time.Duration)
}

// NopObserver ignores everything.
type NopObserver struct{}

func (NopObserver) EventRecorded(nodeid.ID)     {}
func (NopObserver) SnapshotTaken(int)           {}
func (NopObserver) Replayed(int, time.Duration) {}
