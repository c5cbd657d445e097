// Package snapshot holds periodic full-state captures of a graph, indexed by
// event-count checkpoints.
//
// Checkpoint c covers the first c*K events of the log, where K is the
// store's interval. Checkpoint 0 is the pre-event state and always exists
// once the first capture is taken.
package snapshot

import (
	"maps"

	"github.com/specialistvlad/reactordebug/internal/nodeid"
)

// DefaultInterval is the number of events between automatic snapshots.
const DefaultInterval = 100

// Snapshot is the value of every known node at one checkpoint.
type Snapshot struct {
	Checkpoint int
	Values     map[nodeid.ID]any
}

// Store is an append-only list of snapshots. It is not safe for concurrent
// use; the replay engine serializes access.
type Store struct {
	interval  int
	snapshots []Snapshot
}

// NewStore returns an empty store. A non-positive interval selects
// DefaultInterval.
func NewStore(interval int) *Store {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Store{interval: interval}
}

// Interval returns K.
func (s *Store) Interval() int {
	return s.interval
}

// Take appends a snapshot of values as the next checkpoint and returns it.
// The map is copied.
func (s *Store) Take(values map[nodeid.ID]any) Snapshot {
	snap := Snapshot{Checkpoint: len(s.snapshots), Values: maps.Clone(values)}
	if snap.Values == nil {
		snap.Values = make(map[nodeid.ID]any)
	}
	s.snapshots = append(s.snapshots, snap)
	return snap
}

// At returns the snapshot for a checkpoint.
func (s *Store) At(checkpoint int) (Snapshot, bool) {
	if checkpoint < 0 || checkpoint >= len(s.snapshots) {
		return Snapshot{}, false
	}
	return s.snapshots[checkpoint], true
}

// Len returns the number of snapshots taken.
func (s *Store) Len() int {
	return len(s.snapshots)
}

// Latest returns the most recent snapshot.
func (s *Store) Latest() (Snapshot, bool) {
	return s.At(len(s.snapshots) - 1)
}

// CheckpointFor returns the checkpoint to restore before replaying up to
// frame, and the index of the first event to re-apply.
func (s *Store) CheckpointFor(frame int) (checkpoint, from int) {
	checkpoint = frame / s.interval
	return checkpoint, checkpoint * s.interval
}

// Due reports whether a snapshot must be taken after the log reaches length n.
func (s *Store) Due(n int) bool {
	return n > 0 && n%s.interval == 0
}
