// Package replay owns the event log of a debugged graph and reconstructs the
// graph's state at any point of that log.
//
// # Why Replay Exists
//
// Storing a full snapshot per event would make a long debugging session
// cost memory proportional to events times nodes. Replaying the whole log
// for every scrub of the timeline would make jumps slow. The engine keeps a
// snapshot every K events (see package snapshot) and reconstructs frame f by
// loading snapshot floor(f/K) and re-applying at most K-1 events through the
// graph adapter.
//
// # Frames
//
// A log of N events has N+1 frames. Frame f is the state after the first f
// events, which is also the state just before event f is applied. Frame 0 is
// the initial state.
//
// Only node values are restored. Side effects outside node values, such as
// timers the program scheduled while the event originally happened, are not
// replayed.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. The debug session serializes
// every call.
package replay
