/*
Package session implements the debug session: the state machine that wraps
one live program instance, records every external event it receives and
lets a debugger pause the program and travel between recorded frames.

# Why Session Exists

The replay engine knows how to record and restore frames, and the reflector
knows how to display values, but neither knows when it is safe to do so.
Session owns those rules. It decides which events are recorded, which are
dropped, when time-travel queries are allowed and what subscribers are
told after each event.

# Lifecycle

	Initialize ──▶ playing ◀──SetPlaying──▶ paused
	                  │                        │
	                  └────────Dispose─────────┴──▶ disposed

Initialize instantiates the program with a Host whose timers and clock the
session controls, installs the event interceptor, takes the initial
snapshot and replays any prior history. The new session is playing, or
paused with StartPaused.

While playing, every event the program sends is recorded, applied and
announced to the notification sink as one bundle: the event, the values
flagged while it propagated, and the values of subscribed nodes in
subscription order. While paused, the program's timers and clock are
suspended and events that still arrive are dropped.

JumpTo and QueryRange require a paused session. Resuming restores the
state at the head of the log before any new event is accepted.

Redundant requests are errors, not no-ops: pausing a paused session fails
with ErrInvalidTransition and subscribing twice fails with
ErrAlreadyInState. Every operation on a disposed session, including a
second Dispose, fails with ErrSessionDisposed.

# Concurrency

Operations are serialized by a session mutex, so an event arriving from a
timer goroutine and a debugger query never interleave. Notification sinks
run inside that critical section and must not call back into the session.
*/
package session
