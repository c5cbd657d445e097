// Package timers provides the time primitives handed to an instrumented
// program: a playing-time Clock that stops while the debugger is paused and a
// Queue of one-shot timers that can be suspended and resumed.
//
// # Why Timers Exist
//
// A paused debug session must look frozen to the program under inspection.
// Wall-clock timers keep running while the user is stepping through history,
// so a program driven by time.AfterFunc would deliver events the moment the
// user resumes, or worse, while paused. Routing the program's timers through
// a Queue lets the session freeze them: Pause captures each timer's remaining
// time, Resume restarts it with exactly that remainder.
//
// Timers are resumed, never re-scheduled, and nothing here replays them when
// the session jumps back in history.
package timers
