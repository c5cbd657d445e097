package session

import "errors"

var (
	// ErrSessionDisposed is returned by every operation after Dispose.
	ErrSessionDisposed = errors.New("session is disposed")
	// ErrSessionPlaying is returned by time-travel queries while playing.
	ErrSessionPlaying = errors.New("session is playing")
	// ErrInvalidTransition is returned when asked to enter the play state
	// the session is already in.
	ErrInvalidTransition = errors.New("invalid play state transition")
	// ErrAlreadyInState is returned when a subscription change would not
	// change anything.
	ErrAlreadyInState = errors.New("subscription already in requested state")
)
