// Package historystore persists debug session event logs so a session can
// be resumed later by replaying them verbatim.
//
// The Store interface is what sessions and the CLI depend on. Backends live
// in subpackages (sqlite, badger) and share the value Codec defined here,
// so a log written by one backend decodes the same way from another.
package historystore

import (
	"context"
	"errors"

	"github.com/specialistvlad/reactordebug/internal/event"
)

var (
	// ErrSessionNotFound is returned by Load for a session with no events.
	ErrSessionNotFound = errors.New("session not found in history store")
	// ErrSequenceExists is returned by Append when seq was already written.
	ErrSequenceExists = errors.New("event sequence already stored")
)

// Store persists event logs keyed by session id. Sequence numbers start at
// zero and follow the log order.
type Store interface {
	// Append writes ev as event seq of session.
	Append(ctx context.Context, session string, seq int, ev event.Event) error

	// Load returns every stored event of session in sequence order.
	Load(ctx context.Context, session string) (event.History, error)

	// Sessions lists the ids of every stored session, sorted.
	Sessions(ctx context.Context) ([]string, error)

	// Close releases the backend.
	Close() error
}
