// Package badger is a historystore backend on an embedded BadgerDB.
//
// Keys are "ev/<session>/" followed by the big-endian event sequence
// number, so a prefix scan over one session yields its events in order.
package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/specialistvlad/reactordebug/internal/event"
	"github.com/specialistvlad/reactordebug/internal/historystore"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
)

const prefix = "ev/"

// Config holds configuration for the store.
type Config struct {
	// Path is the directory for BadgerDB files. Ignored when InMemory is
	// true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal logs. Nil disables them.
	Logger *slog.Logger
}

// Store implements historystore.Store.
type Store struct {
	db    *badger.DB
	codec *historystore.Codec
}

var _ historystore.Store = (*Store)(nil)

type storedEvent struct {
	Node   int             `json:"node"`
	TimeNS int64           `json:"time_ns"`
	Value  json.RawMessage `json:"value"`
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens the database described by cfg.
func Open(cfg Config, codec *historystore.Codec) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger history store: path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db, codec: codec}, nil
}

func sessionPrefix(session string) []byte {
	return []byte(prefix + session + "/")
}

func eventKey(session string, seq int) []byte {
	key := sessionPrefix(session)
	return binary.BigEndian.AppendUint64(key, uint64(seq))
}

// Append implements historystore.Store.
func (s *Store) Append(ctx context.Context, session string, seq int, ev event.Event) error {
	rec, err := s.codec.Encode(seq, ev)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(storedEvent{Node: int(rec.NodeID), TimeNS: int64(rec.Time), Value: rec.Value})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	key := eventKey(session, seq)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("session %s seq %d: %w", session, seq, historystore.ErrSequenceExists)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check event: %w", err)
		}
		return txn.Set(key, raw)
	})
}

// Load implements historystore.Store.
func (s *Store) Load(ctx context.Context, session string) (event.History, error) {
	var history event.History
	p := sessionPrefix(session)

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: true, Prefix: p})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			seq := int(binary.BigEndian.Uint64(key[len(p):]))

			var stored storedEvent
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			}); err != nil {
				return fmt.Errorf("decode event %d: %w", seq, err)
			}

			ev, err := s.codec.Decode(historystore.Record{
				Seq:    seq,
				NodeID: nodeid.ID(stored.Node),
				Time:   time.Duration(stored.TimeNS),
				Value:  stored.Value,
			})
			if err != nil {
				return err
			}
			history = append(history, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: %s", historystore.ErrSessionNotFound, session)
	}
	return history, nil
}

// Sessions implements historystore.Store.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(prefix)})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			// prefix + session + "/" + 8 byte seq
			id := string(key[len(prefix) : len(key)-9])
			if len(ids) == 0 || ids[len(ids)-1] != id {
				ids = append(ids, id)
			}
		}
		return nil
	})
	// "a-b/" sorts before "a/" byte-wise, so key order is not id order.
	slices.Sort(ids)
	return ids, err
}

// Close implements historystore.Store.
func (s *Store) Close() error {
	return s.db.Close()
}
