// Package sqlite is a historystore backend on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/reactordebug/internal/event"
	"github.com/specialistvlad/reactordebug/internal/historystore"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	_ "modernc.org/sqlite"
)

// Config contains configuration for the store.
type Config struct {
	// Path is the filesystem path to the database file, or ":memory:".
	Path string

	// MaxOpenConns sets the maximum number of open connections.
	// For SQLite, this should typically be low to avoid lock contention.
	MaxOpenConns int
}

// Store implements historystore.Store.
type Store struct {
	db    *sql.DB
	codec *historystore.Codec
}

var _ historystore.Store = (*Store)(nil)

// Open opens (and if needed creates) the database and runs migrations.
func Open(ctx context.Context, cfg Config, codec *historystore.Codec) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite history store: path is required")
	}

	connStr := cfg.Path
	maxConns := cfg.MaxOpenConns
	if cfg.Path == ":memory:" {
		// Every connection to :memory: is a separate database.
		maxConns = 1
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", cfg.Path, err)
		}
		connStr += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	if maxConns == 0 {
		maxConns = 4
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db, codec: codec}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		session TEXT NOT NULL,
		seq INTEGER NOT NULL,
		node INTEGER NOT NULL,
		time_ns INTEGER NOT NULL,
		value BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (session, seq)
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Append implements historystore.Store.
func (s *Store) Append(ctx context.Context, session string, seq int, ev event.Event) error {
	rec, err := s.codec.Encode(seq, ev)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (session, seq, node, time_ns, value) VALUES (?, ?, ?, ?, ?)`,
		session, rec.Seq, int(rec.NodeID), int64(rec.Time), rec.Value,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("session %s seq %d: %w", session, seq, historystore.ErrSequenceExists)
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Load implements historystore.Store.
func (s *Store) Load(ctx context.Context, session string) (event.History, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, node, time_ns, value FROM events WHERE session = ? ORDER BY seq`, session)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var history event.History
	for rows.Next() {
		var (
			rec    historystore.Record
			node   int
			timeNS int64
		)
		if err := rows.Scan(&rec.Seq, &node, &timeNS, &rec.Value); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		rec.NodeID = nodeid.ID(node)
		rec.Time = time.Duration(timeNS)

		ev, err := s.codec.Decode(rec)
		if err != nil {
			return nil, err
		}
		history = append(history, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: %s", historystore.ErrSessionNotFound, session)
	}
	return history, nil
}

// Sessions implements historystore.Store.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT session FROM events ORDER BY session`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close implements historystore.Store.
func (s *Store) Close() error {
	return s.db.Close()
}
