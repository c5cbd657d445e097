package inmemorystore

import (
	"context"
	"sync"

	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store backed by sync.Map.
type Store struct {
	values sync.Map // Key: nodeid.ID, Value: any
}

// New creates a new, empty in-memory node value store.
func New() nodestore.Store {
	return &Store{}
}

// Set records the current value of a node.
func (s *Store) Set(ctx context.Context, id nodeid.ID, value any) error {
	s.values.Store(id, value)
	return nil
}

// Get retrieves the current value of a node.
func (s *Store) Get(ctx context.Context, id nodeid.ID) (any, bool) {
	return s.values.Load(id)
}

// Values returns a copy of all values.
func (s *Store) Values(ctx context.Context) map[nodeid.ID]any {
	out := make(map[nodeid.ID]any)
	s.values.Range(func(k, v any) bool {
		out[k.(nodeid.ID)] = v
		return true
	})
	return out
}
