package inmemorytopology

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/reactordebug/internal/node"
	"github.com/specialistvlad/reactordebug/internal/nodeid"
	"github.com/specialistvlad/reactordebug/internal/topologystore"
)

// Store implements topologystore.Store using maps guarded by an RWMutex.
type Store struct {
	mu      sync.RWMutex
	nodes   map[nodeid.ID]node.Node
	kids    map[nodeid.ID]map[nodeid.ID]struct{}
	parents map[nodeid.ID]map[nodeid.ID]struct{}
}

// New creates a new, empty in-memory topology store.
func New() topologystore.Store {
	return &Store{
		nodes:   make(map[nodeid.ID]node.Node),
		kids:    make(map[nodeid.ID]map[nodeid.ID]struct{}),
		parents: make(map[nodeid.ID]map[nodeid.ID]struct{}),
	}
}

// AddNode adds a node to the store. Kids listed on the node are not turned
// into edges; use AddEdge once both ends exist.
func (s *Store) AddNode(ctx context.Context, n node.Node) error {
	if !n.ID.Valid() {
		return fmt.Errorf("invalid node id %d", n.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		return nil
	}
	n.Kids = nil
	s.nodes[n.ID] = n
	return nil
}

// AddEdge creates a propagation link from parent to kid.
func (s *Store) AddEdge(ctx context.Context, parent, kid nodeid.ID) error {
	if parent == kid {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", parent, kid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[parent]; !exists {
		return fmt.Errorf("edge source node '%s' not found in topology", parent)
	}
	if _, exists := s.nodes[kid]; !exists {
		return fmt.Errorf("edge target node '%s' not found in topology", kid)
	}

	link(s.kids, parent, kid)
	link(s.parents, kid, parent)
	return nil
}

// Node retrieves a single node by id.
func (s *Store) Node(ctx context.Context, id nodeid.ID) (node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return node.Node{}, false
	}
	n.Kids = sortedSet(s.kids[id])
	return n, true
}

// AllNodes returns every node sorted by id.
func (s *Store) AllNodes(ctx context.Context) []node.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]node.Node, 0, len(s.nodes))
	for _, id := range s.idsLocked() {
		n := s.nodes[id]
		n.Kids = sortedSet(s.kids[id])
		nodes = append(nodes, n)
	}
	return nodes
}

// Kids returns the ids the given node propagates to.
func (s *Store) Kids(ctx context.Context, id nodeid.ID) ([]nodeid.ID, error) {
	return s.neighbours(id, s.kids)
}

// Parents returns the ids that propagate into the given node.
func (s *Store) Parents(ctx context.Context, id nodeid.ID) ([]nodeid.ID, error) {
	return s.neighbours(id, s.parents)
}

// TopologicalOrder runs Kahn's algorithm, always releasing the lowest ready
// id first.
func (s *Store) TopologicalOrder(ctx context.Context) ([]nodeid.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inDegree := make(map[nodeid.ID]int, len(s.nodes))
	for id := range s.nodes {
		inDegree[id] = len(s.parents[id])
	}

	var ready []nodeid.ID
	for _, id := range s.idsLocked() {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]nodeid.ID, 0, len(s.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, kid := range sortedSet(s.kids[id]) {
			inDegree[kid]--
			if inDegree[kid] == 0 {
				ready = insertSorted(ready, kid)
			}
		}
	}

	if len(order) != len(s.nodes) {
		for _, id := range s.idsLocked() {
			if inDegree[id] > 0 {
				return nil, fmt.Errorf("%w involving node '%s'", topologystore.ErrCycle, id)
			}
		}
	}
	return order, nil
}

func (s *Store) neighbours(id nodeid.ID, index map[nodeid.ID]map[nodeid.ID]struct{}) ([]nodeid.ID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.nodes[id]; !exists {
		return nil, fmt.Errorf("node '%s' not found in topology", id)
	}
	return sortedSet(index[id]), nil
}

func (s *Store) idsLocked() []nodeid.ID {
	ids := make([]nodeid.ID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	return nodeid.Sort(ids)
}

func link(index map[nodeid.ID]map[nodeid.ID]struct{}, from, to nodeid.ID) {
	if index[from] == nil {
		index[from] = make(map[nodeid.ID]struct{})
	}
	index[from][to] = struct{}{}
}

func sortedSet(set map[nodeid.ID]struct{}) []nodeid.ID {
	ids := make([]nodeid.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return nodeid.Sort(ids)
}

func insertSorted(ids []nodeid.ID, id nodeid.ID) []nodeid.ID {
	i := 0
	for i < len(ids) && ids[i] < id {
		i++
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}
