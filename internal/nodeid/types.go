// internal/nodeid/types.go
package nodeid

import (
	"slices"
	"strconv"
)

// ID is the structured representation of a unique node identifier.
type ID int

// None is returned where an identifier is required but none applies,
// e.g. the main node of a graph without a main output.
const None ID = -1

// String serializes the ID into its canonical decimal representation.
func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Valid reports whether the ID could have been assigned by a graph.
func (id ID) Valid() bool {
	return id >= 0
}

// Sort orders ids ascending in place and returns the slice for chaining.
func Sort(ids []ID) []ID {
	slices.Sort(ids)
	return ids
}

// Unique returns ids without repeats, keeping first-seen order. The input
// is not modified.
func Unique(ids []ID) []ID {
	seen := make(map[ID]struct{}, len(ids))
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
