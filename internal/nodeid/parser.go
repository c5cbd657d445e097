// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse creates an ID by parsing its canonical string representation.
func Parse(raw string) (ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return None, fmt.Errorf("identifier cannot be empty")
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return None, fmt.Errorf("invalid node identifier %q: %w", raw, err)
	}
	if n < 0 {
		return None, fmt.Errorf("invalid node identifier %q: must not be negative", raw)
	}
	return ID(n), nil
}

// ParseList parses a comma separated list of identifiers, e.g. "0,3,7".
func ParseList(raw string) ([]ID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var ids []ID
	for _, part := range strings.Split(raw, ",") {
		id, err := Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
