package value

import (
	"fmt"
	"strconv"
)

// Reserved keys and tags of the encoding.
const (
	KeyCtor   = "ctor"
	KeyBucket = "_"

	TagCons    = "::"
	TagNil     = "[]"
	TagArray   = "_Array"
	TagRBNode  = "RBNode"
	TagRBEmpty = "RBEmpty"
	TagUnit    = "_Tuple0"
	TagTuple   = "_Tuple"
)

// arrayBranching is the maximum table size of one array level.
const arrayBranching = 32

// Char is a single character, kept distinct from one-letter strings.
type Char rune

func (c Char) String() string { return string(c) }

// Func is a function value that remembers the name it was defined under.
type Func struct {
	Name string
	Fn   any
}

// Notifier is implemented by live reactive handles. Values of this kind are
// managed by the runtime and are never decoded.
type Notifier interface {
	Notify(value any)
}

// Pair is one key/value entry of a dictionary.
type Pair struct {
	Key   any
	Value any
}

// Pos returns the positional key for argument i.
func Pos(i int) string {
	return "_" + strconv.Itoa(i)
}

// PosIndex parses a positional key. It reports false for any other key.
func PosIndex(key string) (int, bool) {
	if len(key) < 2 || key[0] != '_' {
		return 0, false
	}
	i, err := strconv.Atoi(key[1:])
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}

// Ctor builds a tagged constructor value.
func Ctor(tag string, args ...any) map[string]any {
	v := make(map[string]any, len(args)+1)
	v[KeyCtor] = tag
	for i, a := range args {
		v[Pos(i)] = a
	}
	return v
}

// Unit returns the "no value" placeholder.
func Unit() map[string]any {
	return Ctor(TagUnit)
}

// IsUnit reports whether v is the placeholder.
func IsUnit(v any) bool {
	tag, ok := Tag(v)
	return ok && tag == TagUnit
}

// Tag returns the constructor tag of v, if it has one.
func Tag(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	tag, ok := m[KeyCtor].(string)
	return tag, ok
}

// Tuple builds a tuple of the given elements.
func Tuple(items ...any) map[string]any {
	return Ctor(TagTuple+strconv.Itoa(len(items)), items...)
}

// Cons prepends head to tail.
func Cons(head, tail any) map[string]any {
	return Ctor(TagCons, head, tail)
}

// Nil is the empty list.
func Nil() map[string]any {
	return Ctor(TagNil)
}

// List builds a cons list of items.
func List(items ...any) map[string]any {
	l := Nil()
	for i := len(items) - 1; i >= 0; i-- {
		l = Cons(items[i], l)
	}
	return l
}

// Array builds an array. Arrays longer than one table are split into
// height > 0 levels whose tables hold sub-arrays.
func Array(items ...any) map[string]any {
	level := make([]any, len(items))
	copy(level, items)
	height := 0
	for len(level) > arrayBranching {
		var next []any
		for start := 0; start < len(level); start += arrayBranching {
			end := min(start+arrayBranching, len(level))
			next = append(next, arrayNode(height, level[start:end]))
		}
		level = next
		height++
	}
	return arrayNode(height, level)
}

func arrayNode(height int, table []any) map[string]any {
	t := make([]any, len(table))
	copy(t, table)
	return map[string]any{KeyCtor: TagArray, "height": height, "table": t}
}

// Dict builds a dictionary tree whose in-order traversal yields pairs in the
// given order. Callers supply pairs already sorted by key.
func Dict(pairs ...Pair) map[string]any {
	if len(pairs) == 0 {
		return Ctor(TagRBEmpty, Ctor("LBlack"))
	}
	mid := len(pairs) / 2
	return Ctor(TagRBNode,
		Ctor("Black"),
		pairs[mid].Key,
		pairs[mid].Value,
		Dict(pairs[:mid]...),
		Dict(pairs[mid+1:]...),
	)
}

// Set builds a set, a dictionary mapping each key to Unit.
func Set(keys ...any) map[string]any {
	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		pairs[i] = Pair{Key: k, Value: Unit()}
	}
	return Dict(pairs...)
}

// Record copies fields into a record value.
func Record(fields map[string]any) map[string]any {
	r := make(map[string]any, len(fields))
	for k, v := range fields {
		r[k] = v
	}
	return r
}

// Shadow records that field of rec previously held the given values, oldest
// first. It returns rec.
func Shadow(rec map[string]any, field string, values ...any) map[string]any {
	bucket, _ := rec[KeyBucket].(map[string]any)
	if bucket == nil {
		bucket = make(map[string]any)
		rec[KeyBucket] = bucket
	}
	prev, _ := bucket[field].([]any)
	bucket[field] = append(prev, values...)
	return rec
}

// Items flattens a cons list into a slice. ok is false if v is not a
// well-formed list.
func Items(v any) (items []any, ok bool) {
	for {
		m, isMap := v.(map[string]any)
		if !isMap {
			return nil, false
		}
		switch m[KeyCtor] {
		case TagNil:
			return items, true
		case TagCons:
			items = append(items, m["_0"])
			v = m["_1"]
		default:
			return nil, false
		}
	}
}

// Elements flattens an array into a slice.
func Elements(v any) ([]any, error) {
	m, ok := v.(map[string]any)
	if !ok || m[KeyCtor] != TagArray {
		return nil, fmt.Errorf("not an array: %T", v)
	}
	table, ok := m["table"].([]any)
	if !ok {
		return nil, fmt.Errorf("array table has type %T", m["table"])
	}
	height, _ := asInt(m["height"])
	if height == 0 {
		return table, nil
	}

	var out []any
	for _, sub := range table {
		items, err := Elements(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// Pairs walks a dictionary tree in order.
func Pairs(v any) ([]Pair, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("not a dict: %T", v)
	}
	switch m[KeyCtor] {
	case TagRBEmpty:
		return nil, nil
	case TagRBNode:
		left, err := Pairs(m["_3"])
		if err != nil {
			return nil, err
		}
		right, err := Pairs(m["_4"])
		if err != nil {
			return nil, err
		}
		out := append(left, Pair{Key: m["_1"], Value: m["_2"]})
		return append(out, right...), nil
	default:
		return nil, fmt.Errorf("not a dict node: %v", m[KeyCtor])
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
