package reflector

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/specialistvlad/reactordebug/internal/value"
	"github.com/zclconf/go-cty/cty"
)

// defaultInternalShapes are key sets the runtime uses for rendering
// machinery: virtual DOM elements, positioned elements and collage forms.
var defaultInternalShapes = [][]string{
	{"_", "props", "element"},
	{"_", "horizontal", "vertical", "x", "y"},
	{"_", "theta", "scale", "x", "y", "alpha", "form"},
}

// Reflector decodes runtime values. The zero value is not usable; use New.
// A Reflector is immutable and safe for concurrent use.
type Reflector struct {
	internal map[string]struct{}
}

// Option configures a Reflector.
type Option func(*Reflector)

// WithInternalShapes adds exact key sets that must never be shown as
// public records.
func WithInternalShapes(shapes ...[]string) Option {
	return func(r *Reflector) {
		for _, s := range shapes {
			r.internal[shapeKey(s)] = struct{}{}
		}
	}
}

// New returns a Reflector that knows the default internal shapes plus any
// added by options.
func New(opts ...Option) *Reflector {
	r := &Reflector{internal: make(map[string]struct{})}
	WithInternalShapes(defaultInternalShapes...)(r)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var std = New()

// Decode reflects v with the default Reflector.
func Decode(v any) Value {
	return std.Decode(v)
}

// Decode reflects v. It never fails.
func (r *Reflector) Decode(v any) Value {
	switch x := v.(type) {
	case nil:
		return OpaqueNative{Type: "nil", Repr: "nil"}
	case value.Func:
		return Function{Name: x.Name}
	case bool:
		return Boolean{Value: x}
	case value.Char:
		return Character{Value: rune(x)}
	case string:
		return String{Value: x}
	case map[string]any:
		return r.decodeMap(x)
	case cty.Value:
		return r.decodeCty(x)
	case value.Notifier:
		return ReactiveHandle{}
	}
	return r.decodeNative(v)
}

// decodeNative classifies by reflect.Kind, which covers named scalar types
// and plain Go functions.
func (r *Reflector) decodeNative(v any) Value {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		return Function{Name: funcName(rv)}
	case reflect.Bool:
		return Boolean{Value: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number{Value: float64(rv.Int())}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number{Value: float64(rv.Uint())}
	case reflect.Float32, reflect.Float64:
		return Number{Value: rv.Float()}
	case reflect.String:
		return String{Value: rv.String()}
	}
	return opaque(v)
}

func (r *Reflector) decodeMap(m map[string]any) Value {
	if tag, ok := m[value.KeyCtor].(string); ok {
		return r.decodeTagged(tag, m)
	}
	if r.isInternal(m) {
		return opaque(m)
	}
	return r.decodeRecord(m)
}

func (r *Reflector) decodeTagged(tag string, m map[string]any) Value {
	switch {
	case strings.HasPrefix(tag, value.TagTuple):
		return Tuple{Elems: r.decodeAll(positional(m))}

	case tag == value.TagArray:
		if items, err := value.Elements(m); err == nil {
			return Array{Elems: r.decodeAll(items)}
		}

	case tag == value.TagCons || tag == value.TagNil:
		if items, ok := value.Items(m); ok {
			return List{Elems: r.decodeAll(items)}
		}

	case tag == value.TagRBNode || tag == value.TagRBEmpty:
		if pairs, err := value.Pairs(m); err == nil {
			return r.decodeDict(pairs)
		}
	}

	return Constructor{Tag: tag, Args: r.decodeAll(positional(m))}
}

func (r *Reflector) decodeDict(pairs []value.Pair) Value {
	isSet := len(pairs) > 0
	for _, p := range pairs {
		if !value.IsUnit(p.Value) {
			isSet = false
			break
		}
	}

	if isSet {
		keys := make([]Value, len(pairs))
		for i, p := range pairs {
			keys[i] = r.Decode(p.Key)
		}
		return Set{Elems: keys}
	}

	entries := make([]Entry, len(pairs))
	for i, p := range pairs {
		entries[i] = Entry{Key: r.Decode(p.Key), Value: r.Decode(p.Value)}
	}
	return Map{Entries: entries}
}

// decodeRecord emits shadowed fields first, newest shadow first, then the
// visible fields. Both groups are ordered by field name.
func (r *Reflector) decodeRecord(m map[string]any) Value {
	fields := make([]Field, 0, len(m))

	bucket, hasBucket := m[value.KeyBucket].(map[string]any)
	if hasBucket {
		for _, name := range sortedKeys(bucket) {
			shadowed, _ := bucket[name].([]any)
			for i := len(shadowed) - 1; i >= 0; i-- {
				fields = append(fields, Field{Name: name, Value: r.Decode(shadowed[i])})
			}
		}
	}

	for _, name := range sortedKeys(m) {
		if hasBucket && name == value.KeyBucket {
			continue
		}
		fields = append(fields, Field{Name: name, Value: r.Decode(m[name])})
	}
	return Record{Fields: fields}
}

func (r *Reflector) isInternal(m map[string]any) bool {
	_, ok := r.internal[shapeKey(sortedKeys(m))]
	return ok
}

func (r *Reflector) decodeAll(items []any) []Value {
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = r.Decode(item)
	}
	return out
}

// positional returns the constructor arguments of m: "_0".."_n" in index
// order, then any other non-tag keys by name.
func positional(m map[string]any) []any {
	type arg struct {
		index int
		name  string
		value any
	}
	args := make([]arg, 0, len(m))
	for k, v := range m {
		if k == value.KeyCtor {
			continue
		}
		i, ok := value.PosIndex(k)
		if !ok {
			i = -1
		}
		args = append(args, arg{index: i, name: k, value: v})
	}
	slices.SortFunc(args, func(a, b arg) int {
		switch {
		case a.index >= 0 && b.index >= 0:
			return a.index - b.index
		case a.index >= 0:
			return -1
		case b.index >= 0:
			return 1
		default:
			return strings.Compare(a.name, b.name)
		}
	})

	out := make([]any, len(args))
	for i, a := range args {
		out[i] = a.value
	}
	return out
}

func shapeKey(keys []string) string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return strings.Join(sorted, "\x00")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func funcName(rv reflect.Value) string {
	if rv.IsNil() {
		return ""
	}
	fn := runtime.FuncForPC(rv.Pointer())
	if fn == nil {
		return ""
	}
	name := fn.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func opaque(v any) OpaqueNative {
	return OpaqueNative{Type: fmt.Sprintf("%T", v), Repr: fmt.Sprintf("%v", v)}
}
