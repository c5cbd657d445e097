package reflector

import (
	"encoding/json"
	"strconv"
)

// Every variant marshals to the runtime's own tagged shape:
// {"ctor": <Kind>, "_0": ..., "_1": ...}.

func tagged(k Kind, args ...any) ([]byte, error) {
	m := make(map[string]any, len(args)+1)
	m["ctor"] = k.String()
	for i, a := range args {
		m["_"+strconv.Itoa(i)] = a
	}
	return json.Marshal(m)
}

func (v Function) MarshalJSON() ([]byte, error)  { return tagged(v.Kind(), v.Name) }
func (v Boolean) MarshalJSON() ([]byte, error)   { return tagged(v.Kind(), v.Value) }
func (v Number) MarshalJSON() ([]byte, error)    { return tagged(v.Kind(), v.Value) }
func (v Character) MarshalJSON() ([]byte, error) { return tagged(v.Kind(), string(v.Value)) }
func (v String) MarshalJSON() ([]byte, error)    { return tagged(v.Kind(), v.Value) }
func (v Tuple) MarshalJSON() ([]byte, error)     { return tagged(v.Kind(), nonNil(v.Elems)) }
func (v Array) MarshalJSON() ([]byte, error)     { return tagged(v.Kind(), nonNil(v.Elems)) }
func (v List) MarshalJSON() ([]byte, error)      { return tagged(v.Kind(), nonNil(v.Elems)) }
func (v Set) MarshalJSON() ([]byte, error)       { return tagged(v.Kind(), nonNil(v.Elems)) }
func (v ReactiveHandle) MarshalJSON() ([]byte, error) {
	return tagged(v.Kind())
}
func (v OpaqueNative) MarshalJSON() ([]byte, error) {
	return tagged(v.Kind(), v.Type, v.Repr)
}
func (v Constructor) MarshalJSON() ([]byte, error) {
	return tagged(v.Kind(), v.Tag, nonNil(v.Args))
}

// Record fields marshal as [name, value] pairs so shadowed names survive.
func (v Record) MarshalJSON() ([]byte, error) {
	pairs := make([][2]any, len(v.Fields))
	for i, f := range v.Fields {
		pairs[i] = [2]any{f.Name, f.Value}
	}
	return tagged(v.Kind(), pairs)
}

func (v Map) MarshalJSON() ([]byte, error) {
	pairs := make([][2]Value, len(v.Entries))
	for i, e := range v.Entries {
		pairs[i] = [2]Value{e.Key, e.Value}
	}
	return tagged(v.Kind(), pairs)
}

func nonNil(vs []Value) []Value {
	if vs == nil {
		return []Value{}
	}
	return vs
}
