package reflector

import (
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// decodeCty reflects values produced by HCL expressions.
func (r *Reflector) decodeCty(v cty.Value) Value {
	v, _ = v.UnmarkDeep()
	ty := v.Type()

	switch {
	case !v.IsKnown():
		return OpaqueNative{Type: ty.FriendlyName(), Repr: "unknown"}
	case v.IsNull():
		return OpaqueNative{Type: ty.FriendlyName(), Repr: "null"}
	case ty == cty.Bool:
		return Boolean{Value: v.True()}
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		return Number{Value: f}
	case ty == cty.String:
		return String{Value: v.AsString()}
	case ty.IsListType():
		return List{Elems: r.decodeCtyElems(v)}
	case ty.IsSetType():
		return Set{Elems: r.decodeCtyElems(v)}
	case ty.IsTupleType():
		return Tuple{Elems: r.decodeCtyElems(v)}
	case ty.IsMapType():
		entries := make([]Entry, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, e := it.Element()
			entries = append(entries, Entry{Key: String{Value: k.AsString()}, Value: r.decodeCty(e)})
		}
		return Map{Entries: entries}
	case ty.IsObjectType():
		attrs := v.AsValueMap()
		names := make([]string, 0, len(attrs))
		for name := range attrs {
			names = append(names, name)
		}
		slices.Sort(names)

		fields := make([]Field, len(names))
		for i, name := range names {
			fields[i] = Field{Name: name, Value: r.decodeCty(attrs[name])}
		}
		return Record{Fields: fields}
	}

	return OpaqueNative{Type: ty.FriendlyName(), Repr: v.GoString()}
}

func (r *Reflector) decodeCtyElems(v cty.Value) []Value {
	out := make([]Value, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, e := it.Element()
		out = append(out, r.decodeCty(e))
	}
	return out
}
