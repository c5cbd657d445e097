package reflector

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/zclconf/go-cty/cty"
)

func TestDecode_Cty(t *testing.T) {
	testCases := []struct {
		name  string
		input cty.Value
		want  Value
	}{
		{"bool", cty.True, Boolean{true}},
		{"number", cty.NumberIntVal(42), Number{42}},
		{"string", cty.StringVal("hi"), String{"hi"}},
		{
			name:  "list",
			input: cty.ListVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}),
			want:  List{Elems: []Value{Number{1}, Number{2}}},
		},
		{
			name:  "empty list",
			input: cty.ListValEmpty(cty.Number),
			want:  List{},
		},
		{
			name:  "set",
			input: cty.SetVal([]cty.Value{cty.StringVal("b"), cty.StringVal("a")}),
			want:  Set{Elems: []Value{String{"a"}, String{"b"}}},
		},
		{
			name:  "tuple",
			input: cty.TupleVal([]cty.Value{cty.True, cty.NumberIntVal(42), cty.StringVal("hi")}),
			want:  Tuple{Elems: []Value{Boolean{true}, Number{42}, String{"hi"}}},
		},
		{
			name: "map",
			input: cty.MapVal(map[string]cty.Value{
				"b": cty.NumberIntVal(2),
				"a": cty.NumberIntVal(1),
			}),
			want: Map{Entries: []Entry{
				{Key: String{"a"}, Value: Number{1}},
				{Key: String{"b"}, Value: Number{2}},
			}},
		},
		{
			name: "object",
			input: cty.ObjectVal(map[string]cty.Value{
				"y": cty.StringVal("a"),
				"x": cty.NumberIntVal(3),
			}),
			want: Record{Fields: []Field{{"x", Number{3}}, {"y", String{"a"}}}},
		},
		{"null", cty.NullVal(cty.String), OpaqueNative{Type: "string", Repr: "null"}},
		{"unknown", cty.UnknownVal(cty.Number), OpaqueNative{Type: "number", Repr: "unknown"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode(tc.input)
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
