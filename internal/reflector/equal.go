package reflector

// Equal reports whether a and b are structurally equal trees. Nil and empty
// element lists compare equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch x := a.(type) {
	case Record:
		y := b.(Record)
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !Equal(x.Fields[i].Value, y.Fields[i].Value) {
				return false
			}
		}
		return true
	case Tuple:
		return equalAll(x.Elems, b.(Tuple).Elems)
	case Array:
		return equalAll(x.Elems, b.(Array).Elems)
	case List:
		return equalAll(x.Elems, b.(List).Elems)
	case Set:
		return equalAll(x.Elems, b.(Set).Elems)
	case Map:
		y := b.(Map)
		if len(x.Entries) != len(y.Entries) {
			return false
		}
		for i := range x.Entries {
			if !Equal(x.Entries[i].Key, y.Entries[i].Key) || !Equal(x.Entries[i].Value, y.Entries[i].Value) {
				return false
			}
		}
		return true
	case Constructor:
		y := b.(Constructor)
		return x.Tag == y.Tag && equalAll(x.Args, y.Args)
	default:
		// Scalars and the two opaque variants are comparable structs.
		return a == b
	}
}

func equalAll(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
