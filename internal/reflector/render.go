package reflector

import (
	"strconv"
	"strings"
)

func (v Function) String() string {
	if v.Name == "" {
		return "<function>"
	}
	return "<function:" + v.Name + ">"
}

func (v Boolean) String() string {
	if v.Value {
		return "True"
	}
	return "False"
}

func (v Number) String() string {
	return strconv.FormatFloat(v.Value, 'g', -1, 64)
}

func (v Character) String() string {
	return strconv.QuoteRune(v.Value)
}

func (v String) String() string {
	return strconv.Quote(v.Value)
}

func (v Record) String() string {
	if len(v.Fields) == 0 {
		return "{}"
	}
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.Name + " = " + f.Value.String()
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (v Tuple) String() string {
	return "(" + join(v.Elems) + ")"
}

func (v Array) String() string {
	return "Array.fromList [" + join(v.Elems) + "]"
}

func (v List) String() string {
	return "[" + join(v.Elems) + "]"
}

func (v Set) String() string {
	return "Set.fromList [" + join(v.Elems) + "]"
}

func (v Map) String() string {
	parts := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		parts[i] = "(" + e.Key.String() + "," + e.Value.String() + ")"
	}
	return "Dict.fromList [" + strings.Join(parts, ",") + "]"
}

// String renders constructor arguments in application syntax, wrapping
// nested applications in parentheses.
func (v Constructor) String() string {
	if len(v.Args) == 0 {
		return v.Tag
	}
	var sb strings.Builder
	sb.WriteString(v.Tag)
	for _, a := range v.Args {
		sb.WriteByte(' ')
		if c, ok := a.(Constructor); ok && len(c.Args) > 0 {
			sb.WriteString("(" + c.String() + ")")
			continue
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

func (ReactiveHandle) String() string {
	return "<signal>"
}

func (v OpaqueNative) String() string {
	return "<" + v.Type + ":" + v.Repr + ">"
}

func join(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ",")
}
