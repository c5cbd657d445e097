package reflector

// Kind discriminates the variants of Value.
type Kind int

const (
	KindFunction Kind = iota
	KindBoolean
	KindNumber
	KindCharacter
	KindString
	KindRecord
	KindTuple
	KindArray
	KindList
	KindSet
	KindMap
	KindConstructor
	KindReactiveHandle
	KindOpaqueNative
)

var kindNames = [...]string{
	KindFunction:       "Function",
	KindBoolean:        "Boolean",
	KindNumber:         "Number",
	KindCharacter:      "Character",
	KindString:         "String",
	KindRecord:         "Record",
	KindTuple:          "Tuple",
	KindArray:          "Array",
	KindList:           "List",
	KindSet:            "Set",
	KindMap:            "Map",
	KindConstructor:    "Constructor",
	KindReactiveHandle: "ReactiveHandle",
	KindOpaqueNative:   "OpaqueNative",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Value is a reflected runtime value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	String() string
	MarshalJSON() ([]byte, error)
	sealed()
}

// Function is a function value, shown by name only.
type Function struct{ Name string }

// Boolean is a truth value.
type Boolean struct{ Value bool }

// Number is any numeric value.
type Number struct{ Value float64 }

// Character is a single character.
type Character struct{ Value rune }

// String is a text value.
type String struct{ Value string }

// Field is one named entry of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is a value with named fields. A field name may repeat when older
// values of the field were shadowed.
type Record struct{ Fields []Field }

// Tuple is a fixed-arity product.
type Tuple struct{ Elems []Value }

// Array is an indexed sequence.
type Array struct{ Elems []Value }

// List is a linked sequence.
type List struct{ Elems []Value }

// Set is a collection of distinct keys in dictionary order.
type Set struct{ Elems []Value }

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Map is an associative collection in dictionary order.
type Map struct{ Entries []Entry }

// Constructor is a tagged variant with positional arguments.
type Constructor struct {
	Tag  string
	Args []Value
}

// ReactiveHandle stands in for a live node or stream reference.
type ReactiveHandle struct{}

// OpaqueNative is the fallback for values outside the runtime's data model.
// It keeps a rendering of the value and its type, never the value itself.
type OpaqueNative struct {
	Type string
	Repr string
}

func (Function) Kind() Kind       { return KindFunction }
func (Boolean) Kind() Kind        { return KindBoolean }
func (Number) Kind() Kind         { return KindNumber }
func (Character) Kind() Kind      { return KindCharacter }
func (String) Kind() Kind         { return KindString }
func (Record) Kind() Kind         { return KindRecord }
func (Tuple) Kind() Kind          { return KindTuple }
func (Array) Kind() Kind          { return KindArray }
func (List) Kind() Kind           { return KindList }
func (Set) Kind() Kind            { return KindSet }
func (Map) Kind() Kind            { return KindMap }
func (Constructor) Kind() Kind    { return KindConstructor }
func (ReactiveHandle) Kind() Kind { return KindReactiveHandle }
func (OpaqueNative) Kind() Kind   { return KindOpaqueNative }

func (Function) sealed()       {}
func (Boolean) sealed()        {}
func (Number) sealed()         {}
func (Character) sealed()      {}
func (String) sealed()         {}
func (Record) sealed()         {}
func (Tuple) sealed()          {}
func (Array) sealed()          {}
func (List) sealed()           {}
func (Set) sealed()            {}
func (Map) sealed()            {}
func (Constructor) sealed()    {}
func (ReactiveHandle) sealed() {}
func (OpaqueNative) sealed()   {}
