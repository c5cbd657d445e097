// Package reflector converts arbitrary runtime values into a canonical,
// displayable tree.
//
// # Why Reflector Exists
//
// Node values in the instrumented runtime are type-erased: lists, arrays,
// dictionaries, tuples and user constructors are all generic map trees told
// apart only by structural markers (see package value). A debugger front-end
// must show them without knowing any static type. Decode walks a value once,
// depth first, and produces a closed variant Value tree that holds no
// reference back to the runtime value, so it is safe to keep, compare and
// serialize after the node has moved on.
//
// # Classification Order
//
//  1. Scalars by kind: function, boolean, number, character, string.
//  2. Tagged composites: tuples, then arrays, lists and dictionaries by their
//     reserved tags, then any other tag as a Constructor.
//  3. Untagged string-keyed maps whose exact key set is a known internal
//     shape become OpaqueNative. All others are public Records.
//  4. Live reactive handles (value.Notifier) become ReactiveHandle.
//  5. HCL runtime values (cty.Value) are decoded through their type system.
//  6. Everything else becomes OpaqueNative.
//
// A dictionary whose values are all the unit placeholder is a Set of its
// keys, every other dictionary is a Map. An empty dictionary is an empty Map.
//
// Decode never fails and never panics on malformed encodings: a tagged value
// whose payload does not match its tag degrades to a Constructor, and an
// unrecognised value degrades to OpaqueNative. Values are assumed acyclic.
package reflector
