// Package value is the generic value encoding used by the dataflow runtime.
//
// The runtime is dynamically typed: composite values are plain
// map[string]any trees distinguished by structural markers rather than Go
// types. A tagged constructor carries its tag under the "ctor" key and its
// arguments under positional keys "_0", "_1" and so on. Collections reuse
// that encoding with reserved tags:
//
//	list   "::" cons cells ending in "[]"
//	array  "_Array" with "height" and "table"
//	dict   "RBNode" / "RBEmpty" red-black tree, _1 key, _2 value, _3 left, _4 right
//	set    dict whose values are all Unit
//	tuple  "_Tuple2", "_Tuple3", ...
//	unit   "_Tuple0", the "no value" placeholder
//
// Records are string-keyed maps without a "ctor" key. Shadowed fields live
// in the "_" bucket, keyed by field name, oldest first.
//
// Scalars are native Go values, with Char for single characters and Func for
// named functions. Anything implementing Notifier is a live reactive handle.
package value
