// Package node describes the vertices of an instrumented dataflow graph:
// their identity, role and children, and the Shape summarising a whole
// graph instance for debugger front-ends.
package node
