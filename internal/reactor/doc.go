/*
Package reactor is a small reactive dataflow runtime that the debugger can
drive. It exists so the replay engine and the debug session have a real
graph to instrument, and so the CLI can run programs written in HCL.

# Why Reactor Exists

The debugger only ever talks to a graph.Adapter. Something still has to own
node values, decide propagation order and fire timers, and that something
must let the debugger intercept every externally originated event. Reactor
is that something, kept deliberately thin: a program is a set of inputs,
derived nodes and outputs, and an event on an input recomputes every node
downstream of it in topological order.

# Building Programs

Programs are built either in Go:

	p := reactor.NewProgram("counter").
		Mailbox("clicks", 0).
		Foldp("count", 0, add, "clicks").
		Output("main", "count")

or from a format-agnostic config.Program loaded from HCL with FromConfig.
HCL node expressions are evaluated with go-cty; map expressions see each
source by name and foldp expressions see `event` and `state`.

# Node Kinds

  - mailbox and input nodes receive external events.
  - every nodes are inputs fed by the host timer queue with the playing
    time in milliseconds.
  - map nodes recompute from the current values of their sources.
  - foldp nodes fold each new source value into their state.
  - outputs mirror their source; the output named "main" is the main node.

A node recomputes only when one of its sources fired during the current
event. Node values are treated as immutable; functions must return new
values instead of mutating their arguments.

# Events

Send is the entry point for external events. When a debugger has installed
an interceptor the event is handed to it and the interceptor decides
whether, and when, ApplyEvent runs. Without one the event is applied
directly.
*/
package reactor
