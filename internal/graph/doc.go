// Package graph defines the boundary between the debugger and the dataflow
// runtime it instruments, plus a store-backed facade runtimes can build on.
//
// # Why Graph Package Exists
//
// The debugger never owns node identity or topology. It needs exactly four
// things from a live graph instance: enumerate its nodes, read a node's value,
// re-apply a recorded event, and intercept every externally originated event
// before it propagates. Adapter names those capabilities so the replay engine
// and the session can be written against any runtime.
//
// Interception is explicit dependency injection: the session hands the
// adapter a single Interceptor at initialization and the adapter calls it for
// every external event. Nothing patches a shared dispatch function.
//
// # Architecture: The Facade Pattern
//
// Runtimes that do not already keep values in an index can embed Manager, a
// thin facade over two specialized stores:
//
//	┌─────────────────────────────────────┐
//	│          Manager Facade             │
//	│  (structure queries + value I/O     │
//	│   for the runtime and debugger)     │
//	└──────────┬────────────┬─────────────┘
//	           │            │
//	           ▼            ▼
//	  ┌────────────┐  ┌────────────┐
//	  │  Topology  │  │   Node     │
//	  │   Store    │  │   Store    │
//	  │ (Structure)│  │  (Values)  │
//	  └────────────┘  └────────────┘
//
// **Topology Store** (topologystore.Store):
//   - Nodes and parent to kid edges, written while the program is instantiated
//   - Queried by: AllNodes(), Node(), Parents(), Order()
//
// **Node Store** (nodestore.Store):
//   - Current value of every node, rewritten on every propagation step
//   - Queried by: Value(), Values()
//   - Updated by: SetValue()
//
// # Lifecycle
//
//  1. **Instantiation:** a Program builds its nodes on a Manager and returns an Adapter
//  2. **Sealing:** Seal computes and caches the propagation order, rejecting cycles
//  3. **Recording:** the session intercepts events, the adapter applies them
//  4. **Replay:** the engine writes snapshot values back through SetValue
//  5. **Disposal:** Dispose stops the runtime's timers and releases the instance
package graph
