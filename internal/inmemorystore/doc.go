// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// # Concurrency Model
//
// Unlike inmemorytopology which uses an RWMutex, this store uses sync.Map:
//   - **Write-Heavy Workload:** every propagation step and every snapshot restore writes values
//   - **Stable Key Space:** all node ids are known once the program is instantiated
//
// sync.Map is optimized for exactly this pattern where keys are stable but
// values change frequently.
package inmemorystore
