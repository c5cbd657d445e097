// Package inmemorytopology provides a thread-safe, in-memory implementation
// of the topologystore.Store interface. Graph instances under debug are small
// and live for a single session, so nothing here is persisted.
package inmemorytopology
