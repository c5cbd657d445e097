// internal/nodeid/doc.go

/*
Package nodeid provides the stable identifier of a node within one graph
instance.

Identifiers are dense non-negative integers assigned at graph construction,
in declaration order, and never reused for the lifetime of the instance.
Snapshots, events and subscriptions all refer to nodes by ID, never by
reference, so the graph adapter stays the sole owner of node storage.
*/
package nodeid
