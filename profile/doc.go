// Package profile holds the default parameter table for the cluster
// communication stack together with per-environment override tables, and
// exposes the read-only merge that the bootstrap tool applies when it
// initialises a node. The store is loaded once from a YAML document,
// immutable afterwards, and detection of which environment applies is the
// caller's job.
package profile
