// Package preflight verifies an enrichment setup end to end before a run
// burns model credit on it: configuration, database reachability, pgvector
// schema, catalog state, and a live embedding probe.
package preflight
