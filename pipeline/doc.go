// Package pipeline runs the artwork enrichment stages: captioning images,
// summarizing captions with catalog metadata, and embedding summaries.
//
// Each stage selects its pending records, transforms them one at a time
// under a classified retry policy, and persists results with guarded writes
// so interrupted runs resume where they left off. Failures are logged and
// skipped rather than aborting the run.
package pipeline
