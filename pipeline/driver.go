package pipeline

import (
	"context"
	"errors"
	"log/slog"
)

// Stage is the common surface of all stage runners, letting the driver hold
// runners with different output types.
type Stage interface {
	Name() string
	Run(ctx context.Context, limit int) (RunStats, error)
}

// StageResult pairs a stage with the outcome of its run.
type StageResult struct {
	Stage string
	Stats RunStats
	Err   error
}

// Driver runs stages in catalog order. A stage that errors does not stop
// the stages after it, since each stage feeds on whatever its predecessors
// managed to finish in earlier runs.
type Driver struct {
	stages []driverEntry
	logger *slog.Logger
}

type driverEntry struct {
	stage Stage
	limit int
}

// NewDriver creates an empty driver.
func NewDriver() *Driver {
	return &Driver{
		logger: slog.Default().With("component", "pipeline-driver"),
	}
}

// Add appends a stage to the run order with its per-run batch limit.
func (d *Driver) Add(stage Stage, limit int) {
	d.stages = append(d.stages, driverEntry{stage: stage, limit: limit})
}

// Run executes the stages in order and returns one result per stage run.
// An interrupt stops the chain; stages never dispatched produce no result.
func (d *Driver) Run(ctx context.Context) []StageResult {
	results := make([]StageResult, 0, len(d.stages))

	for _, entry := range d.stages {
		if ctx.Err() != nil {
			break
		}

		stats, err := entry.stage.Run(ctx, entry.limit)
		results = append(results, StageResult{
			Stage: entry.stage.Name(),
			Stats: stats,
			Err:   err,
		})

		if err != nil && !errors.Is(err, context.Canceled) {
			d.logger.Error("stage run failed", "stage", entry.stage.Name(), "error", err)
		}
	}

	return results
}

// Interrupted reports whether any stage ended on a canceled context.
func Interrupted(results []StageResult) bool {
	for _, res := range results {
		if errors.Is(res.Err, context.Canceled) {
			return true
		}
	}
	return false
}
