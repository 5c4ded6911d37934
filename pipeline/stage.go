// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/poiesic/curio/core"
	"github.com/poiesic/curio/storage"
)

// Transform produces one artwork's enrichment value. T is the stage's
// output: a caption or summary string, or an embedding vector.
type Transform[T any] func(ctx context.Context, art *core.Artwork) (T, error)

// Config describes one enrichment stage.
type Config[T any] struct {
	// Name identifies the stage in progress output and logs.
	Name string

	// Select loads the artworks still awaiting this stage's enrichment.
	// A limit of zero or less selects everything.
	Select func(ctx context.Context, limit int) ([]core.Artwork, error)

	// Transform produces the enrichment value for one artwork.
	Transform Transform[T]

	// PostProcess optionally normalizes the transform output before
	// validation. Runs inside the retry loop so a retried attempt is
	// normalized again.
	PostProcess func(T) T

	// Validate optionally rejects transform output. Validation failures
	// classify as fatal, so a bad value fails the record without burning
	// retry attempts.
	Validate func(T) error

	// Persist writes the enrichment value back to storage.
	Persist func(ctx context.Context, art *core.Artwork, value T) error

	// Delay is the pause between records, easing load on local model hosts.
	Delay time.Duration

	// ReportInterval is how often to report progress (number of records).
	ReportInterval int

	// Retry controls per-record retry behavior.
	Retry RetryPolicy

	// ShowETA adds throughput and time-remaining estimates to progress output.
	ShowETA bool
}

// RunStats summarizes one stage run.
type RunStats struct {
	// Processed is the number of records attempted.
	Processed int

	// Succeeded is the number of records enriched and persisted.
	Succeeded int

	// Failed is the number of records that failed every attempt.
	Failed int
}

// Runner executes one enrichment stage over its pending records. A failed
// record is logged and skipped; the run carries on so one bad artwork
// cannot stall the rest of the catalog.
type Runner[T any] struct {
	config   Config[T]
	progress io.Writer
	logger   *slog.Logger
}

// New creates a stage runner.
// progress: where to write progress output (typically os.Stderr)
func New[T any](config Config[T], progress io.Writer) (*Runner[T], error) {
	switch {
	case config.Name == "":
		return nil, ErrMissingName
	case config.Select == nil:
		return nil, ErrMissingSelect
	case config.Transform == nil:
		return nil, ErrMissingTransform
	case config.Persist == nil:
		return nil, ErrMissingPersist
	}

	if progress == nil {
		progress = io.Discard
	}

	return &Runner[T]{
		config:   config,
		progress: progress,
		logger:   slog.Default().With("stage", config.Name),
	}, nil
}

// Name returns the stage name.
func (r *Runner[T]) Name() string {
	return r.config.Name
}

// Run selects up to limit pending artworks and enriches them one at a time.
// A limit of zero or less selects the entire backlog. Run returns early
// with the context error when interrupted; the stats cover the records
// attempted up to that point.
func (r *Runner[T]) Run(ctx context.Context, limit int) (RunStats, error) {
	var stats RunStats

	candidates, err := r.config.Select(ctx, limit)
	if err != nil {
		return stats, fmt.Errorf("select %s candidates: %w", r.config.Name, err)
	}

	if len(candidates) == 0 {
		fmt.Fprintf(r.progress, "No artworks awaiting %s\n", r.config.Name)
		return stats, nil
	}

	fmt.Fprintf(r.progress, "Starting %s stage for %d artworks\n", r.config.Name, len(candidates))

	tracker := NewTracker(r.progress, len(candidates), r.config.ReportInterval)
	if r.config.ShowETA {
		tracker.EnableETA()
	}
	tracker.Start()

	for i := range candidates {
		art := &candidates[i]

		// Check context between records
		select {
		case <-ctx.Done():
			tracker.Finish()
			return stats, ctx.Err()
		default:
		}

		if err := r.processRecord(ctx, art); err != nil {
			// An interrupt mid-record ends the run without counting the
			// record against the stage.
			if ctx.Err() != nil {
				tracker.Finish()
				return stats, ctx.Err()
			}

			stats.Processed++
			stats.Failed++
			tracker.RecordFailure()
			r.logger.Warn("record failed", "object_id", art.ObjectID, "error", truncateError(err))
			continue
		}

		stats.Processed++
		stats.Succeeded++
		tracker.RecordSuccess()

		if r.config.Delay > 0 && i < len(candidates)-1 {
			timer := time.NewTimer(r.config.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				tracker.Finish()
				return stats, ctx.Err()
			case <-timer.C:
			}
		}
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Stage %s complete: %d succeeded, %d failed in %v\n",
		r.config.Name, stats.Succeeded, stats.Failed, elapsed.Round(time.Second))

	return stats, nil
}

// processRecord transforms and persists a single artwork. The transform,
// post-processing, and validation all run under the retry policy; the
// persist does not, since storage failures are not model flakiness.
func (r *Runner[T]) processRecord(ctx context.Context, art *core.Artwork) error {
	var value T
	err := r.config.Retry.Do(ctx, func() error {
		v, err := r.config.Transform(ctx, art)
		if err != nil {
			return err
		}
		if r.config.PostProcess != nil {
			v = r.config.PostProcess(v)
		}
		if r.config.Validate != nil {
			if err := r.config.Validate(v); err != nil {
				return err
			}
		}
		value = v
		return nil
	})
	if err != nil {
		return err
	}

	if err := r.config.Persist(ctx, art, value); err != nil {
		// Another run got there first. The enrichment exists, which is
		// what this run wanted, so the record counts as done.
		if errors.Is(err, storage.ErrAlreadyEnriched) {
			r.logger.Debug("already enriched elsewhere", "object_id", art.ObjectID)
			return nil
		}
		return fmt.Errorf("persist %s: %w", r.config.Name, err)
	}

	return nil
}

// truncateError keeps failure logs to a single readable line.
func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > 80 {
		msg = msg[:77] + "..."
	}
	return msg
}
