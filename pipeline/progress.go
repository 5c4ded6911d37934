package pipeline

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Tracker tracks and reports progress of a stage run, counting successes
// and failures separately.
type Tracker struct {
	writer         io.Writer
	total          int
	reportInterval int
	succeeded      int
	failed         int
	lastReported   int
	startTime      time.Time
	started        bool
	showETA        bool
	mu             sync.Mutex
}

// NewTracker creates a progress tracker.
// writer: where to write progress output (typically os.Stderr)
// total: total number of records in the run
// reportInterval: report progress every N processed records
func NewTracker(writer io.Writer, total, reportInterval int) *Tracker {
	if reportInterval <= 0 {
		reportInterval = 1
	}
	return &Tracker{
		writer:         writer,
		total:          total,
		reportInterval: reportInterval,
	}
}

// EnableETA adds throughput and estimated time remaining to each report.
// Useful for long unbounded runs.
func (t *Tracker) EnableETA() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.showETA = true
}

// Start begins tracking progress.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = time.Now()
	t.started = true
	t.succeeded = 0
	t.failed = 0
	t.lastReported = 0
}

// RecordSuccess counts one successfully enriched record.
func (t *Tracker) RecordSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(1, 0)
}

// RecordFailure counts one record that failed all attempts.
func (t *Tracker) RecordFailure() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.record(0, 1)
}

// record updates counters and reports when an interval boundary is crossed.
// Must be called with lock held.
func (t *Tracker) record(succeeded, failed int) {
	if !t.started {
		return
	}

	t.succeeded += succeeded
	t.failed += failed

	processed := t.succeeded + t.failed
	if processed-t.lastReported >= t.reportInterval {
		t.report()
		t.lastReported = processed
	}
}

// Finish prints the final progress line followed by a newline.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return
	}

	t.report()
	fmt.Fprintln(t.writer)
}

// Elapsed returns the time elapsed since Start was called.
func (t *Tracker) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.started {
		return 0
	}

	return time.Since(t.startTime)
}

// report prints the current progress. Must be called with lock held.
func (t *Tracker) report() {
	processed := t.succeeded + t.failed

	percentage := 0.0
	if t.total > 0 {
		percentage = float64(processed) / float64(t.total) * 100.0
	}

	fmt.Fprintf(t.writer, "\rProgress: %d/%d (%.1f%%) - %d ok, %d failed",
		processed, t.total, percentage, t.succeeded, t.failed)

	if t.showETA {
		elapsed := time.Since(t.startTime)
		rate := float64(processed) / elapsed.Seconds()
		fmt.Fprintf(t.writer, " - %.1f records/s", rate)
		if rate > 0 && processed < t.total {
			remaining := time.Duration(float64(t.total-processed)/rate) * time.Second
			fmt.Fprintf(t.writer, " - ETA %s", remaining.Round(time.Second))
		}
	}
}
