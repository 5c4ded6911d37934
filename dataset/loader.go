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


package dataset

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/curio/core"
	"github.com/poiesic/curio/storage"
)

const defaultBatchSize = 100

// Loader bulk-inserts catalog objects into artwork storage using a worker
// pool, one batch per task. Inserts are idempotent on object number, so a
// reload after a partial run only adds what is missing.
type Loader struct {
	writer    storage.CatalogWriter
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader) error

// WithPoolSize sets the worker pool size for concurrent batch inserts.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) LoaderOption {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}

		if l.pool != nil {
			l.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		l.pool = pool
		return nil
	}
}

// WithBatchSize sets how many rows each insert task carries.
func WithBatchSize(size int) LoaderOption {
	return func(l *Loader) error {
		if size < 1 {
			size = 1
		}
		l.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a catalog loader.
func NewLoader(writer storage.CatalogWriter, opts ...LoaderOption) (*Loader, error) {
	if writer == nil {
		return nil, ErrCatalogWriterRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	l := &Loader{
		writer:    writer,
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(l); optErr != nil {
			l.Release()
			return nil, optErr
		}
	}

	return l, nil
}

// LoadStats summarizes one load.
type LoadStats struct {
	// Read is the number of catalog objects handed to the loader.
	Read int64

	// Inserted is the number of new artwork rows created.
	Inserted int64

	// Skipped is the number of objects already present in storage.
	Skipped int64

	// Failed is the number of objects lost to batch insert errors.
	Failed int64
}

// Load converts objects to artwork rows and inserts them in concurrent
// batches. Batch failures are logged and counted, not fatal; Load returns
// the context error if the run was interrupted mid-submission.
func (l *Loader) Load(ctx context.Context, objects []CatalogObject) (LoadStats, error) {
	artworks := make([]core.Artwork, len(objects))
	for i, obj := range objects {
		artworks[i] = obj.ToArtwork()
	}

	var (
		wg        sync.WaitGroup
		inserted  atomic.Int64
		failed    atomic.Int64
		submitted int64
	)

	var submitErr error
	for start := 0; start < len(artworks); start += l.batchSize {
		if ctx.Err() != nil {
			submitErr = ctx.Err()
			break
		}

		batch := artworks[start:min(start+l.batchSize, len(artworks))]

		wg.Add(1)
		err := l.pool.Submit(func() {
			defer wg.Done()

			n, err := l.writer.InsertArtworks(ctx, batch)
			inserted.Add(n)
			if err != nil {
				failed.Add(int64(len(batch)) - n)
				l.logger.Error("batch insert failed",
					"batch_size", len(batch), "inserted", n, "error", err)
			}
		})
		if err != nil {
			wg.Done()
			submitErr = err
			break
		}
		submitted += int64(len(batch))
	}

	wg.Wait()

	stats := LoadStats{
		Read:     int64(len(objects)),
		Inserted: inserted.Load(),
		Failed:   failed.Load(),
	}
	// Rows in submitted batches that neither inserted nor failed hit the
	// ON CONFLICT guard. Rows never submitted count in none of the buckets.
	stats.Skipped = submitted - stats.Inserted - stats.Failed

	return stats, submitErr
}

// Release releases the worker pool.
// The loader should not be used after calling Release.
func (l *Loader) Release() {
	if l.pool != nil {
		l.pool.Release()
	}
}
