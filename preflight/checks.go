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


package preflight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/curio/ai"
	"github.com/poiesic/curio/storage"
)

// Storage is the slice of the store the verifier needs.
type Storage interface {
	Ping(ctx context.Context) error
	VectorExtensionInstalled(ctx context.Context) (bool, error)
	EmbeddingColumnDimensions(ctx context.Context) (int, error)
	EnrichmentCounts(ctx context.Context) (storage.EnrichmentCounts, error)
}

// Result is the outcome of one readiness check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Verifier runs the readiness checks an enrichment run depends on:
// configuration, database, pgvector schema, catalog state, and a live
// embedding probe.
type Verifier struct {
	config   *ai.Config
	store    Storage
	embedder ai.Embedder
	logger   *slog.Logger
}

// NewVerifier creates a verifier over the given dependencies.
func NewVerifier(config *ai.Config, store Storage, embedder ai.Embedder) *Verifier {
	return &Verifier{
		config:   config,
		store:    store,
		embedder: embedder,
		logger:   slog.Default().With("component", "preflight"),
	}
}

// Run executes every check and returns one result per check. Checks run in
// dependency order but a failure never short-circuits the rest, so the
// operator sees everything broken at once.
func (v *Verifier) Run(ctx context.Context) []Result {
	checks := []func(context.Context) Result{
		v.checkConfig,
		v.checkDatabase,
		v.checkVectorSchema,
		v.checkCatalog,
		v.checkEmbedder,
	}

	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		res := check(ctx)
		if !res.Passed {
			v.logger.Warn("preflight check failed", "check", res.Name, "detail", res.Detail)
		}
		results = append(results, res)
	}
	return results
}

// AllPassed reports whether every check in results passed.
func AllPassed(results []Result) bool {
	for _, res := range results {
		if !res.Passed {
			return false
		}
	}
	return len(results) > 0
}

func (v *Verifier) checkConfig(context.Context) Result {
	res := Result{Name: "configuration"}

	if err := v.config.Validate(); err != nil {
		res.Detail = err.Error()
		return res
	}

	res.Passed = true
	res.Detail = fmt.Sprintf("embedding model %s (%d dims), api key %s",
		v.config.EmbeddingModel, v.config.EmbeddingDimensions, maskKey(v.config.EmbeddingAPIKey))
	return res
}

func (v *Verifier) checkDatabase(ctx context.Context) Result {
	res := Result{Name: "database"}

	if err := v.store.Ping(ctx); err != nil {
		res.Detail = err.Error()
		return res
	}

	res.Passed = true
	res.Detail = "reachable"
	return res
}

func (v *Verifier) checkVectorSchema(ctx context.Context) Result {
	res := Result{Name: "pgvector schema"}

	installed, err := v.store.VectorExtensionInstalled(ctx)
	if err != nil {
		res.Detail = err.Error()
		return res
	}
	if !installed {
		res.Detail = "vector extension not installed"
		return res
	}

	dims, err := v.store.EmbeddingColumnDimensions(ctx)
	if errors.Is(err, storage.ErrNoEmbeddingColumn) {
		res.Detail = "artwork.embedding column not found"
		return res
	}
	if err != nil {
		res.Detail = err.Error()
		return res
	}

	switch {
	case dims == 0:
		res.Passed = true
		res.Detail = "artwork.embedding present (unconstrained dimensions)"
	case dims == v.config.EmbeddingDimensions:
		res.Passed = true
		res.Detail = fmt.Sprintf("artwork.embedding is vector(%d)", dims)
	default:
		res.Detail = fmt.Sprintf("artwork.embedding is vector(%d), embedder produces %d dims",
			dims, v.config.EmbeddingDimensions)
	}
	return res
}

func (v *Verifier) checkCatalog(ctx context.Context) Result {
	res := Result{Name: "catalog"}

	counts, err := v.store.EnrichmentCounts(ctx)
	if err != nil {
		res.Detail = err.Error()
		return res
	}

	res.Detail = fmt.Sprintf("%d artworks: %d await caption, %d await summary, %d await embedding, %d embedded",
		counts.Total, counts.PendingCaption, counts.PendingSummary, counts.PendingEmbedding, counts.Embedded)

	if counts.Total == 0 {
		res.Detail = "artwork table is empty; run dataset load first"
		return res
	}

	res.Passed = true
	return res
}

func (v *Verifier) checkEmbedder(ctx context.Context) Result {
	res := Result{Name: "embedding model"}

	vector, err := v.embedder.EmbedText(ctx, "Test embedding")
	if err != nil {
		res.Detail = err.Error()
		return res
	}

	if len(vector) != v.embedder.Dimensions() {
		res.Detail = fmt.Sprintf("test embedding has %d dims, expected %d",
			len(vector), v.embedder.Dimensions())
		return res
	}

	res.Passed = true
	res.Detail = fmt.Sprintf("test embedding has %d dims", len(vector))
	return res
}

// maskKey hides all but the tail of an API key.
func maskKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-8) + key[len(key)-8:]
}
