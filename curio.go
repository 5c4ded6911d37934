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


package curio

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/curio/ai"
	"github.com/poiesic/curio/ai/ollama"
	"github.com/poiesic/curio/ai/openai"
	"github.com/poiesic/curio/dataset"
	"github.com/poiesic/curio/pipeline"
	"github.com/poiesic/curio/preflight"
	"github.com/poiesic/curio/search"
	"github.com/poiesic/curio/storage/postgres"
)

// Catalog bundles the artwork store and the three model clients behind one
// handle, so callers build stages, searchers, and loaders without wiring
// the pieces themselves.
type Catalog struct {
	store      *postgres.Store
	captioner  ai.Captioner
	summarizer ai.Summarizer
	embedder   ai.Embedder
	aiConfig   *ai.Config
	logger     *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default model configuration.
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// NewCatalog opens an enrichment catalog over the given database. Model
// hosts are not dialed here; the first stage run or preflight check is
// where connectivity surfaces.
func NewCatalog(databaseURL string, opts ...CatalogOption) (*Catalog, error) {
	// Apply options
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store, err := postgres.New(databaseURL)
	if err != nil {
		return nil, err
	}

	captioner, err := ollama.NewCaptioner(options.aiConfig)
	if err != nil {
		return nil, err
	}

	summarizer, err := ollama.NewSummarizer(options.aiConfig)
	if err != nil {
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		store:      store,
		captioner:  captioner,
		summarizer: summarizer,
		embedder:   embedder,
		aiConfig:   options.aiConfig,
		logger:     slog.Default(),
	}, nil
}

// Ping verifies the database answers.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Store exposes the artwork store.
func (c *Catalog) Store() *postgres.Store {
	return c.store
}

// Embedder exposes the embedding client, shared by stages and search.
func (c *Catalog) Embedder() ai.Embedder {
	return c.embedder
}

// NewCaptionStage builds the captioning stage runner.
func (c *Catalog) NewCaptionStage(progress io.Writer) (*pipeline.Runner[string], error) {
	return pipeline.NewCaptionStage(c.store, c.captioner, progress)
}

// NewSummaryStage builds the summarization stage runner.
func (c *Catalog) NewSummaryStage(progress io.Writer) (*pipeline.Runner[string], error) {
	return pipeline.NewSummaryStage(c.store, c.summarizer, progress)
}

// NewEmbeddingStage builds the embedding stage runner.
func (c *Catalog) NewEmbeddingStage(progress io.Writer) (*pipeline.Runner[[]float32], error) {
	return pipeline.NewEmbeddingStage(c.store, c.embedder, progress)
}

// NewSearcher builds a semantic searcher over the embedded catalog.
func (c *Catalog) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(c.store, c.embedder, opts...)
}

// NewLoader builds a catalog dump loader.
func (c *Catalog) NewLoader(opts ...dataset.LoaderOption) (*dataset.Loader, error) {
	return dataset.NewLoader(c.store, opts...)
}

// NewVerifier builds the preflight verifier for this catalog's setup.
func (c *Catalog) NewVerifier() *preflight.Verifier {
	return preflight.NewVerifier(c.aiConfig, c.store, c.embedder)
}
