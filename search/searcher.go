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


package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/curio/ai"
	"github.com/poiesic/curio/core"
	"github.com/poiesic/curio/storage"
)

// verbatimBoost is added when every query word appears in the artwork's
// own text, rewarding exact matches the embedding may rank loosely.
const verbatimBoost = 0.3

// Searcher answers natural-language queries over the embedded catalog.
type Searcher struct {
	store    storage.SimilaritySearcher
	embedder ai.Embedder
	minScore float32
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithMinScore drops hits whose raw similarity score is below min.
// Default is 0, keeping everything the store returns.
func WithMinScore(min float32) Option {
	return func(s *Searcher) error {
		s.minScore = min
		return nil
	}
}

// NewSearcher creates a searcher over the given store and embedder.
func NewSearcher(store storage.SimilaritySearcher, embedder ai.Embedder, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindSimilar returns up to maxHits artworks ranked by relevance to the
// query. The query is embedded with the same model that embedded the
// catalog; verbatim matches are boosted above purely semantic ones.
func (s *Searcher) FindSimilar(ctx context.Context, query string, maxHits int) ([]core.SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if maxHits <= 0 {
		maxHits = 10
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Error("error embedding query", "query", query, "err", err)
		return nil, err
	}

	matches, err := s.store.FindSimilar(ctx, embedding, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar artworks", "err", err)
		return nil, err
	}

	results := make([]core.SearchHit, 0, len(matches))
	for _, match := range matches {
		if match.Score < s.minScore {
			continue
		}

		// Apply verbatim match boost
		if matchesAllQueryWords(match.Artwork, query) {
			match.Score += verbatimBoost
		}

		results = append(results, match)
	}

	// Sort by score descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > maxHits {
		results = results[:maxHits]
	}

	return results, nil
}
