package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/curio/core"
)

// RecordStore provides the artwork operations the enrichment stages depend on.
// Every operation is self-contained: it acquires its own short-lived
// connection and transaction, does one thing, and releases it. Nothing is
// held open across the long model calls between operations.
type RecordStore interface {
	// SelectCaptionCandidates returns artworks with a primary image and no
	// caption yet, in random order so repeated partial runs spread coverage.
	// A limit <= 0 means no bound.
	SelectCaptionCandidates(ctx context.Context, limit int) ([]core.Artwork, error)

	// SelectSummaryCandidates returns captioned artworks with no summary
	// yet, ordered by catalog object number. A limit <= 0 means no bound.
	SelectSummaryCandidates(ctx context.Context, limit int) ([]core.Artwork, error)

	// SelectEmbeddingCandidates returns summarized artworks with no
	// embedding yet, ordered by catalog object number.
	// A limit <= 0 means no bound.
	SelectEmbeddingCandidates(ctx context.Context, limit int) ([]core.Artwork, error)

	// SaveCaption writes the caption only if the column is still NULL.
	// Returns ErrAlreadyEnriched when the row was filled or removed since
	// selection; existing enrichments are never overwritten.
	SaveCaption(ctx context.Context, id uuid.UUID, caption string) error

	// SaveSummary writes the summary only if the column is still NULL.
	// Returns ErrAlreadyEnriched when the conditional write matched nothing.
	SaveSummary(ctx context.Context, id uuid.UUID, summary string) error

	// SaveEmbedding writes the vector and the processed timestamp together,
	// only if the embedding column is still NULL.
	// Returns ErrAlreadyEnriched when the conditional write matched nothing.
	SaveEmbedding(ctx context.Context, id uuid.UUID, vector []float32, processedAt time.Time) error
}

// CatalogWriter ingests catalog rows in bulk.
type CatalogWriter interface {
	// InsertArtworks inserts the given artworks, skipping object numbers
	// that already exist. Returns the number of rows actually inserted.
	InsertArtworks(ctx context.Context, artworks []core.Artwork) (int64, error)
}

// SimilaritySearcher finds enriched artworks near a query vector.
type SimilaritySearcher interface {
	// FindSimilar returns up to limit artworks with embeddings closest to
	// the given vector, best match first, with cosine similarity scores.
	FindSimilar(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error)
}

// StatusReporter summarizes enrichment progress across the catalog.
type StatusReporter interface {
	// EnrichmentCounts returns per-stage pending counts and totals.
	EnrichmentCounts(ctx context.Context) (EnrichmentCounts, error)
}

// EnrichmentCounts reports how far the pipeline has progressed.
type EnrichmentCounts struct {
	// Total is the number of artwork rows.
	Total int64

	// PendingCaption counts rows eligible for the caption stage.
	PendingCaption int64

	// PendingSummary counts rows eligible for the summary stage.
	PendingSummary int64

	// PendingEmbedding counts rows eligible for the embedding stage.
	PendingEmbedding int64

	// Embedded counts fully enriched rows.
	Embedded int64
}
