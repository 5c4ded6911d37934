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


package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/poiesic/curio/core"
	"github.com/poiesic/curio/storage"
)

// Store implements the storage role interfaces over PostgreSQL with pgvector.
//
// Every operation dials its own short-lived connection and closes it before
// returning. The pipeline is strictly sequential and spends most of its time
// inside model calls, so a pool would only pin an idle connection for the
// whole run.
type Store struct {
	dsn    string
	logger *slog.Logger
}

// New creates a store for the given connection string. No connection is made
// until the first operation; use Ping to fail fast at startup.
func New(dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, storage.ErrEmptyDSN
	}
	return &Store{
		dsn:    dsn,
		logger: slog.Default().With("component", "postgres-store"),
	}, nil
}

func (s *Store) connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.Connect(ctx, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	return conn, nil
}

// Ping opens a connection and verifies the database answers.
func (s *Store) Ping(ctx context.Context) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	return conn.Ping(ctx)
}

const captionCandidatesQuery = `
SELECT id, object_id, coalesce(title, ''), coalesce(primary_image, '')
FROM artwork
WHERE primary_image IS NOT NULL AND primary_image <> '' AND image_caption IS NULL
ORDER BY random()`

// SelectCaptionCandidates returns artworks awaiting a caption, in random
// order. The random order spreads coverage across the catalog when runs are
// interrupted partway.
func (s *Store) SelectCaptionCandidates(ctx context.Context, limit int) ([]core.Artwork, error) {
	return s.selectArtworks(ctx, captionCandidatesQuery, limit,
		func(rows pgx.Rows, a *core.Artwork) error {
			return rows.Scan(&a.ID, &a.ObjectID, &a.Title, &a.PrimaryImage)
		})
}

const summaryCandidatesQuery = `
SELECT id, object_id, coalesce(title, ''), coalesce(artist, ''), coalesce(date, ''),
       coalesce(medium, ''), coalesce(culture, ''), coalesce(department, ''),
       coalesce(credit_line, ''), coalesce(description, ''), image_caption
FROM artwork
WHERE image_caption IS NOT NULL AND image_caption <> '' AND embedding_summary IS NULL
ORDER BY object_id`

// SelectSummaryCandidates returns captioned artworks awaiting a summary,
// with the catalog metadata the prompt draws on.
func (s *Store) SelectSummaryCandidates(ctx context.Context, limit int) ([]core.Artwork, error) {
	return s.selectArtworks(ctx, summaryCandidatesQuery, limit,
		func(rows pgx.Rows, a *core.Artwork) error {
			return rows.Scan(&a.ID, &a.ObjectID, &a.Title, &a.Artist, &a.Date,
				&a.Medium, &a.Culture, &a.Department,
				&a.CreditLine, &a.Description, &a.ImageCaption)
		})
}

const embeddingCandidatesQuery = `
SELECT id, object_id, coalesce(title, ''), embedding_summary
FROM artwork
WHERE embedding_summary IS NOT NULL AND embedding_summary <> '' AND embedding IS NULL
ORDER BY object_id`

// SelectEmbeddingCandidates returns summarized artworks awaiting a vector.
func (s *Store) SelectEmbeddingCandidates(ctx context.Context, limit int) ([]core.Artwork, error) {
	return s.selectArtworks(ctx, embeddingCandidatesQuery, limit,
		func(rows pgx.Rows, a *core.Artwork) error {
			return rows.Scan(&a.ID, &a.ObjectID, &a.Title, &a.EmbeddingSummary)
		})
}

// selectArtworks runs a candidate query with an optional LIMIT and scans
// each row with the stage-specific scan function.
func (s *Store) selectArtworks(ctx context.Context, query string, limit int,
	scan func(pgx.Rows, *core.Artwork) error) ([]core.Artwork, error) {

	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	args := []any{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	defer rows.Close()

	var artworks []core.Artwork
	for rows.Next() {
		var a core.Artwork
		if err := scan(rows, &a); err != nil {
			return nil, fmt.Errorf("scan artwork: %w", err)
		}
		artworks = append(artworks, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}

	return artworks, nil
}

const saveCaptionQuery = `
UPDATE artwork SET image_caption = $2
WHERE id = $1 AND image_caption IS NULL`

// SaveCaption writes the caption if and only if the column is still NULL.
func (s *Store) SaveCaption(ctx context.Context, id uuid.UUID, caption string) error {
	return s.conditionalUpdate(ctx, saveCaptionQuery, id, caption)
}

const saveSummaryQuery = `
UPDATE artwork SET embedding_summary = $2
WHERE id = $1 AND embedding_summary IS NULL`

// SaveSummary writes the summary if and only if the column is still NULL.
func (s *Store) SaveSummary(ctx context.Context, id uuid.UUID, summary string) error {
	return s.conditionalUpdate(ctx, saveSummaryQuery, id, summary)
}

const saveEmbeddingQuery = `
UPDATE artwork SET embedding = $2::vector, processed_at = $3
WHERE id = $1 AND embedding IS NULL`

// SaveEmbedding writes the vector and processed timestamp together, if and
// only if the embedding column is still NULL.
func (s *Store) SaveEmbedding(ctx context.Context, id uuid.UUID, vector []float32, processedAt time.Time) error {
	return s.conditionalUpdate(ctx, saveEmbeddingQuery, id, pgvector.NewVector(vector), processedAt)
}

// conditionalUpdate executes a guarded single-row UPDATE. Zero rows affected
// means the guard failed: the enrichment exists already or the row is gone.
func (s *Store) conditionalUpdate(ctx context.Context, query string, args ...any) error {
	conn, err := s.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	tag, err := conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update artwork: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrAlreadyEnriched
	}
	return nil
}

const insertArtworkQuery = `
INSERT INTO artwork (id, object_id, title, artist, date, medium, culture,
                     department, credit_line, description, primary_image)
VALUES ($1, $2, nullif($3, ''), nullif($4, ''), nullif($5, ''), nullif($6, ''),
        nullif($7, ''), nullif($8, ''), nullif($9, ''), nullif($10, ''), nullif($11, ''))
ON CONFLICT (object_id) DO NOTHING`

// InsertArtworks bulk-inserts catalog rows over a single connection,
// skipping object numbers already present. Optional text fields are stored
// as NULL rather than empty strings, matching what the stage predicates
// expect. Returns the number of rows actually inserted.
func (s *Store) InsertArtworks(ctx context.Context, artworks []core.Artwork) (int64, error) {
	if len(artworks) == 0 {
		return 0, nil
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close(ctx)

	batch := &pgx.Batch{}
	for i := range artworks {
		a := &artworks[i]
		batch.Queue(insertArtworkQuery, a.ID, a.ObjectID, a.Title, a.Artist, a.Date,
			a.Medium, a.Culture, a.Department, a.CreditLine, a.Description, a.PrimaryImage)
	}

	results := conn.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range artworks {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert artwork: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	return inserted, nil
}

const enrichmentCountsQuery = `
SELECT
	count(*),
	count(*) FILTER (WHERE primary_image IS NOT NULL AND primary_image <> '' AND image_caption IS NULL),
	count(*) FILTER (WHERE image_caption IS NOT NULL AND image_caption <> '' AND embedding_summary IS NULL),
	count(*) FILTER (WHERE embedding_summary IS NOT NULL AND embedding_summary <> '' AND embedding IS NULL),
	count(*) FILTER (WHERE embedding IS NOT NULL)
FROM artwork`

// EnrichmentCounts returns per-stage pending counts using the same
// predicates the candidate queries use.
func (s *Store) EnrichmentCounts(ctx context.Context) (storage.EnrichmentCounts, error) {
	var counts storage.EnrichmentCounts

	conn, err := s.connect(ctx)
	if err != nil {
		return counts, err
	}
	defer conn.Close(ctx)

	err = conn.QueryRow(ctx, enrichmentCountsQuery).Scan(
		&counts.Total,
		&counts.PendingCaption,
		&counts.PendingSummary,
		&counts.PendingEmbedding,
		&counts.Embedded,
	)
	if err != nil {
		return counts, fmt.Errorf("enrichment counts: %w", err)
	}

	return counts, nil
}

const findSimilarQuery = `
SELECT id, object_id, coalesce(title, ''), coalesce(artist, ''),
       coalesce(embedding_summary, ''), 1 - (embedding <=> $1::vector)
FROM artwork
WHERE embedding IS NOT NULL
ORDER BY embedding <=> $1::vector
LIMIT $2`

// FindSimilar returns the artworks whose embeddings are nearest to the query
// vector by cosine distance, best match first.
func (s *Store) FindSimilar(ctx context.Context, vector []float32, limit int) ([]core.SearchHit, error) {
	if limit <= 0 {
		limit = 10
	}

	conn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close(ctx)

	rows, err := conn.Query(ctx, findSimilarQuery, pgvector.NewVector(vector), limit)
	if err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}
	defer rows.Close()

	var hits []core.SearchHit
	for rows.Next() {
		a := &core.Artwork{}
		var score float64
		if err := rows.Scan(&a.ID, &a.ObjectID, &a.Title, &a.Artist, &a.EmbeddingSummary, &score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		hits = append(hits, core.SearchHit{Artwork: a, Score: float32(score)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find similar: %w", err)
	}

	return hits, nil
}

const vectorExtensionQuery = `SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'vector')`

// VectorExtensionInstalled reports whether the pgvector extension is
// available in the connected database.
func (s *Store) VectorExtensionInstalled(ctx context.Context) (bool, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Close(ctx)

	var installed bool
	if err := conn.QueryRow(ctx, vectorExtensionQuery).Scan(&installed); err != nil {
		return false, fmt.Errorf("vector extension check: %w", err)
	}
	return installed, nil
}

const embeddingColumnQuery = `
SELECT a.atttypmod
FROM pg_attribute a
WHERE a.attrelid = 'artwork'::regclass AND a.attname = 'embedding' AND NOT a.attisdropped`

// EmbeddingColumnDimensions returns the declared dimensionality of
// artwork.embedding. pgvector stores the dimension as the column typmod;
// 0 means the column exists but is unconstrained.
func (s *Store) EmbeddingColumnDimensions(ctx context.Context) (int, error) {
	conn, err := s.connect(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Close(ctx)

	var typmod int
	err = conn.QueryRow(ctx, embeddingColumnQuery).Scan(&typmod)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, storage.ErrNoEmbeddingColumn
	}
	if err != nil {
		return 0, fmt.Errorf("embedding column check: %w", err)
	}

	if typmod < 0 {
		return 0, nil
	}
	return typmod, nil
}
