package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/curio/ai"
	"github.com/poiesic/curio/ai/mock"
	"github.com/poiesic/curio/core"
)

// memoryStore is an in-memory storage.RecordStore for stage wiring tests.
type memoryStore struct {
	mu         sync.Mutex
	candidates []core.Artwork
	captions   map[uuid.UUID]string
	summaries  map[uuid.UUID]string
	embeddings map[uuid.UUID][]float32
	processed  map[uuid.UUID]time.Time
}

func newMemoryStore(candidates []core.Artwork) *memoryStore {
	return &memoryStore{
		candidates: candidates,
		captions:   map[uuid.UUID]string{},
		summaries:  map[uuid.UUID]string{},
		embeddings: map[uuid.UUID][]float32{},
		processed:  map[uuid.UUID]time.Time{},
	}
}

func (s *memoryStore) selectCandidates(limit int) ([]core.Artwork, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 && limit < len(s.candidates) {
		return s.candidates[:limit], nil
	}
	return s.candidates, nil
}

func (s *memoryStore) SelectCaptionCandidates(_ context.Context, limit int) ([]core.Artwork, error) {
	return s.selectCandidates(limit)
}

func (s *memoryStore) SelectSummaryCandidates(_ context.Context, limit int) ([]core.Artwork, error) {
	return s.selectCandidates(limit)
}

func (s *memoryStore) SelectEmbeddingCandidates(_ context.Context, limit int) ([]core.Artwork, error) {
	return s.selectCandidates(limit)
}

func (s *memoryStore) SaveCaption(_ context.Context, id uuid.UUID, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.captions[id] = caption
	return nil
}

func (s *memoryStore) SaveSummary(_ context.Context, id uuid.UUID, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[id] = summary
	return nil
}

func (s *memoryStore) SaveEmbedding(_ context.Context, id uuid.UUID, vector []float32, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings[id] = vector
	s.processed[id] = processedAt
	return nil
}

func TestCaptionStage(t *testing.T) {
	art := core.Artwork{
		ID:           core.IDFromObjectID(42),
		ObjectID:     42,
		Title:        "Wheat Field with Cypresses",
		PrimaryImage: "https://images.example.org/42.jpg",
	}
	store := newMemoryStore([]core.Artwork{art})
	captioner := mock.NewMockCaptioner()

	stage, err := NewCaptionStage(store, captioner, nil)
	require.NoError(t, err)
	assert.Equal(t, "caption", stage.Name())

	stats, err := stage.Run(context.Background(), DefaultCaptionLimit)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Processed: 1, Succeeded: 1, Failed: 0}, stats)
	assert.Equal(t, 1, captioner.CallCount())

	// The lead-in from the mock's fixed caption must be stripped.
	assert.Equal(t, "Painting of rolling hills under a cloudy sky", store.captions[art.ID])
}

func TestCaptionStage_EmptyCaptionFails(t *testing.T) {
	art := core.Artwork{ID: core.IDFromObjectID(7), ObjectID: 7, PrimaryImage: "https://images.example.org/7.jpg"}
	store := newMemoryStore([]core.Artwork{art})

	captioner := mock.NewMockCaptioner()
	captioner.CaptionImageFunc = func(context.Context, string) (string, error) {
		return `"there is a"`, nil
	}

	stage, err := NewCaptionStage(store, captioner, nil)
	require.NoError(t, err)

	stats, err := stage.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Processed: 1, Succeeded: 0, Failed: 1}, stats,
		"a caption that cleans to nothing must not be persisted")
	assert.Empty(t, store.captions)
}

func TestSummaryStage(t *testing.T) {
	arts := []core.Artwork{
		{
			ID:           core.IDFromObjectID(1),
			ObjectID:     1,
			Title:        "The Harvesters",
			Artist:       "Pieter Bruegel the Elder",
			ImageCaption: "Field workers resting beneath a tree",
		},
		{
			ID:           core.IDFromObjectID(2),
			ObjectID:     2,
			Title:        "Juan de Pareja",
			Artist:       "Velázquez",
			ImageCaption: "A portrait of a man in a lace collar",
		},
	}
	store := newMemoryStore(arts)

	var gotContexts []ai.ArtworkContext
	summarizer := mock.NewMockSummarizer()
	summarizer.SummarizeFunc = func(_ context.Context, art ai.ArtworkContext) (string, error) {
		gotContexts = append(gotContexts, art)
		return "Summary: A superb example of its school.", nil
	}

	stage, err := NewSummaryStage(store, summarizer, nil)
	require.NoError(t, err)
	assert.Equal(t, "summarize", stage.Name())

	stats, err := stage.Run(context.Background(), DefaultSummaryLimit)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Processed: 2, Succeeded: 2, Failed: 0}, stats)

	require.Len(t, gotContexts, 2)
	assert.Equal(t, "Field workers resting beneath a tree", gotContexts[0].ImageCaption)
	assert.Equal(t, "Pieter Bruegel the Elder", gotContexts[0].Artist)

	// The model's label prefix must not survive into storage.
	assert.Equal(t, "A superb example of its school.", store.summaries[arts[0].ID])
}

func TestEmbeddingStage(t *testing.T) {
	art := core.Artwork{
		ID:               core.IDFromObjectID(9),
		ObjectID:         9,
		EmbeddingSummary: "A dramatic seascape in oil.",
	}
	store := newMemoryStore([]core.Artwork{art})
	embedder := mock.NewMockEmbedder()

	stage, err := NewEmbeddingStage(store, embedder, nil)
	require.NoError(t, err)
	assert.Equal(t, "embed", stage.Name())

	before := time.Now().UTC()
	stats, err := stage.Run(context.Background(), DefaultEmbeddingLimit)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Processed: 1, Succeeded: 1, Failed: 0}, stats)

	vector, ok := store.embeddings[art.ID]
	require.True(t, ok, "embedding should be persisted")
	assert.Len(t, vector, embedder.Dimensions())

	processedAt, ok := store.processed[art.ID]
	require.True(t, ok)
	assert.False(t, processedAt.Before(before), "processed timestamp should be set at persist time")
}

func TestEmbeddingStage_DimensionMismatchFails(t *testing.T) {
	art := core.Artwork{
		ID:               core.IDFromObjectID(11),
		ObjectID:         11,
		EmbeddingSummary: "A gilded altarpiece.",
	}
	store := newMemoryStore([]core.Artwork{art})

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return []float32{1, 2, 3}, nil
	}

	stage, err := NewEmbeddingStage(store, embedder, nil)
	require.NoError(t, err)

	stats, err := stage.Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, RunStats{Processed: 1, Succeeded: 0, Failed: 1}, stats,
		"a short vector must never reach the database")
	assert.Empty(t, store.embeddings)
}
