package preflight

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/curio/ai"
	"github.com/poiesic/curio/ai/mock"
	"github.com/poiesic/curio/storage"
)

// fakeStorage scripts the storage answers per check.
type fakeStorage struct {
	pingErr      error
	installed    bool
	installedErr error
	dims         int
	dimsErr      error
	counts       storage.EnrichmentCounts
	countsErr    error
}

func (f *fakeStorage) Ping(context.Context) error { return f.pingErr }

func (f *fakeStorage) VectorExtensionInstalled(context.Context) (bool, error) {
	return f.installed, f.installedErr
}

func (f *fakeStorage) EmbeddingColumnDimensions(context.Context) (int, error) {
	return f.dims, f.dimsErr
}

func (f *fakeStorage) EnrichmentCounts(context.Context) (storage.EnrichmentCounts, error) {
	return f.counts, f.countsErr
}

func healthyStorage() *fakeStorage {
	return &fakeStorage{
		installed: true,
		dims:      8,
		counts: storage.EnrichmentCounts{
			Total:          100,
			PendingCaption: 10,
			PendingSummary: 5,
			Embedded:       85,
		},
	}
}

func testConfig() *ai.Config {
	config := ai.DefaultConfig()
	config.EmbeddingAPIKey = "sk-test-1234567890abcdef"
	config.EmbeddingDimensions = 8
	return config
}

func resultByName(t *testing.T, results []Result, name string) Result {
	t.Helper()
	for _, res := range results {
		if res.Name == name {
			return res
		}
	}
	t.Fatalf("no result named %q", name)
	return Result{}
}

func TestVerifier_AllHealthy(t *testing.T) {
	verifier := NewVerifier(testConfig(), healthyStorage(), mock.NewMockEmbedder())

	results := verifier.Run(context.Background())
	require.Len(t, results, 5)
	assert.True(t, AllPassed(results))

	for _, res := range results {
		assert.True(t, res.Passed, "check %s should pass: %s", res.Name, res.Detail)
		assert.NotEmpty(t, res.Detail)
	}

	catalog := resultByName(t, results, "catalog")
	assert.Contains(t, catalog.Detail, "100 artworks")
	assert.Contains(t, catalog.Detail, "10 await caption")
}

func TestVerifier_ChecksRunDespiteFailures(t *testing.T) {
	store := healthyStorage()
	store.pingErr = errors.New("connection refused")

	verifier := NewVerifier(testConfig(), store, mock.NewMockEmbedder())

	results := verifier.Run(context.Background())
	require.Len(t, results, 5, "a failed check must not short-circuit the rest")
	assert.False(t, AllPassed(results))
	assert.False(t, resultByName(t, results, "database").Passed)
	assert.True(t, resultByName(t, results, "pgvector schema").Passed)
}

func TestVerifier_InvalidConfig(t *testing.T) {
	config := testConfig()
	config.EmbeddingModel = ""

	verifier := NewVerifier(config, healthyStorage(), mock.NewMockEmbedder())

	results := verifier.Run(context.Background())
	res := resultByName(t, results, "configuration")
	assert.False(t, res.Passed)
	assert.NotEmpty(t, res.Detail)
}

func TestVerifier_MasksAPIKey(t *testing.T) {
	verifier := NewVerifier(testConfig(), healthyStorage(), mock.NewMockEmbedder())

	results := verifier.Run(context.Background())
	res := resultByName(t, results, "configuration")
	assert.NotContains(t, res.Detail, "sk-test-1234567890abcdef", "raw key must never surface")
	assert.Contains(t, res.Detail, "90abcdef", "key tail identifies which key is loaded")
}

func TestVerifier_VectorSchema(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*fakeStorage)
		passed   bool
		contains string
	}{
		{
			name:     "extension missing",
			mutate:   func(s *fakeStorage) { s.installed = false },
			passed:   false,
			contains: "extension not installed",
		},
		{
			name:     "column missing",
			mutate:   func(s *fakeStorage) { s.dimsErr = storage.ErrNoEmbeddingColumn },
			passed:   false,
			contains: "column not found",
		},
		{
			name:     "dimension mismatch",
			mutate:   func(s *fakeStorage) { s.dims = 1536 },
			passed:   false,
			contains: "vector(1536)",
		},
		{
			name:     "unconstrained column",
			mutate:   func(s *fakeStorage) { s.dims = 0 },
			passed:   true,
			contains: "unconstrained",
		},
		{
			name:     "matching dimensions",
			mutate:   func(*fakeStorage) {},
			passed:   true,
			contains: "vector(8)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := healthyStorage()
			tt.mutate(store)

			verifier := NewVerifier(testConfig(), store, mock.NewMockEmbedder())
			res := resultByName(t, verifier.Run(context.Background()), "pgvector schema")

			assert.Equal(t, tt.passed, res.Passed)
			assert.Contains(t, res.Detail, tt.contains)
		})
	}
}

func TestVerifier_EmptyCatalogFails(t *testing.T) {
	store := healthyStorage()
	store.counts = storage.EnrichmentCounts{}

	verifier := NewVerifier(testConfig(), store, mock.NewMockEmbedder())

	res := resultByName(t, verifier.Run(context.Background()), "catalog")
	assert.False(t, res.Passed)
	assert.Contains(t, res.Detail, "dataset load")
}

func TestVerifier_EmbedderProbe(t *testing.T) {
	t.Run("probe error", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return nil, errors.New("401 unauthorized")
		}

		verifier := NewVerifier(testConfig(), healthyStorage(), embedder)
		res := resultByName(t, verifier.Run(context.Background()), "embedding model")
		assert.False(t, res.Passed)
		assert.Contains(t, res.Detail, "401")
	})

	t.Run("dimension drift", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
			return []float32{1, 2, 3}, nil
		}

		verifier := NewVerifier(testConfig(), healthyStorage(), embedder)
		res := resultByName(t, verifier.Run(context.Background()), "embedding model")
		assert.False(t, res.Passed)
		assert.Contains(t, res.Detail, "3 dims")
	})
}

func TestAllPassed_Empty(t *testing.T) {
	assert.False(t, AllPassed(nil), "no checks is not a passing state")
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("none"))
	assert.Equal(t, "************90abcdef", maskKey("sk-test-1234567890abcdef"))
	assert.Equal(t, "", maskKey(""))
}
