package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "http://localhost:11434", cfg.VisionHost)
	assert.Equal(t, "http://localhost:11434", cfg.LLMHost)
	assert.Equal(t, "llava", cfg.VisionModel)
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "text-embedding-3-large", cfg.EmbeddingModel)
	assert.Equal(t, 3072, cfg.EmbeddingDimensions)
	assert.Equal(t, 15*time.Second, cfg.DownloadTimeout)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()

		assert.NotNil(t, cfg)
		// Should have default values
		assert.Equal(t, "http://localhost:11434", cfg.VisionHost)
		assert.Equal(t, 3072, cfg.EmbeddingDimensions)
	})

	t.Run("with shared ollama host", func(t *testing.T) {
		cfg := NewConfig(WithOllamaHost("http://gpu-box:11434"))

		assert.Equal(t, "http://gpu-box:11434", cfg.VisionHost)
		assert.Equal(t, "http://gpu-box:11434", cfg.LLMHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithVisionHost("http://vision:11434"),
			WithLLMHost("http://text:11434"),
			WithEmbeddingHost("http://embed:8080/v1"),
		)

		assert.Equal(t, "http://vision:11434", cfg.VisionHost)
		assert.Equal(t, "http://text:11434", cfg.LLMHost)
		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
	})

	t.Run("with custom models", func(t *testing.T) {
		cfg := NewConfig(
			WithVisionModel("llama3.2-vision"),
			WithLLMModel("qwen2.5:3b"),
			WithEmbeddingModel("text-embedding-3-small"),
			WithEmbeddingDimensions(1536),
		)

		assert.Equal(t, "llama3.2-vision", cfg.VisionModel)
		assert.Equal(t, "qwen2.5:3b", cfg.LLMModel)
		assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
		assert.Equal(t, 1536, cfg.EmbeddingDimensions)
	})

	t.Run("with custom timeouts", func(t *testing.T) {
		cfg := NewConfig(
			WithDownloadTimeout(5*time.Second),
			WithRequestTimeout(30*time.Second),
		)

		assert.Equal(t, 5*time.Second, cfg.DownloadTimeout)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})

	t.Run("with api key", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingAPIKey("sk-test"))

		assert.Equal(t, "sk-test", cfg.EmbeddingAPIKey)
	})
}

func TestConfig_Normalize(t *testing.T) {
	t.Run("adds v1 suffix to embedding host", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:8080"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
	})

	t.Run("strips trailing slash before adding v1", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:8080/"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
	})

	t.Run("leaves v1 suffix alone", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("https://api.openai.com/v1"))
		cfg.Normalize()

		assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	})

	t.Run("ollama hosts keep bare form", func(t *testing.T) {
		cfg := NewConfig(WithOllamaHost("http://localhost:11434/"))
		cfg.Normalize()

		assert.Equal(t, "http://localhost:11434", cfg.VisionHost)
		assert.Equal(t, "http://localhost:11434", cfg.LLMHost)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		require.NoError(t, NewConfig().Validate())
	})

	t.Run("missing fields fail", func(t *testing.T) {
		tests := []struct {
			name string
			opt  ConfigOption
		}{
			{"vision host", WithVisionHost("")},
			{"vision model", WithVisionModel("")},
			{"llm host", WithLLMHost("")},
			{"llm model", WithLLMModel("")},
			{"embedding host", WithEmbeddingHost("")},
			{"embedding model", WithEmbeddingModel("")},
			{"embedding api key", WithEmbeddingAPIKey("")},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cfg := NewConfig(tt.opt)
				assert.Error(t, cfg.Validate())
			})
		}
	})

	t.Run("non-positive dimensions fail", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingDimensions(0))
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive timeouts fail", func(t *testing.T) {
		assert.Error(t, NewConfig(WithDownloadTimeout(0)).Validate())
		assert.Error(t, NewConfig(WithRequestTimeout(-1)).Validate())
	})

	t.Run("validate normalizes", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingHost("http://localhost:8080"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:8080/v1", cfg.EmbeddingHost)
	})
}
