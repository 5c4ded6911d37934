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


package ai

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the three external transformer services.
type Config struct {
	// VisionHost is the base URL of the Ollama-compatible server used for
	// image captioning. Example: "http://localhost:11434"
	VisionHost string

	// VisionModel is the multimodal model identifier for captioning.
	// Example: "llava", "llama3.2-vision"
	VisionModel string

	// LLMHost is the base URL of the Ollama-compatible server used for
	// summary generation. Often the same server as VisionHost.
	LLMHost string

	// LLMModel is the text model identifier for summary generation.
	// Example: "llama3.1:8b", "qwen2.5:3b"
	LLMModel string

	// EmbeddingHost is the base URL of the OpenAI-compatible embeddings API.
	// Example: "https://api.openai.com/v1"
	EmbeddingHost string

	// EmbeddingModel is the model identifier for text embeddings.
	// Example: "text-embedding-3-large"
	EmbeddingModel string

	// EmbeddingAPIKey authenticates against the embeddings API.
	// Use "none" for local OpenAI-compatible services without auth.
	EmbeddingAPIKey string

	// EmbeddingDimensions is the vector length the embedding model must
	// produce. Responses of any other length are rejected.
	// Default: 3072 (text-embedding-3-large)
	EmbeddingDimensions int

	// DownloadTimeout bounds fetching an artwork image before captioning.
	// Kept shorter than RequestTimeout so a dead image host fails fast.
	DownloadTimeout time.Duration

	// RequestTimeout bounds a single generation or embedding call.
	RequestTimeout time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithVisionHost sets the captioning service host URL.
func WithVisionHost(host string) ConfigOption {
	return func(c *Config) {
		c.VisionHost = host
	}
}

// WithVisionModel sets the captioning model identifier.
func WithVisionModel(model string) ConfigOption {
	return func(c *Config) {
		c.VisionModel = model
	}
}

// WithLLMHost sets the summary service host URL.
func WithLLMHost(host string) ConfigOption {
	return func(c *Config) {
		c.LLMHost = host
	}
}

// WithLLMModel sets the summary model identifier.
func WithLLMModel(model string) ConfigOption {
	return func(c *Config) {
		c.LLMModel = model
	}
}

// WithOllamaHost sets both vision and LLM hosts to the same URL.
func WithOllamaHost(host string) ConfigOption {
	return func(c *Config) {
		c.VisionHost = host
		c.LLMHost = host
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithEmbeddingAPIKey sets the embeddings API key.
func WithEmbeddingAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingAPIKey = key
	}
}

// WithEmbeddingDimensions sets the required embedding vector length.
func WithEmbeddingDimensions(dims int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingDimensions = dims
	}
}

// WithDownloadTimeout sets the image download timeout.
func WithDownloadTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.DownloadTimeout = d
	}
}

// WithRequestTimeout sets the generation/embedding call timeout.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

// DefaultConfig returns a Config matching the reference deployment: a local
// Ollama server for vision and text generation, and the OpenAI embeddings
// API for vectors.
func DefaultConfig() *Config {
	return &Config{
		VisionHost:          "http://localhost:11434",
		VisionModel:         "llava",
		LLMHost:             "http://localhost:11434",
		LLMModel:            "llama3.1:8b",
		EmbeddingHost:       "https://api.openai.com/v1",
		EmbeddingModel:      "text-embedding-3-large",
		EmbeddingAPIKey:     "none",
		EmbeddingDimensions: 3072,
		DownloadTimeout:     15 * time.Second,
		RequestTimeout:      60 * time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithOllamaHost("http://gpu-box:11434"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	    WithEmbeddingDimensions(1536),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// The embedding host gets the /v1 suffix required by OpenAI-compatible APIs;
// Ollama hosts are used through the native API and keep their bare form.
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	c.VisionHost = strings.TrimSuffix(c.VisionHost, "/")
	c.LLMHost = strings.TrimSuffix(c.LLMHost, "/")
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.VisionHost == "" {
		return errors.New("ai config: VisionHost is required")
	}
	if c.VisionModel == "" {
		return errors.New("ai config: VisionModel is required")
	}
	if c.LLMHost == "" {
		return errors.New("ai config: LLMHost is required")
	}
	if c.LLMModel == "" {
		return errors.New("ai config: LLMModel is required")
	}
	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.EmbeddingAPIKey == "" {
		return errors.New("ai config: EmbeddingAPIKey is required")
	}
	if c.EmbeddingDimensions <= 0 {
		return errors.New("ai config: EmbeddingDimensions must be positive")
	}
	if c.DownloadTimeout <= 0 {
		return errors.New("ai config: DownloadTimeout must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("ai config: RequestTimeout must be positive")
	}
	return nil
}
