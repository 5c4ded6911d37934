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


package ollama

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poiesic/curio/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// summaryMaxTokens bounds generation; 2-3 sentences fit comfortably.
const summaryMaxTokens = 150

// Summarizer implements ai.Summarizer using an Ollama-compatible text model.
type Summarizer struct {
	llm    *ollama.LLM
	logger *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := ollama.New(
		ollama.WithServerURL(config.LLMHost),
		ollama.WithModel(config.LLMModel),
		ollama.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
	)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		llm:    llm,
		logger: slog.Default().With("component", "ollama-summarizer"),
	}, nil
}

// NewSummarizer creates a new summary generator using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// Summarize builds the curator prompt from the artwork context and generates
// a 2-3 sentence summary.
func (s *Summarizer) Summarize(ctx context.Context, art ai.ArtworkContext) (string, error) {
	prompt := buildSummaryPrompt(art)

	summary, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt,
		llms.WithMaxTokens(summaryMaxTokens),
	)
	if err != nil {
		s.logger.Error("failed to generate summary", "err", err)
		return "", err
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", fmt.Errorf("summarize: %w", ai.ErrEmptyResponse)
	}

	s.logger.Debug("generated summary", "length", len(summary))
	return summary, nil
}
