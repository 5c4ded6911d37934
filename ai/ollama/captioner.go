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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/poiesic/curio/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// maxImageBytes caps image downloads. Museum scans run large but anything
// past this is not worth shipping to a vision model.
const maxImageBytes = 20 << 20

// captionMaxTokens keeps captions to one or two short sentences.
const captionMaxTokens = 60

// ErrNoImageURL is returned when an artwork reaches the captioner without
// a primary image URL.
var ErrNoImageURL = errors.New("no image url provided")

// Captioner implements ai.Captioner using an Ollama-compatible vision model.
// It downloads the artwork image itself so the model host never needs
// outbound network access.
type Captioner struct {
	llm      *ollama.LLM
	download *http.Client
	logger   *slog.Logger
}

// newCaptioner is an internal constructor that returns the concrete type.
func newCaptioner(config *ai.Config) (*Captioner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := ollama.New(
		ollama.WithServerURL(config.VisionHost),
		ollama.WithModel(config.VisionModel),
		ollama.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
	)
	if err != nil {
		return nil, err
	}

	return &Captioner{
		llm: llm,
		// The download timeout stays shorter than the generation timeout
		// so a dead image host fails fast.
		download: &http.Client{Timeout: config.DownloadTimeout},
		logger:   slog.Default().With("component", "ollama-captioner"),
	}, nil
}

// NewCaptioner creates a new image captioner using the provided configuration.
//
// Returns ai.Captioner interface to enforce abstraction.
func NewCaptioner(config *ai.Config) (ai.Captioner, error) {
	return newCaptioner(config)
}

// CaptionImage downloads the image and asks the vision model for a short
// literal description of it.
func (c *Captioner) CaptionImage(ctx context.Context, imageURL string) (string, error) {
	if strings.TrimSpace(imageURL) == "" {
		return "", ErrNoImageURL
	}

	data, mimeType, err := c.downloadImage(ctx, imageURL)
	if err != nil {
		return "", err
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, data),
				llms.TextPart(captionInstruction),
			},
		},
	}

	response, err := c.llm.GenerateContent(ctx, content,
		llms.WithMaxTokens(captionMaxTokens),
		llms.WithTemperature(0.2),
	)
	if err != nil {
		c.logger.Error("failed to generate caption", "url", imageURL, "err", err)
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("caption: %w", ai.ErrEmptyResponse)
	}

	caption := strings.TrimSpace(response.Choices[0].Content)
	if caption == "" {
		return "", fmt.Errorf("caption: %w", ai.ErrEmptyResponse)
	}

	c.logger.Debug("generated caption", "url", imageURL, "length", len(caption))
	return caption, nil
}

// downloadImage fetches the artwork image and verifies it actually is one.
func (c *Captioner) downloadImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("image request: %w", err)
	}

	resp, err := c.download.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("image download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image download: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("image download: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, "", fmt.Errorf("image download: body exceeds %d bytes", maxImageBytes)
	}
	if len(data) == 0 {
		return nil, "", errors.New("image download: empty body")
	}

	mimeType := resp.Header.Get("Content-Type")
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("image download: not an image (%s)", mimeType)
	}

	return data, mimeType, nil
}
