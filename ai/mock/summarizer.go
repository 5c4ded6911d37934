package mock

import (
	"context"

	"github.com/poiesic/curio/ai"
)

// MockSummarizer is a test double for ai.Summarizer.
// It allows custom behavior injection via function fields.
type MockSummarizer struct {
	// SummarizeFunc is called by Summarize if set.
	// If nil, a caption-derived fixed summary is returned.
	SummarizeFunc func(ctx context.Context, art ai.ArtworkContext) (string, error)

	callCount int
}

// NewMockSummarizer creates a mock summarizer with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockSummarizer() *MockSummarizer {
	return &MockSummarizer{}
}

// Summarize returns the injected summary or a fixed default built from the caption.
func (m *MockSummarizer) Summarize(ctx context.Context, art ai.ArtworkContext) (string, error) {
	m.callCount++

	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, art)
	}

	return "This work, showing " + art.ImageCaption + ", exemplifies its period.", nil
}

// CallCount returns the number of times Summarize was called.
func (m *MockSummarizer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockSummarizer) Reset() {
	m.callCount = 0
	m.SummarizeFunc = nil
}
