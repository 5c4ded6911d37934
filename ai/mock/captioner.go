package mock

import "context"

// MockCaptioner is a test double for ai.Captioner.
// It allows custom behavior injection via function fields.
type MockCaptioner struct {
	// CaptionImageFunc is called by CaptionImage if set.
	// If nil, a fixed caption-model style sentence is returned.
	CaptionImageFunc func(ctx context.Context, imageURL string) (string, error)

	callCount int
}

// NewMockCaptioner creates a mock captioner with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockCaptioner() *MockCaptioner {
	return &MockCaptioner{}
}

// CaptionImage returns the injected caption or a fixed default.
func (m *MockCaptioner) CaptionImage(ctx context.Context, imageURL string) (string, error) {
	m.callCount++

	if m.CaptionImageFunc != nil {
		return m.CaptionImageFunc(ctx, imageURL)
	}

	return "there is a painting of rolling hills under a cloudy sky", nil
}

// CallCount returns the number of times CaptionImage was called.
func (m *MockCaptioner) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockCaptioner) Reset() {
	m.callCount = 0
	m.CaptionImageFunc = nil
}
