// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Captioner, ai.Summarizer,
// and ai.Embedder for use in unit tests. The mocks allow tests to run without
// external AI services and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	captioner := mock.NewMockCaptioner()
//	captioner.CaptionImageFunc = func(ctx context.Context, url string) (string, error) {
//	    return "", errors.New("vision service down")
//	}
//
//	// Check call counts
//	count := captioner.CallCount()
//
// # Default Behavior
//
//   - MockCaptioner: returns a fixed caption-model style sentence
//   - MockSummarizer: folds the caption into a fixed summary template
//   - MockEmbedder: returns deterministic vectors based on text hash
package mock
