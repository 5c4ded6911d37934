package ai

import "context"

// Captioner produces a short literal description of an artwork image.
// Implementations must be thread-safe for concurrent use.
type Captioner interface {
	// CaptionImage fetches the image at the given URL and generates a
	// one-or-two sentence visual description of it.
	// Returns an error if the image cannot be fetched or captioned.
	CaptionImage(ctx context.Context, imageURL string) (string, error)
}

// Summarizer turns an artwork's caption and catalog metadata into
// curatorial prose suitable for embedding.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// Summarize generates a 2-3 sentence museum-quality summary from the
	// structured artwork context. Only fields with real values should
	// influence the output; placeholder values are omitted upstream.
	Summarize(ctx context.Context, art ArtworkContext) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the vector length this embedder is configured to
	// produce. Callers use it to enforce the dimensionality contract.
	Dimensions() int
}
