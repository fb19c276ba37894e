package embed

import "context"

// Embedder generates vector embeddings for batches of text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedTexts generates vector embeddings for the given texts in a single
	// request. The returned slice contains exactly one vector per input, in
	// input order; implementations must return an error rather than truncate
	// or pad a short response.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
