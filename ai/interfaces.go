package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The result must be deterministic for the same input text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Captioner produces a natural-language description of an image.
// Implementations must be thread-safe for concurrent use.
type Captioner interface {
	// Caption describes the given image bytes in natural language.
	// A failed upstream call returns an error; it is never swallowed here
	// because a record without a caption is degraded beyond use.
	Caption(ctx context.Context, image []byte) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Captioner instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Captioner returns the image captioning service.
	Captioner() Captioner

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
