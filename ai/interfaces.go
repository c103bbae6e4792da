package ai

import "context"

// Embedder turns text into vectors comparable with the chunk vectors stored
// in the semantic index. Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedText embeds one question or passage.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts embeds a batch. The result is index-aligned with texts; an
	// implementation that cannot embed every text returns an error rather
	// than a short slice.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
