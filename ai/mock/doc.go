// Package mock provides test double implementations of AI service interfaces.
//
// MockEmbedder lets tests run without an embedding service and gives
// controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	embedder := mock.NewMockEmbedder()
//	vector, err := embedder.EmbedText(ctx, "test")
//
//	// Pin the vector for a known text
//	embedder := mock.NewMockEmbedder().WithVector("scholarships", 1, 0, 0, 0)
//
//	// Custom behavior injection
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return nil, errors.New("service unavailable")
//	}
//
//	// Check call counts
//	count := embedder.CallCount()
//
// # Default Behavior
//
// Unpinned texts map to deterministic unit vectors derived from an FNV hash
// of the text, so equal texts always embed identically.
package mock
