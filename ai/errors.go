package ai

import "errors"

var (
	// ErrEmbeddingUnavailable wraps any failure to embed a question at request time.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmptyEmbedding is returned when the service returns no vector for a text.
	ErrEmptyEmbedding = errors.New("empty embedding")

	// ErrInvalidEmbedding is returned for vectors with NaN or infinite
	// components, or with zero length.
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// ErrEmbeddingCountMismatch is returned when a batch call returns a
	// different number of vectors than texts.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
