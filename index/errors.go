package index

import "errors"

var (
	// ErrDimensionMismatch indicates a vector whose length differs from the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrDuplicateChunk indicates a chunk ID that is already indexed.
	ErrDuplicateChunk = errors.New("duplicate chunk")
)
