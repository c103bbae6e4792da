package retrieval

import "errors"

var (
	// ErrEmptyQuery is returned when the question vector is empty or all zeros.
	ErrEmptyQuery = errors.New("empty query")

	// ErrEvaluatorRequired is returned when an evaluator is not provided.
	ErrEvaluatorRequired = errors.New("evaluator required")
)
