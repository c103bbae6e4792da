package rules

import "errors"

var (
	// ErrInvalidCriterion indicates a Criterion failed validation.
	ErrInvalidCriterion = errors.New("invalid criterion")

	// ErrUnknownOperator indicates an operator symbol outside the supported set.
	ErrUnknownOperator = errors.New("unknown operator")

	// ErrEmptyField indicates a rule does not name a profile field.
	ErrEmptyField = errors.New("rule field cannot be empty")

	// ErrNotASet indicates a membership rule whose value is not a set literal.
	ErrNotASet = errors.New("membership rule value must be a set")
)
