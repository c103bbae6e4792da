package eligibility

import (
	"errors"
	"fmt"
)

var (
	// ErrTypeMismatch is the sentinel wrapped by every TypeMismatchError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnsupportedOperator indicates a criterion whose operator the engine cannot apply.
	ErrUnsupportedOperator = errors.New("unsupported operator")
)

// TypeMismatchError reports a profile or criterion value that cannot be
// coerced to what the operator needs. The engine turns it into an UNKNOWN
// verdict; it never reaches callers of Evaluate.
type TypeMismatchError struct {
	Field    string
	Operator string
	Value    any
	Want     string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: field %q operator %s: cannot use %v (%T) as %s",
		ErrTypeMismatch, e.Field, e.Operator, e.Value, e.Value, e.Want)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}
