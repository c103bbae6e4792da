package rules

import (
	"fmt"

	"github.com/poiesic/yojana/core"
)

// ValidateCriterion validates a Criterion at ingestion time.
//
// Validation rules:
//   - ID and SchemeID must not be empty
//   - Field must not be empty
//   - Operator must be declared
//   - membership operators must carry a set literal
//   - at least one provenance reference, each naming a document
func ValidateCriterion(c *Criterion) error {
	if c == nil {
		return fmt.Errorf("%w: criterion is nil", ErrInvalidCriterion)
	}
	if c.Id == "" || c.SchemeID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCriterion, core.ErrEmptyID)
	}
	if c.Rule.Field == "" {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCriterion, c.Id, ErrEmptyField)
	}
	if !c.Rule.Operator.Valid() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCriterion, c.Id, ErrUnknownOperator)
	}
	if c.Rule.Operator.IsMembership() {
		if _, ok := c.Rule.Value.([]any); !ok {
			return fmt.Errorf("%w: %s: %w", ErrInvalidCriterion, c.Id, ErrNotASet)
		}
	}
	if len(c.Provenance) == 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidCriterion, c.Id, core.ErrMissingProvenance)
	}
	for _, p := range c.Provenance {
		if err := core.ValidateProvenance(p); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidCriterion, c.Id, err)
		}
	}
	return nil
}
