package eligibility

import (
	"fmt"
	"strings"

	"github.com/poiesic/yojana/core"
)

// Explain renders a trace with the fixed template
// "<description> [ok|fail|unknown]", one entry per criterion joined by " | ".
func Explain(verdicts []core.CriterionVerdict) string {
	parts := make([]string, 0, len(verdicts))
	for _, v := range verdicts {
		parts = append(parts, fmt.Sprintf("%s [%s]", Describe(v), status(v.Verdict)))
	}
	return strings.Join(parts, " | ")
}

// Describe returns the criterion's published description, or a rendering of
// its rule when no description was extracted.
func Describe(v core.CriterionVerdict) string {
	if v.Description != "" {
		return v.Description
	}
	return fmt.Sprintf("%s %s %v", v.Field, v.Operator, v.Expected)
}

func status(v core.Verdict) string {
	switch v {
	case core.VerdictSatisfied:
		return "ok"
	case core.VerdictFailed:
		return "fail"
	default:
		return "unknown"
	}
}
