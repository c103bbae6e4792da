package core

import "fmt"

// Verdict is the three-valued outcome of evaluating one criterion.
//
// Verdicts are totally ordered by severity: Satisfied < Unknown < Failed.
// Aggregating a set of verdicts takes the most severe one.
type Verdict int

const (
	VerdictSatisfied Verdict = iota
	VerdictUnknown
	VerdictFailed
)

func (v Verdict) String() string {
	switch v {
	case VerdictSatisfied:
		return "SATISFIED"
	case VerdictUnknown:
		return "UNKNOWN"
	case VerdictFailed:
		return "FAILED"
	default:
		return "INVALID"
	}
}

// MarshalText encodes the verdict as its name.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a verdict name.
func (v *Verdict) UnmarshalText(text []byte) error {
	for _, candidate := range []Verdict{VerdictSatisfied, VerdictUnknown, VerdictFailed} {
		if candidate.String() == string(text) {
			*v = candidate
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownVerdict, text)
}

// Worst returns the more severe of two verdicts.
func Worst(a, b Verdict) Verdict {
	if b > a {
		return b
	}
	return a
}

// Label is the aggregate eligibility determination for a scheme.
type Label int

const (
	LabelEligible Label = iota + 1
	LabelInsufficientInfo
	LabelNotEligible
)

func (l Label) String() string {
	switch l {
	case LabelEligible:
		return "ELIGIBLE"
	case LabelInsufficientInfo:
		return "INSUFFICIENT_INFO"
	case LabelNotEligible:
		return "NOT_ELIGIBLE"
	default:
		return "INVALID"
	}
}

// ParseLabel maps a label name such as "NOT_ELIGIBLE" to its Label.
func ParseLabel(name string) (Label, error) {
	for _, l := range []Label{LabelEligible, LabelInsufficientInfo, LabelNotEligible} {
		if l.String() == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
}

// MarshalText encodes the label as its name.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label name.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LabelFor maps the worst verdict over a scheme's required criteria to a label.
func LabelFor(worst Verdict) Label {
	switch worst {
	case VerdictFailed:
		return LabelNotEligible
	case VerdictUnknown:
		return LabelInsufficientInfo
	default:
		return LabelEligible
	}
}

// CriterionVerdict is one line of an evaluation trace.
type CriterionVerdict struct {
	CriterionID ID
	Field       string
	Operator    string
	Expected    any
	Actual      any // nil when the profile lacks the field
	Required    bool
	Description string
	Verdict     Verdict
	Reason      string // why the verdict is UNKNOWN, empty otherwise
	Provenance  []Provenance
}

// EvaluationResult is the determination for one scheme against one profile.
type EvaluationResult struct {
	SchemeID      ID
	SchemeName    string
	Label         Label
	Verdicts      []CriterionVerdict
	MissingFields []string
	Evidence      []ScoredChunk
	Explanation   string
}

// TopScore returns the best evidence similarity, or a negative value when
// the result has no evidence.
func (r *EvaluationResult) TopScore() float32 {
	if len(r.Evidence) == 0 {
		return -2
	}
	top := r.Evidence[0].Score
	for _, e := range r.Evidence[1:] {
		if e.Score > top {
			top = e.Score
		}
	}
	return top
}
