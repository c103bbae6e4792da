package evaluation

import (
	"github.com/poiesic/yojana/core"
)

// Prediction is one (profile, scheme) label, predicted or expected.
type Prediction struct {
	ProfileID string     `yaml:"profile"`
	SchemeID  core.ID    `yaml:"scheme"`
	Label     core.Label `yaml:"label"`
}

type pairKey struct {
	profile string
	scheme  core.ID
}

// Mismatch is a scored pair whose predicted label differs from the gold label.
type Mismatch struct {
	ProfileID string
	SchemeID  core.ID
	Predicted core.Label
	Expected  core.Label
}

// Report summarizes an accuracy run.
type Report struct {
	Total      int
	Correct    int
	Mismatches []Mismatch
}

// Accuracy returns Correct/Total, or 0 when nothing was scored.
func (r *Report) Accuracy() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Total)
}

// Score compares predictions with gold labels. Predictions without a gold
// label are skipped; when gold lists a pair twice the last entry wins.
func Score(preds, gold []Prediction) *Report {
	expected := make(map[pairKey]core.Label, len(gold))
	for _, g := range gold {
		expected[pairKey{g.ProfileID, g.SchemeID}] = g.Label
	}

	r := &Report{}
	for _, p := range preds {
		want, ok := expected[pairKey{p.ProfileID, p.SchemeID}]
		if !ok {
			continue
		}
		r.Total++
		if p.Label == want {
			r.Correct++
			continue
		}
		r.Mismatches = append(r.Mismatches, Mismatch{
			ProfileID: p.ProfileID,
			SchemeID:  p.SchemeID,
			Predicted: p.Label,
			Expected:  want,
		})
	}
	return r
}

// Accuracy is the fraction of gold-labelled predictions whose label matches.
func Accuracy(preds, gold []Prediction) float64 {
	return Score(preds, gold).Accuracy()
}
