package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/yojana/core"
)

// Answerer produces ranked determinations for a profile and question.
type Answerer interface {
	Answer(ctx context.Context, profile core.UserProfile, question string) ([]core.EvaluationResult, error)
}

// Run answers every gold profile and scores the predicted labels.
func Run(ctx context.Context, answerer Answerer, gold *GoldSet) (*Report, error) {
	if answerer == nil {
		return nil, ErrAnswererRequired
	}
	if gold == nil {
		return nil, fmt.Errorf("%w: nil gold set", ErrInvalidGold)
	}
	logger := slog.Default().With("component", "evaluation")

	var preds []Prediction
	for _, gp := range gold.Profiles {
		results, err := answerer.Answer(ctx, gp.Profile, gp.Question)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", gp.ID, err)
		}
		for _, r := range results {
			preds = append(preds, Prediction{ProfileID: gp.ID, SchemeID: r.SchemeID, Label: r.Label})
		}
		logger.Debug("profile answered", "profile", gp.ID, "schemes", len(results))
	}

	report := Score(preds, gold.Labels)
	logger.Info("evaluation complete", "scored", report.Total, "correct", report.Correct, "accuracy", report.Accuracy())
	return report, nil
}
