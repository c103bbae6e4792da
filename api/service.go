package api

import (
	"context"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/snapshot"
)

// Service answers eligibility questions against a live snapshot.
// *yojana.Database implements it.
type Service interface {
	Answer(ctx context.Context, profile core.UserProfile, question string) ([]core.EvaluationResult, error)
	AnswerTopK(ctx context.Context, profile core.UserProfile, question string, topK int) ([]core.EvaluationResult, error)
	Reload(ctx context.Context) (*snapshot.Snapshot, error)
	Snapshot() (*snapshot.Snapshot, error)
}
