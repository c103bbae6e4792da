package retrieval

import (
	"github.com/poiesic/yojana/core"
)

// AnswerMonitor provides hooks to observe an Answer call.
// CandidateEvaluated and CandidateFailed are called from worker goroutines,
// so implementations must be safe for concurrent use.
type AnswerMonitor interface {
	Start(profile core.UserProfile)
	AfterShortlist(schemeIDs []core.ID)
	CandidateEvaluated(result *core.EvaluationResult)
	CandidateFailed(schemeID core.ID, fault any)
	Finish(results []core.EvaluationResult)
}

// noopMonitor is a no-op implementation of AnswerMonitor
type noopMonitor struct{}

var _ AnswerMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.UserProfile)                    {}
func (n *noopMonitor) AfterShortlist(_ []core.ID)                  {}
func (n *noopMonitor) CandidateEvaluated(_ *core.EvaluationResult) {}
func (n *noopMonitor) CandidateFailed(_ core.ID, _ any)            {}
func (n *noopMonitor) Finish(_ []core.EvaluationResult)            {}
