// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/index"
	"github.com/poiesic/yojana/rules"
	"github.com/poiesic/yojana/snapshot"
)

// DefaultEvidenceLimit is the number of evidence chunks returned per scheme.
const DefaultEvidenceLimit = 5

// Evaluator turns a rule set and a profile into an evaluation result.
// *eligibility.Engine is the production implementation.
type Evaluator interface {
	Evaluate(rs *rules.RuleSet, profile core.UserProfile) core.EvaluationResult
}

// Orchestrator runs the hybrid retrieval pipeline.
type Orchestrator struct {
	evaluator     Evaluator
	pool          *ants.Pool
	evidenceLimit int
	monitor       AnswerMonitor
	logger        *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithEvidenceLimit sets how many evidence chunks are attached to each result.
// Default is DefaultEvidenceLimit. Negative values are treated as zero.
func WithEvidenceLimit(n int) Option {
	return func(o *Orchestrator) error {
		if n < 0 {
			n = 0
		}
		o.evidenceLimit = n
		return nil
	}
}

// WithPoolSize sets the number of candidates evaluated concurrently.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		if size < 1 {
			size = 1
		}
		if o.pool != nil {
			o.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		o.pool = pool
		return nil
	}
}

// WithMonitor installs hooks that observe every Answer call.
func WithMonitor(monitor AnswerMonitor) Option {
	return func(o *Orchestrator) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		o.monitor = monitor
		return nil
	}
}

// NewOrchestrator creates an Orchestrator. Call Release when done with it.
func NewOrchestrator(evaluator Evaluator, opts ...Option) (*Orchestrator, error) {
	if evaluator == nil {
		return nil, ErrEvaluatorRequired
	}

	poolSize := runtime.NumCPU()
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		evaluator:     evaluator,
		pool:          pool,
		evidenceLimit: DefaultEvidenceLimit,
		monitor:       &noopMonitor{},
		logger:        slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if optErr := opt(o); optErr != nil {
			o.Release()
			return nil, optErr
		}
	}

	return o, nil
}

// Release releases the worker pool.
// The orchestrator should not be used after calling Release.
func (o *Orchestrator) Release() {
	if o.pool != nil {
		o.pool.Release()
	}
}

// Answer evaluates every scheme that applies to the profile's jurisdiction
// and returns one ranked result per candidate, using the configured
// evidence limit.
func (o *Orchestrator) Answer(ctx context.Context, snap *snapshot.Snapshot, profile core.UserProfile, question []float32) ([]core.EvaluationResult, error) {
	return o.AnswerTopK(ctx, snap, profile, question, o.evidenceLimit)
}

// AnswerTopK is Answer with a per-request evidence limit.
// A topK of zero or less attaches no evidence.
func (o *Orchestrator) AnswerTopK(ctx context.Context, snap *snapshot.Snapshot, profile core.UserProfile, question []float32, topK int) ([]core.EvaluationResult, error) {
	if snap == nil {
		return nil, snapshot.ErrNoSnapshot
	}
	if isZero(question) {
		return nil, ErrEmptyQuery
	}
	if snap.Index.Len() > 0 && len(question) != snap.Index.Dimension() {
		return nil, fmt.Errorf("%w: question has %d dimensions, index has %d",
			index.ErrDimensionMismatch, len(question), snap.Index.Dimension())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o.monitor.Start(profile)

	// 1. Structural shortlist
	tokens := []string{core.UniversalJurisdiction}
	if state := profile.Jurisdiction(); state != "" && state != core.UniversalJurisdiction {
		tokens = append(tokens, state)
	}
	candidates := snap.Graph.SchemesApplyingIn(tokens...)
	ids := make([]core.ID, len(candidates))
	for i, s := range candidates {
		ids[i] = s.Id
	}
	o.monitor.AfterShortlist(ids)
	o.logger.Debug("shortlisted schemes", "jurisdictions", tokens, "candidates", len(candidates))

	if len(candidates) == 0 {
		results := []core.EvaluationResult{}
		o.monitor.Finish(results)
		return results, nil
	}

	// 2. Evaluate and gather evidence per candidate
	results := make([]core.EvaluationResult, len(candidates))
	var wg sync.WaitGroup
	for i, scheme := range candidates {
		wg.Add(1)
		err := o.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results[i] = o.evaluateCandidate(snap, scheme, profile, question, topK)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			o.logger.Error("error submitting candidate", "scheme", scheme.Id, "err", err)
			return nil, err
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Rank
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Label != results[j].Label {
			return results[i].Label < results[j].Label
		}
		return results[i].TopScore() > results[j].TopScore()
	})
	o.monitor.Finish(results)

	return results, nil
}

// evaluateCandidate never panics; a fault degrades only this candidate.
func (o *Orchestrator) evaluateCandidate(snap *snapshot.Snapshot, scheme *core.Scheme, profile core.UserProfile, question []float32, topK int) (result core.EvaluationResult) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("candidate evaluation panicked", "scheme", scheme.Id, "panic", r)
			o.monitor.CandidateFailed(scheme.Id, r)
			result = degraded(scheme, fmt.Sprintf("evaluation fault: %v", r))
		}
	}()

	rs, err := snap.Graph.RuleSet(scheme.Id)
	if err != nil {
		o.logger.Error("error loading rule set", "scheme", scheme.Id, "err", err)
		o.monitor.CandidateFailed(scheme.Id, err)
		return degraded(scheme, err.Error())
	}

	result = o.evaluator.Evaluate(rs, profile)
	result.SchemeID = scheme.Id
	result.SchemeName = scheme.Name

	filter := index.DocumentFilter(snap.Graph.CitedDocuments(scheme.Id)...)
	evidence, err := snap.Index.Search(question, topK, filter)
	if err != nil {
		o.logger.Warn("error searching evidence", "scheme", scheme.Id, "err", err)
		evidence = []core.ScoredChunk{}
	}
	result.Evidence = evidence

	o.monitor.CandidateEvaluated(&result)
	return result
}

func degraded(scheme *core.Scheme, reason string) core.EvaluationResult {
	return core.EvaluationResult{
		SchemeID:      scheme.Id,
		SchemeName:    scheme.Name,
		Label:         core.LabelInsufficientInfo,
		Verdicts:      []core.CriterionVerdict{},
		MissingFields: []string{},
		Evidence:      []core.ScoredChunk{},
		Explanation:   reason,
	}
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
