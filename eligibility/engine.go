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

// Package eligibility evaluates scheme rule sets against citizen profiles.
//
// Each criterion yields a three-valued verdict: SATISFIED, FAILED, or
// UNKNOWN when the profile lacks the field or its value cannot be compared.
// The aggregate label folds the verdicts of required criteria under the
// severity order FAILED > UNKNOWN > SATISFIED, so a definite disqualification
// is never softened to insufficient information. Advisory criteria are
// always reported in the trace but never change the label.
package eligibility

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
)

// Engine evaluates rule sets. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default().With("component", "eligibility"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Evaluate produces the verdict trace and aggregate label for one rule set.
// It never fails: comparison problems become UNKNOWN verdicts.
func (e *Engine) Evaluate(rs *rules.RuleSet, profile core.UserProfile) core.EvaluationResult {
	result := core.EvaluationResult{
		SchemeID: rs.SchemeID,
		Verdicts: make([]core.CriterionVerdict, 0, len(rs.Criteria)),
	}

	missing := make(map[string]bool)
	for _, c := range rs.Criteria {
		v := e.evaluateCriterion(c, profile)
		if v.Verdict == core.VerdictUnknown && v.Actual == nil {
			missing[c.Rule.Field] = true
		}
		result.Verdicts = append(result.Verdicts, v)
	}

	result.Label = Aggregate(result.Verdicts)
	result.MissingFields = make([]string, 0, len(missing))
	for field := range missing {
		result.MissingFields = append(result.MissingFields, field)
	}
	slices.Sort(result.MissingFields)
	result.Explanation = Explain(result.Verdicts)
	return result
}

func (e *Engine) evaluateCriterion(c *rules.Criterion, profile core.UserProfile) core.CriterionVerdict {
	v := core.CriterionVerdict{
		CriterionID: c.Id,
		Field:       c.Rule.Field,
		Operator:    c.Rule.Operator.String(),
		Expected:    c.Rule.Value,
		Required:    c.Rule.Required,
		Description: c.Description,
		Provenance:  slices.Clone(c.Provenance),
	}

	actual, known := profile.Lookup(c.Rule.Field)
	if !known {
		v.Verdict = core.VerdictUnknown
		v.Reason = "field not provided"
		return v
	}
	v.Actual = actual

	ok, err := apply(c.Rule, actual)
	if err != nil {
		var mismatch *TypeMismatchError
		if errors.As(err, &mismatch) {
			e.logger.Debug("criterion value not comparable", "criterion", c.Id, "err", err)
		} else {
			e.logger.Warn("criterion could not be evaluated", "criterion", c.Id, "err", err)
		}
		v.Verdict = core.VerdictUnknown
		v.Reason = err.Error()
		return v
	}

	if ok {
		v.Verdict = core.VerdictSatisfied
	} else {
		v.Verdict = core.VerdictFailed
	}
	return v
}

// Aggregate folds the verdicts of required criteria into a label.
// Advisory verdicts are ignored. An empty set of required criteria is ELIGIBLE.
func Aggregate(verdicts []core.CriterionVerdict) core.Label {
	worst := core.VerdictSatisfied
	for _, v := range verdicts {
		if v.Required {
			worst = core.Worst(worst, v.Verdict)
		}
	}
	return core.LabelFor(worst)
}
