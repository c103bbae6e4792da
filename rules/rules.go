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

// Package rules holds the immutable eligibility rule model.
//
// The types here describe conditions; they do not evaluate them. Evaluation
// lives in the eligibility package so that new operators can be interpreted
// without touching how rules are stored or loaded.
package rules

import (
	"github.com/poiesic/yojana/core"
)

// Operator is a comparison between a profile value and a criterion value.
type Operator int

const (
	OpEq Operator = iota + 1
	OpNe
	OpGte
	OpLte
	OpGt
	OpLt
	OpIn
	OpNotIn
)

var operatorSymbols = map[Operator]string{
	OpEq:    "==",
	OpNe:    "!=",
	OpGte:   ">=",
	OpLte:   "<=",
	OpGt:    ">",
	OpLt:    "<",
	OpIn:    "in",
	OpNotIn: "not_in",
}

func (o Operator) String() string {
	if s, ok := operatorSymbols[o]; ok {
		return s
	}
	return "?"
}

// Valid reports whether o is a declared operator.
func (o Operator) Valid() bool {
	_, ok := operatorSymbols[o]
	return ok
}

// IsOrdering reports whether o compares magnitudes and so needs numeric operands.
func (o Operator) IsOrdering() bool {
	switch o {
	case OpGte, OpLte, OpGt, OpLt:
		return true
	}
	return false
}

// IsMembership reports whether o expects a set literal as its value.
func (o Operator) IsMembership() bool {
	return o == OpIn || o == OpNotIn
}

// ParseOperator maps a symbol such as ">=" or "not_in" to its Operator.
func ParseOperator(symbol string) (Operator, error) {
	for op, s := range operatorSymbols {
		if s == symbol {
			return op, nil
		}
	}
	return 0, ErrUnknownOperator
}

// AtomicRule is one comparison of a profile field against a fixed value,
// e.g. income <= 250000 or category in [SC, ST].
type AtomicRule struct {
	Field    string
	Operator Operator
	Value    any // a []any set literal for membership operators
	Required bool
}

// Criterion wraps an AtomicRule with its identity and source citations.
type Criterion struct {
	Id          core.ID
	SchemeID    core.ID
	Rule        AtomicRule
	Description string
	Provenance  []core.Provenance
}

func (c *Criterion) NodeID() core.ID     { return c.Id }
func (c *Criterion) Kind() core.NodeKind { return core.NodeKindCriterion }

// RuleSet is the ordered list of a scheme's criteria.
type RuleSet struct {
	SchemeID core.ID
	Criteria []*Criterion
}

// Required returns the criteria that gate the aggregate label, in order.
func (rs *RuleSet) Required() []*Criterion {
	out := make([]*Criterion, 0, len(rs.Criteria))
	for _, c := range rs.Criteria {
		if c.Rule.Required {
			out = append(out, c)
		}
	}
	return out
}

// Fields returns the distinct profile fields referenced by the rule set,
// in first-use order.
func (rs *RuleSet) Fields() []string {
	seen := make(map[string]bool, len(rs.Criteria))
	out := make([]string, 0, len(rs.Criteria))
	for _, c := range rs.Criteria {
		if !seen[c.Rule.Field] {
			seen[c.Rule.Field] = true
			out = append(out, c.Rule.Field)
		}
	}
	return out
}
