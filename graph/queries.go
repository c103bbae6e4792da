package graph

import (
	"fmt"
	"slices"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
)

// Scheme returns the scheme with the given ID.
func (s *Store) Scheme(id core.ID) (*core.Scheme, bool) {
	n, ok := s.Node(id)
	if !ok {
		return nil, false
	}
	scheme, ok := n.(*core.Scheme)
	return scheme, ok
}

// Criterion returns the criterion with the given ID.
func (s *Store) Criterion(id core.ID) (*rules.Criterion, bool) {
	n, ok := s.Node(id)
	if !ok {
		return nil, false
	}
	c, ok := n.(*rules.Criterion)
	return c, ok
}

// Benefit returns the benefit with the given ID.
func (s *Store) Benefit(id core.ID) (*core.Benefit, bool) {
	n, ok := s.Node(id)
	if !ok {
		return nil, false
	}
	b, ok := n.(*core.Benefit)
	return b, ok
}

// Schemes returns all schemes in insertion order.
func (s *Store) Schemes() []*core.Scheme {
	nodes := s.NodesByKind(core.NodeKindScheme, nil)
	out := make([]*core.Scheme, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.(*core.Scheme))
	}
	return out
}

// SchemesApplyingIn returns the schemes linked by APPLIES_IN to any of the
// given jurisdiction tokens, deduplicated and in scheme insertion order.
// Unknown tokens contribute nothing.
func (s *Store) SchemesApplyingIn(jurisdictions ...string) []*core.Scheme {
	seen := make(map[core.ID]bool)
	var ids []core.ID
	for _, j := range jurisdictions {
		for _, id := range s.Neighbors(core.JurisdictionID(j), core.RelationAppliesIn, Incoming) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	slices.SortFunc(ids, func(a, b core.ID) int {
		return s.order(a) - s.order(b)
	})

	out := make([]*core.Scheme, 0, len(ids))
	for _, id := range ids {
		if scheme, ok := s.Scheme(id); ok {
			out = append(out, scheme)
		}
	}
	return out
}

// RuleSet collects a scheme's criteria with one HAS_CRITERION hop.
func (s *Store) RuleSet(schemeID core.ID) (*rules.RuleSet, error) {
	if _, ok := s.Scheme(schemeID); !ok {
		return nil, fmt.Errorf("%w: scheme %s", ErrNodeNotFound, schemeID)
	}
	ids := s.Neighbors(schemeID, core.RelationHasCriterion, Outgoing)
	rs := &rules.RuleSet{
		SchemeID: schemeID,
		Criteria: make([]*rules.Criterion, 0, len(ids)),
	}
	for _, id := range ids {
		if c, ok := s.Criterion(id); ok {
			rs.Criteria = append(rs.Criteria, c)
		}
	}
	return rs, nil
}

// CitedDocuments returns the documents cited by a scheme's criteria and
// benefits (HAS_CRITERION or PROVIDES, then CITES), deduplicated in first-seen order.
func (s *Store) CitedDocuments(schemeID core.ID) []core.ID {
	seen := make(map[core.ID]bool)
	var docs []core.ID
	for _, rel := range []core.RelationKind{core.RelationHasCriterion, core.RelationProvides} {
		for _, mid := range s.Neighbors(schemeID, rel, Outgoing) {
			for _, doc := range s.Neighbors(mid, core.RelationCites, Outgoing) {
				if !seen[doc] {
					seen[doc] = true
					docs = append(docs, doc)
				}
			}
		}
	}
	return docs
}
