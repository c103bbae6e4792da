package graph

import (
	"testing"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func criterion(id, scheme core.ID, field string, op rules.Operator, value any, doc core.ID) *rules.Criterion {
	return &rules.Criterion{
		Id:         id,
		SchemeID:   scheme,
		Rule:       rules.AtomicRule{Field: field, Operator: op, Value: value, Required: true},
		Provenance: []core.Provenance{{DocumentID: doc, Page: 1, Section: "Eligibility"}},
	}
}

// newTestStore builds a small graph:
//
//	pms (All India) -HAS_CRITERION-> pms-age, pms-income -CITES-> pms-doc
//	pms -PROVIDES-> pms-fee -CITES-> fee-doc
//	kls (Kerala)   -HAS_CRITERION-> kls-age -CITES-> kls-doc
func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()

	nodes := []core.Node{
		&core.Jurisdiction{Id: core.JurisdictionID(core.UniversalJurisdiction)},
		&core.Jurisdiction{Id: core.JurisdictionID("Kerala")},
		&core.Document{Id: "pms-doc", Title: "PMS guidelines"},
		&core.Document{Id: "fee-doc", Title: "Fee schedule"},
		&core.Document{Id: "kls-doc", Title: "Kerala guidelines"},
		&core.Scheme{Id: "pms", Name: "Post-Matric Scholarship", Jurisdictions: []string{core.UniversalJurisdiction}},
		&core.Scheme{Id: "kls", Name: "Kerala Lottery Welfare", Jurisdictions: []string{"Kerala"}},
		criterion("pms-age", "pms", "age", rules.OpGte, 18, "pms-doc"),
		criterion("pms-income", "pms", "income", rules.OpLte, 250000, "pms-doc"),
		criterion("kls-age", "kls", "age", rules.OpGte, 60, "kls-doc"),
		&core.Benefit{Id: "pms-fee", SchemeID: "pms", Description: "Tuition fee", Provenance: core.Provenance{DocumentID: "fee-doc"}},
	}
	for _, n := range nodes {
		require.NoError(t, s.AddNode(n))
	}

	edges := []core.Edge{
		{Source: "pms", Relation: core.RelationAppliesIn, Target: core.JurisdictionID(core.UniversalJurisdiction)},
		{Source: "kls", Relation: core.RelationAppliesIn, Target: core.JurisdictionID("Kerala")},
		{Source: "pms", Relation: core.RelationHasCriterion, Target: "pms-age"},
		{Source: "pms", Relation: core.RelationHasCriterion, Target: "pms-income"},
		{Source: "kls", Relation: core.RelationHasCriterion, Target: "kls-age"},
		{Source: "pms", Relation: core.RelationProvides, Target: "pms-fee"},
		{Source: "pms-age", Relation: core.RelationCites, Target: "pms-doc"},
		{Source: "pms-income", Relation: core.RelationCites, Target: "pms-doc"},
		{Source: "pms-fee", Relation: core.RelationCites, Target: "fee-doc"},
		{Source: "kls-age", Relation: core.RelationCites, Target: "kls-doc"},
	}
	for _, e := range edges {
		require.NoError(t, s.AddEdge(e))
	}
	return s
}

// foreignNode satisfies core.Node without being one of the schema's types.
type foreignNode struct{}

func (foreignNode) NodeID() core.ID     { return "foreign" }
func (foreignNode) Kind() core.NodeKind { return core.NodeKindDocument }

func TestAddNode(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.AddNode(&core.Document{Id: "d1"}))
		err := s.AddNode(&core.Document{Id: "d1"})
		assert.ErrorIs(t, err, ErrDuplicateNode)
		assert.Equal(t, 1, s.NodeCount())
	})

	t.Run("duplicate id across kinds", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.AddNode(&core.Document{Id: "x"}))
		err := s.AddNode(&core.Jurisdiction{Id: "x"})
		assert.ErrorIs(t, err, ErrDuplicateNode)
	})

	t.Run("nil node", func(t *testing.T) {
		assert.ErrorIs(t, NewStore().AddNode(nil), ErrInvalidNode)
	})

	t.Run("criterion without provenance is rejected", func(t *testing.T) {
		c := criterion("c1", "s1", "age", rules.OpGte, 18, "")
		c.Provenance = nil
		err := NewStore().AddNode(c)
		assert.ErrorIs(t, err, ErrInvalidNode)
		assert.ErrorIs(t, err, core.ErrMissingProvenance)
	})

	t.Run("node type outside the schema", func(t *testing.T) {
		err := NewStore().AddNode(foreignNode{})
		assert.ErrorIs(t, err, ErrInvalidNode)
	})

	t.Run("empty jurisdiction", func(t *testing.T) {
		err := NewStore().AddNode(&core.Jurisdiction{})
		assert.ErrorIs(t, err, core.ErrEmptyID)
	})
}

func TestAddEdge(t *testing.T) {
	s := newTestStore(t)

	t.Run("missing target", func(t *testing.T) {
		err := s.AddEdge(core.Edge{Source: "pms", Relation: core.RelationHasCriterion, Target: "nope"})
		assert.ErrorIs(t, err, ErrDanglingEdge)
	})

	t.Run("missing source", func(t *testing.T) {
		err := s.AddEdge(core.Edge{Source: "nope", Relation: core.RelationCites, Target: "pms-doc"})
		assert.ErrorIs(t, err, ErrDanglingEdge)
	})

	t.Run("schema mismatch", func(t *testing.T) {
		err := s.AddEdge(core.Edge{Source: "pms-doc", Relation: core.RelationHasCriterion, Target: "pms-age"})
		assert.ErrorIs(t, err, ErrInvalidRelation)
	})

	t.Run("unknown relation", func(t *testing.T) {
		err := s.AddEdge(core.Edge{Source: "pms", Relation: core.RelationKind(77), Target: "pms-age"})
		assert.ErrorIs(t, err, ErrInvalidRelation)
	})

	t.Run("duplicate edge is ignored", func(t *testing.T) {
		before := s.EdgeCount()
		require.NoError(t, s.AddEdge(core.Edge{Source: "pms", Relation: core.RelationHasCriterion, Target: "pms-age"}))
		assert.Equal(t, before, s.EdgeCount())
		assert.Len(t, s.Neighbors("pms", core.RelationHasCriterion, Outgoing), 2)
	})
}

func TestNodesByKind(t *testing.T) {
	s := newTestStore(t)

	schemes := s.NodesByKind(core.NodeKindScheme, nil)
	require.Len(t, schemes, 2)
	assert.Equal(t, core.ID("pms"), schemes[0].NodeID())
	assert.Equal(t, core.ID("kls"), schemes[1].NodeID())

	ageCriteria := s.NodesByKind(core.NodeKindCriterion, func(n core.Node) bool {
		return n.(*rules.Criterion).Rule.Field == "age"
	})
	require.Len(t, ageCriteria, 2)
	assert.Equal(t, core.ID("pms-age"), ageCriteria[0].NodeID())

	assert.Empty(t, NewStore().NodesByKind(core.NodeKindBenefit, nil))
}

func TestNeighbors(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, []core.ID{"pms-age", "pms-income"}, s.Neighbors("pms", core.RelationHasCriterion, Outgoing))
	assert.Equal(t, []core.ID{"pms-age", "pms-income"}, s.Neighbors("pms-doc", core.RelationCites, Incoming))
	assert.Equal(t, []core.ID{"pms"}, s.Neighbors(core.JurisdictionID(core.UniversalJurisdiction), core.RelationAppliesIn, Incoming))
	assert.Empty(t, s.Neighbors("pms", core.RelationCites, Outgoing))
	assert.Empty(t, s.Neighbors("missing", core.RelationCites, Outgoing))

	t.Run("returned slice is a copy", func(t *testing.T) {
		got := s.Neighbors("pms", core.RelationHasCriterion, Outgoing)
		got[0] = "mutated"
		assert.Equal(t, core.ID("pms-age"), s.Neighbors("pms", core.RelationHasCriterion, Outgoing)[0])
	})
}

func TestSchemesApplyingIn(t *testing.T) {
	s := newTestStore(t)

	got := s.SchemesApplyingIn("Rajasthan", core.UniversalJurisdiction)
	require.Len(t, got, 1)
	assert.Equal(t, core.ID("pms"), got[0].Id)

	got = s.SchemesApplyingIn("Kerala", core.UniversalJurisdiction)
	require.Len(t, got, 2)
	assert.Equal(t, core.ID("pms"), got[0].Id, "insertion order is kept")
	assert.Equal(t, core.ID("kls"), got[1].Id)
}

func TestRuleSet(t *testing.T) {
	s := newTestStore(t)

	rs, err := s.RuleSet("pms")
	require.NoError(t, err)
	assert.Equal(t, core.ID("pms"), rs.SchemeID)
	require.Len(t, rs.Criteria, 2)
	assert.Equal(t, "age", rs.Criteria[0].Rule.Field)
	assert.Equal(t, "income", rs.Criteria[1].Rule.Field)

	_, err = s.RuleSet("pms-doc")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestCitedDocuments(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, []core.ID{"pms-doc", "fee-doc"}, s.CitedDocuments("pms"))
	assert.Equal(t, []core.ID{"kls-doc"}, s.CitedDocuments("kls"))
	assert.Empty(t, s.CitedDocuments("missing"))
}

func TestTypedAccessors(t *testing.T) {
	s := newTestStore(t)

	scheme, ok := s.Scheme("pms")
	require.True(t, ok)
	assert.Equal(t, "Post-Matric Scholarship", scheme.Name)

	_, ok = s.Scheme("pms-age")
	assert.False(t, ok)

	b, ok := s.Benefit("pms-fee")
	require.True(t, ok)
	assert.Equal(t, "Tuition fee", b.Description)

	assert.Len(t, s.Schemes(), 2)
}
