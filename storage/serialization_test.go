package storage

import (
	"testing"
	"time"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalNode(t *testing.T) {
	prov := core.Provenance{DocumentID: "doc", Page: 3, Section: "Eligibility"}

	tests := []struct {
		name string
		node core.Node
	}{
		{"scheme", &core.Scheme{
			Id:            "pms",
			Name:          "Post-Matric Scholarship",
			Domains:       []string{"scholarship"},
			Jurisdictions: []string{core.UniversalJurisdiction},
			CriterionIDs:  []core.ID{"a", "b"},
			BenefitIDs:    []core.ID{"c"},
		}},
		{"benefit", &core.Benefit{Id: "c", SchemeID: "pms", Description: "Fees reimbursed", Provenance: prov}},
		{"document", &core.Document{Id: "doc", Title: "Guidelines", SourcePath: "/data/pms.pdf"}},
		{"jurisdiction", &core.Jurisdiction{Id: core.JurisdictionID("Kerala")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalNode(tt.node)
			require.NoError(t, err)

			decoded, err := UnmarshalNode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.node, decoded)
		})
	}
}

func TestMarshalUnmarshalCriterion(t *testing.T) {
	c := &rules.Criterion{
		Id:          "pms-category",
		SchemeID:    "pms",
		Rule:        rules.AtomicRule{Field: "category", Operator: rules.OpIn, Value: []any{"SC", "ST", 3, 2.5, true, nil}, Required: true},
		Description: "Applicant must belong to SC or ST.",
		Provenance: []core.Provenance{
			{DocumentID: "doc", Page: 2, Section: "Eligibility"},
			{DocumentID: "doc", Page: 3},
		},
	}

	data, err := MarshalNode(c)
	require.NoError(t, err)
	decoded, err := UnmarshalNode(data)
	require.NoError(t, err)

	got, ok := decoded.(*rules.Criterion)
	require.True(t, ok)
	assert.Equal(t, c.Id, got.Id)
	assert.Equal(t, c.SchemeID, got.SchemeID)
	assert.Equal(t, c.Description, got.Description)
	assert.Equal(t, c.Provenance, got.Provenance)
	assert.Equal(t, rules.OpIn, got.Rule.Operator)
	assert.True(t, got.Rule.Required)
	// Integers widen to int64 on the way back.
	assert.Equal(t, []any{"SC", "ST", int64(3), 2.5, true, nil}, got.Rule.Value)
}

func TestWriteValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int", 18, int64(18)},
		{"uint8", uint8(7), int64(7)},
		{"float32", float32(0.5), 0.5},
		{"string", "PhD", "PhD"},
		{"bool", false, false},
		{"string slice", []string{"SC"}, []any{"SC"}},
		{"empty set", []any{}, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &encoder{}
			require.NoError(t, writeValue(e, tt.value))
			d := &decoder{bs: e.bs}
			got := readValue(d, 0)
			require.NoError(t, d.err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unsupported", func(t *testing.T) {
		err := writeValue(&encoder{}, map[string]int{"a": 1})
		assert.ErrorIs(t, err, ErrUnsupportedValue)
	})
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	chunk := &core.DocumentChunk{
		Id:         "doc_p2_c0",
		DocumentID: "doc",
		Page:       2,
		Section:    "doc_p2",
		Start:      10,
		End:        42,
		Text:       "Family income must not exceed Rs 2.5 lakh.",
		Vector:     []float32{0.6, 0.8, 0},
	}

	decoded, err := UnmarshalChunk(MarshalChunk(chunk))
	require.NoError(t, err)
	assert.Equal(t, chunk, decoded)
}

func TestMarshalUnmarshalEdge(t *testing.T) {
	edge := core.Edge{Source: "pms", Relation: core.RelationAppliesIn, Target: core.JurisdictionID(core.UniversalJurisdiction)}
	decoded, err := UnmarshalEdge(MarshalEdge(edge))
	require.NoError(t, err)
	assert.Equal(t, edge, decoded)
}

func TestMarshalUnmarshalDatasetInfo(t *testing.T) {
	info := &DatasetInfo{
		Generation: 3,
		Version:    core.IDFromContent("dataset"),
		Nodes:      12,
		Edges:      30,
		Chunks:     7,
		SavedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	decoded, err := UnmarshalDatasetInfo(MarshalDatasetInfo(info))
	require.NoError(t, err)
	assert.Equal(t, info.Generation, decoded.Generation)
	assert.Equal(t, info.Version, decoded.Version)
	assert.Equal(t, []int{12, 30, 7}, []int{decoded.Nodes, decoded.Edges, decoded.Chunks})
	assert.True(t, info.SavedAt.Equal(decoded.SavedAt))
}

func TestUnmarshal_Invalid(t *testing.T) {
	t.Run("empty node", func(t *testing.T) {
		_, err := UnmarshalNode(nil)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("truncated chunk", func(t *testing.T) {
		data := MarshalChunk(&core.DocumentChunk{Id: "c", DocumentID: "d", Text: "text", Vector: []float32{1, 0}})
		_, err := UnmarshalChunk(data[:len(data)-3])
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("unknown node kind", func(t *testing.T) {
		e := &encoder{}
		e.writeInt(99)
		_, err := UnmarshalNode(e.bs)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})

	t.Run("unsupported node type", func(t *testing.T) {
		_, err := MarshalNode(nil)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	})
}
