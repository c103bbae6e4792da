package snapshot

import (
	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
)

// Dataset is the flat form of a knowledge base: everything ingestion
// produces and the repository persists. A Dataset is turned into a
// queryable Snapshot by Build.
type Dataset struct {
	Nodes  []core.Node
	Edges  []core.Edge
	Chunks []*core.DocumentChunk
}

// Assemble builds a Dataset from scheme, criterion, benefit and document
// nodes, deriving the jurisdiction nodes and every edge they imply:
//   - Scheme HAS_CRITERION each of its CriterionIDs
//   - Scheme PROVIDES each of its BenefitIDs
//   - Scheme APPLIES_IN each of its Jurisdictions
//   - Criterion and Benefit CITES each document named in their provenance
//
// Node order is preserved; jurisdiction nodes are appended in first-seen
// order. Nodes are not validated here, Build does that.
func Assemble(nodes []core.Node, chunks []*core.DocumentChunk) *Dataset {
	ds := &Dataset{
		Nodes:  make([]core.Node, 0, len(nodes)),
		Chunks: chunks,
	}

	present := make(map[core.ID]bool, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		present[n.NodeID()] = true
		ds.Nodes = append(ds.Nodes, n)
	}

	cites := func(src core.ID, docs ...core.ID) {
		seen := make(map[core.ID]bool, len(docs))
		for _, doc := range docs {
			if doc == "" || seen[doc] {
				continue
			}
			seen[doc] = true
			ds.Edges = append(ds.Edges, core.Edge{Source: src, Relation: core.RelationCites, Target: doc})
		}
	}

	for _, n := range nodes {
		switch v := n.(type) {
		case *core.Scheme:
			for _, id := range v.CriterionIDs {
				ds.Edges = append(ds.Edges, core.Edge{Source: v.Id, Relation: core.RelationHasCriterion, Target: id})
			}
			for _, id := range v.BenefitIDs {
				ds.Edges = append(ds.Edges, core.Edge{Source: v.Id, Relation: core.RelationProvides, Target: id})
			}
			for _, j := range v.Jurisdictions {
				jid := core.JurisdictionID(j)
				if !present[jid] {
					present[jid] = true
					ds.Nodes = append(ds.Nodes, &core.Jurisdiction{Id: jid})
				}
				ds.Edges = append(ds.Edges, core.Edge{Source: v.Id, Relation: core.RelationAppliesIn, Target: jid})
			}
		case *rules.Criterion:
			docs := make([]core.ID, 0, len(v.Provenance))
			for _, p := range v.Provenance {
				docs = append(docs, p.DocumentID)
			}
			cites(v.Id, docs...)
		case *core.Benefit:
			cites(v.Id, v.Provenance.DocumentID)
		}
	}
	return ds
}
