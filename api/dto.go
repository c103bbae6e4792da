package api

import (
	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/eligibility"
)

// maxSnippet bounds evidence text in responses, in runes.
const maxSnippet = 300

type EligibilityRequest struct {
	Profile  map[string]any `json:"profile"`
	Question string         `json:"question"`
	TopK     int            `json:"top_k"`
}

type EligibilityResponse struct {
	RequestID string         `json:"request_id"`
	Results   []SchemeResult `json:"results"`
}

type SchemeResult struct {
	SchemeID      core.ID           `json:"scheme_id"`
	SchemeName    string            `json:"scheme_name"`
	Label         core.Label        `json:"label"`
	Criteria      []CriterionResult `json:"criteria"`
	Evidence      []EvidenceItem    `json:"evidence"`
	MissingFields []string          `json:"missing_fields"`
	Explanation   string            `json:"explanation"`
}

type CriterionResult struct {
	CriterionID core.ID         `json:"criterion_id"`
	Description string          `json:"description"`
	Verdict     core.Verdict    `json:"verdict"`
	Required    bool            `json:"required"`
	Reason      string          `json:"reason,omitempty"`
	Provenance  []ProvenanceRef `json:"provenance"`
}

type ProvenanceRef struct {
	Document core.ID `json:"document"`
	Page     int     `json:"page"`
	Section  string  `json:"section"`
}

type EvidenceItem struct {
	ChunkID  core.ID `json:"chunk_id"`
	Snippet  string  `json:"snippet"`
	Document core.ID `json:"document"`
	Page     int     `json:"page"`
	Section  string  `json:"section"`
	Score    float32 `json:"score"`
}

type ReloadResponse struct {
	Version string `json:"version"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
	Chunks  int    `json:"chunks"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Ready    bool   `json:"ready"`
	Snapshot string `json:"snapshot,omitempty"`
}

func toSchemeResult(r core.EvaluationResult) SchemeResult {
	out := SchemeResult{
		SchemeID:      r.SchemeID,
		SchemeName:    r.SchemeName,
		Label:         r.Label,
		Criteria:      make([]CriterionResult, 0, len(r.Verdicts)),
		Evidence:      make([]EvidenceItem, 0, len(r.Evidence)),
		MissingFields: r.MissingFields,
		Explanation:   r.Explanation,
	}
	if out.MissingFields == nil {
		out.MissingFields = []string{}
	}

	for _, v := range r.Verdicts {
		c := CriterionResult{
			CriterionID: v.CriterionID,
			Description: eligibility.Describe(v),
			Verdict:     v.Verdict,
			Required:    v.Required,
			Reason:      v.Reason,
			Provenance:  make([]ProvenanceRef, 0, len(v.Provenance)),
		}
		for _, p := range v.Provenance {
			c.Provenance = append(c.Provenance, ProvenanceRef{Document: p.DocumentID, Page: p.Page, Section: p.Section})
		}
		out.Criteria = append(out.Criteria, c)
	}

	for _, e := range r.Evidence {
		out.Evidence = append(out.Evidence, EvidenceItem{
			ChunkID:  e.Chunk.Id,
			Snippet:  snippet(e.Chunk.Text, maxSnippet),
			Document: e.Chunk.DocumentID,
			Page:     e.Chunk.Page,
			Section:  e.Chunk.Section,
			Score:    e.Score,
		})
	}
	return out
}

func snippet(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
