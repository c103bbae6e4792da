package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/eligibility"
	"github.com/poiesic/yojana/evaluation"
)

func renderResults(w io.Writer, results []core.EvaluationResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No schemes apply to this profile.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(w, "%d. %s [%s]\n", i+1, r.SchemeName, r.Label)
		for _, v := range r.Verdicts {
			marker := ""
			if !v.Required {
				marker = " (advisory)"
			}
			fmt.Fprintf(w, "   %-9s %s%s%s\n", v.Verdict, eligibility.Describe(v), marker, citation(v.Provenance))
		}
		if len(r.MissingFields) > 0 {
			fmt.Fprintf(w, "   missing: %s\n", strings.Join(r.MissingFields, ", "))
		}
		for _, e := range r.Evidence {
			fmt.Fprintf(w, "   > %.3f %s p.%d: %s\n", e.Score, e.Chunk.DocumentID, e.Chunk.Page, oneLine(e.Chunk.Text, 100))
		}
	}
}

func renderReport(w io.Writer, r *evaluation.Report) {
	fmt.Fprintf(w, "Accuracy: %.3f (%d/%d)\n", r.Accuracy(), r.Correct, r.Total)
	for _, m := range r.Mismatches {
		fmt.Fprintf(w, "  %s / %s: predicted %s, expected %s\n", m.ProfileID, m.SchemeID, m.Predicted, m.Expected)
	}
}

func citation(refs []core.Provenance) string {
	if len(refs) == 0 {
		return ""
	}
	parts := make([]string, len(refs))
	for i, p := range refs {
		parts[i] = fmt.Sprintf("%s p.%d", p.DocumentID, p.Page)
	}
	return " [" + strings.Join(parts, "; ") + "]"
}

func oneLine(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return text
}
