package ingestion

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/poiesic/yojana/core"
)

// Section is the text of one document page, the unit the chunker splits.
type Section struct {
	ID         string
	DocumentID core.ID
	Page       int
	Text       string
}

// SectionID names the section for a document page, e.g. "pms-guidelines_p3".
func SectionID(documentID core.ID, page int) string {
	return fmt.Sprintf("%s_p%d", documentID, page)
}

// ExtractPDF reads the plain text of every page of a PDF. Pages without
// extractable text are skipped.
func ExtractPDF(path string, documentID core.ID) ([]Section, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	sections := make([]Section, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Scanned or malformed pages carry no text layer.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		sections = append(sections, Section{
			ID:         SectionID(documentID, i),
			DocumentID: documentID,
			Page:       i,
			Text:       text,
		})
	}
	return sections, nil
}

// sections returns the page sections of a manifest document.
func (m *Manifest) sections(d DocumentSpec) ([]Section, error) {
	id := core.ID(d.ID)
	if d.PDF != "" {
		return ExtractPDF(m.resolve(d.PDF), id)
	}
	if len(d.Pages) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDocumentText, d.ID)
	}

	out := make([]Section, 0, len(d.Pages))
	for _, p := range d.Pages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		out = append(out, Section{
			ID:         SectionID(id, p.Page),
			DocumentID: id,
			Page:       p.Page,
			Text:       p.Text,
		})
	}
	return out, nil
}
