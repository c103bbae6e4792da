package ingestion

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
	"gopkg.in/yaml.v3"
)

// Manifest describes a knowledge base to ingest: the source documents and
// the schemes extracted from them.
type Manifest struct {
	Documents []DocumentSpec `yaml:"documents"`
	Schemes   []SchemeSpec   `yaml:"schemes"`

	// BaseDir resolves relative PDF paths. LoadManifest sets it to the
	// manifest's directory.
	BaseDir string `yaml:"-"`
}

// DocumentSpec names a guideline document and where its text comes from.
// Exactly one of PDF or Pages is expected; PDF wins when both are set.
type DocumentSpec struct {
	ID    string     `yaml:"id"`
	Title string     `yaml:"title"`
	PDF   string     `yaml:"pdf,omitempty"`
	Pages []PageSpec `yaml:"pages,omitempty"`
}

// PageSpec is one page of inline document text.
type PageSpec struct {
	Page int    `yaml:"page"`
	Text string `yaml:"text"`
}

// SourceSpec cites a location in a document.
type SourceSpec struct {
	Document string `yaml:"document"`
	Page     int    `yaml:"page"`
	Section  string `yaml:"section,omitempty"`
}

// CriterionSpec is one extracted eligibility condition.
type CriterionSpec struct {
	ID          string       `yaml:"id"`
	Field       string       `yaml:"field"`
	Operator    string       `yaml:"op"`
	Value       any          `yaml:"value"`
	Required    *bool        `yaml:"required,omitempty"` // default true
	Description string       `yaml:"description,omitempty"`
	Sources     []SourceSpec `yaml:"sources"`
}

// BenefitSpec is one extracted benefit.
type BenefitSpec struct {
	ID          string     `yaml:"id"`
	Description string     `yaml:"description"`
	Source      SourceSpec `yaml:"source"`
}

// SchemeSpec is a scheme with its criteria and benefits in published order.
type SchemeSpec struct {
	ID            string          `yaml:"id"`
	Name          string          `yaml:"name"`
	Domains       []string        `yaml:"domains,omitempty"`
	Jurisdictions []string        `yaml:"jurisdictions"`
	Criteria      []CriterionSpec `yaml:"criteria"`
	Benefits      []BenefitSpec   `yaml:"benefits,omitempty"`
}

// LoadManifest reads and parses a YAML manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, err
	}
	m.BaseDir = filepath.Dir(path)
	return m, nil
}

// ParseManifest parses a YAML manifest. Unknown keys are rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &m, nil
}

// Nodes converts the manifest into graph nodes: documents first, then each
// scheme followed by its criteria and benefits.
func (m *Manifest) Nodes() ([]core.Node, error) {
	nodes := make([]core.Node, 0, len(m.Documents)+len(m.Schemes)*4)
	for _, d := range m.Documents {
		doc := &core.Document{
			Id:         core.ID(d.ID),
			Title:      d.Title,
			SourcePath: m.resolve(d.PDF),
		}
		if err := core.ValidateDocument(doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
		nodes = append(nodes, doc)
	}

	for _, s := range m.Schemes {
		scheme := &core.Scheme{
			Id:            core.ID(s.ID),
			Name:          s.Name,
			Domains:       s.Domains,
			Jurisdictions: s.Jurisdictions,
		}
		var children []core.Node
		for _, cs := range s.Criteria {
			c, err := cs.criterion(scheme.Id)
			if err != nil {
				return nil, fmt.Errorf("%w: scheme %s: %w", ErrInvalidManifest, s.ID, err)
			}
			scheme.CriterionIDs = append(scheme.CriterionIDs, c.Id)
			children = append(children, c)
		}
		for _, bs := range s.Benefits {
			b := &core.Benefit{
				Id:          core.ID(bs.ID),
				SchemeID:    scheme.Id,
				Description: bs.Description,
				Provenance:  bs.Source.provenance(),
			}
			if err := core.ValidateBenefit(b); err != nil {
				return nil, fmt.Errorf("%w: scheme %s: %w", ErrInvalidManifest, s.ID, err)
			}
			scheme.BenefitIDs = append(scheme.BenefitIDs, b.Id)
			children = append(children, b)
		}
		if err := core.ValidateScheme(scheme); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
		}
		nodes = append(nodes, scheme)
		nodes = append(nodes, children...)
	}
	return nodes, nil
}

func (m *Manifest) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || m.BaseDir == "" {
		return path
	}
	return filepath.Join(m.BaseDir, path)
}

func (cs CriterionSpec) criterion(schemeID core.ID) (*rules.Criterion, error) {
	op, err := rules.ParseOperator(cs.Operator)
	if err != nil {
		return nil, fmt.Errorf("criterion %s: %w %q", cs.ID, err, cs.Operator)
	}
	required := true
	if cs.Required != nil {
		required = *cs.Required
	}

	c := &rules.Criterion{
		Id:          core.ID(cs.ID),
		SchemeID:    schemeID,
		Rule:        rules.AtomicRule{Field: cs.Field, Operator: op, Value: cs.Value, Required: required},
		Description: cs.Description,
	}
	for _, src := range cs.Sources {
		c.Provenance = append(c.Provenance, src.provenance())
	}
	if err := rules.ValidateCriterion(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s SourceSpec) provenance() core.Provenance {
	p := core.Provenance{DocumentID: core.ID(s.Document), Page: s.Page, Section: s.Section}
	if p.Section == "" && p.DocumentID != "" {
		p.Section = SectionID(p.DocumentID, p.Page)
	}
	return p
}
