package core

import (
	"encoding/hex"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a stable identifier for graph nodes and document chunks.
// IDs are assigned by the ingestion pipeline and never reused within a dataset.
type ID string

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	return ID(hex.EncodeToString(h.Sum(nil)))
}

// UniversalJurisdiction is the jurisdiction token for schemes that apply everywhere.
const UniversalJurisdiction = "All India"

// NodeKind identifies the variant of a graph node.
type NodeKind int

const (
	// NodeKindScheme is a welfare scheme.
	NodeKindScheme NodeKind = iota + 1
	// NodeKindCriterion is one atomic eligibility condition of a scheme.
	NodeKindCriterion
	// NodeKindBenefit is something a scheme provides.
	NodeKindBenefit
	// NodeKindDocument is a source document that criteria and benefits cite.
	NodeKindDocument
	// NodeKindJurisdiction is a state or the universal jurisdiction token.
	NodeKindJurisdiction
)

var nodeKindNames = map[NodeKind]string{
	NodeKindScheme:       "Scheme",
	NodeKindCriterion:    "Criterion",
	NodeKindBenefit:      "Benefit",
	NodeKindDocument:     "Document",
	NodeKindJurisdiction: "Jurisdiction",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether k is one of the declared node kinds.
func (k NodeKind) Valid() bool {
	_, ok := nodeKindNames[k]
	return ok
}

// RelationKind identifies the type of a directed graph edge.
type RelationKind int

const (
	// RelationHasCriterion links a Scheme to one of its Criteria.
	RelationHasCriterion RelationKind = iota + 1
	// RelationProvides links a Scheme to a Benefit.
	RelationProvides
	// RelationCites links a Criterion or Benefit to the Document it was derived from.
	RelationCites
	// RelationAppliesIn links a Scheme to a Jurisdiction.
	RelationAppliesIn
)

var relationNames = map[RelationKind]string{
	RelationHasCriterion: "HAS_CRITERION",
	RelationProvides:     "PROVIDES",
	RelationCites:        "CITES",
	RelationAppliesIn:    "APPLIES_IN",
}

func (r RelationKind) String() string {
	if name, ok := relationNames[r]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether r is one of the declared relation kinds.
func (r RelationKind) Valid() bool {
	_, ok := relationNames[r]
	return ok
}

// ParseRelationKind maps a relation name such as "HAS_CRITERION" to its kind.
func ParseRelationKind(name string) (RelationKind, bool) {
	for kind, n := range relationNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// Node is implemented by every value stored in the knowledge graph.
type Node interface {
	NodeID() ID
	Kind() NodeKind
}

// Provenance points at the exact source text a fact was derived from.
type Provenance struct {
	DocumentID ID
	Page       int
	Section    string
}

// Scheme represents a government welfare program.
type Scheme struct {
	Id            ID
	Name          string
	Domains       []string // e.g. "scholarship", "pension"
	Jurisdictions []string // state names or UniversalJurisdiction
	CriterionIDs  []ID     // ordered as published
	BenefitIDs    []ID
}

func (s *Scheme) NodeID() ID     { return s.Id }
func (s *Scheme) Kind() NodeKind { return NodeKindScheme }

// Benefit is something a scheme provides to eligible citizens.
type Benefit struct {
	Id          ID
	SchemeID    ID
	Description string
	Provenance  Provenance
}

func (b *Benefit) NodeID() ID     { return b.Id }
func (b *Benefit) Kind() NodeKind { return NodeKindBenefit }

// Document is a source document such as a scheme guideline PDF.
type Document struct {
	Id         ID
	Title      string
	SourcePath string
}

func (d *Document) NodeID() ID     { return d.Id }
func (d *Document) Kind() NodeKind { return NodeKindDocument }

// JurisdictionPrefix namespaces jurisdiction node IDs so that a state name
// never collides with a scheme or document ID.
const JurisdictionPrefix = "jurisdiction:"

// JurisdictionID returns the node ID for a jurisdiction token such as
// "Rajasthan" or "All India".
func JurisdictionID(token string) ID {
	return ID(JurisdictionPrefix + token)
}

// Jurisdiction is a geography token that schemes apply in.
// Its ID is JurisdictionID(token).
type Jurisdiction struct {
	Id ID
}

// Token returns the jurisdiction name without the ID namespace.
func (j *Jurisdiction) Token() string {
	return strings.TrimPrefix(string(j.Id), JurisdictionPrefix)
}

func (j *Jurisdiction) NodeID() ID     { return j.Id }
func (j *Jurisdiction) Kind() NodeKind { return NodeKindJurisdiction }

// Edge is a typed directed relation between two graph nodes.
type Edge struct {
	Source   ID
	Relation RelationKind
	Target   ID
}

// DocumentChunk is a passage of source text with its embedding.
// Vectors are L2-normalized by the ingestion pipeline.
type DocumentChunk struct {
	Id         ID
	DocumentID ID
	Page       int
	Section    string
	Start      int // character offsets into the section text
	End        int
	Text       string
	Vector     []float32
}

// ScoredChunk is a chunk returned from similarity search.
type ScoredChunk struct {
	Chunk *DocumentChunk
	Score float32
}
