package snapshot

import (
	"strconv"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/rules"
)

// Scheme IDs of the sample dataset.
const (
	SamplePostMatric       core.ID = "post-matric-scholarship"
	SampleMeritCumMeans    core.ID = "merit-cum-means"
	SampleFellowship       core.ID = "national-fellowship"
	SampleKeralaGrant      core.ID = "kerala-higher-education-grant"
	SampleRajasthanPension core.ID = "rajasthan-old-age-pension"
)

// SampleDimension is the embedding dimension of the sample chunks.
const SampleDimension = 4

// SampleDataset returns a small, fully linked dataset with five schemes over
// four-dimensional unit vectors. It is intended for tests and demos.
func SampleDataset() *Dataset {
	crit := func(id, scheme core.ID, field string, op rules.Operator, value any, doc core.ID, page int, desc string) *rules.Criterion {
		return &rules.Criterion{
			Id:          id,
			SchemeID:    scheme,
			Rule:        rules.AtomicRule{Field: field, Operator: op, Value: value, Required: true},
			Description: desc,
			Provenance:  []core.Provenance{{DocumentID: doc, Page: page, Section: "Eligibility"}},
		}
	}
	chunk := func(id, doc core.ID, page int, text string, vector ...float32) *core.DocumentChunk {
		return &core.DocumentChunk{
			Id:         id,
			DocumentID: doc,
			Page:       page,
			Section:    string(doc) + "_p" + strconv.Itoa(page),
			Start:      0,
			End:        len(text),
			Text:       text,
			Vector:     vector,
		}
	}

	nodes := []core.Node{
		&core.Document{Id: "pms-guidelines", Title: "Post-Matric Scholarship Guidelines", SourcePath: "pms.pdf"},
		&core.Document{Id: "mcm-guidelines", Title: "Merit-cum-Means Scholarship Guidelines", SourcePath: "mcm.pdf"},
		&core.Document{Id: "nf-guidelines", Title: "National Fellowship Guidelines", SourcePath: "nf.pdf"},
		&core.Document{Id: "kerala-guidelines", Title: "Kerala Higher Education Grant", SourcePath: "kerala.pdf"},
		&core.Document{Id: "rj-guidelines", Title: "Rajasthan Old Age Pension Rules", SourcePath: "rj.pdf"},

		&core.Scheme{
			Id:            SamplePostMatric,
			Name:          "Post-Matric Scholarship for SC Students",
			Domains:       []string{"scholarship"},
			Jurisdictions: []string{core.UniversalJurisdiction},
			CriterionIDs:  []core.ID{"pms-age", "pms-income", "pms-category"},
			BenefitIDs:    []core.ID{"pms-tuition"},
		},
		crit("pms-age", SamplePostMatric, "age", rules.OpGte, 18, "pms-guidelines", 2, "Applicant must be at least 18 years old."),
		crit("pms-income", SamplePostMatric, "income", rules.OpLte, 250000, "pms-guidelines", 2, "Annual family income must not exceed Rs 2,50,000."),
		crit("pms-category", SamplePostMatric, "category", rules.OpIn, []any{"SC", "ST"}, "pms-guidelines", 3, "Applicant must belong to SC or ST."),
		&core.Benefit{
			Id:          "pms-tuition",
			SchemeID:    SamplePostMatric,
			Description: "Full reimbursement of compulsory non-refundable fees.",
			Provenance:  core.Provenance{DocumentID: "pms-guidelines", Page: 5, Section: "Benefits"},
		},

		&core.Scheme{
			Id:            SampleMeritCumMeans,
			Name:          "Merit-cum-Means Scholarship",
			Domains:       []string{"scholarship"},
			Jurisdictions: []string{core.UniversalJurisdiction},
			CriterionIDs:  []core.ID{"mcm-category"},
		},
		crit("mcm-category", SampleMeritCumMeans, "category", rules.OpIn, []any{"OBC"}, "mcm-guidelines", 1, "Applicant must belong to OBC."),

		&core.Scheme{
			Id:            SampleFellowship,
			Name:          "National Fellowship",
			Domains:       []string{"fellowship"},
			Jurisdictions: []string{core.UniversalJurisdiction},
			CriterionIDs:  []core.ID{"nf-age", "nf-income", "nf-category", "nf-degree"},
		},
		crit("nf-age", SampleFellowship, "age", rules.OpGte, 18, "nf-guidelines", 1, "Applicant must be at least 18 years old."),
		crit("nf-income", SampleFellowship, "income", rules.OpLte, 250000, "nf-guidelines", 1, "Annual family income must not exceed Rs 2,50,000."),
		crit("nf-category", SampleFellowship, "category", rules.OpIn, []any{"SC", "ST"}, "nf-guidelines", 1, "Applicant must belong to SC or ST."),
		crit("nf-degree", SampleFellowship, "degree_level", rules.OpEq, "PhD", "nf-guidelines", 2, "Applicant must be enrolled in a PhD programme."),

		&core.Scheme{
			Id:            SampleKeralaGrant,
			Name:          "Kerala Higher Education Grant",
			Domains:       []string{"scholarship"},
			Jurisdictions: []string{"Kerala"},
			CriterionIDs:  []core.ID{"kl-age"},
		},
		crit("kl-age", SampleKeralaGrant, "age", rules.OpGte, 17, "kerala-guidelines", 1, "Applicant must be at least 17 years old."),

		&core.Scheme{
			Id:            SampleRajasthanPension,
			Name:          "Rajasthan Old Age Pension",
			Domains:       []string{"pension"},
			Jurisdictions: []string{"Rajasthan"},
			CriterionIDs:  []core.ID{"rj-age"},
		},
		crit("rj-age", SampleRajasthanPension, "age", rules.OpGte, 60, "rj-guidelines", 1, "Applicant must be at least 60 years old."),
	}

	chunks := []*core.DocumentChunk{
		chunk("pms-guidelines_p2_c1", "pms-guidelines", 2, "Students belonging to SC/ST with family income up to Rs 2.5 lakh are eligible.", 1, 0, 0, 0),
		chunk("pms-guidelines_p5_c1", "pms-guidelines", 5, "The scholarship reimburses compulsory non-refundable fees.", 0.6, 0.8, 0, 0),
		chunk("mcm-guidelines_p1_c1", "mcm-guidelines", 1, "Merit-cum-Means scholarships are reserved for OBC students.", 0, 1, 0, 0),
		chunk("nf-guidelines_p2_c1", "nf-guidelines", 2, "Fellowships are awarded to scholars registered for a PhD.", 0, 0, 1, 0),
		chunk("kerala-guidelines_p1_c1", "kerala-guidelines", 1, "Residents of Kerala pursuing higher education may apply.", 0, 0, 0, 1),
		chunk("rj-guidelines_p1_c1", "rj-guidelines", 1, "Residents of Rajasthan aged sixty and above receive a pension.", 0.8, 0, 0.6, 0),
	}

	return Assemble(nodes, chunks)
}

// SampleProfile is the citizen profile used with SampleDataset.
func SampleProfile() core.UserProfile {
	return core.UserProfile{"age": 22, "income": 140000, "category": "SC", "state": "Rajasthan"}
}
