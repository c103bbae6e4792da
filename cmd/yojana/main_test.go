package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/evaluation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func quietApp() *cli.App {
	app := newApp()
	app.Writer = io.Discard
	app.ErrWriter = io.Discard
	return app
}

func TestRequiredFlags(t *testing.T) {
	t.Run("db is required", func(t *testing.T) {
		err := quietApp().Run([]string{"yojana", "demo"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db")
	})

	t.Run("manifest is required", func(t *testing.T) {
		err := quietApp().Run([]string{"yojana", "ingest", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "manifest")
	})

	t.Run("question is required", func(t *testing.T) {
		err := quietApp().Run([]string{"yojana", "query", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question")
	})

	t.Run("gold is required", func(t *testing.T) {
		err := quietApp().Run([]string{"yojana", "evaluate", "--db", t.TempDir()})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gold")
	})
}

func TestCommonFlagDefaults(t *testing.T) {
	var model *cli.StringFlag
	for _, flag := range commonFlags() {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == "embedding-model" {
			model = f
		}
	}
	require.NotNil(t, model)
	assert.Equal(t, "embeddinggemma", model.Value)
}

func TestSetupLogger(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "WaRn", "error"} {
		t.Run(level, func(t *testing.T) {
			app := &cli.App{
				Name:   "test",
				Flags:  []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
				Before: setupLogger,
				Action: func(c *cli.Context) error { return nil },
			}
			require.NoError(t, app.Run([]string{"test", "--log-level", level}))
		})
	}

	t.Run("invalid level", func(t *testing.T) {
		app := &cli.App{
			Name:      "test",
			Writer:    io.Discard,
			ErrWriter: io.Discard,
			Flags:     []cli.Flag{&cli.StringFlag{Name: "log-level", Value: "info"}},
			Before:    setupLogger,
			Action:    func(c *cli.Context) error { return nil },
		}
		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestParseProfile(t *testing.T) {
	profile, err := parseProfile([]string{"age=22", "income=140000.5", "state=Rajasthan", "disabled=true", " category = SC"})
	require.NoError(t, err)

	assert.Equal(t, 22, profile["age"])
	assert.Equal(t, 140000.5, profile["income"])
	assert.Equal(t, "Rajasthan", profile["state"])
	assert.Equal(t, true, profile["disabled"])
	assert.Equal(t, "SC", profile["category"])

	t.Run("empty value is null", func(t *testing.T) {
		profile, err := parseProfile([]string{"state="})
		require.NoError(t, err)
		v, ok := profile["state"]
		assert.True(t, ok)
		assert.Nil(t, v)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := parseProfile([]string{"age"})
		assert.Error(t, err)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := parseProfile([]string{"=22"})
		assert.Error(t, err)
	})
}

func TestRenderResults(t *testing.T) {
	t.Run("no results", func(t *testing.T) {
		var buf bytes.Buffer
		renderResults(&buf, nil)
		assert.Contains(t, buf.String(), "No schemes apply")
	})

	t.Run("verdicts and evidence", func(t *testing.T) {
		results := []core.EvaluationResult{{
			SchemeID:   "pms",
			SchemeName: "Post-Matric Scholarship",
			Label:      core.LabelInsufficientInfo,
			Verdicts: []core.CriterionVerdict{
				{
					CriterionID: "pms_age",
					Field:       "age",
					Operator:    "<=",
					Expected:    30,
					Required:    true,
					Verdict:     core.VerdictSatisfied,
					Provenance:  []core.Provenance{{DocumentID: "pms_guidelines", Page: 2}},
				},
				{
					CriterionID: "pms_income",
					Field:       "income",
					Operator:    "<=",
					Expected:    250000,
					Required:    true,
					Description: "Family income up to 2.5 lakh",
					Verdict:     core.VerdictUnknown,
				},
			},
			MissingFields: []string{"income"},
			Evidence: []core.ScoredChunk{{
				Chunk: &core.DocumentChunk{DocumentID: "pms_guidelines", Page: 2, Text: "Students   up to\nage 30."},
				Score: 0.91,
			}},
		}}

		var buf bytes.Buffer
		renderResults(&buf, results)
		out := buf.String()

		assert.Contains(t, out, "1. Post-Matric Scholarship [INSUFFICIENT_INFO]")
		assert.Contains(t, out, "age <= 30 [pms_guidelines p.2]")
		assert.Contains(t, out, "Family income up to 2.5 lakh")
		assert.Contains(t, out, "missing: income")
		assert.Contains(t, out, "0.910 pms_guidelines p.2: Students up to age 30.")
	})
}

func TestRenderReport(t *testing.T) {
	report := &evaluation.Report{
		Total:   2,
		Correct: 1,
		Mismatches: []evaluation.Mismatch{{
			ProfileID: "p1",
			SchemeID:  "nf",
			Predicted: core.LabelEligible,
			Expected:  core.LabelNotEligible,
		}},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)
	assert.Contains(t, buf.String(), "Accuracy: 0.500 (1/2)")
	assert.Contains(t, buf.String(), "p1 / nf: predicted ELIGIBLE, expected NOT_ELIGIBLE")
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b", oneLine(" a\n\tb ", 10))
	assert.Equal(t, "abc...", oneLine("abcdef", 3))
}
