package evaluation

import (
	"bytes"
	"fmt"
	"os"

	"github.com/poiesic/yojana/core"
	"gopkg.in/yaml.v3"
)

// GoldProfile is a labelled citizen profile and the question asked for it.
type GoldProfile struct {
	ID       string           `yaml:"id"`
	Question string           `yaml:"question"`
	Profile  core.UserProfile `yaml:"profile"`
}

// GoldSet is the content of a gold file.
type GoldSet struct {
	Profiles []GoldProfile `yaml:"profiles"`
	Labels   []Prediction  `yaml:"labels"`
}

// LoadGold reads and parses a YAML gold file.
func LoadGold(path string) (*GoldSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading gold file: %w", err)
	}
	return ParseGold(data)
}

// ParseGold parses a YAML gold set. Every label must name a listed profile
// and profile IDs must be unique.
func ParseGold(data []byte) (*GoldSet, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var g GoldSet
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGold, err)
	}

	ids := make(map[string]bool, len(g.Profiles))
	for _, p := range g.Profiles {
		if p.ID == "" {
			return nil, fmt.Errorf("%w: profile without id", ErrInvalidGold)
		}
		if ids[p.ID] {
			return nil, fmt.Errorf("%w: duplicate profile %s", ErrInvalidGold, p.ID)
		}
		ids[p.ID] = true
	}
	for _, l := range g.Labels {
		if !ids[l.ProfileID] {
			return nil, fmt.Errorf("%w: label for unknown profile %q", ErrInvalidGold, l.ProfileID)
		}
	}
	return &g, nil
}

// DemoProfiles returns a small set of synthetic profiles for manual testing.
func DemoProfiles() []GoldProfile {
	return []GoldProfile{
		{
			ID:       "p1",
			Question: "Which scholarships can I get for college?",
			Profile:  core.UserProfile{"age": 19, "income": 150000, "category": "SC", "student": true},
		},
		{
			ID:       "p2",
			Question: "Am I eligible for any welfare scheme?",
			Profile:  core.UserProfile{"age": 30, "income": 400000, "category": "OBC", "student": false},
		},
	}
}
