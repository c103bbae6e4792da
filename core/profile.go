package core

import "strings"

// JurisdictionField is the profile field holding the citizen's state.
const JurisdictionField = "state"

// UserProfile maps profile field names to values.
// A field that is absent, or present with a nil value, is unknown. It is
// never treated as false or zero.
type UserProfile map[string]any

// Lookup returns the value of field and whether it is known.
func (p UserProfile) Lookup(field string) (any, bool) {
	v, ok := p[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Jurisdiction returns the profile's state, or "" when unknown.
func (p UserProfile) Jurisdiction() string {
	v, ok := p.Lookup(JurisdictionField)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
