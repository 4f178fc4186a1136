package wcaclient

import (
	"slices"
	"strings"
)

// Scope is an OAuth scope understood by the WCA.
type Scope string

const (
	ScopePublic             Scope = "public"
	ScopeManageCompetitions Scope = "manage_competitions"
	ScopeEmail              Scope = "email"
	ScopeDOB                Scope = "dob"
)

// ParseScopes splits a space or comma separated scope list. Duplicates are
// dropped and the order of first appearance is kept.
func ParseScopes(s string) []Scope {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	var out []Scope
	for _, f := range fields {
		out = addScope(out, Scope(f))
	}
	return out
}

func addScope(scopes []Scope, s Scope) []Scope {
	if slices.Contains(scopes, s) {
		return scopes
	}
	return append(scopes, s)
}

func scopeStrings(scopes []Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = string(s)
	}
	return out
}
