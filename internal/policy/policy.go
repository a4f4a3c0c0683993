// Package policy holds the read-only compliance policy library.
package policy

import (
	"strings"

	id "kycflow/pkg/domain"
)

// Policy is a compliance clause reviewers cite when deciding a case.
type Policy struct {
	ID     id.PolicyID `json:"id" yaml:"id"`
	Title  string      `json:"title" yaml:"title"`
	Clause string      `json:"clause" yaml:"clause"`
}

// Library is an immutable, ordered set of policies.
type Library struct {
	policies []Policy
}

// NewLibrary copies policies so later mutation of the input has no effect.
func NewLibrary(policies []Policy) *Library {
	return &Library{policies: append([]Policy(nil), policies...)}
}

// Search returns the policies whose title or clause contains query as a
// case-insensitive substring. The query is matched as given, whitespace
// included; only the empty query matches nothing.
func (l *Library) Search(query string) []Policy {
	q := strings.ToLower(query)
	matches := []Policy{}
	if q == "" {
		return matches
	}
	for _, p := range l.policies {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Clause), q) {
			matches = append(matches, p)
		}
	}
	return matches
}
