package models

import (
	"fmt"
	"strings"
)

// MatchType selects how strictly a job title must match a role.
type MatchType string

const (
	MatchExact   MatchType = "exact"
	MatchSimilar MatchType = "similar"
)

// RoleQuery is one user-declared role of interest. Synonyms only apply under
// MatchSimilar.
type RoleQuery struct {
	Name     string    `json:"name"`
	Match    MatchType `json:"match"`
	Synonyms []string  `json:"synonyms,omitempty"`
}

// Validate rejects malformed role queries before any orchestration starts.
func (r RoleQuery) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("role name is required")
	}
	switch r.Match {
	case MatchExact, MatchSimilar:
	case "":
		return fmt.Errorf("role %q: match type is required (exact or similar)", r.Name)
	default:
		return fmt.Errorf("role %q: unknown match type %q", r.Name, r.Match)
	}
	return nil
}

// ParseMatchType normalizes a match type string from config input.
func ParseMatchType(value string) (MatchType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "exact", "":
		return MatchExact, nil
	case "similar":
		return MatchSimilar, nil
	default:
		return "", fmt.Errorf("unknown match type: %s", value)
	}
}
