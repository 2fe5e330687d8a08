// Package match decides whether a normalized job title satisfies a
// user-declared role of interest. Only titles are inspected: they are the
// one field reliably comparable across boards.
package match

import (
	"strings"
	"unicode"

	"github.com/roarbis/RoleRadar/internal/models"
)

// DefaultSimilarThreshold is the minimum fraction of a role's significant
// tokens that must appear in a title for the token-overlap branch of similar
// matching. 0.75 keeps two-word roles strict (both words required) while
// forgiving one missing token in longer role names.
const DefaultSimilarThreshold = 0.75

// Matcher applies exact or similar matching with a tunable overlap threshold.
type Matcher struct {
	threshold float64
}

func New(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarThreshold
	}
	return &Matcher{threshold: threshold}
}

// Matches reports whether the job title qualifies for the role.
func (m *Matcher) Matches(title string, role models.RoleQuery) bool {
	normTitle := Normalize(title)
	normRole := Normalize(role.Name)
	if normTitle == "" || normRole == "" {
		return false
	}

	if strings.Contains(normTitle, normRole) {
		return true
	}

	// "pm" for "project manager" and the like.
	if abbr := initials(normRole); len(abbr) >= 2 && normTitle == abbr {
		return true
	}

	if role.Match != models.MatchSimilar {
		return false
	}

	synonyms := role.Synonyms
	if len(synonyms) == 0 {
		synonyms = RelatedRoles(role.Name)
	}
	for _, alt := range synonyms {
		if alt = Normalize(alt); alt != "" && strings.Contains(normTitle, alt) {
			return true
		}
	}

	return m.tokenOverlap(normTitle, normRole)
}

// tokenOverlap checks what fraction of the role's significant tokens appear
// in the title.
func (m *Matcher) tokenOverlap(normTitle string, normRole string) bool {
	roleTokens := SignificantTokens(normRole)
	if len(roleTokens) == 0 {
		return false
	}

	titleTokens := map[string]struct{}{}
	for _, tok := range strings.Fields(normTitle) {
		titleTokens[tok] = struct{}{}
	}

	hits := 0
	for _, tok := range roleTokens {
		if _, ok := titleTokens[tok]; ok {
			hits++
		}
	}
	return float64(hits)/float64(len(roleTokens)) >= m.threshold
}

// Normalize lowercases, strips punctuation and collapses whitespace. The
// dedup fingerprint uses the same normalization, so the two layers agree on
// what counts as "the same text".
func Normalize(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range strings.ToLower(value) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '/':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// stopwords are seniority qualifiers and glue words that carry no role
// identity of their own.
var stopwords = map[string]struct{}{
	"senior": {}, "junior": {}, "lead": {}, "principal": {}, "staff": {},
	"associate": {}, "head": {}, "chief": {}, "of": {}, "and": {}, "the": {},
	"a": {}, "an": {}, "in": {}, "for": {}, "to": {},
}

// SignificantTokens returns the non-stopword tokens of an already-normalized
// string. Tokens shorter than three runes are dropped as noise.
func SignificantTokens(normalized string) []string {
	var tokens []string
	for _, tok := range strings.Fields(normalized) {
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if len([]rune(tok)) < 3 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func initials(normalized string) string {
	var b strings.Builder
	for _, word := range strings.Fields(normalized) {
		b.WriteByte(word[0])
	}
	return b.String()
}
