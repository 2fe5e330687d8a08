package match

import (
	"testing"

	"github.com/roarbis/RoleRadar/internal/models"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"  Senior   PROJECT Manager! ", "senior project manager"},
		{"Front-End Developer", "front end developer"},
		{"UX/UI Designer", "ux ui designer"},
		{"C# Developer (Sydney)", "c developer sydney"},
		{"", ""},
	}

	for _, tc := range cases {
		got := Normalize(tc.value)
		if got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestMatchesExact(t *testing.T) {
	m := New(DefaultSimilarThreshold)
	role := models.RoleQuery{Name: "Project Manager", Match: models.MatchExact}

	cases := []struct {
		title string
		want  bool
	}{
		{"Project Manager", true},
		{"Senior Project Manager", true},
		{"PROJECT MANAGER - ICT", true},
		{"Delivery Manager", false},
		{"Program Manager", false},
		{"Project Coordinator", false},
		{"", false},
	}

	for _, tc := range cases {
		got := m.Matches(tc.title, role)
		if got != tc.want {
			t.Fatalf("Matches(%q, exact) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestMatchesAbbreviation(t *testing.T) {
	m := New(DefaultSimilarThreshold)
	role := models.RoleQuery{Name: "Project Manager", Match: models.MatchExact}

	if !m.Matches("PM", role) {
		t.Fatalf("expected initials to match the role")
	}
	if m.Matches("PMs wanted", role) {
		t.Fatalf("initials should only match the whole title")
	}
}

func TestMatchesSimilarWithSynonyms(t *testing.T) {
	m := New(DefaultSimilarThreshold)
	role := models.RoleQuery{
		Name:     "Project Manager",
		Match:    models.MatchSimilar,
		Synonyms: []string{"Delivery Lead", "Program Manager"},
	}

	cases := []struct {
		title string
		want  bool
	}{
		{"Project Manager", true},
		{"Senior Delivery Lead", true},
		{"Program Manager - Infrastructure", true},
		{"Scrum Master", false},
	}

	for _, tc := range cases {
		got := m.Matches(tc.title, role)
		if got != tc.want {
			t.Fatalf("Matches(%q, similar) = %v, want %v", tc.title, got, tc.want)
		}
	}
}

func TestMatchesSimilarFallsBackToRelatedRoles(t *testing.T) {
	m := New(DefaultSimilarThreshold)
	role := models.RoleQuery{Name: "Project Manager", Match: models.MatchSimilar}

	// No explicit synonyms: the built-in related-roles table applies.
	if !m.Matches("Delivery Manager", role) {
		t.Fatalf("expected related role to match without explicit synonyms")
	}
	if !m.Matches("IT Project Coordinator", role) {
		t.Fatalf("expected related role to match without explicit synonyms")
	}
}

func TestMatchesSimilarTokenOverlap(t *testing.T) {
	m := New(DefaultSimilarThreshold)
	role := models.RoleQuery{Name: "Data Platform Engineer", Match: models.MatchSimilar, Synonyms: []string{"nothing relevant"}}

	// 3 of 3 significant tokens present, order and extra words ignored.
	if !m.Matches("Senior Engineer, Data Platform", role) {
		t.Fatalf("expected full token overlap to match")
	}
	// 2 of 3 tokens is below the 0.75 default threshold.
	if m.Matches("Platform Engineer", role) {
		t.Fatalf("expected partial overlap below threshold to miss")
	}
}

func TestMatchesSynonymsIgnoredForExact(t *testing.T) {
	m := New(DefaultSimilarThreshold)
	role := models.RoleQuery{
		Name:     "Project Manager",
		Match:    models.MatchExact,
		Synonyms: []string{"Delivery Manager"},
	}

	if m.Matches("Delivery Manager", role) {
		t.Fatalf("synonyms must not apply under exact matching")
	}
}

func TestNewClampsThreshold(t *testing.T) {
	for _, bad := range []float64{0, -1, 1.5} {
		m := New(bad)
		if m.threshold != DefaultSimilarThreshold {
			t.Fatalf("New(%v) threshold = %v, want default", bad, m.threshold)
		}
	}
}

func TestSignificantTokens(t *testing.T) {
	got := SignificantTokens("senior data platform engineer of it")
	want := []string{"data", "platform", "engineer"}
	if len(got) != len(want) {
		t.Fatalf("SignificantTokens() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SignificantTokens() = %v, want %v", got, want)
		}
	}
}

func TestRelatedRoles(t *testing.T) {
	direct := RelatedRoles("project manager")
	if len(direct) == 0 {
		t.Fatalf("expected related roles for a direct table hit")
	}

	partial := RelatedRoles("Senior Project Manager")
	if len(partial) == 0 {
		t.Fatalf("expected related roles via partial key match")
	}
	if partial[0] != direct[0] {
		t.Fatalf("partial key match should resolve to the same family")
	}

	generic := RelatedRoles("senior widget wrangler")
	if len(generic) == 0 {
		t.Fatalf("expected level-prefix variations for unknown roles")
	}
	if generic[0] != "widget wrangler" {
		t.Fatalf("expected stripped base role first, got %q", generic[0])
	}
}
