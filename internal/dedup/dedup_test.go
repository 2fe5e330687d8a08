package dedup

import (
	"testing"
	"time"

	"github.com/roarbis/RoleRadar/internal/models"
)

func TestFingerprintNormalizes(t *testing.T) {
	a := models.Job{Title: "Senior Project Manager", Company: "Acme Corp", Location: "Sydney NSW"}
	b := models.Job{Title: "  senior   PROJECT Manager! ", Company: "ACME CORP", Location: "sydney, nsw"}

	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("expected equal fingerprints for normalized-equal jobs")
	}
}

func TestFingerprintFieldBoundaries(t *testing.T) {
	a := models.Job{Title: "Engineer", Company: "Data Corp", Location: "Sydney"}
	b := models.Job{Title: "Engineer Data", Company: "Corp", Location: "Sydney"}

	if Fingerprint(a) == Fingerprint(b) {
		t.Fatalf("field contents must not bleed across the separator")
	}
}

func TestFingerprintIgnoresSourceAndURL(t *testing.T) {
	a := models.Job{Title: "Engineer", Company: "Acme", Location: "Sydney", Source: "seek", URL: "https://example.com/1"}
	b := models.Job{Title: "Engineer", Company: "Acme", Location: "Sydney", Source: "jora", URL: "https://example.com/2"}

	if Fingerprint(a) != Fingerprint(b) {
		t.Fatalf("fingerprint must depend only on title, company and location")
	}
}

func TestCollapseMergesDuplicates(t *testing.T) {
	jobs := []models.Job{
		{Title: "Engineer", Company: "Acme", Location: "Sydney", Source: "seek", URL: "https://seek/1"},
		{Title: "Analyst", Company: "Beta", Location: "Melbourne", Source: "seek", URL: "https://seek/2"},
		{Title: "engineer", Company: "ACME", Location: "Sydney", Source: "jora", URL: "https://jora/1"},
	}

	out := Collapse(jobs)
	if len(out) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(out))
	}

	first := out[0]
	if first.Job.URL != "https://seek/1" {
		t.Fatalf("first processed job should survive without dates, got %q", first.Job.URL)
	}
	if len(first.Sources) != 2 || first.Sources[0] != "jora" || first.Sources[1] != "seek" {
		t.Fatalf("expected sorted source union, got %v", first.Sources)
	}

	if out[1].Job.Title != "Analyst" {
		t.Fatalf("survivors must keep input order, got %q", out[1].Job.Title)
	}
}

func TestCollapseKeepsEarliestPostedAt(t *testing.T) {
	older := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

	jobs := []models.Job{
		{Title: "Engineer", Company: "Acme", Location: "Sydney", Source: "seek", URL: "https://seek/1", PostedAt: newer},
		{Title: "Engineer", Company: "Acme", Location: "Sydney", Source: "jora", URL: "https://jora/1", PostedAt: older},
	}

	out := Collapse(jobs)
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	if !out[0].Job.PostedAt.Equal(older) {
		t.Fatalf("expected earliest posted-at to win, got %v", out[0].Job.PostedAt)
	}
	if out[0].Job.URL != "https://jora/1" {
		t.Fatalf("winning job should carry its own fields, got %q", out[0].Job.URL)
	}
	if len(out[0].Sources) != 2 {
		t.Fatalf("loser's source must still join provenance, got %v", out[0].Sources)
	}
}

func TestCollapsePrefersDatedOverUndated(t *testing.T) {
	dated := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	jobs := []models.Job{
		{Title: "Engineer", Company: "Acme", Location: "Sydney", Source: "seek"},
		{Title: "Engineer", Company: "Acme", Location: "Sydney", Source: "adzuna", PostedAt: dated},
	}

	out := Collapse(jobs)
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	if out[0].Job.Source != "adzuna" {
		t.Fatalf("dated challenger should replace undated incumbent, got %q", out[0].Job.Source)
	}
}

func TestCollapseDropsEmptySource(t *testing.T) {
	jobs := []models.Job{
		{Title: "Engineer", Company: "Acme", Location: "Sydney"},
	}
	out := Collapse(jobs)
	if len(out) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(out))
	}
	if len(out[0].Sources) != 0 {
		t.Fatalf("empty source must not enter provenance, got %v", out[0].Sources)
	}
}
