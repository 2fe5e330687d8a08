package source

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

func TestCleanText(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"  hello  \n world  ", "hello world"},
		{"Fish &amp; Chips", "Fish & Chips"},
		{"", ""},
	}

	for _, tc := range cases {
		got := cleanText(tc.value)
		if got != tc.want {
			t.Fatalf("cleanText(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://au.jora.com/j?q=x"
	cases := []struct {
		href string
		want string
	}{
		{"/job/123", "https://au.jora.com/job/123"},
		{"https://other.com/a", "https://other.com/a"},
		{"//cdn.example.com/asset", "https://cdn.example.com/asset"},
		{"", ""},
	}

	for _, tc := range cases {
		got := absoluteURL(base, tc.href)
		if got != tc.want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestParsePostedAt(t *testing.T) {
	cases := []string{
		"2026-08-20",
		"2026-08-20T10:30:00Z",
		"Thu, 20 Aug 2026 10:30:00 +1000",
		time.Date(2026, 8, 20, 1, 2, 3, 0, time.UTC).Format(time.RFC3339),
	}

	for _, value := range cases {
		parsed, err := parsePostedAt(value)
		if err != nil {
			t.Fatalf("expected parse success for %q: %v", value, err)
		}
		if parsed.IsZero() {
			t.Fatalf("parsed time should not be zero for %q", value)
		}
	}

	if _, err := parsePostedAt("3 days ago"); err == nil {
		t.Fatalf("relative dates are not parseable and must error")
	}
	if _, err := parsePostedAt(""); err == nil {
		t.Fatalf("empty value must error")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 400); got != "short" {
		t.Fatalf("truncate should leave short values alone, got %q", got)
	}
	got := truncate(strings.Repeat("a", 500), 400)
	if len(got) != 403 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected truncation: len=%d", len(got))
	}
	if got := truncate("anything", 0); got != "anything" {
		t.Fatalf("non-positive max disables truncation, got %q", got)
	}
}

func TestStatusErrMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{429, KindRateLimited},
		{403, KindBlocked},
		{999, KindBlocked},
		{500, KindNetwork},
		{404, KindNetwork},
	}

	for _, tc := range cases {
		err := statusErr("seek", tc.status)
		if err.Kind != tc.kind {
			t.Fatalf("statusErr(%d).Kind = %v, want %v", tc.status, err.Kind, tc.kind)
		}
		if err.Source != "seek" {
			t.Fatalf("statusErr source = %q", err.Source)
		}
	}
}

func TestErrorStringAndUnwrap(t *testing.T) {
	inner := statusErr("linkedin", 999)
	if !strings.Contains(inner.Error(), "linkedin") || !strings.Contains(inner.Error(), "blocked") {
		t.Fatalf("unexpected error string: %q", inner.Error())
	}
	if inner.Unwrap() == nil {
		t.Fatalf("expected wrapped cause")
	}
}

func TestAsError(t *testing.T) {
	typed := blockedErr("careerone", nil)
	if got := AsError("careerone", typed); got != typed {
		t.Fatalf("typed errors must pass through unchanged")
	}

	plain := AsError("seek", errors.New("connection reset"))
	if plain.Kind != KindNetwork || plain.Source != "seek" {
		t.Fatalf("plain errors default to network: %+v", plain)
	}
}
