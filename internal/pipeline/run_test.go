package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/roarbis/RoleRadar/internal/dedup"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/source"
	"github.com/roarbis/RoleRadar/internal/store"
)

// memStore is an in-memory Store for pipeline tests.
type memStore struct {
	jobs    map[string]models.StoredJob
	runs    []store.RunInfo
	failAt  int // fail the nth upsert (1-based), 0 = never
	upserts int
}

func newMemStore() *memStore {
	return &memStore{jobs: map[string]models.StoredJob{}}
}

func (m *memStore) Upsert(candidate dedup.Candidate, now time.Time) (models.StoredJob, bool, error) {
	m.upserts++
	if m.failAt > 0 && m.upserts >= m.failAt {
		return models.StoredJob{}, false, errors.New("disk full")
	}

	if existing, ok := m.jobs[candidate.Fingerprint]; ok {
		for _, src := range candidate.Sources {
			found := false
			for _, have := range existing.SourcesSeen {
				if have == src {
					found = true
					break
				}
			}
			if !found {
				existing.SourcesSeen = append(existing.SourcesSeen, src)
			}
		}
		existing.LastSeenAt = now
		m.jobs[candidate.Fingerprint] = existing
		return existing, false, nil
	}

	stored := models.StoredJob{
		Fingerprint: candidate.Fingerprint,
		Title:       candidate.Job.Title,
		Company:     candidate.Job.Company,
		Location:    candidate.Job.Location,
		URL:         candidate.Job.URL,
		SourcesSeen: append([]string{}, candidate.Sources...),
		FirstSeenAt: now,
		LastSeenAt:  now,
	}
	m.jobs[candidate.Fingerprint] = stored
	return stored, true, nil
}

func (m *memStore) LogRun(info store.RunInfo) error {
	m.runs = append(m.runs, info)
	return nil
}

func TestRunMatchesAndPersists(t *testing.T) {
	src := &fakeSource{name: "seek", jobs: []models.Job{
		{Title: "Senior Project Manager", Company: "Acme", Location: "Sydney"},
		{Title: "Forklift Driver", Company: "Acme", Location: "Sydney"},
	}}
	st := newMemStore()
	roles := []models.RoleQuery{exactRole("Project Manager")}

	result, err := Run(context.Background(), st, []source.Source{src}, roles, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if result.Fetched != 2 {
		t.Fatalf("Fetched = %d, want 2", result.Fetched)
	}
	if result.Matched != 1 {
		t.Fatalf("Matched = %d, want 1", result.Matched)
	}
	if len(result.New) != 1 || result.New[0].Title != "Senior Project Manager" {
		t.Fatalf("unexpected new jobs: %+v", result.New)
	}
	if len(st.runs) != 1 || st.runs[0].JobsNew != 1 {
		t.Fatalf("expected one logged run, got %+v", st.runs)
	}
}

func TestRunCollapsesAcrossSources(t *testing.T) {
	job := models.Job{Title: "Project Manager", Company: "Acme", Location: "Sydney"}
	a := &fakeSource{name: "seek", jobs: []models.Job{job}}
	b := &fakeSource{name: "jora", jobs: []models.Job{job}}
	st := newMemStore()
	roles := []models.RoleQuery{exactRole("Project Manager")}

	result, err := Run(context.Background(), st, []source.Source{a, b}, roles, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if len(result.New) != 1 {
		t.Fatalf("cross-posted job must persist once, got %d", len(result.New))
	}
	sources := result.New[0].SourcesSeen
	if len(sources) != 2 {
		t.Fatalf("expected both sources in provenance, got %v", sources)
	}
}

func TestRunDistinguishesNewFromResighted(t *testing.T) {
	src := &fakeSource{name: "seek", jobs: []models.Job{
		{Title: "Project Manager", Company: "Acme", Location: "Sydney"},
	}}
	st := newMemStore()
	roles := []models.RoleQuery{exactRole("Project Manager")}

	first, err := Run(context.Background(), st, []source.Source{src}, roles, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("first Run() error: %v", err)
	}
	if len(first.New) != 1 || first.Resighted != 0 {
		t.Fatalf("first run: new=%d resighted=%d", len(first.New), first.Resighted)
	}

	second, err := Run(context.Background(), st, []source.Source{src}, roles, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("second Run() error: %v", err)
	}
	if len(second.New) != 0 || second.Resighted != 1 {
		t.Fatalf("second run: new=%d resighted=%d", len(second.New), second.Resighted)
	}
}

func TestRunToleratesSourceFailures(t *testing.T) {
	blocked := &fakeSource{name: "linkedin", err: &source.Error{Source: "linkedin", Kind: source.KindBlocked, Err: errors.New("http 999")}}
	healthy := &fakeSource{name: "seek", jobs: []models.Job{
		{Title: "Project Manager", Company: "Acme", Location: "Sydney"},
	}}
	st := newMemStore()
	roles := []models.RoleQuery{exactRole("Project Manager")}

	result, err := Run(context.Background(), st, []source.Source{blocked, healthy}, roles, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("source failures must not fail the run: %v", err)
	}
	if len(result.New) != 1 {
		t.Fatalf("healthy source's jobs must persist, got %d", len(result.New))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("expected the blocked pair reported, got %d", len(result.Failures))
	}
}

func TestRunAllSourcesFailing(t *testing.T) {
	a := &fakeSource{name: "a", err: errors.New("down")}
	b := &fakeSource{name: "b", err: errors.New("down")}
	st := newMemStore()
	roles := []models.RoleQuery{exactRole("Project Manager")}

	result, err := Run(context.Background(), st, []source.Source{a, b}, roles, Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Fetched != 0 || len(result.New) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("every failed pair must be reported, got %d", len(result.Failures))
	}
	if len(st.runs) != 1 {
		t.Fatalf("an all-failed run is still logged, got %d", len(st.runs))
	}
}

func TestRunStoreFailureIsFatalButPartial(t *testing.T) {
	src := &fakeSource{name: "seek", jobs: []models.Job{
		{Title: "Project Manager", Company: "Acme", Location: "Sydney"},
		{Title: "Project Manager", Company: "Beta", Location: "Perth"},
	}}
	st := newMemStore()
	st.failAt = 2
	roles := []models.RoleQuery{exactRole("Project Manager")}

	result, err := Run(context.Background(), st, []source.Source{src}, roles, Options{Logger: zerolog.Nop()})
	if err == nil {
		t.Fatalf("expected a store failure to surface")
	}
	if result == nil {
		t.Fatalf("expected partial result alongside the error")
	}
	if len(result.New) != 1 {
		t.Fatalf("expected the pre-failure upsert reported, got %d", len(result.New))
	}
}

func TestRunValidatesInput(t *testing.T) {
	st := newMemStore()
	src := &fakeSource{name: "seek"}

	if _, err := Run(context.Background(), st, nil, []models.RoleQuery{exactRole("X")}, Options{Logger: zerolog.Nop()}); err == nil {
		t.Fatalf("expected error for empty sources")
	}
	if _, err := Run(context.Background(), st, []source.Source{src}, nil, Options{Logger: zerolog.Nop()}); err == nil {
		t.Fatalf("expected error for empty roles")
	}
	badRole := []models.RoleQuery{{Name: "", Match: models.MatchExact}}
	if _, err := Run(context.Background(), st, []source.Source{src}, badRole, Options{Logger: zerolog.Nop()}); err == nil {
		t.Fatalf("expected error for invalid role")
	}
	if st.upserts != 0 {
		t.Fatalf("validation must fail before any store writes, got %d upserts", st.upserts)
	}
}
