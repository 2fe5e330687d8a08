package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roarbis/RoleRadar/internal/dedup"
	"github.com/roarbis/RoleRadar/internal/models"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func candidate(title, company, location string, sources ...string) dedup.Candidate {
	job := models.Job{Title: title, Company: company, Location: location, URL: "https://example.com/job"}
	return dedup.Candidate{
		Job:         job,
		Fingerprint: dedup.Fingerprint(job),
		Sources:     sources,
	}
}

func TestUpsertCreates(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	stored, created, err := st.Upsert(candidate("Engineer", "Acme", "Sydney", "seek"), now)
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true for a new fingerprint")
	}
	if stored.Title != "Engineer" || len(stored.SourcesSeen) != 1 || stored.SourcesSeen[0] != "seek" {
		t.Fatalf("unexpected stored job: %+v", stored)
	}
	if !stored.FirstSeenAt.Equal(now) || !stored.LastSeenAt.Equal(now) {
		t.Fatalf("expected first/last seen to be now, got %+v", stored)
	}

	count, err := st.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Fatalf("Count() = %d, want 1", count)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	cand := candidate("Engineer", "Acme", "Sydney", "seek")

	if _, _, err := st.Upsert(cand, now); err != nil {
		t.Fatalf("first Upsert() error: %v", err)
	}
	stored, created, err := st.Upsert(cand, now)
	if err != nil {
		t.Fatalf("second Upsert() error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on re-sighting")
	}
	if len(stored.SourcesSeen) != 1 {
		t.Fatalf("expected provenance unchanged, got %v", stored.SourcesSeen)
	}

	count, err := st.Count()
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Fatalf("Count() = %d, want 1", count)
	}
}

func TestUpsertMergesProvenance(t *testing.T) {
	st := openTestStore(t)
	first := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)

	if _, _, err := st.Upsert(candidate("Engineer", "Acme", "Sydney", "seek"), first); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	later := candidate("Engineer", "Acme", "Sydney", "jora")
	later.Job.URL = "https://example.com/other"
	stored, created, err := st.Upsert(later, second)
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for a known fingerprint")
	}
	if len(stored.SourcesSeen) != 2 || stored.SourcesSeen[0] != "jora" || stored.SourcesSeen[1] != "seek" {
		t.Fatalf("expected sorted merged provenance, got %v", stored.SourcesSeen)
	}
	// The first sighting owns every descriptive field.
	if stored.URL != "https://example.com/job" {
		t.Fatalf("re-sighting must not overwrite fields, got %q", stored.URL)
	}
	if !stored.FirstSeenAt.Equal(first) {
		t.Fatalf("first_seen_at must not move, got %v", stored.FirstSeenAt)
	}
	if !stored.LastSeenAt.Equal(second) {
		t.Fatalf("last_seen_at should advance, got %v", stored.LastSeenAt)
	}
}

func TestUpsertDoesNotRewindLastSeen(t *testing.T) {
	st := openTestStore(t)
	newer := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	cand := candidate("Engineer", "Acme", "Sydney", "seek")

	if _, _, err := st.Upsert(cand, newer); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	stored, _, err := st.Upsert(cand, older)
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if !stored.LastSeenAt.Equal(newer) {
		t.Fatalf("last_seen_at must not rewind, got %v", stored.LastSeenAt)
	}
}

func TestHas(t *testing.T) {
	st := openTestStore(t)
	cand := candidate("Engineer", "Acme", "Sydney", "seek")

	ok, err := st.Has(cand.Fingerprint)
	if err != nil {
		t.Fatalf("Has() error: %v", err)
	}
	if ok {
		t.Fatalf("expected Has() to be false before upsert")
	}

	if _, _, err := st.Upsert(cand, time.Now()); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	ok, err = st.Has(cand.Fingerprint)
	if err != nil {
		t.Fatalf("Has() error: %v", err)
	}
	if !ok {
		t.Fatalf("expected Has() to be true after upsert")
	}
}

func TestListAllOrdering(t *testing.T) {
	st := openTestStore(t)
	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	if _, _, err := st.Upsert(candidate("Oldest", "Acme", "Sydney", "seek"), base); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if _, _, err := st.Upsert(candidate("Newest", "Acme", "Sydney", "seek"), base.Add(2*time.Hour)); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if _, _, err := st.Upsert(candidate("Middle", "Acme", "Sydney", "seek"), base.Add(time.Hour)); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	jobs, err := st.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("ListAll() len = %d, want 3", len(jobs))
	}
	titles := []string{jobs[0].Title, jobs[1].Title, jobs[2].Title}
	want := []string{"Newest", "Middle", "Oldest"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("ListAll() order = %v, want %v", titles, want)
		}
	}
}

func TestListAllRoundTripsTimes(t *testing.T) {
	st := openTestStore(t)
	now := time.Date(2026, 8, 25, 10, 30, 45, 123456789, time.UTC)

	cand := candidate("Engineer", "Acme", "Sydney", "seek")
	cand.Job.PostedAt = now.Add(-48 * time.Hour)

	if _, _, err := st.Upsert(cand, now); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	jobs, err := st.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("ListAll() len = %d, want 1", len(jobs))
	}
	if !jobs[0].FirstSeenAt.Equal(now) {
		t.Fatalf("FirstSeenAt = %v, want %v", jobs[0].FirstSeenAt, now)
	}
	if !jobs[0].PostedAt.Equal(cand.Job.PostedAt) {
		t.Fatalf("PostedAt = %v, want %v", jobs[0].PostedAt, cand.Job.PostedAt)
	}
}

func TestPersistenceAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	cand := candidate("Engineer", "Acme", "Sydney", "seek")
	if _, _, err := st.Upsert(cand, time.Now()); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer reopened.Close()

	ok, err := reopened.Has(cand.Fingerprint)
	if err != nil {
		t.Fatalf("Has() error: %v", err)
	}
	if !ok {
		t.Fatalf("expected fingerprint to survive reopen")
	}
}

func TestLogRunAndLastRun(t *testing.T) {
	st := openTestStore(t)
	first := time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)

	if err := st.LogRun(RunInfo{RunAt: first, Roles: []string{"Project Manager"}, JobsFound: 10, JobsNew: 4}); err != nil {
		t.Fatalf("LogRun() error: %v", err)
	}
	if err := st.LogRun(RunInfo{RunAt: second, Roles: []string{"Project Manager", "Data Analyst"}, JobsFound: 8, JobsNew: 1}); err != nil {
		t.Fatalf("LogRun() error: %v", err)
	}

	last, err := st.LastRun()
	if err != nil {
		t.Fatalf("LastRun() error: %v", err)
	}
	if !last.RunAt.Equal(second) {
		t.Fatalf("LastRun().RunAt = %v, want %v", last.RunAt, second)
	}
	if last.JobsFound != 8 || last.JobsNew != 1 {
		t.Fatalf("unexpected last run: %+v", last)
	}
	if len(last.Roles) != 2 {
		t.Fatalf("unexpected roles: %v", last.Roles)
	}
}

func TestTimeLayoutSortsLexicographically(t *testing.T) {
	early := time.Date(2026, 8, 25, 10, 0, 0, 500, time.UTC)
	late := time.Date(2026, 8, 25, 10, 0, 1, 0, time.UTC)

	if formatTime(early) >= formatTime(late) {
		t.Fatalf("expected %q < %q", formatTime(early), formatTime(late))
	}
}
