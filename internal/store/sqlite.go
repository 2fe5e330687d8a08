// Package store owns durable StoredJob persistence. It is the only mutable
// shared state in a run; every write goes through one mutex so concurrent
// re-sightings of a fingerprint merge instead of racing.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/roarbis/RoleRadar/internal/dedup"
	"github.com/roarbis/RoleRadar/internal/models"
)

// Fixed-width fraction so stored timestamps sort lexicographically in
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore persists deduplicated jobs keyed by fingerprint, plus a log of
// scan runs.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the database at dbPath and ensures the schema.
func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	schema := `
CREATE TABLE IF NOT EXISTS jobs (
	fingerprint   TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	company       TEXT NOT NULL DEFAULT '',
	location      TEXT NOT NULL DEFAULT '',
	url           TEXT NOT NULL DEFAULT '',
	source_list   TEXT NOT NULL DEFAULT '',
	posted_at     TEXT NOT NULL DEFAULT '',
	first_seen_at TEXT NOT NULL,
	last_seen_at  TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_at     TEXT NOT NULL,
	roles      TEXT NOT NULL,
	jobs_found INTEGER NOT NULL,
	jobs_new   INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Upsert inserts a candidate under its fingerprint or, when the fingerprint
// already exists, merges provenance and advances last_seen_at. Calling it
// twice with the same candidate leaves the same final state as once. The
// returned bool is true when a new row was created.
func (s *SQLiteStore) Upsert(candidate dedup.Candidate, now time.Time) (models.StoredJob, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now = now.UTC()
	existing, err := s.get(candidate.Fingerprint)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return models.StoredJob{}, false, fmt.Errorf("upsert %s: %w", candidate.Fingerprint, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		stored := models.StoredJob{
			Fingerprint: candidate.Fingerprint,
			Title:       candidate.Job.Title,
			Company:     candidate.Job.Company,
			Location:    candidate.Job.Location,
			URL:         candidate.Job.URL,
			SourcesSeen: append([]string{}, candidate.Sources...),
			PostedAt:    candidate.Job.PostedAt,
			FirstSeenAt: now,
			LastSeenAt:  now,
		}
		_, err := s.db.Exec(
			`INSERT INTO jobs (fingerprint, title, company, location, url, source_list, posted_at, first_seen_at, last_seen_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			stored.Fingerprint, stored.Title, stored.Company, stored.Location, stored.URL,
			joinSources(stored.SourcesSeen), formatTime(stored.PostedAt),
			formatTime(stored.FirstSeenAt), formatTime(stored.LastSeenAt),
		)
		if err != nil {
			return models.StoredJob{}, false, fmt.Errorf("insert %s: %w", candidate.Fingerprint, err)
		}
		return stored, true, nil
	}

	// Re-sighting: existing row wins every field except provenance and
	// last_seen_at.
	existing.SourcesSeen = mergeSources(existing.SourcesSeen, candidate.Sources)
	if now.After(existing.LastSeenAt) {
		existing.LastSeenAt = now
	}
	_, err = s.db.Exec(
		`UPDATE jobs SET source_list = ?, last_seen_at = ? WHERE fingerprint = ?`,
		joinSources(existing.SourcesSeen), formatTime(existing.LastSeenAt), existing.Fingerprint,
	)
	if err != nil {
		return models.StoredJob{}, false, fmt.Errorf("update %s: %w", candidate.Fingerprint, err)
	}
	return existing, false, nil
}

// Has reports whether a fingerprint is already persisted.
func (s *SQLiteStore) Has(fingerprint string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM jobs WHERE fingerprint = ?`, fingerprint).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking fingerprint %s: %w", fingerprint, err)
	}
	return true, nil
}

// ListAll returns every stored job ordered by first_seen_at descending. Each
// call issues a fresh query, so exporters can re-read at will.
func (s *SQLiteStore) ListAll() ([]models.StoredJob, error) {
	rows, err := s.db.Query(
		`SELECT fingerprint, title, company, location, url, source_list, posted_at, first_seen_at, last_seen_at
		 FROM jobs ORDER BY first_seen_at DESC, fingerprint ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []models.StoredJob
	for rows.Next() {
		var (
			job                             models.StoredJob
			sourceList, posted, first, last string
		)
		if err := rows.Scan(&job.Fingerprint, &job.Title, &job.Company, &job.Location,
			&job.URL, &sourceList, &posted, &first, &last); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		job.SourcesSeen = splitSources(sourceList)
		job.PostedAt = parseTime(posted)
		job.FirstSeenAt = parseTime(first)
		job.LastSeenAt = parseTime(last)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating job rows: %w", err)
	}
	return jobs, nil
}

// Count returns the number of stored jobs.
func (s *SQLiteStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM jobs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting jobs: %w", err)
	}
	return count, nil
}

// RunInfo is one recorded scan run.
type RunInfo struct {
	RunAt     time.Time
	Roles     []string
	JobsFound int
	JobsNew   int
}

// LogRun records a completed scan.
func (s *SQLiteStore) LogRun(info RunInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO runs (run_at, roles, jobs_found, jobs_new) VALUES (?, ?, ?, ?)`,
		formatTime(info.RunAt.UTC()), strings.Join(info.Roles, ", "), info.JobsFound, info.JobsNew,
	)
	if err != nil {
		return fmt.Errorf("logging run: %w", err)
	}
	return nil
}

// LastRun returns the most recent scan run, or sql.ErrNoRows when none exists.
func (s *SQLiteStore) LastRun() (RunInfo, error) {
	var (
		info  RunInfo
		runAt string
		roles string
	)
	err := s.db.QueryRow(
		`SELECT run_at, roles, jobs_found, jobs_new FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&runAt, &roles, &info.JobsFound, &info.JobsNew)
	if err != nil {
		return RunInfo{}, err
	}
	info.RunAt = parseTime(runAt)
	info.Roles = splitSources(roles)
	return info, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) get(fingerprint string) (models.StoredJob, error) {
	var (
		job                             models.StoredJob
		sourceList, posted, first, last string
	)
	err := s.db.QueryRow(
		`SELECT fingerprint, title, company, location, url, source_list, posted_at, first_seen_at, last_seen_at
		 FROM jobs WHERE fingerprint = ?`, fingerprint,
	).Scan(&job.Fingerprint, &job.Title, &job.Company, &job.Location,
		&job.URL, &sourceList, &posted, &first, &last)
	if err != nil {
		return models.StoredJob{}, err
	}
	job.SourcesSeen = splitSources(sourceList)
	job.PostedAt = parseTime(posted)
	job.FirstSeenAt = parseTime(first)
	job.LastSeenAt = parseTime(last)
	return job, nil
}

func joinSources(sources []string) string {
	return strings.Join(sources, ",")
}

func splitSources(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mergeSources(existing []string, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	merged := make([]string, 0, len(existing)+len(incoming))
	for _, source := range append(append([]string{}, existing...), incoming...) {
		if source == "" {
			continue
		}
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		merged = append(merged, source)
	}
	sort.Strings(merged)
	return merged
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
