package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/roarbis/RoleRadar/internal/dedup"
	"github.com/roarbis/RoleRadar/internal/match"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/source"
	"github.com/roarbis/RoleRadar/internal/store"
)

// Store is the persistence surface the pipeline writes through. The store
// exclusively owns StoredJob lifetime; the pipeline never keeps its own
// durable copy.
type Store interface {
	Upsert(candidate dedup.Candidate, now time.Time) (models.StoredJob, bool, error)
	LogRun(info store.RunInfo) error
}

// Options tunes one scan run.
type Options struct {
	Concurrency      int
	Timeout          time.Duration
	SimilarThreshold float64
	Logger           zerolog.Logger
}

// Result reports what a run found, even when it also returns an error:
// persistence can fail partway through and the caller needs to know exactly
// what made it in.
type Result struct {
	Fetched   int                // jobs returned by adapters before matching
	Matched   int                // jobs surviving role matching
	New       []models.StoredJob // newly persisted postings
	Resighted int                // known fingerprints seen again
	Failures  []Failure          // abandoned (source, role) pairs
}

// Run executes the full pipeline: validate → orchestrate → match → dedup →
// persist → log. Source failures are aggregated in the result; a store
// failure is fatal and comes back alongside the partial result.
func Run(ctx context.Context, st Store, sources []source.Source, roles []models.RoleQuery, opts Options) (*Result, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("at least one role is required")
	}
	for _, role := range roles {
		if err := role.Validate(); err != nil {
			return nil, err
		}
	}

	pairs, failures := Orchestrate(ctx, sources, roles, opts.Concurrency, opts.Timeout, opts.Logger)

	result := &Result{Failures: failures}

	matcher := match.New(opts.SimilarThreshold)
	var matched []models.Job
	for _, pair := range pairs {
		result.Fetched += len(pair.Jobs)
		for _, job := range pair.Jobs {
			if matcher.Matches(job.Title, pair.Role) {
				matched = append(matched, job)
			}
		}
	}
	result.Matched = len(matched)

	now := time.Now().UTC()
	for _, candidate := range dedup.Collapse(matched) {
		stored, created, err := st.Upsert(candidate, now)
		if err != nil {
			// Report what was persisted before the failure instead of
			// swallowing it.
			return result, fmt.Errorf("persisting results: %w", err)
		}
		if created {
			result.New = append(result.New, stored)
		} else {
			result.Resighted++
		}
	}

	roleNames := make([]string, 0, len(roles))
	for _, role := range roles {
		roleNames = append(roleNames, role.Name)
	}
	if err := st.LogRun(store.RunInfo{
		RunAt:     now,
		Roles:     roleNames,
		JobsFound: result.Matched,
		JobsNew:   len(result.New),
	}); err != nil {
		return result, fmt.Errorf("recording run: %w", err)
	}

	opts.Logger.Info().
		Int("fetched", result.Fetched).
		Int("matched", result.Matched).
		Int("new", len(result.New)).
		Int("resighted", result.Resighted).
		Int("failures", len(result.Failures)).
		Msg("scan complete")

	return result, nil
}
