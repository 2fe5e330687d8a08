// Package pipeline runs the scan: fan out sources × roles, match titles,
// collapse duplicates and persist survivors.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/source"
)

const (
	// DefaultConcurrency bounds simultaneous outbound searches. Boards
	// tolerate a handful of parallel requests; more just invites blocks.
	DefaultConcurrency = 4
	// DefaultTimeout bounds one (source, role) search call.
	DefaultTimeout = 30 * time.Second
)

// PairResult holds one (source, role) pair's accepted jobs, in the order the
// adapter produced them.
type PairResult struct {
	Source string
	Role   models.RoleQuery
	Jobs   []models.Job
}

// Failure records one abandoned (source, role) pair. It never aborts
// sibling pairs.
type Failure struct {
	Source string        `json:"source"`
	Role   string        `json:"role"`
	Err    *source.Error `json:"-"`
	Reason string        `json:"reason"`
}

// Orchestrate runs every (source, role) pair with at most concurrency
// in-flight searches and a per-pair timeout. Results come back in task
// order — source order × role order — so downstream dedup tie-breaks stay
// deterministic. It always terminates and never fails as a whole: per-pair
// errors land in the failure list.
func Orchestrate(ctx context.Context, sources []source.Source, roles []models.RoleQuery, concurrency int, timeout time.Duration, logger zerolog.Logger) ([]PairResult, []Failure) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	type task struct {
		src  source.Source
		role models.RoleQuery
	}
	var tasks []task
	for _, src := range sources {
		for _, role := range roles {
			tasks = append(tasks, task{src: src, role: role})
		}
	}

	type outcome struct {
		jobs []models.Job
		err  *source.Error
	}
	outcomes := make([]outcome, len(tasks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)
	for i, t := range tasks {
		wg.Add(1)
		go func(i int, t task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pairCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			jobs, err := t.src.Search(pairCtx, t.role)
			if err != nil {
				outcomes[i] = outcome{err: source.AsError(t.src.Name(), err)}
				return
			}
			outcomes[i] = outcome{jobs: jobs}
		}(i, t)
	}
	wg.Wait()

	var (
		results  []PairResult
		failures []Failure
	)
	for i, t := range tasks {
		out := outcomes[i]
		if out.err != nil {
			logger.Debug().
				Str("source", t.src.Name()).
				Str("role", t.role.Name).
				Str("kind", out.err.Kind.String()).
				Err(out.err).
				Msg("pair abandoned")
			failures = append(failures, Failure{
				Source: t.src.Name(),
				Role:   t.role.Name,
				Err:    out.err,
				Reason: out.err.Error(),
			})
			continue
		}
		logger.Debug().
			Str("source", t.src.Name()).
			Str("role", t.role.Name).
			Int("jobs", len(out.jobs)).
			Msg("pair fetched")
		results = append(results, PairResult{Source: t.src.Name(), Role: t.role, Jobs: out.jobs})
	}

	return results, failures
}
