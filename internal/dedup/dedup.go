package dedup

import (
	"sort"

	"github.com/roarbis/RoleRadar/internal/models"
)

// Candidate is a batch survivor: one job per fingerprint with the union of
// the sources that reported it.
type Candidate struct {
	Job         models.Job
	Fingerprint string
	Sources     []string
}

// Collapse reduces a batch to one candidate per fingerprint, preserving
// input order for survivors. When two candidates collide, the one with the
// earliest known posted-at date wins; with no dates the first processed
// wins. Either way the loser's source joins the survivor's provenance, so
// the merged source set does not depend on processing order.
func Collapse(jobs []models.Job) []Candidate {
	byFingerprint := make(map[string]int, len(jobs))
	out := make([]Candidate, 0, len(jobs))

	for _, job := range jobs {
		fp := Fingerprint(job)
		idx, seen := byFingerprint[fp]
		if !seen {
			byFingerprint[fp] = len(out)
			out = append(out, Candidate{
				Job:         job,
				Fingerprint: fp,
				Sources:     addSource(nil, job.Source),
			})
			continue
		}

		survivor := &out[idx]
		survivor.Sources = addSource(survivor.Sources, job.Source)
		if earlier(job, survivor.Job) {
			sources := survivor.Sources
			survivor.Job = job
			survivor.Sources = sources
		}
	}

	return out
}

// earlier reports whether challenger should replace incumbent: only when the
// challenger has a known posted-at date that precedes the incumbent's, or
// the incumbent has none at all.
func earlier(challenger models.Job, incumbent models.Job) bool {
	if challenger.PostedAt.IsZero() {
		return false
	}
	if incumbent.PostedAt.IsZero() {
		return true
	}
	return challenger.PostedAt.Before(incumbent.PostedAt)
}

func addSource(sources []string, source string) []string {
	if source == "" {
		return sources
	}
	for _, existing := range sources {
		if existing == source {
			return sources
		}
	}
	sources = append(sources, source)
	sort.Strings(sources)
	return sources
}
