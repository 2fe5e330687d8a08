package models

import "time"

// Job is the normalized posting produced by every source adapter.
// The dedup layer derives the fingerprint; adapters never set it.
type Job struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Salary      string    `json:"salary,omitempty"`
	Snippet     string    `json:"snippet,omitempty"`
	PostedAt    time.Time `json:"posted_at,omitempty"`
	PostedAtRaw string    `json:"posted_at_raw,omitempty"`
}

// StoredJob is a persisted posting plus bookkeeping. SourcesSeen holds every
// source that has independently reported the same fingerprint.
type StoredJob struct {
	Fingerprint string    `json:"fingerprint"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	URL         string    `json:"url"`
	SourcesSeen []string  `json:"source_list"`
	PostedAt    time.Time `json:"posted_at,omitempty"`
	FirstSeenAt time.Time `json:"first_seen_at"`
	LastSeenAt  time.Time `json:"last_seen_at"`
}
