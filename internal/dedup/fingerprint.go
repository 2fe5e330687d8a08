// Package dedup collapses duplicate postings within a batch and prepares
// them for idempotent persistence.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roarbis/RoleRadar/internal/match"
	"github.com/roarbis/RoleRadar/internal/models"
)

const fingerprintSeparator = "\x1f"

// Fingerprint identifies a logical posting across sources and runs. It is a
// pure function of the normalized title, company and location; equal
// fingerprints mean the same posting regardless of source or URL, since the
// same role is commonly cross-posted.
func Fingerprint(job models.Job) string {
	payload := match.Normalize(job.Title) + fingerprintSeparator +
		match.Normalize(job.Company) + fingerprintSeparator +
		match.Normalize(job.Location)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
