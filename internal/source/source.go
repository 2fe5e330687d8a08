package source

import (
	"context"

	"github.com/roarbis/RoleRadar/internal/models"
)

// Source fetches raw postings for one role query from a single job board.
// Adapters populate title/company/location/url/source and nothing else; role
// matching and deduplication are pipeline responsibilities.
type Source interface {
	Name() string
	Search(ctx context.Context, role models.RoleQuery) ([]models.Job, error)
}

var _ Source = (*Seek)(nil)
var _ Source = (*Indeed)(nil)
var _ Source = (*Jora)(nil)
var _ Source = (*LinkedIn)(nil)
var _ Source = (*GradConnection)(nil)
var _ Source = (*CareerOne)(nil)
var _ Source = (*Adzuna)(nil)
