package source

import (
	"context"
	"errors"

	"github.com/roarbis/RoleRadar/internal/models"
)

// CareerOne renders listings with JavaScript shimmer placeholders, so plain
// HTTP requests never see actual jobs. The adapter stays registered and
// reports itself as blocked on every call; Adzuna aggregates CareerOne data
// and is the working substitute.
type CareerOne struct{}

func NewCareerOne() *CareerOne {
	return &CareerOne{}
}

func (c *CareerOne) Name() string {
	return SiteCareerOne
}

func (c *CareerOne) Search(ctx context.Context, role models.RoleQuery) ([]models.Job, error) {
	return nil, blockedErr(SiteCareerOne, errors.New("listings are rendered client-side; enable adzuna instead"))
}
