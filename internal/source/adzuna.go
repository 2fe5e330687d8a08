package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/network"
)

const (
	adzunaAPIBase        = "https://api.adzuna.com/v1/api/jobs/au/search/1"
	adzunaResultsPerPage = 20
)

// Adzuna queries the Adzuna jobs API. Adzuna aggregates Seek, Indeed,
// CareerOne and others, which makes it a good substitute for blocked
// scrapers. Requires free API credentials.
type Adzuna struct {
	client *network.Client
	appID  string
	appKey string
}

func NewAdzuna(client *network.Client, appID string, appKey string) *Adzuna {
	return &Adzuna{
		client: client,
		appID:  strings.TrimSpace(appID),
		appKey: strings.TrimSpace(appKey),
	}
}

func (a *Adzuna) Name() string {
	return SiteAdzuna
}

// Configured reports whether API credentials are present. Unconfigured
// Adzuna is skipped at source selection, not failed at run time.
func (a *Adzuna) Configured() bool {
	return a.appID != "" && a.appKey != ""
}

func (a *Adzuna) Search(ctx context.Context, role models.RoleQuery) ([]models.Job, error) {
	if !a.Configured() {
		return nil, blockedErr(SiteAdzuna, fmt.Errorf("api credentials not set"))
	}

	data, err := fetchBytes(ctx, a.client, SiteAdzuna, a.buildURL(role.Name), map[string]string{
		"accept": "application/json",
	})
	if err != nil {
		return nil, err
	}

	var payload adzunaResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, parseErr(SiteAdzuna, err)
	}
	return parseAdzunaJobs(payload.Results), nil
}

func (a *Adzuna) buildURL(query string) string {
	values := url.Values{}
	values.Set("app_id", a.appID)
	values.Set("app_key", a.appKey)
	values.Set("results_per_page", fmt.Sprintf("%d", adzunaResultsPerPage))
	values.Set("what", query)
	values.Set("where", DefaultLocation)
	values.Set("content-type", "application/json")
	values.Set("sort_by", "date")
	return fmt.Sprintf("%s?%s", adzunaAPIBase, values.Encode())
}

type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
}

type adzunaResult struct {
	Title   string `json:"title"`
	Company struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		Area []string `json:"area"`
	} `json:"location"`
	SalaryMin   float64 `json:"salary_min"`
	SalaryMax   float64 `json:"salary_max"`
	RedirectURL string  `json:"redirect_url"`
	Description string  `json:"description"`
	Created     string  `json:"created"`
}

func parseAdzunaJobs(results []adzunaResult) []models.Job {
	var jobs []models.Job
	for _, item := range results {
		title := cleanText(item.Title)
		if title == "" {
			continue
		}

		location := DefaultLocation
		if len(item.Location.Area) > 0 {
			parts := item.Location.Area
			if len(parts) > 2 {
				parts = parts[len(parts)-2:]
			}
			location = strings.Join(parts, ", ")
		}

		salary := ""
		switch {
		case item.SalaryMin > 0 && item.SalaryMax > 0:
			salary = fmt.Sprintf("$%.0f - $%.0f", item.SalaryMin, item.SalaryMax)
		case item.SalaryMin > 0:
			salary = fmt.Sprintf("From $%.0f", item.SalaryMin)
		}

		job := models.Job{
			Source:      SiteAdzuna,
			Title:       title,
			Company:     cleanText(item.Company.DisplayName),
			Location:    location,
			URL:         item.RedirectURL,
			Salary:      salary,
			Snippet:     truncate(cleanText(item.Description), 300),
			PostedAtRaw: item.Created,
		}
		if job.PostedAtRaw != "" {
			if ts, err := parsePostedAt(job.PostedAtRaw); err == nil {
				job.PostedAt = ts
			}
		}

		jobs = append(jobs, job)
	}
	return jobs
}
