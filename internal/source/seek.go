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
	seekAPIURL = "https://www.seek.com.au/api/jobsearch/v5/search"
	seekJobURL = "https://www.seek.com.au/job/%s"
)

// Seek queries Seek's internal search API, which returns clean JSON once the
// TLS client presents a browser profile.
type Seek struct {
	client   *network.Client
	location string
}

func NewSeek(client *network.Client, location string) *Seek {
	return &Seek{client: client, location: location}
}

func (s *Seek) Name() string {
	return SiteSeek
}

func (s *Seek) Search(ctx context.Context, role models.RoleQuery) ([]models.Job, error) {
	data, err := fetchBytes(ctx, s.client, SiteSeek, buildSeekURL(role.Name, s.location), map[string]string{
		"accept":               "application/json",
		"referer":              "https://www.seek.com.au/",
		"x-seek-site":          "Chalice",
		"seek-request-brand":   "seek",
		"seek-request-country": "AU",
	})
	if err != nil {
		return nil, err
	}

	var payload seekResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, parseErr(SiteSeek, err)
	}
	return parseSeekJobs(payload.Data), nil
}

func buildSeekURL(query string, location string) string {
	// Seek accepts plain location strings: "All Australia", "Melbourne VIC".
	where := location
	if strings.EqualFold(where, DefaultLocation) || where == "" {
		where = "All Australia"
	}
	values := url.Values{}
	values.Set("siteKey", "AU-Main")
	values.Set("where", where)
	values.Set("page", "1")
	values.Set("keywords", query)
	values.Set("seekSelectAllPages", "true")
	values.Set("sortMode", "ListedDate")
	return fmt.Sprintf("%s?%s", seekAPIURL, values.Encode())
}

type seekResponse struct {
	Data []seekListing `json:"data"`
}

type seekListing struct {
	// Seek has used id, jobId and listingId across API revisions.
	ID           json.Number    `json:"id"`
	JobID        json.Number    `json:"jobId"`
	ListingID    json.Number    `json:"listingId"`
	Title        string         `json:"title"`
	CompanyName  string         `json:"companyName"`
	Advertiser   seekAdvertiser `json:"advertiser"`
	Locations    []seekLocation `json:"locations"`
	SalaryLabel  string         `json:"salaryLabel"`
	ListingDate  string         `json:"listingDate"`
	Teaser       string         `json:"teaser"`
	BulletPoints []string       `json:"bulletPoints"`
}

type seekAdvertiser struct {
	Description string `json:"description"`
}

type seekLocation struct {
	Suburb string `json:"suburb"`
	Area   string `json:"area"`
	State  string `json:"state"`
}

func parseSeekJobs(listings []seekListing) []models.Job {
	var jobs []models.Job
	for _, item := range listings {
		title := cleanText(item.Title)
		if title == "" {
			continue
		}

		id := firstNumber(item.ID, item.JobID, item.ListingID)
		jobURL := ""
		if id != "" {
			jobURL = fmt.Sprintf(seekJobURL, id)
		}

		company := cleanText(item.CompanyName)
		if company == "" {
			company = cleanText(item.Advertiser.Description)
		}

		location := DefaultLocation
		if len(item.Locations) > 0 {
			parts := []string{item.Locations[0].Suburb, item.Locations[0].Area, item.Locations[0].State}
			var cleaned []string
			for _, part := range parts {
				if part = cleanText(part); part != "" {
					cleaned = append(cleaned, part)
				}
			}
			if len(cleaned) > 0 {
				location = strings.Join(cleaned, ", ")
			}
		}

		snippet := cleanText(item.Teaser)
		if snippet == "" && len(item.BulletPoints) > 0 {
			snippet = cleanText(strings.Join(item.BulletPoints, " | "))
		}

		job := models.Job{
			Source:      SiteSeek,
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         jobURL,
			Salary:      cleanText(item.SalaryLabel),
			Snippet:     truncate(snippet, 400),
			PostedAtRaw: item.ListingDate,
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

func firstNumber(values ...json.Number) string {
	for _, value := range values {
		if value.String() != "" {
			return value.String()
		}
	}
	return ""
}
