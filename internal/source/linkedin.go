package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/network"
)

const linkedInBaseURL = "https://www.linkedin.com"

// LinkedIn scrapes the public job search page (no login). Unauthenticated
// results cap at roughly 25 per search; bot detection answers HTTP 999.
type LinkedIn struct {
	client   *network.Client
	location string
}

func NewLinkedIn(client *network.Client, location string) *LinkedIn {
	return &LinkedIn{client: client, location: location}
}

func (l *LinkedIn) Name() string {
	return SiteLinkedIn
}

func (l *LinkedIn) Search(ctx context.Context, role models.RoleQuery) ([]models.Job, error) {
	doc, err := fetchDocument(ctx, l.client, SiteLinkedIn, buildLinkedInURL(role.Name, l.location), nil)
	if err != nil {
		return nil, err
	}
	return parseLinkedInJobs(doc), nil
}

func buildLinkedInURL(query string, location string) string {
	values := url.Values{}
	values.Set("keywords", query)
	values.Set("location", location)
	values.Set("f_TPR", "r604800") // last 7 days
	values.Set("sortBy", "DD")     // newest first
	return fmt.Sprintf("%s/jobs/search/?%s", linkedInBaseURL, values.Encode())
}

func parseLinkedInJobs(doc *goquery.Document) []models.Job {
	var jobs []models.Job

	cards := doc.Find("div.base-card")
	if cards.Length() == 0 {
		cards = doc.Find("li.job-search-card")
	}

	cards.Each(func(_ int, card *goquery.Selection) {
		title := cleanText(card.Find("h3.base-search-card__title").First().Text())
		if title == "" {
			title = cleanText(card.Find("h3, h2").First().Text())
		}
		if title == "" {
			return
		}

		company := cleanText(card.Find("h4.base-search-card__subtitle").First().Text())
		if company == "" {
			company = cleanText(card.Find("a.hidden-nested-link").First().Text())
		}

		location := cleanText(card.Find("span.job-search-card__location").First().Text())
		if location == "" {
			location = DefaultLocation
		}

		jobURL := ""
		if href, ok := card.Find("a.base-card__full-link").First().Attr("href"); ok {
			// Strip tracking parameters.
			jobURL = strings.SplitN(href, "?", 2)[0]
		}

		posted := ""
		if dt, ok := card.Find("time").First().Attr("datetime"); ok {
			posted = dt
		}

		job := models.Job{
			Source:      SiteLinkedIn,
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         jobURL,
			PostedAtRaw: posted,
		}
		if job.PostedAtRaw != "" {
			if ts, err := parsePostedAt(job.PostedAtRaw); err == nil {
				job.PostedAt = ts
			}
		}

		jobs = append(jobs, job)
	})

	return jobs
}
