package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/network"
)

const indeedBaseURL = "https://au.indeed.com"

// Indeed scrapes au.indeed.com job cards. The RSS feed was discontinued, so
// HTML is the only working path; datacenter IPs are frequently blocked.
type Indeed struct {
	client *network.Client
}

func NewIndeed(client *network.Client) *Indeed {
	return &Indeed{client: client}
}

func (i *Indeed) Name() string {
	return SiteIndeed
}

func (i *Indeed) Search(ctx context.Context, role models.RoleQuery) ([]models.Job, error) {
	doc, err := fetchDocument(ctx, i.client, SiteIndeed, buildIndeedURL(role.Name), nil)
	if err != nil {
		return nil, err
	}
	return parseIndeedJobs(doc), nil
}

func buildIndeedURL(query string) string {
	// au.indeed.com is AU-scoped already; no location parameter needed.
	values := url.Values{}
	values.Set("q", query)
	values.Set("sort", "date")
	return fmt.Sprintf("%s/jobs?%s", indeedBaseURL, values.Encode())
}

func parseIndeedJobs(doc *goquery.Document) []models.Job {
	var jobs []models.Job

	doc.Find("div.job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		titleLink := card.Find("h2.jobTitle a").First()
		if titleLink.Length() == 0 {
			titleLink = card.Find("h2 a").First()
		}
		title := cleanText(titleLink.Text())
		if title == "" {
			title = cleanText(card.Find("h2.jobTitle span").First().Text())
		}
		if title == "" {
			return
		}

		jobURL := ""
		if jk, ok := titleLink.Attr("data-jk"); ok && jk != "" {
			jobURL = fmt.Sprintf("%s/viewjob?jk=%s", indeedBaseURL, jk)
		} else if href, ok := titleLink.Attr("href"); ok {
			jobURL = absoluteURL(indeedBaseURL, href)
		}

		company := cleanText(card.Find("[data-testid='company-name']").First().Text())
		if company == "" {
			company = cleanText(card.Find("span.companyName").First().Text())
		}

		location := cleanText(card.Find("[data-testid='text-location']").First().Text())
		if location == "" {
			location = cleanText(card.Find("div.companyLocation").First().Text())
		}
		if location == "" {
			location = DefaultLocation
		}

		salary := cleanText(card.Find("[data-testid='attribute_snippet_testid']").First().Text())
		snippet := cleanText(card.Find("div.job-snippet").First().Text())
		posted := cleanText(card.Find("span.date").First().Text())

		jobs = append(jobs, models.Job{
			Source:      SiteIndeed,
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         jobURL,
			Salary:      salary,
			Snippet:     truncate(snippet, 400),
			PostedAtRaw: posted,
		})
	})

	return jobs
}
