package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/network"
)

const gradConnectionBaseURL = "https://au.gradconnection.com"

// GradConnection covers AU graduate and professional roles and is reachable
// with plain requests. The site has been redesigned a few times, so card
// parsing falls through several selector patterns.
type GradConnection struct {
	client *network.Client
}

func NewGradConnection(client *network.Client) *GradConnection {
	return &GradConnection{client: client}
}

func (g *GradConnection) Name() string {
	return SiteGradConnection
}

func (g *GradConnection) Search(ctx context.Context, role models.RoleQuery) ([]models.Job, error) {
	values := url.Values{}
	values.Set("q", role.Name)
	target := fmt.Sprintf("%s/jobs/?%s", gradConnectionBaseURL, values.Encode())

	doc, err := fetchDocument(ctx, g.client, SiteGradConnection, target, nil)
	if err != nil {
		return nil, err
	}
	return parseGradConnectionJobs(doc), nil
}

func parseGradConnectionJobs(doc *goquery.Document) []models.Job {
	cards := doc.Find("div.campaign-listing-box")
	if cards.Length() == 0 {
		cards = doc.Find("div[class*='listing-box']")
	}
	if cards.Length() == 0 {
		cards = doc.Find("div[class*='job-card'], article[class*='job'], article[class*='listing']")
	}

	var jobs []models.Job
	cards.Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find("a.box-header-title").First()
		if titleEl.Length() == 0 {
			titleEl = card.Find("a[class*='title']").First()
		}
		if titleEl.Length() == 0 {
			titleEl = card.Find("h3 a, h2 a").First()
		}
		title := cleanText(titleEl.Text())
		if title == "" {
			return
		}

		jobURL := ""
		if href, ok := titleEl.Attr("href"); ok {
			jobURL = absoluteURL(gradConnectionBaseURL, href)
		}

		company := cleanText(card.Find("div.box-name").First().Text())
		if company == "" {
			company = cleanText(card.Find("[class*='employer'], span[class*='company']").First().Text())
		}

		location := cleanText(card.Find("[class*='location'], span[class*='city'], span[class*='region']").First().Text())
		if location == "" {
			location = DefaultLocation
		}

		snippet := cleanText(card.Find("[class*='discipline'], [class*='snippet']").First().Text())

		jobs = append(jobs, models.Job{
			Source:   SiteGradConnection,
			Title:    title,
			Company:  company,
			Location: location,
			URL:      jobURL,
			Snippet:  truncate(snippet, 400),
		})
	})

	return jobs
}
