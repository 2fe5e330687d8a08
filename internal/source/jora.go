package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/network"
)

const joraBaseURL = "https://au.jora.com"

// Jora tries the RSS feed first: Jora blocks datacenter IP ranges at the
// HTML level but the feed endpoint is less restricted. HTML scraping is the
// fallback when the feed comes back empty.
type Jora struct {
	client   *network.Client
	location string
}

func NewJora(client *network.Client, location string) *Jora {
	return &Jora{client: client, location: location}
}

func (j *Jora) Name() string {
	return SiteJora
}

func (j *Jora) Search(ctx context.Context, role models.RoleQuery) ([]models.Job, error) {
	jobs, err := j.searchRSS(ctx, role.Name)
	if err == nil && len(jobs) > 0 {
		return jobs, nil
	}

	doc, err := fetchDocument(ctx, j.client, SiteJora, buildJoraURL(role.Name, j.location, false), nil)
	if err != nil {
		return nil, err
	}
	return parseJoraJobs(doc), nil
}

func (j *Jora) searchRSS(ctx context.Context, query string) ([]models.Job, error) {
	data, err := fetchBytes(ctx, j.client, SiteJora, buildJoraURL(query, j.location, true), map[string]string{
		"accept": "application/rss+xml,application/xml;q=0.9,*/*;q=0.8",
	})
	if err != nil {
		return nil, err
	}

	var feed joraFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, parseErr(SiteJora, err)
	}

	var jobs []models.Job
	for _, entry := range feed.Channel.Items {
		if job, ok := parseJoraRSSItem(entry); ok {
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

func buildJoraURL(query string, location string, rss bool) string {
	values := url.Values{}
	values.Set("q", query)
	values.Set("l", location)
	if rss {
		values.Set("type", "rss")
	}
	return fmt.Sprintf("%s/j?%s", joraBaseURL, values.Encode())
}

type joraFeed struct {
	Channel struct {
		Items []joraItem `xml:"item"`
	} `xml:"channel"`
}

type joraItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

var (
	joraLocationExpr = regexp.MustCompile(`(?i)<b>Location:\s*</b>\s*([^<]+)`)
	joraCompanyExpr  = regexp.MustCompile(`(?i)<b>Company:\s*</b>\s*([^<]+)`)
	htmlTagExpr      = regexp.MustCompile(`<[^>]+>`)
)

func parseJoraRSSItem(item joraItem) (models.Job, bool) {
	rawTitle := cleanText(item.Title)
	if rawTitle == "" {
		return models.Job{}, false
	}

	// Feed titles are commonly "Job Title - Company Name".
	title, company := rawTitle, ""
	if idx := strings.LastIndex(rawTitle, " - "); idx > 0 {
		title = strings.TrimSpace(rawTitle[:idx])
		company = strings.TrimSpace(rawTitle[idx+3:])
	}

	location := DefaultLocation
	if m := joraLocationExpr.FindStringSubmatch(item.Description); m != nil {
		location = cleanText(m[1])
	}
	if m := joraCompanyExpr.FindStringSubmatch(item.Description); m != nil {
		company = cleanText(m[1])
	}

	snippet := cleanText(htmlTagExpr.ReplaceAllString(item.Description, " "))

	job := models.Job{
		Source:      SiteJora,
		Title:       title,
		Company:     company,
		Location:    location,
		URL:         item.Link,
		Snippet:     truncate(snippet, 400),
		PostedAtRaw: item.PubDate,
	}
	if job.PostedAtRaw != "" {
		if ts, err := parsePostedAt(job.PostedAtRaw); err == nil {
			job.PostedAt = ts
		}
	}
	return job, true
}

func parseJoraJobs(doc *goquery.Document) []models.Job {
	var jobs []models.Job

	doc.Find("div.job-card").Each(func(_ int, card *goquery.Selection) {
		titleEl := card.Find("a.job-title").First()
		if titleEl.Length() == 0 {
			titleEl = card.Find("h2 a, h3 a").First()
		}
		title := cleanText(titleEl.Text())
		if title == "" {
			return
		}

		jobURL := ""
		if href, ok := titleEl.Attr("href"); ok {
			jobURL = absoluteURL(joraBaseURL, href)
		}

		company := cleanText(card.Find(".job-company, .company, .employer").First().Text())
		location := cleanText(card.Find(".job-location, .location").First().Text())
		if location == "" {
			location = DefaultLocation
		}
		snippet := cleanText(card.Find(".job-abstract, .abstract").First().Text())

		posted := ""
		if dateEl := card.Find("time").First(); dateEl.Length() > 0 {
			if dt, ok := dateEl.Attr("datetime"); ok {
				posted = dt
			} else {
				posted = cleanText(dateEl.Text())
			}
		}

		job := models.Job{
			Source:      SiteJora,
			Title:       title,
			Company:     company,
			Location:    location,
			URL:         jobURL,
			Snippet:     truncate(snippet, 400),
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
