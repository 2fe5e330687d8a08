package source

import (
	"strings"

	"github.com/roarbis/RoleRadar/internal/network"
)

const (
	SiteSeek           = "seek"
	SiteIndeed         = "indeed"
	SiteJora           = "jora"
	SiteLinkedIn       = "linkedin"
	SiteGradConnection = "gradconnection"
	SiteCareerOne      = "careerone"
	SiteAdzuna         = "adzuna"
)

// SiteOrder fixes the processing order of sources within a run. Dedup
// tie-breaks depend on it staying stable.
var SiteOrder = []string{
	SiteSeek,
	SiteIndeed,
	SiteJora,
	SiteLinkedIn,
	SiteGradConnection,
	SiteCareerOne,
	SiteAdzuna,
}

// Options carries per-registry settings shared by all adapters.
type Options struct {
	Location     string
	AdzunaAppID  string
	AdzunaAppKey string
}

func Registry(rotator *network.Rotator, opts Options) (map[string]Source, error) {
	if strings.TrimSpace(opts.Location) == "" {
		opts.Location = DefaultLocation
	}

	makeClient := func() (*network.Client, error) {
		return network.NewClient(rotator)
	}

	seek, err := makeClient()
	if err != nil {
		return nil, err
	}
	indeed, err := makeClient()
	if err != nil {
		return nil, err
	}
	jora, err := makeClient()
	if err != nil {
		return nil, err
	}
	linkedIn, err := makeClient()
	if err != nil {
		return nil, err
	}
	gradConnection, err := makeClient()
	if err != nil {
		return nil, err
	}
	adzuna, err := makeClient()
	if err != nil {
		return nil, err
	}

	return map[string]Source{
		SiteSeek:           NewSeek(seek, opts.Location),
		SiteIndeed:         NewIndeed(indeed),
		SiteJora:           NewJora(jora, opts.Location),
		SiteLinkedIn:       NewLinkedIn(linkedIn, opts.Location),
		SiteGradConnection: NewGradConnection(gradConnection),
		SiteCareerOne:      NewCareerOne(),
		SiteAdzuna:         NewAdzuna(adzuna, opts.AdzunaAppID, opts.AdzunaAppKey),
	}, nil
}

// BaseURLs maps each site to a lightweight URL for health checks.
var BaseURLs = map[string]string{
	SiteSeek:           "https://www.seek.com.au",
	SiteIndeed:         "https://au.indeed.com",
	SiteJora:           "https://au.jora.com",
	SiteLinkedIn:       "https://www.linkedin.com",
	SiteGradConnection: "https://au.gradconnection.com",
	SiteCareerOne:      "https://www.careerone.com.au",
	SiteAdzuna:         "https://www.adzuna.com.au",
}

func NormalizeSites(sites []string) []string {
	out := make([]string, 0, len(sites))
	for _, site := range sites {
		site = strings.ToLower(strings.TrimSpace(site))
		if site == "" {
			continue
		}
		site = strings.TrimPrefix(site, "www.")
		out = append(out, site)
	}
	return out
}
