package cmd

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	"github.com/roarbis/RoleRadar/internal/network"
	"github.com/roarbis/RoleRadar/internal/source"
	"github.com/roarbis/RoleRadar/internal/store"
)

type HealthCmd struct {
	Timeout int    `help:"Per-site timeout in seconds." default:"15"`
	Sites   string `help:"Comma-separated list of sites to check (default: all)." default:""`
	DB      string `name:"db" help:"Path to the jobs database."`
}

type HealthResult struct {
	Site      string `json:"site"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (h *HealthCmd) Run(ctx *Context) error {
	sites := source.SiteOrder
	if strings.TrimSpace(h.Sites) != "" {
		sites = source.NormalizeSites(strings.Split(h.Sites, ","))
		for _, site := range sites {
			if _, ok := source.BaseURLs[site]; !ok {
				return fmt.Errorf("unknown site: %s", site)
			}
		}
	}

	results := make([]HealthResult, len(sites))
	timeout := time.Duration(h.Timeout) * time.Second

	var wg sync.WaitGroup
	for i, site := range sites {
		wg.Add(1)
		go func(i int, site string) {
			defer wg.Done()
			results[i] = checkSite(site, source.BaseURLs[site], timeout)
		}(i, site)
	}
	wg.Wait()

	if err := writeHealthResults(ctx, results); err != nil {
		return err
	}
	return printLastRun(ctx, h.DB)
}

// printLastRun reports the most recent scan so a health check also answers
// "when did this last actually work".
func printLastRun(ctx *Context, dbPath string) error {
	if ctx.JSONOutput || ctx.PlainText {
		return nil
	}

	if dbPath == "" {
		var err error
		dbPath, err = ctx.Config.DBPath()
		if err != nil {
			return err
		}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	last, err := st.LastRun()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			fmt.Fprintln(ctx.Out, "\nlast scan: never")
			return nil
		}
		return err
	}
	count, err := st.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "\nlast scan: %s (%s) found=%d new=%d stored=%d\n",
		last.RunAt.Format(time.RFC3339), strings.Join(last.Roles, ", "),
		last.JobsFound, last.JobsNew, count)
	return nil
}

func checkSite(site string, url string, timeout time.Duration) HealthResult {
	result := HealthResult{Site: site, URL: url}

	client, err := network.NewClient(nil)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	req, err := fhttp.NewRequest(fhttp.MethodGet, url, nil)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	resp, err := doWithTimeout(client, req, timeout)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}
	_ = resp.Body.Close()

	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status = fmt.Sprintf("%d", resp.StatusCode)
	return result
}

func writeHealthResults(ctx *Context, results []HealthResult) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Site, res.Status, fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "site\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Site, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
