package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/roarbis/RoleRadar/internal/config"
	"github.com/roarbis/RoleRadar/internal/export"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/network"
	"github.com/roarbis/RoleRadar/internal/pipeline"
	"github.com/roarbis/RoleRadar/internal/source"
	"github.com/roarbis/RoleRadar/internal/store"
)

type ScanCmd struct {
	Roles       string  `arg:"" optional:"" help:"Comma-separated role names. Overrides configured roles."`
	Match       string  `help:"Match mode for --roles given on the command line." enum:",exact,similar" default:""`
	Sites       string  `help:"Comma-separated list of sites (default: configured sources)." default:""`
	Location    string  `help:"Search location." env:"ROLERADAR_LOCATION"`
	Concurrency int     `help:"Max concurrent (source, role) searches."`
	Timeout     int     `help:"Per-search timeout in seconds."`
	Threshold   float64 `help:"Token-overlap threshold for similar matching."`
	Format      string  `help:"Output format for new jobs: csv, json, md, tsv, table." enum:",csv,json,md,tsv,table" default:""`
	Links       string  `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output      string  `name:"output" short:"o" help:"Write new jobs to a file."`
	Proxies     string  `help:"Comma-separated proxy URLs." env:"ROLERADAR_PROXIES"`
	DB          string  `name:"db" help:"Path to the jobs database."`
}

func (s *ScanCmd) Run(ctx *Context) error {
	cfg := ctx.Config

	roles, err := resolveRoles(s.Roles, s.Match, cfg)
	if err != nil {
		return err
	}

	proxies, err := config.LoadProxies(s.Proxies)
	if err != nil {
		return err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, 10*time.Minute)
		if err != nil {
			return err
		}
	}

	location := firstNonEmpty(s.Location, cfg.Location)
	registry, err := source.Registry(rotator, source.Options{
		Location:     location,
		AdzunaAppID:  cfg.AdzunaAppID,
		AdzunaAppKey: cfg.AdzunaAppKey,
	})
	if err != nil {
		return err
	}

	requested := cfg.Sources
	if strings.TrimSpace(s.Sites) != "" && !strings.EqualFold(s.Sites, "all") {
		requested = strings.Split(s.Sites, ",")
	} else if strings.EqualFold(s.Sites, "all") {
		requested = source.SiteOrder
	}
	sources, err := selectSources(ctx, registry, requested)
	if err != nil {
		return err
	}

	dbPath := s.DB
	if dbPath == "" {
		dbPath, err = cfg.DBPath()
		if err != nil {
			return err
		}
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	stopIndicator := startScanIndicator(ctx)
	if stopIndicator != nil {
		defer stopIndicator()
	}

	result, runErr := pipeline.Run(context.Background(), st, sources, roles, pipeline.Options{
		Concurrency:      defaultInt(s.Concurrency, cfg.Concurrency),
		Timeout:          time.Duration(defaultInt(s.Timeout, cfg.TimeoutSeconds)) * time.Second,
		SimilarThreshold: defaultFloat(s.Threshold, cfg.SimilarThreshold),
		Logger:           ctx.Logger,
	})
	if stopIndicator != nil {
		stopIndicator()
	}
	if result == nil {
		return runErr
	}

	reportFailures(ctx, result.Failures)

	if err := writeNewJobs(ctx, s, result.New); err != nil {
		return err
	}

	printScanSummary(ctx, result)

	// Persistence failed partway: everything reported above made it in,
	// the rest did not.
	if runErr != nil {
		return runErr
	}
	return nil
}

func resolveRoles(rolesArg string, matchArg string, cfg config.Config) ([]models.RoleQuery, error) {
	if strings.TrimSpace(rolesArg) == "" {
		roles, err := cfg.RoleQueries()
		if err != nil {
			return nil, err
		}
		if len(roles) == 0 {
			return nil, fmt.Errorf("no roles given: pass them as an argument or configure them with 'config init'")
		}
		return roles, nil
	}

	matchType, err := models.ParseMatchType(matchArg)
	if err != nil {
		return nil, err
	}

	var roles []models.RoleQuery
	seen := map[string]struct{}{}
	for _, part := range strings.Split(rolesArg, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		role := models.RoleQuery{Name: name, Match: matchType}
		if err := role.Validate(); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("at least one non-empty role is required")
	}
	return roles, nil
}

// selectSources picks adapters in SiteOrder so dedup tie-breaks stay stable
// run to run. Unconfigured Adzuna is skipped with a warning instead of
// failing every pair at run time.
func selectSources(ctx *Context, registry map[string]source.Source, requested []string) ([]source.Source, error) {
	wanted := map[string]struct{}{}
	for _, site := range source.NormalizeSites(requested) {
		if _, ok := registry[site]; !ok {
			return nil, fmt.Errorf("unknown site: %s", site)
		}
		wanted[site] = struct{}{}
	}
	if len(wanted) == 0 {
		return nil, fmt.Errorf("at least one source is required")
	}

	var selected []source.Source
	for _, site := range source.SiteOrder {
		if _, ok := wanted[site]; !ok {
			continue
		}
		src := registry[site]
		if adzuna, ok := src.(*source.Adzuna); ok && !adzuna.Configured() {
			if ctx.UI != nil {
				ctx.UI.Warnf("adzuna: API credentials not set, skipping (set adzuna_app_id/adzuna_app_key in config)")
			}
			continue
		}
		selected = append(selected, src)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no usable sources selected")
	}
	return selected, nil
}

func reportFailures(ctx *Context, failures []pipeline.Failure) {
	if ctx == nil || ctx.UI == nil || len(failures) == 0 {
		return
	}
	ctx.UI.Warnf("\nSource errors:")
	for _, failure := range failures {
		ctx.UI.Warnf("  %s (%s): %s", failure.Source, failure.Role, failure.Reason)
	}
}

func writeNewJobs(ctx *Context, s *ScanCmd, jobs []models.StoredJob) error {
	outputPath := strings.TrimSpace(s.Output)

	format, err := resolveFormat(ctx, s.Format, outputPath)
	if err != nil {
		return err
	}

	writer := ctx.Out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(s.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	return export.WriteJobs(writer, jobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	})
}

func printScanSummary(ctx *Context, result *pipeline.Result) {
	if ctx == nil || ctx.UI == nil {
		return
	}
	ctx.UI.Successf("summary: fetched=%d matched=%d new=%d resighted=%d failed_pairs=%d",
		result.Fetched, result.Matched, len(result.New), result.Resighted, len(result.Failures))
}

func resolveFormat(ctx *Context, flagFormat string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if flagFormat != "" {
		return parseFormat(flagFormat)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func defaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
}

func defaultFloat(value, fallback float64) float64 {
	if value == 0 {
		return fallback
	}
	return value
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startScanIndicator(ctx *Context) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2KScanning... %ds %s", seconds, frame)
				index++
			}
		}
	}()

	var once bool
	return func() {
		if once {
			return
		}
		once = true
		close(done)
		<-stopped
	}
}
