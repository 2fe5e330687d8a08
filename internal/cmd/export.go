package cmd

import (
	"os"
	"strings"

	"github.com/roarbis/RoleRadar/internal/export"
	"github.com/roarbis/RoleRadar/internal/models"
	"github.com/roarbis/RoleRadar/internal/store"
)

type ExportCmd struct {
	Format string `help:"Output format: csv, json, md, tsv, table." enum:",csv,json,md,tsv,table" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output string `name:"output" short:"o" help:"Write to a file instead of stdout."`
	Source string `help:"Only include jobs seen on this source."`
	Limit  int    `help:"Maximum number of jobs to export (0 = all)."`
	DB     string `name:"db" help:"Path to the jobs database."`
}

func (e *ExportCmd) Run(ctx *Context) error {
	dbPath := e.DB
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

	jobs, err := st.ListAll()
	if err != nil {
		return err
	}
	jobs = filterBySource(jobs, e.Source)
	if e.Limit > 0 && len(jobs) > e.Limit {
		jobs = jobs[:e.Limit]
	}

	outputPath := strings.TrimSpace(e.Output)
	format, err := resolveFormat(ctx, e.Format, outputPath)
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
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(e.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	return export.WriteJobs(writer, jobs, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   colorEnabled && isTTY(writer),
		LinkStyle:    linkStyle,
	})
}

func filterBySource(jobs []models.StoredJob, site string) []models.StoredJob {
	site = strings.ToLower(strings.TrimSpace(site))
	if site == "" {
		return jobs
	}
	filtered := make([]models.StoredJob, 0, len(jobs))
	for _, job := range jobs {
		for _, seen := range job.SourcesSeen {
			if seen == site {
				filtered = append(filtered, job)
				break
			}
		}
	}
	return filtered
}
