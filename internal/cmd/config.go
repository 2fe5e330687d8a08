package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/roarbis/RoleRadar/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write default config and proxies files."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Show ShowConfigCmd `cmd:"" help:"Print the effective configuration."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	paths, err := config.Init()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		ctx.UI.Infof("Config already initialized at %s", ctx.ConfigDir)
		return nil
	}
	ctx.UI.Infof("Created: %s", strings.Join(paths, ", "))
	ctx.UI.Infof("Add roles to the config file, then run 'roleradar scan'.")
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

func (c *ShowConfigCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	dbPath, err := cfg.DBPath()
	if err != nil {
		return err
	}

	roleNames := make([]string, 0, len(cfg.Roles))
	for _, role := range cfg.Roles {
		roleNames = append(roleNames, fmt.Sprintf("%s (%s)", role.Name, role.Match))
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "roles\t%s\n", strings.Join(roleNames, ", "))
	fmt.Fprintf(tw, "sources\t%s\n", strings.Join(cfg.Sources, ", "))
	fmt.Fprintf(tw, "location\t%s\n", cfg.Location)
	fmt.Fprintf(tw, "concurrency\t%d\n", cfg.Concurrency)
	fmt.Fprintf(tw, "timeout_seconds\t%d\n", cfg.TimeoutSeconds)
	fmt.Fprintf(tw, "similar_threshold\t%g\n", cfg.SimilarThreshold)
	fmt.Fprintf(tw, "adzuna_configured\t%t\n", cfg.AdzunaAppID != "" && cfg.AdzunaAppKey != "")
	fmt.Fprintf(tw, "database\t%s\n", dbPath)
	return tw.Flush()
}
