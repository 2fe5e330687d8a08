package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/roarbis/RoleRadar/internal/match"
	"github.com/roarbis/RoleRadar/internal/models"
)

type RolesCmd struct{}

type roleInfo struct {
	Name     string   `json:"name"`
	Match    string   `json:"match"`
	Synonyms []string `json:"synonyms,omitempty"`
}

func (r *RolesCmd) Run(ctx *Context) error {
	roles, err := ctx.Config.RoleQueries()
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return fmt.Errorf("no roles configured: run 'config init' and edit the config file")
	}

	infos := make([]roleInfo, 0, len(roles))
	for _, role := range roles {
		infos = append(infos, roleInfo{
			Name:     role.Name,
			Match:    string(role.Match),
			Synonyms: effectiveSynonyms(role),
		})
	}

	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	if ctx.PlainText {
		for _, info := range infos {
			line := []string{info.Name, info.Match, strings.Join(info.Synonyms, ",")}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "role\tmatch\tsynonyms")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Match, strings.Join(info.Synonyms, ", "))
	}
	return tw.Flush()
}

// effectiveSynonyms mirrors what the matcher will actually use: explicit
// synonyms win, otherwise similar roles fall back to the built-in
// related-roles table.
func effectiveSynonyms(role models.RoleQuery) []string {
	if role.Match != models.MatchSimilar {
		return nil
	}
	if len(role.Synonyms) > 0 {
		return role.Synonyms
	}
	return match.RelatedRoles(role.Name)
}
