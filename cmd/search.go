package cmd

import (
	"strings"

	"github.com/rotom-cli/rotom/internal/output"
	"github.com/rotom-cli/rotom/internal/search"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Find Pokémon by approximate name",
	Long: `Search the name index for matches to a query, tolerating typos,
partial names and word reordering.

Matches are ranked by how they were found: exact substrings first, then
prefixes, then word-level matches, then fuzzy matches. When exactly one
name matches, its full record is shown directly.

Examples:
  # Misspelled name
  rotom search pikacu

  # Partial name
  rotom search char

  # Words in either order
  rotom search "mega charizard"

  # Machine-readable results
  rotom search eevee -o csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	ix, err := app.Loader.Load(ctx)
	if err != nil {
		return err
	}

	matches := search.Rank(query, ix.Names())
	app.Debugf("%d matches for %q", len(matches), query)

	formatter := output.NewFormatter(app.Config.OutputFormat, app.Render.Out(), app.Render).
		WithLanguage(app.Config.Language)

	// A single match is an answer, not a list.
	if len(matches) == 1 {
		rec, err := app.Service.Resolve(ctx, matches[0].Name)
		if err != nil {
			return err
		}
		return formatter.Record(rec)
	}

	rows := make([]output.MatchRow, 0, len(matches))
	for _, m := range matches {
		id, _ := ix.Lookup(m.Name)
		rows = append(rows, output.MatchRow{Name: m.Name, ID: id, Tier: m.Priority})
	}
	return formatter.Matches(rows)
}
