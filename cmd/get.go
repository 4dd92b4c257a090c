package cmd

import (
	"context"
	"strconv"

	rterrors "github.com/rotom-cli/rotom/internal/errors"
	"github.com/rotom-cli/rotom/internal/output"
	"github.com/rotom-cli/rotom/internal/pokeapi"

	"github.com/spf13/cobra"
)

var getNeighbors int

var getCmd = &cobra.Command{
	Use:   "get <id|name> [more...]",
	Short: "Look up Pokémon by name or number",
	Long: `Fetch the full record for one or more Pokémon: base data, species
flavor text and the evolutionary lineage.

Arguments may be numeric ids or names, in any mix. Names are matched
case-insensitively. With --neighbors, the entries on either side of
each result are fetched in the background so browsing forward or
backward is instant.

Examples:
  # By name
  rotom get pikachu

  # By number, preloading two neighbors each side
  rotom get 25 --neighbors 2

  # Several at once
  rotom get bulbasaur charmander squirtle

  # As JSON for scripting
  rotom get 151 -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().IntVarP(&getNeighbors, "neighbors", "n", 0, "Preload N entries on each side of every result")
}

func runGet(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	ctx := cmd.Context()

	formatter := output.NewFormatter(app.Config.OutputFormat, app.Render.Out(), app.Render).
		WithLanguage(app.Config.Language)

	for _, arg := range args {
		rec, err := app.Service.Resolve(ctx, arg)
		if err != nil {
			if pokeapi.IsNotFound(err) {
				return app.notFoundError(ctx, arg)
			}
			return err
		}
		if err := formatter.Record(rec); err != nil {
			return err
		}

		if getNeighbors > 0 {
			app.preloadNeighbors(cmd, rec.Pokemon.ID, getNeighbors)
		}
	}
	return nil
}

// notFoundError turns a catalog miss into a did-you-mean error when the
// name index is available.
func (a *App) notFoundError(ctx context.Context, query string) error {
	if id, err := strconv.Atoi(query); err == nil {
		if snap := a.Store.Load(); snap != nil && id > len(snap.Entries) {
			return rterrors.IDOutOfRangeError(id, len(snap.Entries))
		}
		return rterrors.NameNotFoundError(query, nil)
	}

	ix, err := a.Loader.Load(ctx)
	if err != nil {
		a.Debugf("index unavailable for suggestions: %v", err)
		return rterrors.NameNotFoundError(query, nil)
	}
	return rterrors.NameNotFoundError(query, ix.Names())
}

// preloadNeighbors warms the cache with the ids around center. Failures
// are expected near the catalog edges and only logged.
func (a *App) preloadNeighbors(cmd *cobra.Command, center, n int) {
	max := 0
	if snap := a.Store.Load(); snap != nil {
		max = len(snap.Entries)
	}

	ids := neighborIDs(center, n, max)
	if len(ids) == 0 {
		return
	}

	a.Render.Status("Preloading %d neighbors...", len(ids))
	for _, o := range a.Service.ResolveBatch(cmd.Context(), ids) {
		if o.Err != nil {
			a.Debugf("preload of #%d failed: %v", o.ID, o.Err)
		}
	}
}

// neighborIDs returns the n ids on each side of center, clamped to the
// catalog range. max of 0 means the upper bound is unknown.
func neighborIDs(center, n, max int) []int {
	ids := make([]int, 0, 2*n)
	for i := center - n; i <= center+n; i++ {
		if i == center || i < 1 {
			continue
		}
		if max > 0 && i > max {
			continue
		}
		ids = append(ids, i)
	}
	return ids
}
