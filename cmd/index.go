package cmd

import (
	"os"
	"time"

	"github.com/rotom-cli/rotom/internal/output"
	"github.com/rotom-cli/rotom/pkg/timeutil"

	"github.com/spf13/cobra"
)

var indexRebuild bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or inspect the local name index",
	Long: `Load the catalog name index and show its state.

The index maps every known name to its number and backs the search
command. It is built by paging through the full catalog once, then
persisted locally and reused until it expires or the catalog's entry
count changes.

Examples:
  # Load (or adopt the saved copy) and show stats
  rotom index

  # Throw the saved copy away and walk the catalog again
  rotom index --rebuild`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVar(&indexRebuild, "rebuild", false, "Force a full rebuild, ignoring the saved index")
}

func runIndex(cmd *cobra.Command, args []string) error {
	app, err := GetApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	ctx := cmd.Context()

	load := app.Loader.Load
	if indexRebuild {
		app.Render.Status("Rebuilding name index...")
		load = app.Loader.Rebuild
	}

	ix, err := load(ctx)
	if err != nil {
		return err
	}

	st := output.IndexStats{
		Names: ix.Len(),
		Path:  app.Store.Path(),
	}
	if snap := app.Store.Load(); snap != nil {
		st.SavedAt = snap.SavedAt
	}

	formatter := output.NewFormatter(app.Config.OutputFormat, app.Render.Out(), app.Render)
	if err := formatter.Stats(st); err != nil {
		return err
	}

	if !st.SavedAt.IsZero() && app.Config.OutputFormat == "text" {
		age := timeutil.FormatDuration(time.Since(st.SavedAt))
		ttl := timeutil.FormatDuration(app.Config.IndexTTL)
		app.Render.Muted("Snapshot is %s old (expires after %s).", age, ttl)
		if fi, err := os.Stat(app.Store.Path()); err == nil {
			app.Render.Muted("Snapshot file is %s on disk.", timeutil.FormatBytes(fi.Size()))
		}
	}
	return nil
}
