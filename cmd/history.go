package cmd

import (
	"fmt"

	"sublime-migrate/core/output"
	"sublime-migrate/feature/archive"
	"sublime-migrate/feature/history"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd represents the history command group
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded migration runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs from the history database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		if !rt.cfg.Database.Enabled {
			return rt.finish(output.Failed("Run history is disabled", "Set DATABASE_ENABLED=true to record runs.", nil))
		}
		repo, err := rt.openHistory()
		if err != nil {
			return rt.fail(err)
		}

		runs, err := repo.List(cmd.Context(), historyLimit)
		if err != nil {
			return rt.fail(err)
		}
		return rt.finish(output.Succeeded(fmt.Sprintf("%d recorded runs", len(runs)), history.Runs(runs), ""))
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run_id>",
	Short: "Show one run from the history database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		if !rt.cfg.Database.Enabled {
			return rt.finish(output.Failed("Run history is disabled", "Set DATABASE_ENABLED=true to record runs.", nil))
		}
		repo, err := rt.openHistory()
		if err != nil {
			return rt.fail(err)
		}

		run, err := repo.Get(cmd.Context(), args[0])
		if err != nil {
			return rt.fail(err)
		}
		return rt.finish(output.Succeeded("Run "+run.RunID, run, ""))
	},
}

var historyArchiveCmd = &cobra.Command{
	Use:   "archive [run_id]",
	Short: "List archived runs, or print the archived result of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		if !rt.cfg.Storage.Enabled {
			return rt.finish(output.Failed("Run archive is disabled", "Set STORAGE_ENABLED=true to archive runs.", nil))
		}
		a, err := rt.openArchive()
		if err != nil {
			return rt.fail(err)
		}

		ctx := cmd.Context()
		if len(args) == 1 {
			rec, err := a.Load(ctx, args[0])
			if err != nil {
				return rt.fail(err)
			}
			if rec.Result == nil {
				return rt.finish(output.Failed("Archived run "+args[0]+" has no result", "", nil))
			}
			return rt.finish(rec.Result)
		}

		entries, err := a.List(ctx)
		if err != nil {
			return rt.fail(err)
		}
		return rt.finish(output.Succeeded(fmt.Sprintf("%d archived runs", len(entries)), archive.Entries(entries), ""))
	},
}

func init() {
	RootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyArchiveCmd)
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to show")
}
