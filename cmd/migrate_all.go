package cmd

import (
	"sublime-migrate/core/output"
	"sublime-migrate/feature/orchestrator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	allFlags runFlags
	allSkip  []string
)

// migrateAllCmd represents the migrate all command
var migrateAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Migrate every component in dependency order",
	Long: `Runs the actions, lists, exclusions, feeds, rules, actions-to-rules and
rule-exclusions migrations in that order. A failing step is reported and the
remaining steps still run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := orchestrator.ValidateSkip(allSkip); err != nil {
			return err
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		env, err := rt.pair()
		if err != nil {
			return rt.fail(err)
		}

		opts := orchestrator.Options{
			Skip:      allSkip,
			DryRun:    allFlags.dryRun,
			Confirmed: allFlags.yes,
			Formatter: rt.formatter,
			Log:       rt.log,
		}
		// Machine-readable formats get the final report only.
		if rt.format.Interactive() {
			opts.Spinner = output.RunWithSpinner
			opts.OnStep = func(step orchestrator.Step, res *output.CommandResult) {
				if err := rt.formatter.Result(res); err != nil {
					rt.log.Warn("failed to write step result", zap.String("step", step.Name), zap.Error(err))
				}
			}
		}

		ctx := cmd.Context()
		res := orchestrator.Run(ctx, env, orchestrator.Steps(env), opts)

		err = rt.finish(res)
		rt.record(ctx, res, allFlags.dryRun)
		return err
	},
}

func init() {
	migrateCmd.AddCommand(migrateAllCmd)
	allFlags.register(migrateAllCmd)
	migrateAllCmd.Flags().StringArrayVar(&allSkip, "skip", nil, "Step to skip (repeatable): actions, lists, exclusions, feeds, rules, actions-to-rules, rule-exclusions")
}
