package cmd

import (
	"context"

	"sublime-migrate/core/migrate"
	"sublime-migrate/core/output"
	"sublime-migrate/feature/actions"
	"sublime-migrate/feature/associations"
	"sublime-migrate/feature/exclusions"
	"sublime-migrate/feature/feeds"
	"sublime-migrate/feature/lists"
	"sublime-migrate/feature/ruleexclusions"
	"sublime-migrate/feature/rules"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd represents the migrate command group
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate configuration from the source to the destination instance",
}

// runFlags are shared by every migration command.
type runFlags struct {
	dryRun bool
	yes    bool
}

func (f *runFlags) register(c *cobra.Command) {
	c.Flags().BoolVar(&f.dryRun, "dry-run", false, "Preview changes without applying them")
	c.Flags().BoolVarP(&f.yes, "yes", "y", false, "Skip confirmation prompts")
}

type migration func(ctx context.Context, env migrate.Env, opts migrate.Options) *output.CommandResult

// runMigration wires a migration command: clients, run, output and recording.
func runMigration(cmd *cobra.Command, f *runFlags, run migration) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	env, err := rt.pair()
	if err != nil {
		return rt.fail(err)
	}

	ctx := cmd.Context()
	rt.log.Info("migration started", zap.String("command", rt.command), zap.Bool("dry_run", f.dryRun))
	res := run(ctx, env, rt.migrateOptions(f.dryRun, f.yes))

	err = rt.finish(res)
	rt.record(ctx, res, f.dryRun)
	return err
}

var (
	actionsFlags runFlags
	actionsOpts  actions.Options
)

var migrateActionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Migrate actions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, &actionsFlags, func(ctx context.Context, env migrate.Env, opts migrate.Options) *output.CommandResult {
			return migrate.Run[actions.Plan](ctx, actions.NewMigrator(env, actionsOpts), opts)
		})
	},
}

var (
	listsFlags runFlags
	listsOpts  lists.Options
)

var migrateListsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Migrate string and user group lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, &listsFlags, func(ctx context.Context, env migrate.Env, opts migrate.Options) *output.CommandResult {
			return migrate.Run[lists.Plan](ctx, lists.NewMigrator(env, listsOpts), opts)
		})
	},
}

var (
	exclusionsFlags runFlags
	exclusionsOpts  exclusions.Options
)

var migrateExclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Migrate global exclusions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, &exclusionsFlags, func(ctx context.Context, env migrate.Env, opts migrate.Options) *output.CommandResult {
			return migrate.Run[exclusions.Plan](ctx, exclusions.NewMigrator(env, exclusionsOpts), opts)
		})
	},
}

var (
	feedsFlags runFlags
	feedsOpts  feeds.Options
)

var migrateFeedsCmd = &cobra.Command{
	Use:   "feeds",
	Short: "Migrate rule feeds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, &feedsFlags, func(ctx context.Context, env migrate.Env, opts migrate.Options) *output.CommandResult {
			return migrate.Run[feeds.Plan](ctx, feeds.NewMigrator(env, feedsOpts), opts)
		})
	},
}

var (
	rulesFlags runFlags
	rulesOpts  rules.Options
)

var migrateRulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Migrate detection and triage rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateRuleType(rulesOpts.Type); err != nil {
			return err
		}
		return runMigration(cmd, &rulesFlags, func(ctx context.Context, env migrate.Env, opts migrate.Options) *output.CommandResult {
			return migrate.Run[rules.Plan](ctx, rules.NewMigrator(env, rulesOpts), opts)
		})
	},
}

var (
	associationsFlags runFlags
	associationsOpts  associations.Options
)

var migrateActionsToRulesCmd = &cobra.Command{
	Use:   "actions-to-rules",
	Short: "Attach destination actions to destination rules as in the source",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, &associationsFlags, func(ctx context.Context, env migrate.Env, opts migrate.Options) *output.CommandResult {
			return migrate.Run[associations.Plan](ctx, associations.NewMigrator(env, associationsOpts), opts)
		})
	},
}

var (
	ruleExclusionsFlags runFlags
	ruleExclusionsOpts  ruleexclusions.Options
)

var migrateRuleExclusionsCmd = &cobra.Command{
	Use:   "rule-exclusions",
	Short: "Add rule-scoped exclusions to destination rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigration(cmd, &ruleExclusionsFlags, func(ctx context.Context, env migrate.Env, opts migrate.Options) *output.CommandResult {
			return migrate.Run[ruleexclusions.Plan](ctx, ruleexclusions.NewMigrator(env, ruleExclusionsOpts), opts)
		})
	},
}

func validateRuleType(t string) error {
	switch t {
	case "", "detection", "triage":
		return nil
	default:
		return &migrate.ValidationError{Field: "type", Message: "must be detection or triage"}
	}
}

func init() {
	RootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(
		migrateActionsCmd,
		migrateListsCmd,
		migrateExclusionsCmd,
		migrateFeedsCmd,
		migrateRulesCmd,
		migrateActionsToRulesCmd,
		migrateRuleExclusionsCmd,
	)

	actionsFlags.register(migrateActionsCmd)
	f := migrateActionsCmd.Flags()
	f.StringVar(&actionsOpts.IncludeIDs, "include-ids", "", "Comma-separated list of action IDs to include")
	f.StringVar(&actionsOpts.ExcludeIDs, "exclude-ids", "", "Comma-separated list of action IDs to exclude")
	f.StringVar(&actionsOpts.IncludeTypes, "include-types", "", "Comma-separated list of action types to include")
	f.StringVar(&actionsOpts.ExcludeTypes, "exclude-types", "", "Comma-separated list of action types to exclude")

	listsFlags.register(migrateListsCmd)
	f = migrateListsCmd.Flags()
	f.StringVar(&listsOpts.IncludeIDs, "include-ids", "", "Comma-separated list of list IDs to include")
	f.StringVar(&listsOpts.ExcludeIDs, "exclude-ids", "", "Comma-separated list of list IDs to exclude")
	f.StringVar(&listsOpts.IncludeTypes, "include-types", "", "Comma-separated list of list types to include (string, user_group)")
	f.BoolVar(&listsOpts.IncludeSystem, "include-system-created", false, "Include lists created by the system")

	exclusionsFlags.register(migrateExclusionsCmd)
	f = migrateExclusionsCmd.Flags()
	f.StringVar(&exclusionsOpts.IncludeIDs, "include-ids", "", "Comma-separated list of exclusion IDs to include")
	f.StringVar(&exclusionsOpts.ExcludeIDs, "exclude-ids", "", "Comma-separated list of exclusion IDs to exclude")
	f.BoolVar(&exclusionsOpts.IncludeSystem, "include-system-created", false, "Include exclusions created by the system")

	feedsFlags.register(migrateFeedsCmd)
	f = migrateFeedsCmd.Flags()
	f.StringVar(&feedsOpts.IncludeIDs, "include-ids", "", "Comma-separated list of feed IDs to include")
	f.StringVar(&feedsOpts.ExcludeIDs, "exclude-ids", "", "Comma-separated list of feed IDs to exclude")
	f.BoolVar(&feedsOpts.IncludeSystem, "include-system", false, "Include system feeds")

	rulesFlags.register(migrateRulesCmd)
	f = migrateRulesCmd.Flags()
	f.StringVar(&rulesOpts.IncludeIDs, "include-ids", "", "Comma-separated list of rule IDs to include")
	f.StringVar(&rulesOpts.ExcludeIDs, "exclude-ids", "", "Comma-separated list of rule IDs to exclude")
	f.StringVar(&rulesOpts.Type, "type", "", "Only migrate detection or triage rules")

	associationsFlags.register(migrateActionsToRulesCmd)
	f = migrateActionsToRulesCmd.Flags()
	f.StringVar(&associationsOpts.IncludeRuleIDs, "include-rule-ids", "", "Comma-separated list of rule IDs to include")
	f.StringVar(&associationsOpts.ExcludeRuleIDs, "exclude-rule-ids", "", "Comma-separated list of rule IDs to exclude")
	f.StringVar(&associationsOpts.IncludeActionIDs, "include-action-ids", "", "Comma-separated list of action IDs to include")
	f.StringVar(&associationsOpts.ExcludeActionIDs, "exclude-action-ids", "", "Comma-separated list of action IDs to exclude")

	ruleExclusionsFlags.register(migrateRuleExclusionsCmd)
	f = migrateRuleExclusionsCmd.Flags()
	f.StringVar(&ruleExclusionsOpts.IncludeRuleIDs, "include-rule-ids", "", "Comma-separated list of rule IDs to include")
	f.StringVar(&ruleExclusionsOpts.ExcludeRuleIDs, "exclude-rule-ids", "", "Comma-separated list of rule IDs to exclude")
}
