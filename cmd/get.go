package cmd

import (
	"context"
	"errors"

	"sublime-migrate/core/model"
	"sublime-migrate/core/output"
	"sublime-migrate/feature/inventory"

	"github.com/spf13/cobra"
)

// getCmd represents the get command group
var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configuration of one instance",
}

type lister func(ctx context.Context, s *inventory.Service) (*output.CommandResult, error)

// runGet lists every record of kind, or shows the one named by args[0].
func runGet(cmd *cobra.Command, args []string, kind model.Kind, list lister) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	env, err := rt.single()
	if err != nil {
		return rt.fail(err)
	}

	ctx := cmd.Context()
	svc := inventory.NewService(env)
	if len(args) == 1 && args[0] != "all" {
		rec, err := svc.Get(ctx, kind, args[0])
		if err != nil {
			return rt.fail(err)
		}
		return rt.finish(inventory.Found(string(kind), rec))
	}

	res, err := list(ctx, svc)
	if err != nil {
		return rt.fail(err)
	}
	return rt.finish(res)
}

var getActionsCmd = &cobra.Command{
	Use:   "actions [all|<id>]",
	Short: "List actions or show one action",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd, args, model.KindAction, func(ctx context.Context, s *inventory.Service) (*output.CommandResult, error) {
			items, err := s.Actions(ctx)
			if err != nil {
				return nil, err
			}
			return inventory.Listed("actions", len(items), inventory.ActionTable(items), ""), nil
		})
	},
}

var errConflictingFeedFlags = errors.New("--in-feed and --not-in-feed are mutually exclusive")

var (
	ruleQuery inventory.RuleQuery
	inFeed    bool
	notInFeed bool
)

var getRulesCmd = &cobra.Command{
	Use:   "rules [all|<id>]",
	Short: "List rules or show one rule",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateRuleType(ruleQuery.Type); err != nil {
			return err
		}
		q := ruleQuery
		switch {
		case inFeed && notInFeed:
			return errConflictingFeedFlags
		case inFeed:
			q.InFeed = &inFeed
		case notInFeed:
			v := false
			q.InFeed = &v
		}

		return runGet(cmd, args, model.KindRule, func(ctx context.Context, s *inventory.Service) (*output.CommandResult, error) {
			items, err := s.Rules(ctx, q)
			if err != nil {
				return nil, err
			}
			return inventory.RulesListed(inventory.RuleTable{Rules: items, WithExclusions: q.WithExclusions}, q), nil
		})
	},
}

var listType string

var getListsCmd = &cobra.Command{
	Use:   "lists [all|<id>]",
	Short: "List string and user group lists or show one list",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd, args, model.KindList, func(ctx context.Context, s *inventory.Service) (*output.CommandResult, error) {
			items, err := s.Lists(ctx, listType)
			if err != nil {
				return nil, err
			}
			return inventory.Listed("lists", len(items), inventory.ListTable(items),
				"Entry counts are approximate. Show a single list for its entries."), nil
		})
	},
}

var getExclusionsCmd = &cobra.Command{
	Use:   "exclusions [all|<id>]",
	Short: "List global exclusions or show one exclusion",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd, args, model.KindExclusion, func(ctx context.Context, s *inventory.Service) (*output.CommandResult, error) {
			items, err := s.Exclusions(ctx)
			if err != nil {
				return nil, err
			}
			return inventory.Listed("exclusions", len(items), inventory.ExclusionTable(items), ""), nil
		})
	},
}

var getFeedsCmd = &cobra.Command{
	Use:   "feeds [all|<id>]",
	Short: "List feeds or show one feed",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGet(cmd, args, model.KindFeed, func(ctx context.Context, s *inventory.Service) (*output.CommandResult, error) {
			items, err := s.Feeds(ctx)
			if err != nil {
				return nil, err
			}
			return inventory.Listed("feeds", len(items), inventory.FeedTable(items), ""), nil
		})
	},
}

func init() {
	RootCmd.AddCommand(getCmd)
	getCmd.AddCommand(getActionsCmd, getRulesCmd, getListsCmd, getExclusionsCmd, getFeedsCmd)

	f := getRulesCmd.Flags()
	f.StringVar(&ruleQuery.Type, "type", "", "Filter by rule type (detection or triage)")
	f.BoolVar(&ruleQuery.ActiveOnly, "active", false, "Show only active rules")
	f.StringVar(&ruleQuery.Feed, "feed", "", "Show only rules from this feed ID")
	f.BoolVar(&inFeed, "in-feed", false, "Show only rules that belong to a feed")
	f.BoolVar(&notInFeed, "not-in-feed", false, "Show only rules that belong to no feed")
	f.BoolVar(&ruleQuery.WithExclusions, "show-exclusions", false, "Show exclusion information (one extra request per rule)")

	getListsCmd.Flags().StringVar(&listType, "type", "", "Filter by list type (string or user_group)")
}
