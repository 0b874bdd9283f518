package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"sublime-migrate/core/migrate"
	"sublime-migrate/core/output"
	"sublime-migrate/feature/actions"
	"sublime-migrate/feature/associations"
	"sublime-migrate/feature/exclusions"
	"sublime-migrate/feature/feeds"
	"sublime-migrate/feature/lists"
	"sublime-migrate/feature/ruleexclusions"
	"sublime-migrate/feature/rules"
)

// Step names, in execution order.
const (
	StepActions        = "actions"
	StepLists          = "lists"
	StepExclusions     = "exclusions"
	StepFeeds          = "feeds"
	StepRules          = "rules"
	StepActionsToRules = "actions-to-rules"
	StepRuleExclusions = "rule-exclusions"
)

// StepNames lists every step in execution order.
var StepNames = []string{
	StepActions, StepLists, StepExclusions, StepFeeds,
	StepRules, StepActionsToRules, StepRuleExclusions,
}

// Step is one resource migration.
type Step struct {
	Name  string
	Title string
	Run   func(ctx context.Context, opts migrate.Options) *output.CommandResult
}

// Steps builds the default steps over env. Every step migrates everything
// its resource's default filters select.
func Steps(env migrate.Env) []Step {
	return []Step{
		{StepActions, "Actions", func(ctx context.Context, opts migrate.Options) *output.CommandResult {
			return migrate.Run[actions.Plan](ctx, actions.NewMigrator(env, actions.Options{}), opts)
		}},
		{StepLists, "Lists", func(ctx context.Context, opts migrate.Options) *output.CommandResult {
			return migrate.Run[lists.Plan](ctx, lists.NewMigrator(env, lists.Options{}), opts)
		}},
		{StepExclusions, "Exclusions", func(ctx context.Context, opts migrate.Options) *output.CommandResult {
			return migrate.Run[exclusions.Plan](ctx, exclusions.NewMigrator(env, exclusions.Options{}), opts)
		}},
		{StepFeeds, "Feeds", func(ctx context.Context, opts migrate.Options) *output.CommandResult {
			return migrate.Run[feeds.Plan](ctx, feeds.NewMigrator(env, feeds.Options{}), opts)
		}},
		{StepRules, "Rules", func(ctx context.Context, opts migrate.Options) *output.CommandResult {
			return migrate.Run[rules.Plan](ctx, rules.NewMigrator(env, rules.Options{}), opts)
		}},
		{StepActionsToRules, "Actions to Rules", func(ctx context.Context, opts migrate.Options) *output.CommandResult {
			return migrate.Run[associations.Plan](ctx, associations.NewMigrator(env, associations.Options{}), opts)
		}},
		{StepRuleExclusions, "Rule Exclusions", func(ctx context.Context, opts migrate.Options) *output.CommandResult {
			return migrate.Run[ruleexclusions.Plan](ctx, ruleexclusions.NewMigrator(env, ruleexclusions.Options{}), opts)
		}},
	}
}

// ValidateSkip rejects unknown step names.
func ValidateSkip(skip []string) error {
	for _, s := range skip {
		if !isStep(s) {
			return &migrate.ValidationError{
				Field:   "skip",
				Message: fmt.Sprintf("unknown step %q, valid steps: %s", s, strings.Join(StepNames, ", ")),
			}
		}
	}
	return nil
}

func isStep(name string) bool {
	for _, n := range StepNames {
		if n == name {
			return true
		}
	}
	return false
}
