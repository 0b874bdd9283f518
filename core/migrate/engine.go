package migrate

import (
	"context"
	"errors"
	"strings"

	"sublime-migrate/core/api"
	"sublime-migrate/core/output"

	"go.uber.org/zap"
)

// Migrator plans and applies the migration of one resource type.
// P is the resource-specific plan passed from Plan to Apply.
type Migrator[P any] interface {
	// Resource is the plural noun used in messages, e.g. "actions".
	Resource() string

	// Plan fetches, filters and categorizes without writing anything.
	Plan(ctx context.Context) (P, *Preview, error)

	// Apply writes the plan to the destination. Per-item failures are
	// recorded in the Result and never stop the remaining items.
	Apply(ctx context.Context, plan P) *Result
}

// Options controls a run.
type Options struct {
	// DryRun stops after Plan. Nothing is written.
	DryRun bool

	// Confirmed skips the interactive confirmation.
	Confirmed bool

	// Formatter shows the preview and asks for confirmation.
	// Required unless DryRun or Confirmed is set.
	Formatter output.Formatter

	// Log receives run logs. Nil disables logging.
	Log *zap.Logger
}

// Run plans a migration and, once confirmed, applies it.
// It always returns a result; errors are reported through it.
func Run[P any](ctx context.Context, m Migrator[P], opts Options) *output.CommandResult {
	l := opts.Log
	if l == nil {
		l = zap.NewNop()
	}
	resource := m.Resource()
	l = l.With(zap.String("resource", resource))

	plan, preview, err := m.Plan(ctx)
	if err != nil {
		var halt *Halt
		if errors.As(err, &halt) {
			l.Info("migration halted", zap.String("reason", halt.Message))
			res := output.Failed(halt.Message, "", halt.Data)
			if halt.Success {
				res = output.Succeeded(halt.Message, halt.Data, "")
			}
			res.Halted = true
			return res
		}
		l.Error("migration planning failed", zap.Error(err))
		return output.Failed("Error during migration: "+api.Describe(err), "", nil)
	}

	summary := preview.Summary()
	l.Info("migration planned",
		zap.Int("new", summary.NewCount),
		zap.Int("update", summary.UpdateCount),
		zap.Int("skipped", summary.SkippedCount),
		zap.Bool("dry_run", opts.DryRun),
	)

	if opts.DryRun {
		return output.Succeeded("DRY RUN: Preview of "+resource+" to migrate", preview,
			"No changes were made to the destination instance.")
	}

	confirmed := opts.Confirmed
	if !confirmed {
		if opts.Formatter == nil {
			return output.Failed("Error during migration: confirmation required", "", nil)
		}
		// Only a real prompt needs the preview up front; the final result carries it too.
		if opts.Formatter.Interactive() {
			if err := opts.Formatter.Result(output.Succeeded(capitalize(resource)+" that will be migrated:", preview,
				"Please confirm to proceed with migration.")); err != nil {
				return output.Failed("Error during migration: "+api.Describe(err), "", nil)
			}
		}
		confirmed, err = opts.Formatter.Confirm("Do you want to proceed with the migration?")
		if err != nil {
			return output.Failed("Error during migration: "+api.Describe(err), "", nil)
		}
	}

	// Safety check: writes only happen for a confirmed, non dry run.
	if !confirmed || opts.DryRun {
		l.Info("migration canceled by user")
		return output.Succeeded("Migration canceled by user.", nil, "")
	}

	result := m.Apply(ctx, plan)
	preview.Results = result
	l.Info("migration applied",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return output.Succeeded(result.Message(), preview, "See details below for operation results.")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
