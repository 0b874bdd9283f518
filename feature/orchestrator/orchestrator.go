package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"sublime-migrate/core/api"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/output"

	"go.uber.org/zap"
)

// Planned step statuses, shown before confirmation.
const (
	StatusWillMigrate = "will_migrate"
	StatusWillSkip    = "will_skip"
)

// Options controls a full migration.
type Options struct {
	// Skip names steps that are not run.
	Skip []string

	DryRun    bool
	Confirmed bool

	// Formatter shows the plan, asks for confirmations and is handed to
	// every step.
	Formatter output.Formatter

	Log *zap.Logger

	// Spinner wraps the instance validation. Nil runs it directly.
	Spinner func(ctx context.Context, title string, action func() error) error

	// OnStep is called with every finished step result, in order.
	OnStep func(step Step, result *output.CommandResult)
}

// StepResult is the outcome of one step.
type StepResult struct {
	Step    int    `json:"step"`
	Name    string `json:"name"`
	Title   string `json:"component"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Report is the outcome of a full migration.
type Report struct {
	Connections []Connection `json:"connections,omitempty"`
	Steps       []StepResult `json:"steps"`
}

// Failed lists the names of steps that ended in error.
func (r *Report) Failed() []string {
	var out []string
	for _, s := range r.Steps {
		if s.Status == output.StatusError {
			out = append(out, s.Name)
		}
	}
	return out
}

func (r *Report) Sections() []output.Section {
	var sections []output.Section
	if len(r.Connections) > 0 {
		conn := output.Section{Title: "Connections", Headers: []string{"Instance", "Organization", "User"}}
		for _, c := range r.Connections {
			conn.Rows = append(conn.Rows, []string{c.Instance, orUnknown(c.OrgName), orUnknown(c.Email)})
		}
		sections = append(sections, conn)
	}

	steps := output.Section{Title: "Migration Steps", Headers: []string{"#", "Component", "Status", "Message"}}
	for _, s := range r.Steps {
		steps.Rows = append(steps.Rows, []string{strconv.Itoa(s.Step), s.Title, s.Status, s.Message})
	}
	return append(sections, steps)
}

// Run validates both instances, then runs steps in order.
func Run(ctx context.Context, env migrate.Env, steps []Step, opts Options) *output.CommandResult {
	l := opts.Log
	if l == nil {
		l = zap.NewNop()
	}
	if err := ValidateSkip(opts.Skip); err != nil {
		return output.Failed(err.Error(), "", nil)
	}

	report := &Report{}
	spin := opts.Spinner
	if spin == nil {
		spin = func(_ context.Context, _ string, action func() error) error { return action() }
	}
	err := spin(ctx, "Validating connection to source and destination...", func() error {
		src, err := connect(ctx, "source", env.Source)
		if err != nil {
			return err
		}
		dst, err := connect(ctx, "destination", env.Dest)
		if err != nil {
			return err
		}
		report.Connections = []Connection{src, dst}
		return nil
	})
	if err != nil {
		l.Error("instance validation failed", zap.Error(err))
		return output.Failed("Error during migration: "+api.Describe(err), "", nil)
	}
	for _, c := range report.Connections {
		l.Info(c.String())
	}

	skip := make(map[string]bool, len(opts.Skip))
	for _, s := range opts.Skip {
		skip[s] = true
	}
	for i, step := range steps {
		status := StatusWillMigrate
		if skip[step.Name] {
			status = StatusWillSkip
		}
		report.Steps = append(report.Steps, StepResult{Step: i + 1, Name: step.Name, Title: step.Title, Status: status})
	}

	if !opts.Confirmed && !opts.DryRun {
		if opts.Formatter == nil {
			return output.Failed("Error during migration: confirmation required", "", nil)
		}
		if opts.Formatter.Interactive() {
			if err := opts.Formatter.Result(output.Succeeded("Migration of All Components", report, "")); err != nil {
				return output.Failed("Error during migration: "+api.Describe(err), "", nil)
			}
		}
		ok, err := opts.Formatter.Confirm("Do you want to proceed with the migration?")
		if err != nil {
			return output.Failed("Error during migration: "+api.Describe(err), "", nil)
		}
		if !ok {
			return output.Succeeded("Migration canceled.", nil, "")
		}
	}

	stepOpts := migrate.Options{
		DryRun:    opts.DryRun,
		Confirmed: opts.Confirmed,
		Formatter: opts.Formatter,
		Log:       l,
	}
	for i, step := range steps {
		res := &report.Steps[i]
		switch {
		case skip[step.Name]:
			res.Status = output.StatusSkipped
			continue
		case ctx.Err() != nil:
			res.Status = output.StatusNotRun
			continue
		}

		l.Info("migration step started", zap.Int("step", i+1), zap.String("name", step.Name))
		result := runStep(ctx, l, step, stepOpts)
		if opts.OnStep != nil {
			opts.OnStep(step, result)
		}
		// A step with nothing to migrate is not a failure of the run.
		if result.Halted {
			res.Status = output.StatusSuccess
			res.Message = result.Message
			continue
		}
		if result.Success {
			res.Status = output.StatusSuccess
			continue
		}
		res.Status = output.StatusError
		res.Message = result.Message
		l.Warn("migration step failed", zap.String("name", step.Name), zap.String("message", result.Message))
	}

	if failed := report.Failed(); len(failed) > 0 {
		return output.Failed("Migration completed with errors in: "+strings.Join(failed, ", "), "", report)
	}
	message := "Migration Complete"
	if opts.DryRun {
		message = "DRY RUN: Migration Complete"
	}
	return output.Succeeded(message, report, "")
}

// runStep runs step, turning a panic into an error result so later steps
// still run.
func runStep(ctx context.Context, l *zap.Logger, step Step, opts migrate.Options) (res *output.CommandResult) {
	defer func() {
		if r := recover(); r != nil {
			l.Error("migration step panicked", zap.String("name", step.Name), zap.Any("panic", r))
			res = output.Failed(fmt.Sprintf("Error during migration: %v", r), "", nil)
		}
	}()
	return step.Run(ctx, opts)
}
