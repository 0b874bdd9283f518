package rules

import (
	"context"
	"net/url"

	"sublime-migrate/core/api"
	"sublime-migrate/core/fetch"
	"sublime-migrate/core/filter"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"

	"go.uber.org/zap"
)

const (
	resource = "rules"
	path     = "/v1/rules"

	// ReasonContentMismatch is given for a name match with a different body.
	ReasonContentMismatch = "Rule exists with same name but different content (source_md5 mismatch)"
)

// Options selects the source rules to migrate.
type Options struct {
	IncludeIDs string
	ExcludeIDs string
	// Type restricts the fetch to detection or triage rules.
	Type string
}

// Update pairs a source rule with its exact destination match.
type Update struct {
	Source model.Rule
	Dest   model.Rule
}

// Skip is a source rule that will not be written.
type Skip struct {
	Rule   model.Rule
	Reason string
}

// Plan is the categorized set of rules.
type Plan struct {
	New     []model.Rule
	Update  []Update
	Skipped []Skip
}

// Migrator migrates rules.
type Migrator struct {
	env  migrate.Env
	opts Options
}

// NewMigrator creates a rules migrator.
func NewMigrator(env migrate.Env, opts Options) *Migrator {
	return &Migrator{env: env, opts: opts}
}

func (m *Migrator) Resource() string { return resource }

// Params are the query parameters selecting user-created, live rules.
func Params(ruleType string) url.Values {
	params := url.Values{
		"include_deleted": {"false"},
		"in_feed":         {"false"},
	}
	if ruleType != "" {
		params.Set("type", ruleType)
	}
	return params
}

// FetchAll reads every rule matching params from c.
// instance labels the progress display and errors.
func FetchAll(ctx context.Context, env migrate.Env, c api.Client, instance string, params url.Values) ([]model.Rule, error) {
	track, stop := env.Track("Fetching rules from " + instance + "...")
	defer stop()

	rules, err := fetch.All[model.Rule](ctx, c, path, params, env.PageOption(), track)
	if err != nil {
		return nil, migrate.FetchError(instance+" rules", err)
	}
	return rules, nil
}

// Categorize matches source rules against the destination.
func Categorize(source, dest []model.Rule) Plan {
	byName := migrate.IndexBy(dest, func(r model.Rule) string { return r.Name })
	byKey := migrate.IndexBy(dest, model.Rule.Key)

	var plan Plan
	for _, r := range source {
		if existing, ok := byKey[r.Key()]; ok {
			plan.Update = append(plan.Update, Update{Source: r, Dest: existing})
			continue
		}
		if _, ok := byName[r.Name]; ok {
			plan.Skipped = append(plan.Skipped, Skip{Rule: r, Reason: ReasonContentMismatch})
			continue
		}
		plan.New = append(plan.New, r)
	}
	return plan
}

func (m *Migrator) Plan(ctx context.Context) (Plan, *migrate.Preview, error) {
	params := Params(m.opts.Type)

	source, err := FetchAll(ctx, m.env, m.env.Source, "source", params)
	if err != nil {
		return Plan{}, nil, err
	}

	selected := filter.ByIDs(source, m.opts.IncludeIDs, m.opts.ExcludeIDs, func(r model.Rule) string { return r.ID })
	if len(selected) == 0 {
		return Plan{}, nil, migrate.NothingToMigrate(resource)
	}

	dest, err := FetchAll(ctx, m.env, m.env.Dest, "destination", params)
	if err != nil {
		return Plan{}, nil, err
	}

	plan := Categorize(selected, dest)
	if len(plan.New) == 0 && len(plan.Update) == 0 {
		return Plan{}, nil, migrate.Done("No rules to migrate (all rules were skipped or already exist).",
			map[string]int{"skipped_rules": len(plan.Skipped)})
	}

	preview := migrate.NewPreview(resource, "Severity")
	for _, r := range plan.New {
		preview.AddNew(item(r))
	}
	for _, u := range plan.Update {
		preview.AddUpdate(item(u.Source))
	}
	for _, s := range plan.Skipped {
		preview.AddSkipped(item(s.Rule), s.Reason)
	}
	return plan, preview, nil
}

func (m *Migrator) Apply(ctx context.Context, plan Plan) *migrate.Result {
	l := m.env.Logger()
	result := migrate.NewResult()

	for _, r := range plan.New {
		if _, err := m.env.Dest.Post(ctx, path, Payload(r)); err != nil {
			l.Warn("failed to create rule", zap.String("name", r.Name), zap.Error(err))
			result.AddFailed(r.Name, r.Type, err.Error())
			continue
		}
		result.AddCreated(r.Name, r.Type)
	}

	for _, u := range plan.Update {
		r := u.Source
		if u.Dest.ID == "" {
			result.AddSkipped(r.Name, r.Type, "Rule not found in destination")
			continue
		}
		if _, err := m.env.Dest.Patch(ctx, path+"/"+u.Dest.ID, Payload(r)); err != nil {
			l.Warn("failed to update rule", zap.String("name", r.Name), zap.Error(err))
			result.AddFailed(r.Name, r.Type, err.Error())
			continue
		}
		result.AddUpdated(r.Name, r.Type, "")
	}
	return result
}

func item(r model.Rule) migrate.Item {
	return migrate.Item{ID: r.ID, Name: r.Name, Type: r.Type, Info: r.SeverityOrEmpty()}
}
