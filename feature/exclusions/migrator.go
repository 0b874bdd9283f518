package exclusions

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
	resource = "exclusions"
	path     = "/v1/exclusions"

	// ReasonExists is given for a source exclusion whose name is taken.
	ReasonExists = "Exclusion already exists in destination"
)

// Options selects the source exclusions to migrate.
type Options struct {
	IncludeIDs    string
	ExcludeIDs    string
	IncludeSystem bool
}

// Skip is a source exclusion that will not be written.
type Skip struct {
	Exclusion model.Exclusion
	Reason    string
}

// Plan is the categorized set of exclusions.
type Plan struct {
	New     []model.Exclusion
	Skipped []Skip
}

// Migrator migrates exclusions.
type Migrator struct {
	env  migrate.Env
	opts Options
}

// NewMigrator creates an exclusions migrator.
func NewMigrator(env migrate.Env, opts Options) *Migrator {
	return &Migrator{env: env, opts: opts}
}

func (m *Migrator) Resource() string { return resource }

// Params selects the live global exclusions of both scopes.
func Params() url.Values {
	return url.Values{
		"include_deleted": {"false"},
		"scope":           {"detection_exclusion", "exclusion"},
	}
}

// FetchAll reads every exclusion from c.
func FetchAll(ctx context.Context, env migrate.Env, c api.Client, instance string) ([]model.Exclusion, error) {
	track, stop := env.Track("Fetching exclusions from " + instance + "...")
	defer stop()

	items, err := fetch.All[model.Exclusion](ctx, c, path, Params(), env.PageOption(), track)
	if err != nil {
		return nil, migrate.FetchError(instance+" exclusions", err)
	}
	return items, nil
}

// Categorize splits source exclusions into new ones and skips, matching on name.
func Categorize(source, dest []model.Exclusion) Plan {
	byName := migrate.IndexBy(dest, func(e model.Exclusion) string { return e.Name })

	var plan Plan
	for _, e := range source {
		if _, ok := byName[e.Name]; ok {
			plan.Skipped = append(plan.Skipped, Skip{Exclusion: e, Reason: ReasonExists})
			continue
		}
		plan.New = append(plan.New, e)
	}
	return plan
}

func (m *Migrator) Plan(ctx context.Context) (Plan, *migrate.Preview, error) {
	source, err := FetchAll(ctx, m.env, m.env.Source, "source")
	if err != nil {
		return Plan{}, nil, err
	}

	selected := filter.Apply(source, filter.Options[model.Exclusion]{
		IncludeIDs:      m.opts.IncludeIDs,
		ExcludeIDs:      m.opts.ExcludeIDs,
		ID:              func(e model.Exclusion) string { return e.ID },
		IncludeSystem:   m.opts.IncludeSystem,
		ExcludedAuthors: filter.DefaultExcludedAuthors,
		Creator:         model.Exclusion.Creators,
	})
	if len(selected) == 0 {
		return Plan{}, nil, migrate.NothingToMigrate(resource)
	}

	dest, err := FetchAll(ctx, m.env, m.env.Dest, "destination")
	if err != nil {
		return Plan{}, nil, err
	}

	plan := Categorize(selected, dest)
	if len(plan.New) == 0 {
		return Plan{}, nil, migrate.Done("All selected exclusions already exist in the destination instance.",
			map[string]int{"skipped_exclusions": len(plan.Skipped)})
	}

	preview := migrate.NewPreview(resource, "Scope")
	for _, e := range plan.New {
		preview.AddNew(item(e))
	}
	for _, s := range plan.Skipped {
		preview.AddSkipped(item(s.Exclusion), s.Reason)
	}
	return plan, preview, nil
}

func (m *Migrator) Apply(ctx context.Context, plan Plan) *migrate.Result {
	l := m.env.Logger()
	result := migrate.NewResult()

	for _, e := range plan.New {
		if _, err := m.env.Dest.Post(ctx, path, Payload(e)); err != nil {
			l.Warn("failed to create exclusion", zap.String("name", e.Name), zap.Error(err))
			result.AddFailed(e.Name, e.Scope, err.Error())
			continue
		}
		result.AddCreated(e.Name, e.Scope)
	}
	for _, s := range plan.Skipped {
		result.AddSkipped(s.Exclusion.Name, s.Exclusion.Scope, s.Reason)
	}
	return result
}

func item(e model.Exclusion) migrate.Item {
	return migrate.Item{ID: e.ID, Name: e.Name, Info: e.Scope}
}
