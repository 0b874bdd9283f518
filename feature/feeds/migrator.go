package feeds

import (
	"context"

	"sublime-migrate/core/api"
	"sublime-migrate/core/fetch"
	"sublime-migrate/core/filter"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"

	"go.uber.org/zap"
)

const (
	resource = "feeds"
	path     = "/v1/feeds"
)

// Options selects the source feeds to migrate.
type Options struct {
	IncludeIDs    string
	ExcludeIDs    string
	IncludeSystem bool
}

// Update pairs a source feed with its destination namesake.
type Update struct {
	Source model.Feed
	Dest   model.Feed
}

// Plan is the categorized set of feeds.
type Plan struct {
	New    []model.Feed
	Update []Update
}

// Migrator migrates feeds.
type Migrator struct {
	env  migrate.Env
	opts Options
}

// NewMigrator creates a feeds migrator.
func NewMigrator(env migrate.Env, opts Options) *Migrator {
	return &Migrator{env: env, opts: opts}
}

func (m *Migrator) Resource() string { return resource }

// FetchAll reads every feed from c.
func FetchAll(ctx context.Context, env migrate.Env, c api.Client, instance string) ([]model.Feed, error) {
	track, stop := env.Track("Fetching feeds from " + instance + "...")
	defer stop()

	feeds, err := fetch.All[model.Feed](ctx, c, path, nil, env.PageOption(), track)
	if err != nil {
		return nil, migrate.FetchError(instance+" feeds", err)
	}
	return feeds, nil
}

// Filter drops system feeds unless includeSystem is set, then applies the
// id selection.
func Filter(items []model.Feed, opts Options) []model.Feed {
	if !opts.IncludeSystem {
		items = filter.ByAttribute(items, func(f model.Feed) bool { return f.IsSystem }, false)
	}
	return filter.ByIDs(items, opts.IncludeIDs, opts.ExcludeIDs, func(f model.Feed) string { return f.ID })
}

// Categorize splits source feeds into new ones and updates, matching on name.
func Categorize(source, dest []model.Feed) Plan {
	byName := migrate.IndexBy(dest, func(f model.Feed) string { return f.Name })

	var plan Plan
	for _, f := range source {
		if existing, ok := byName[f.Name]; ok {
			plan.Update = append(plan.Update, Update{Source: f, Dest: existing})
			continue
		}
		plan.New = append(plan.New, f)
	}
	return plan
}

func (m *Migrator) Plan(ctx context.Context) (Plan, *migrate.Preview, error) {
	source, err := FetchAll(ctx, m.env, m.env.Source, "source")
	if err != nil {
		return Plan{}, nil, err
	}

	selected := Filter(source, m.opts)
	if len(selected) == 0 {
		return Plan{}, nil, migrate.NothingToMigrate(resource)
	}

	dest, err := FetchAll(ctx, m.env, m.env.Dest, "destination")
	if err != nil {
		return Plan{}, nil, err
	}

	plan := Categorize(selected, dest)
	if len(plan.New) == 0 && len(plan.Update) == 0 {
		return Plan{}, nil, migrate.Done("All selected feeds already exist in the destination instance.", nil)
	}

	preview := migrate.NewPreview(resource, "Git URL")
	for _, f := range plan.New {
		preview.AddNew(item(f))
	}
	for _, u := range plan.Update {
		preview.AddUpdate(item(u.Source))
	}
	return plan, preview, nil
}

func (m *Migrator) Apply(ctx context.Context, plan Plan) *migrate.Result {
	l := m.env.Logger()
	result := migrate.NewResult()

	for _, f := range plan.New {
		if _, err := m.env.Dest.Post(ctx, path, Payload(f)); err != nil {
			l.Warn("failed to create feed", zap.String("name", f.Name), zap.Error(err))
			result.AddFailed(f.Name, "", err.Error())
			continue
		}
		result.AddCreated(f.Name, "")
	}

	for _, u := range plan.Update {
		f := u.Source
		if u.Dest.ID == "" {
			result.AddSkipped(f.Name, "", "Feed not found in destination")
			continue
		}
		if !Changed(f, u.Dest) {
			result.AddSkipped(f.Name, "", "No changes needed")
			continue
		}
		if _, err := m.env.Dest.Patch(ctx, path+"/"+u.Dest.ID, Payload(f)); err != nil {
			l.Warn("failed to update feed", zap.String("name", f.Name), zap.Error(err))
			result.AddFailed(f.Name, "", err.Error())
			continue
		}
		result.AddUpdated(f.Name, "", "Feed configuration changed")
	}
	return result
}

func item(f model.Feed) migrate.Item {
	return migrate.Item{ID: f.ID, Name: f.Name, Info: f.GitURL}
}
