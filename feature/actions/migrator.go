package actions

import (
	"context"
	"reflect"

	"sublime-migrate/core/fetch"
	"sublime-migrate/core/filter"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"

	"go.uber.org/zap"
)

const (
	resource = "actions"
	path     = "/v1/actions"
)

// Options selects the source actions to migrate.
type Options struct {
	IncludeIDs   string
	ExcludeIDs   string
	IncludeTypes string
	ExcludeTypes string
}

// Update pairs a source action with its destination namesake.
type Update struct {
	Source model.Action
	Dest   *model.Action
}

// Plan is the categorized set of actions to write.
type Plan struct {
	New    []model.Action
	Update []Update
}

// Migrator migrates actions.
type Migrator struct {
	env  migrate.Env
	opts Options
}

// NewMigrator creates an actions migrator.
func NewMigrator(env migrate.Env, opts Options) *Migrator {
	return &Migrator{env: env, opts: opts}
}

func (m *Migrator) Resource() string { return resource }

// Filter drops built-in types, then applies the id and type selections.
func Filter(items []model.Action, opts Options) []model.Action {
	return filter.Apply(items, filter.Options[model.Action]{
		IncludeIDs:   opts.IncludeIDs,
		ExcludeIDs:   opts.ExcludeIDs,
		ID:           func(a model.Action) string { return a.ID },
		IncludeTypes: opts.IncludeTypes,
		ExcludeTypes: opts.ExcludeTypes,
		Ignored:      filter.IgnoredActionTypes,
		Type:         func(a model.Action) string { return a.Type },
	})
}

// Categorize splits source actions into new ones and updates, matching on name.
func Categorize(source, dest []model.Action) Plan {
	byName := migrate.IndexBy(dest, func(a model.Action) string { return a.Name })

	var plan Plan
	for _, a := range source {
		if existing, ok := byName[a.Name]; ok {
			plan.Update = append(plan.Update, Update{Source: a, Dest: &existing})
			continue
		}
		plan.New = append(plan.New, a)
	}
	return plan
}

func (m *Migrator) Plan(ctx context.Context) (Plan, *migrate.Preview, error) {
	source, err := fetch.List[model.Action](ctx, m.env.Source, path, nil)
	if err != nil {
		return Plan{}, nil, migrate.FetchError("source actions", err)
	}

	selected := Filter(source, m.opts)
	if len(selected) == 0 {
		return Plan{}, nil, migrate.NothingToMigrate(resource)
	}

	dest, err := fetch.List[model.Action](ctx, m.env.Dest, path, nil)
	if err != nil {
		return Plan{}, nil, migrate.FetchError("destination actions", err)
	}

	plan := Categorize(selected, dest)
	if len(plan.New) == 0 && len(plan.Update) == 0 {
		return Plan{}, nil, migrate.Done("All selected actions already exist in the destination instance.", nil)
	}

	preview := migrate.NewPreview(resource, "")
	for _, a := range plan.New {
		preview.AddNew(migrate.Item{ID: a.ID, Name: a.Name, Type: a.Type})
	}
	for _, u := range plan.Update {
		preview.AddUpdate(migrate.Item{ID: u.Source.ID, Name: u.Source.Name, Type: u.Source.Type, Info: "if different"})
	}
	return plan, preview, nil
}

func (m *Migrator) Apply(ctx context.Context, plan Plan) *migrate.Result {
	l := m.env.Logger()
	result := migrate.NewResult()

	for _, a := range plan.New {
		if _, err := m.env.Dest.Post(ctx, path, Payload(a)); err != nil {
			l.Warn("failed to create action", zap.String("name", a.Name), zap.Error(err))
			result.AddFailed(a.Name, a.Type, err.Error())
			continue
		}
		result.AddCreated(a.Name, a.Type)
	}

	for _, u := range plan.Update {
		a := u.Source
		if u.Dest == nil {
			result.AddSkipped(a.Name, a.Type, "Action no longer exists in destination")
			continue
		}
		if reflect.DeepEqual(a.Config, u.Dest.Config) {
			result.AddSkipped(a.Name, a.Type, "No changes needed")
			continue
		}
		if _, err := m.env.Dest.Patch(ctx, path+"/"+u.Dest.ID, Payload(a)); err != nil {
			l.Warn("failed to update action", zap.String("name", a.Name), zap.Error(err))
			result.AddFailed(a.Name, a.Type, err.Error())
			continue
		}
		result.AddUpdated(a.Name, a.Type, "")
	}
	return result
}
