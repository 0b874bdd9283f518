package lists

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"sublime-migrate/core/api"
	"sublime-migrate/core/fetch"
	"sublime-migrate/core/filter"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"

	"go.uber.org/zap"
)

const (
	resource   = "lists"
	path       = "/v1/lists"
	groupsPath = "/v1/user-groups"
)

// Options selects the source lists to migrate.
type Options struct {
	IncludeIDs string
	ExcludeIDs string
	// IncludeTypes restricts the list types; empty means string and user_group.
	IncludeTypes  string
	IncludeSystem bool
}

// Update pairs a source list with its destination namesake.
type Update struct {
	Source model.List
	Dest   model.List
}

// Plan is the categorized set of lists.
type Plan struct {
	New    []model.List
	Update []Update
	// Groups maps destination user group names to ids.
	Groups map[string]string
}

// Migrator migrates lists.
type Migrator struct {
	env  migrate.Env
	opts Options
}

// NewMigrator creates a lists migrator.
func NewMigrator(env migrate.Env, opts Options) *Migrator {
	return &Migrator{env: env, opts: opts}
}

func (m *Migrator) Resource() string { return resource }

// Types returns the list types selected by include, in canonical order.
func Types(include string) []string {
	all := []string{model.ListTypeString, model.ListTypeUserGroup}
	if include == "" {
		return all
	}
	wanted := filter.ParseSet(include)
	return filter.Where(all, wanted.Has)
}

// FetchAll reads the lists of every type in types from c.
func FetchAll(ctx context.Context, c api.Client, types []string) ([]model.List, error) {
	var out []model.List
	for _, t := range types {
		lists, err := fetch.List[model.List](ctx, c, path, url.Values{"list_types": {t}})
		if err != nil {
			return nil, fmt.Errorf("%s lists: %w", t, err)
		}
		out = append(out, lists...)
	}
	return out, nil
}

// WithEntries replaces every string list by its detail record, which carries
// the entries. A failed detail keeps the summary record and is logged.
func WithEntries(ctx context.Context, env migrate.Env, c api.Client, lists []model.List) []model.List {
	l := env.Logger()
	details, errs := fetch.Details(ctx, lists, env.Workers, func(ctx context.Context, list model.List) (model.List, error) {
		if list.EntryType != model.ListTypeString {
			return list, nil
		}
		return fetch.One[model.List](ctx, c, path+"/"+list.ID)
	})

	out := make([]model.List, len(lists))
	for i := range lists {
		if errs[i] != nil {
			l.Warn("failed to fetch list entries", zap.String("name", lists[i].Name), zap.Error(errs[i]))
			out[i] = lists[i]
			continue
		}
		out[i] = details[i]
	}
	return out
}

// Categorize splits source lists into new ones and updates, matching on name.
func Categorize(source, dest []model.List) Plan {
	byName := migrate.IndexBy(dest, func(l model.List) string { return l.Name })

	var plan Plan
	for _, l := range source {
		if existing, ok := byName[l.Name]; ok {
			plan.Update = append(plan.Update, Update{Source: l, Dest: existing})
			continue
		}
		plan.New = append(plan.New, l)
	}
	return plan
}

func (m *Migrator) Plan(ctx context.Context) (Plan, *migrate.Preview, error) {
	types := Types(m.opts.IncludeTypes)

	source, err := FetchAll(ctx, m.env.Source, types)
	if err != nil {
		return Plan{}, nil, migrate.FetchError("source", err)
	}

	selected := filter.Apply(source, filter.Options[model.List]{
		IncludeIDs:      m.opts.IncludeIDs,
		ExcludeIDs:      m.opts.ExcludeIDs,
		ID:              func(l model.List) string { return l.ID },
		IncludeSystem:   m.opts.IncludeSystem,
		ExcludedAuthors: filter.DefaultExcludedAuthors,
		Creator:         model.List.Creators,
	})
	if len(selected) == 0 {
		return Plan{}, nil, migrate.NothingToMigrate(resource)
	}
	selected = WithEntries(ctx, m.env, m.env.Source, selected)

	groups := map[string]string{}
	if hasUserGroups(selected) {
		found, err := fetch.List[model.UserGroup](ctx, m.env.Dest, groupsPath, nil)
		if err != nil {
			return Plan{}, nil, migrate.FetchError("destination user groups", err)
		}
		for _, g := range found {
			groups[g.Name] = g.ID
		}
	}

	dest, err := FetchAll(ctx, m.env.Dest, types)
	if err != nil {
		return Plan{}, nil, migrate.FetchError("destination", err)
	}

	plan := Categorize(selected, dest)
	plan.Groups = groups
	if len(plan.New) == 0 && len(plan.Update) == 0 {
		return Plan{}, nil, migrate.Done("All selected lists already exist in the destination instance.", nil)
	}

	preview := migrate.NewPreview(resource, "Entries")
	for _, l := range plan.New {
		preview.AddNew(item(l))
	}
	for _, u := range plan.Update {
		preview.AddUpdate(item(u.Source))
	}
	return plan, preview, nil
}

func (m *Migrator) Apply(ctx context.Context, plan Plan) *migrate.Result {
	l := m.env.Logger()
	result := migrate.NewResult()

	for _, list := range plan.New {
		groupID := ""
		if list.EntryType == model.ListTypeUserGroup {
			id, ok := plan.Groups[list.ProviderGroupName]
			if !ok || id == "" {
				result.AddFailed(list.Name, list.EntryType, groupNotFound(list.ProviderGroupName))
				continue
			}
			groupID = id
		}
		if _, err := m.env.Dest.Post(ctx, path, CreatePayload(list, groupID)); err != nil {
			l.Warn("failed to create list", zap.String("name", list.Name), zap.Error(err))
			result.AddFailed(list.Name, list.EntryType, err.Error())
			continue
		}
		result.AddCreated(list.Name, list.EntryType)
	}

	for _, u := range plan.Update {
		if err := m.update(ctx, u, plan.Groups, result); err != nil {
			l.Warn("failed to update list", zap.String("name", u.Source.Name), zap.Error(err))
			result.AddFailed(u.Source.Name, u.Source.EntryType, err.Error())
		}
	}
	return result
}

// update writes one list update and records its outcome. A returned error
// has not been recorded yet.
func (m *Migrator) update(ctx context.Context, u Update, groups map[string]string, result *migrate.Result) error {
	src := u.Source
	if u.Dest.ID == "" {
		result.AddSkipped(src.Name, src.EntryType, "List not found in destination")
		return nil
	}
	target := path + "/" + u.Dest.ID

	if src.EntryType == model.ListTypeUserGroup {
		id, ok := groups[src.ProviderGroupName]
		if !ok || id == "" {
			result.AddFailed(src.Name, src.EntryType, groupNotFound(src.ProviderGroupName))
			return nil
		}
		if u.Dest.ProviderGroupID == id {
			result.AddSkipped(src.Name, src.EntryType, "No changes needed")
			return nil
		}
		if _, err := m.env.Dest.Patch(ctx, target, providerGroupPatch{ProviderGroupID: id}); err != nil {
			return err
		}
		result.AddUpdated(src.Name, src.EntryType, "Provider group changed")
		return nil
	}

	existing, err := fetch.One[model.List](ctx, m.env.Dest, target)
	if err != nil {
		return err
	}
	if SameEntries(existing.Entries, src.Entries) {
		result.AddSkipped(src.Name, src.EntryType, "No changes needed")
		return nil
	}
	if _, err := m.env.Dest.Patch(ctx, target, entriesPatch{Entries: uniqueSorted(src.Entries)}); err != nil {
		return err
	}
	result.AddUpdated(src.Name, src.EntryType, "Entries changed")
	return nil
}

func hasUserGroups(lists []model.List) bool {
	for _, l := range lists {
		if l.EntryType == model.ListTypeUserGroup {
			return true
		}
	}
	return false
}

func groupNotFound(name string) string {
	return fmt.Sprintf("User group '%s' not found in destination", name)
}

func item(l model.List) migrate.Item {
	count := l.EntryCount
	if count == 0 {
		count = len(l.Entries)
	}
	return migrate.Item{ID: l.ID, Name: l.Name, Type: l.EntryType, Info: strconv.Itoa(count)}
}
