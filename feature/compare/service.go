package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sublime-migrate/core/api"
	"sublime-migrate/core/fetch"
	"sublime-migrate/core/filter"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"
	"sublime-migrate/feature/actions"
	"sublime-migrate/feature/exclusions"
	"sublime-migrate/feature/feeds"
	"sublime-migrate/feature/lists"
	"sublime-migrate/feature/rules"

	"go.uber.org/zap"
)

// Resource types, in report order.
const (
	Actions    = "actions"
	Lists      = "lists"
	Exclusions = "exclusions"
	Feeds      = "feeds"
	Rules      = "rules"
)

// Resources lists every comparable resource type.
var Resources = []string{Actions, Lists, Exclusions, Feeds, Rules}

// Service compares env.Source against env.Dest.
type Service struct {
	env migrate.Env
}

// NewService creates a new compare service.
func NewService(env migrate.Env) *Service {
	return &Service{env: env}
}

// Run compares the selected resource types, or all of them when selected
// is empty. The first failing fetch aborts the comparison.
func (s *Service) Run(ctx context.Context, selected []string) (*Report, error) {
	if len(selected) == 0 {
		selected = Resources
	}
	want := filter.NewSet(selected...)
	for r := range want {
		if !filter.NewSet(Resources...).Has(r) {
			return nil, &migrate.ValidationError{
				Field:   "resources",
				Message: fmt.Sprintf("unknown resource %q, valid resources: %s", r, strings.Join(Resources, ", ")),
			}
		}
	}

	report := &Report{}
	for _, r := range Resources {
		if !want.Has(r) {
			continue
		}
		s.env.Logger().Debug("comparing", zap.String("resource", r))

		var (
			d   Diff
			err error
		)
		switch r {
		case Actions:
			d, err = s.actions(ctx)
		case Lists:
			d, err = s.lists(ctx)
		case Exclusions:
			d, err = s.exclusions(ctx)
		case Feeds:
			d, err = s.feeds(ctx)
		case Rules:
			d, err = s.rules(ctx)
		}
		if err != nil {
			return nil, err
		}
		report.Diffs = append(report.Diffs, d)
	}
	return report, nil
}

func (s *Service) actions(ctx context.Context) (Diff, error) {
	read := func(c api.Client, instance string) ([]model.Action, error) {
		items, err := fetch.List[model.Action](ctx, c, model.Paths[model.KindAction], nil)
		if err != nil {
			return nil, migrate.FetchError(instance+" actions", err)
		}
		return actions.Filter(items, actions.Options{}), nil
	}
	src, dst, err := both(s.env, read)
	if err != nil {
		return Diff{}, err
	}
	return Compare(Actions, src, dst, func(a model.Action) string { return a.Name }, func(a, b model.Action) bool {
		return a.Type == b.Type && samePayload(actions.Payload(a), actions.Payload(b))
	}), nil
}

func (s *Service) lists(ctx context.Context) (Diff, error) {
	read := func(c api.Client, instance string) ([]model.List, error) {
		items, err := lists.FetchAll(ctx, c, lists.Types(""))
		if err != nil {
			return nil, migrate.FetchError(instance+" lists", err)
		}
		items = filter.ByCreator(items, false, filter.DefaultExcludedAuthors, model.List.Creators)
		return lists.WithEntries(ctx, s.env, c, items), nil
	}
	src, dst, err := both(s.env, read)
	if err != nil {
		return Diff{}, err
	}
	return Compare(Lists, src, dst, func(l model.List) string { return l.Name }, func(a, b model.List) bool {
		if a.EntryType != b.EntryType {
			return false
		}
		if a.EntryType == model.ListTypeUserGroup {
			return a.ProviderGroupName == b.ProviderGroupName
		}
		return lists.SameEntries(a.Entries, b.Entries)
	}), nil
}

func (s *Service) exclusions(ctx context.Context) (Diff, error) {
	read := func(c api.Client, instance string) ([]model.Exclusion, error) {
		items, err := exclusions.FetchAll(ctx, s.env, c, instance)
		if err != nil {
			return nil, err
		}
		return filter.ByCreator(items, false, filter.DefaultExcludedAuthors, model.Exclusion.Creators), nil
	}
	src, dst, err := both(s.env, read)
	if err != nil {
		return Diff{}, err
	}
	return Compare(Exclusions, src, dst, func(e model.Exclusion) string { return e.Name }, func(a, b model.Exclusion) bool {
		return samePayload(exclusions.Payload(a), exclusions.Payload(b))
	}), nil
}

func (s *Service) feeds(ctx context.Context) (Diff, error) {
	read := func(c api.Client, instance string) ([]model.Feed, error) {
		items, err := feeds.FetchAll(ctx, s.env, c, instance)
		if err != nil {
			return nil, err
		}
		return feeds.Filter(items, feeds.Options{}), nil
	}
	src, dst, err := both(s.env, read)
	if err != nil {
		return Diff{}, err
	}
	return Compare(Feeds, src, dst, func(f model.Feed) string { return f.Name }, func(a, b model.Feed) bool {
		return !feeds.Changed(a, b)
	}), nil
}

func (s *Service) rules(ctx context.Context) (Diff, error) {
	read := func(c api.Client, instance string) ([]model.Rule, error) {
		return rules.FetchAll(ctx, s.env, c, instance, rules.Params(""))
	}
	src, dst, err := both(s.env, read)
	if err != nil {
		return Diff{}, err
	}
	return Compare(Rules, src, dst, func(r model.Rule) string { return r.Name }, func(a, b model.Rule) bool {
		return a.SourceMD5 == b.SourceMD5
	}), nil
}

// both reads one resource type from the source, then the destination.
func both[T any](env migrate.Env, read func(c api.Client, instance string) ([]T, error)) ([]T, []T, error) {
	src, err := read(env.Source, "source")
	if err != nil {
		return nil, nil, err
	}
	dst, err := read(env.Dest, "destination")
	if err != nil {
		return nil, nil, err
	}
	return src, dst, nil
}

func samePayload(a, b any) bool {
	x, errA := json.Marshal(a)
	y, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(x, y)
}
