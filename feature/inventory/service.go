package inventory

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"sublime-migrate/core/fetch"
	"sublime-migrate/core/filter"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"
	"sublime-migrate/feature/exclusions"
	"sublime-migrate/feature/feeds"
	"sublime-migrate/feature/lists"

	"go.uber.org/zap"
)

const instance = "instance"

// RuleQuery selects the rules of a listing.
type RuleQuery struct {
	// Type is detection or triage.
	Type string
	// ActiveOnly keeps active rules. It is applied after the fetch.
	ActiveOnly bool
	// Feed keeps the rules of one feed id.
	Feed string
	// InFeed keeps rules in (true) or outside (false) any feed.
	InFeed *bool
	// WithExclusions fetches every rule's detail to read its exclusions.
	WithExclusions bool
}

// Params returns the server-side part of q.
func (q RuleQuery) Params() url.Values {
	params := url.Values{}
	if q.Type != "" {
		params.Set("type", q.Type)
	}
	if q.Feed != "" {
		params.Set("feed", q.Feed)
	}
	if q.InFeed != nil {
		params.Set("in_feed", fmt.Sprintf("%t", *q.InFeed))
	}
	return params
}

// Describe lists the filters of q, or returns "" when q selects everything.
func (q RuleQuery) Describe() string {
	var parts []string
	if q.Type != "" {
		parts = append(parts, "type="+q.Type)
	}
	if q.ActiveOnly {
		parts = append(parts, "active=true")
	}
	if q.Feed != "" {
		parts = append(parts, "feed="+q.Feed)
	}
	if q.InFeed != nil {
		parts = append(parts, fmt.Sprintf("in_feed=%t", *q.InFeed))
	}
	return strings.Join(parts, ", ")
}

// Service reads resources from env.Source.
type Service struct {
	env migrate.Env
}

// NewService creates a new inventory service.
func NewService(env migrate.Env) *Service {
	return &Service{env: env}
}

// Actions returns every action.
func (s *Service) Actions(ctx context.Context) ([]model.Action, error) {
	items, err := fetch.List[model.Action](ctx, s.env.Source, model.Paths[model.KindAction], nil)
	if err != nil {
		return nil, migrate.FetchError("actions", err)
	}
	return items, nil
}

// Rules returns the rules selected by q.
func (s *Service) Rules(ctx context.Context, q RuleQuery) ([]model.Rule, error) {
	track, stop := s.env.Track("Fetching rules...")
	items, err := fetch.All[model.Rule](ctx, s.env.Source, model.Paths[model.KindRule], q.Params(), s.env.PageOption(), track)
	stop()
	if err != nil {
		return nil, migrate.FetchError("rules", err)
	}

	if q.ActiveOnly {
		items = filter.Where(items, func(r model.Rule) bool { return r.Active })
	}
	if q.WithExclusions {
		items = s.withExclusions(ctx, items)
	}
	return items, nil
}

// withExclusions copies the exclusions of each rule detail onto its summary.
// A failed detail leaves the summary unchanged.
func (s *Service) withExclusions(ctx context.Context, rs []model.Rule) []model.Rule {
	l := s.env.Logger()
	path := model.Paths[model.KindRule]
	details, errs := fetch.Details(ctx, rs, s.env.Workers, func(ctx context.Context, r model.Rule) (model.Rule, error) {
		return fetch.One[model.Rule](ctx, s.env.Source, path+"/"+r.ID)
	})

	out := make([]model.Rule, len(rs))
	for i, r := range rs {
		out[i] = r
		if errs[i] != nil {
			l.Warn("failed to fetch rule details", zap.String("name", r.Name), zap.Error(errs[i]))
			continue
		}
		out[i].Exclusions = details[i].Exclusions
	}
	return out
}

// Lists returns the lists of listType, or of every type when it is empty.
func (s *Service) Lists(ctx context.Context, listType string) ([]model.List, error) {
	types := lists.Types(listType)
	if len(types) == 0 {
		return nil, &migrate.ValidationError{Message: fmt.Sprintf("unknown list type %q", listType)}
	}
	items, err := lists.FetchAll(ctx, s.env.Source, types)
	if err != nil {
		return nil, migrate.FetchError("lists", err)
	}
	return items, nil
}

// Exclusions returns every global exclusion.
func (s *Service) Exclusions(ctx context.Context) ([]model.Exclusion, error) {
	return exclusions.FetchAll(ctx, s.env, s.env.Source, instance)
}

// Feeds returns every feed.
func (s *Service) Feeds(ctx context.Context) ([]model.Feed, error) {
	return feeds.FetchAll(ctx, s.env, s.env.Source, instance)
}

// Get returns one record of kind by id.
func (s *Service) Get(ctx context.Context, kind model.Kind, id string) (any, error) {
	path, ok := model.Paths[kind]
	if !ok {
		return nil, &migrate.ValidationError{Message: fmt.Sprintf("unknown resource kind %q", kind)}
	}
	body, err := s.env.Source.Get(ctx, path+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, migrate.FetchError(string(kind)+" "+id, err)
	}
	rec, err := model.Decode(kind, body)
	if err != nil {
		return nil, migrate.FetchError(string(kind)+" "+id, err)
	}
	return rec, nil
}
