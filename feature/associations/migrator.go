package associations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"sublime-migrate/core/api"
	"sublime-migrate/core/fetch"
	"sublime-migrate/core/filter"
	"sublime-migrate/core/migrate"
	"sublime-migrate/core/model"
	"sublime-migrate/feature/rules"

	"go.uber.org/zap"
)

const (
	resource    = "action associations"
	previewKey  = "associations"
	rulesPath   = "/v1/rules"
	actionsPath = "/v1/actions"

	// ReasonRuleNotFound is given for a source rule without exact destination match.
	ReasonRuleNotFound = "No matching rule found in destination (name and source_md5 must match)"
)

// Options selects the source rules and the actions inside them.
type Options struct {
	IncludeRuleIDs   string
	ExcludeRuleIDs   string
	IncludeActionIDs string
	ExcludeActionIDs string
}

// Link is a destination rule and the destination actions to attach to it.
type Link struct {
	Source  model.Rule
	Dest    model.Rule
	Actions []model.RuleAction
}

// RuleSkip is a source rule without destination counterpart.
type RuleSkip struct {
	Rule   model.Rule
	Reason string
}

// ActionSkip is a source action without destination counterpart.
type ActionSkip struct {
	Rule   model.Rule
	Action model.RuleAction
	Reason string
}

// Plan is the resolved set of associations.
type Plan struct {
	Links          []Link
	SkippedRules   []RuleSkip
	SkippedActions []ActionSkip
}

// Migrator migrates action associations.
type Migrator struct {
	env  migrate.Env
	opts Options
}

// NewMigrator creates an action associations migrator.
func NewMigrator(env migrate.Env, opts Options) *Migrator {
	return &Migrator{env: env, opts: opts}
}

func (m *Migrator) Resource() string { return resource }

// Params selects live rules, feed rules included.
func Params() url.Values {
	return url.Values{"include_deleted": {"false"}}
}

// WithActions keeps rules that carry at least one action.
func WithActions(rs []model.Rule) []model.Rule {
	return filter.Where(rs, func(r model.Rule) bool { return len(r.Actions) > 0 })
}

// FilterActions applies the action id selection inside every rule and drops
// rules left without actions. The input rules are not modified.
func FilterActions(rs []model.Rule, include, exclude string) []model.Rule {
	if include == "" && exclude == "" {
		return rs
	}
	out := make([]model.Rule, 0, len(rs))
	for _, r := range rs {
		actions := filter.ByIDs(r.Actions, include, exclude, func(a model.RuleAction) string { return a.ID })
		if len(actions) == 0 {
			continue
		}
		r.Actions = actions
		out = append(out, r)
	}
	return out
}

// ResolveTypes fills in the type of every embedded action from the action
// records of c. A failed lookup leaves the action untouched; it will not
// match any destination action. The input rules are not modified.
func ResolveTypes(ctx context.Context, env migrate.Env, c api.Client, rs []model.Rule) []model.Rule {
	type ref struct{ rule, action int }

	out := make([]model.Rule, len(rs))
	var refs []ref
	for i, r := range rs {
		out[i] = r
		out[i].Actions = append([]model.RuleAction(nil), r.Actions...)
		for j := range r.Actions {
			refs = append(refs, ref{rule: i, action: j})
		}
	}

	// Rules share actions; identical lookups are served once.
	cached := api.NewCached(c)
	types, errs := fetch.Details(ctx, refs, env.Workers, func(ctx context.Context, r ref) (string, error) {
		id := out[r.rule].Actions[r.action].ID
		action, err := fetch.One[model.Action](ctx, cached, actionsPath+"/"+id)
		return action.Type, err
	})

	l := env.Logger()
	for i, r := range refs {
		a := &out[r.rule].Actions[r.action]
		if errs[i] != nil {
			l.Warn("failed to fetch action details", zap.String("action_id", a.ID), zap.Error(errs[i]))
			continue
		}
		a.Type = types[i]
	}
	return out
}

// Match resolves source rules and their actions against the destination.
func Match(source, destRules []model.Rule, destActions []model.Action) Plan {
	rulesByKey := migrate.IndexBy(destRules, model.Rule.Key)
	actionsByKey := migrate.IndexBy(destActions, model.Action.Key)

	var plan Plan
	for _, r := range source {
		dest, ok := rulesByKey[r.Key()]
		if !ok {
			plan.SkippedRules = append(plan.SkippedRules, RuleSkip{Rule: r, Reason: ReasonRuleNotFound})
			continue
		}

		var matched []model.RuleAction
		for _, a := range r.Actions {
			found, ok := actionsByKey[a.Key()]
			if !ok {
				plan.SkippedActions = append(plan.SkippedActions, ActionSkip{
					Rule:   r,
					Action: a,
					Reason: fmt.Sprintf("No matching action found in destination (name='%s', type='%s')", a.Name, a.Type),
				})
				continue
			}
			matched = append(matched, model.RuleAction{ID: found.ID, Name: a.Name, Type: a.Type, Active: found.Active})
		}
		if len(matched) > 0 {
			plan.Links = append(plan.Links, Link{Source: r, Dest: dest, Actions: matched})
		}
	}
	return plan
}

func (m *Migrator) Plan(ctx context.Context) (Plan, *migrate.Preview, error) {
	source, err := rules.FetchAll(ctx, m.env, m.env.Source, "source", Params())
	if err != nil {
		return Plan{}, nil, err
	}

	selected := WithActions(filter.ByIDs(source, m.opts.IncludeRuleIDs, m.opts.ExcludeRuleIDs,
		func(r model.Rule) string { return r.ID }))
	if len(selected) == 0 {
		return Plan{}, nil, migrate.Done("No rules with actions to process after applying filters.", nil)
	}

	selected = FilterActions(selected, m.opts.IncludeActionIDs, m.opts.ExcludeActionIDs)
	if len(selected) == 0 {
		return Plan{}, nil, migrate.Done("No rules with matching actions after applying action filters.", nil)
	}
	m.env.Logger().Info("rules with actions selected", zap.Int("count", len(selected)))

	selected = ResolveTypes(ctx, m.env, m.env.Source, selected)

	destRules, err := rules.FetchAll(ctx, m.env, m.env.Dest, "destination", Params())
	if err != nil {
		return Plan{}, nil, err
	}
	destActions, err := fetch.List[model.Action](ctx, m.env.Dest, actionsPath, nil)
	if err != nil {
		return Plan{}, nil, migrate.FetchError("destination actions", err)
	}

	plan := Match(selected, destRules, destActions)
	if len(plan.Links) == 0 {
		return Plan{}, nil, migrate.Done("No rules with actions can be migrated (all were skipped).", map[string]int{
			"skipped_rules":   len(plan.SkippedRules),
			"skipped_actions": len(plan.SkippedActions),
		})
	}

	preview := migrate.NewPreview(previewKey, "Actions")
	for _, link := range plan.Links {
		preview.AddUpdate(migrate.Item{
			ID:   link.Dest.ID,
			Name: link.Source.Name,
			Type: link.Source.Type,
			Info: actionNames(link.Actions),
		})
	}
	for _, s := range plan.SkippedRules {
		preview.AddSkipped(migrate.Item{ID: s.Rule.ID, Name: s.Rule.Name, Type: s.Rule.Type}, s.Reason)
	}
	for _, s := range plan.SkippedActions {
		preview.AddSkipped(migrate.Item{ID: s.Action.ID, Name: s.Rule.Name + " / " + s.Action.Name, Type: s.Action.Type}, s.Reason)
	}
	return plan, preview, nil
}

type associationPatch struct {
	ActionIDs []string `json:"action_ids"`
}

func (m *Migrator) Apply(ctx context.Context, plan Plan) *migrate.Result {
	l := m.env.Logger()
	result := migrate.NewResult()

	for _, link := range plan.Links {
		name := link.Source.Name
		ids := make([]string, len(link.Actions))
		for i, a := range link.Actions {
			ids[i] = a.ID
		}
		if _, err := m.env.Dest.Patch(ctx, rulesPath+"/"+link.Dest.ID, associationPatch{ActionIDs: ids}); err != nil {
			l.Warn("failed to associate actions", zap.String("rule", name), zap.Error(err))
			result.AddFailed(name, link.Source.Type, err.Error())
			continue
		}
		result.AddUpdated(name, link.Source.Type, fmt.Sprintf("%d actions associated", len(ids)))
	}
	return result
}

func actionNames(actions []model.RuleAction) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name
	}
	return strings.Join(names, ", ")
}
