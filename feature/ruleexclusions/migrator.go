package ruleexclusions

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
	"sublime-migrate/core/output"
	"sublime-migrate/feature/rules"

	"go.uber.org/zap"
)

const (
	resource   = "rule exclusions"
	previewKey = "rule_exclusions"
	rulesPath  = "/v1/rules"

	// ReasonRuleNotFound is given for a source rule without exact destination match.
	ReasonRuleNotFound = "No matching rule found in destination (name and source_md5 must match)"
	// ReasonUnparsable is given for an exclusion of unsupported shape.
	ReasonUnparsable = "Could not parse exclusion format"
)

// Options selects the source rules.
type Options struct {
	IncludeRuleIDs string
	ExcludeRuleIDs string
}

// Target is a destination rule and the exclusions to add to it.
type Target struct {
	Source     model.Rule
	Dest       model.Rule
	Exclusions []Exclusion
}

// RuleSkip is a source rule without destination counterpart.
type RuleSkip struct {
	Rule   model.Rule
	Reason string
}

// ExclusionSkip is an exclusion that will not be migrated.
type ExclusionSkip struct {
	Rule      model.Rule
	Exclusion string
	Reason    string
}

// Plan is the resolved set of rule exclusions.
type Plan struct {
	Targets           []Target
	SkippedRules      []RuleSkip
	SkippedExclusions []ExclusionSkip
}

// Migrator migrates rule exclusions.
type Migrator struct {
	env  migrate.Env
	opts Options
}

// NewMigrator creates a rule exclusions migrator.
func NewMigrator(env migrate.Env, opts Options) *Migrator {
	return &Migrator{env: env, opts: opts}
}

func (m *Migrator) Resource() string { return resource }

// Params selects live rules, feed rules included.
func Params() url.Values {
	return url.Values{"include_deleted": {"false"}}
}

// WithDetails replaces every rule by its detail record, which carries the
// exclusions. Rules whose detail cannot be read are dropped with a warning.
func WithDetails(ctx context.Context, env migrate.Env, c api.Client, rs []model.Rule) []model.Rule {
	details, errs := fetch.Details(ctx, rs, env.Workers, func(ctx context.Context, r model.Rule) (model.Rule, error) {
		return fetch.One[model.Rule](ctx, c, rulesPath+"/"+r.ID)
	})

	l := env.Logger()
	out := make([]model.Rule, 0, len(rs))
	for i, r := range rs {
		if errs[i] != nil {
			l.Warn("failed to fetch rule details", zap.String("name", r.Name), zap.Error(errs[i]))
			continue
		}
		out = append(out, details[i])
	}
	return out
}

// Match resolves source rules against the destination and parses their
// exclusions. Rules left without a parsed exclusion are dropped.
func Match(source, dest []model.Rule) Plan {
	byKey := migrate.IndexBy(dest, model.Rule.Key)

	var plan Plan
	for _, r := range source {
		target, ok := byKey[r.Key()]
		if !ok {
			plan.SkippedRules = append(plan.SkippedRules, RuleSkip{Rule: r, Reason: ReasonRuleNotFound})
			continue
		}

		var parsed []Exclusion
		for _, raw := range r.Exclusions {
			e, ok := Parse(raw)
			if !ok {
				plan.SkippedExclusions = append(plan.SkippedExclusions, ExclusionSkip{Rule: r, Exclusion: raw, Reason: ReasonUnparsable})
				continue
			}
			parsed = append(parsed, e)
		}
		if len(parsed) > 0 {
			plan.Targets = append(plan.Targets, Target{Source: r, Dest: target, Exclusions: parsed})
		}
	}
	return plan
}

func (m *Migrator) Plan(ctx context.Context) (Plan, *migrate.Preview, error) {
	source, err := rules.FetchAll(ctx, m.env, m.env.Source, "source", Params())
	if err != nil {
		return Plan{}, nil, err
	}

	selected := filter.ByIDs(source, m.opts.IncludeRuleIDs, m.opts.ExcludeRuleIDs, func(r model.Rule) string { return r.ID })
	selected = filter.Where(WithDetails(ctx, m.env, m.env.Source, selected), func(r model.Rule) bool {
		return len(r.Exclusions) > 0
	})
	if len(selected) == 0 {
		return Plan{}, nil, migrate.Abort("No rules with exclusions found after applying filters.", nil)
	}

	dest, err := rules.FetchAll(ctx, m.env, m.env.Dest, "destination", Params())
	if err != nil {
		return Plan{}, nil, err
	}

	plan := Match(selected, dest)
	if len(plan.Targets) == 0 {
		return Plan{}, nil, migrate.Abort("No rule exclusions can be migrated (all were skipped).", map[string]int{
			"skipped_rules":      len(plan.SkippedRules),
			"skipped_exclusions": len(plan.SkippedExclusions),
		})
	}

	preview := migrate.NewPreview(previewKey, "Exclusions")
	for _, t := range plan.Targets {
		preview.AddUpdate(migrate.Item{ID: t.Dest.ID, Name: t.Source.Name, Type: t.Source.Type, Info: joinExclusions(t.Exclusions)})
	}
	for _, s := range plan.SkippedRules {
		preview.AddSkipped(migrate.Item{ID: s.Rule.ID, Name: s.Rule.Name, Type: s.Rule.Type}, s.Reason)
	}
	for _, s := range plan.SkippedExclusions {
		preview.AddSkipped(migrate.Item{ID: s.Rule.ID, Name: s.Rule.Name, Type: "exclusion", Info: s.Exclusion}, s.Reason)
	}
	return plan, preview, nil
}

func (m *Migrator) Apply(ctx context.Context, plan Plan) *migrate.Result {
	l := m.env.Logger()
	result := migrate.NewResult()

	for _, t := range plan.Targets {
		name := t.Source.Name
		target := rulesPath + "/" + t.Dest.ID + "/add-exclusion"

		added := 0
		for _, e := range t.Exclusions {
			if _, err := m.env.Dest.Post(ctx, target, e.Body()); err != nil {
				l.Warn("failed to add exclusion", zap.String("rule", name), zap.Stringer("exclusion", e), zap.Error(err))
				result.AddDetail(migrate.Detail{
					Name:   name,
					Type:   "exclusion",
					Status: output.StatusFailed,
					Reason: fmt.Sprintf("Failed to add exclusion %s: %s", e, err),
				})
				continue
			}
			added++
		}

		if added == 0 {
			result.AddFailed(name, "rule", "All exclusions failed to apply")
			continue
		}
		result.Updated++
		result.AddDetail(migrate.Detail{Name: name, Type: "rule", Status: output.StatusUpdated, ExclusionsCount: added})
	}
	return result
}

func joinExclusions(es []Exclusion) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
