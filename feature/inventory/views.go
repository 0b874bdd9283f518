package inventory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"sublime-migrate/core/model"
	"sublime-migrate/core/output"
	"sublime-migrate/core/utils"
)

const na = "N/A"

// ActionTable lists actions.
type ActionTable []model.Action

func (t ActionTable) Sections() []output.Section {
	sec := output.Section{Title: "Actions", Headers: []string{"ID", "Name", "Type", "Active", "Created By"}}
	for _, a := range t {
		sec.Rows = append(sec.Rows, []string{a.ID, a.Name, a.Type, utils.Mark(a.Active), a.CreatedBy()})
	}
	return []output.Section{sec}
}

// RuleTable lists rules. JSON output is the bare rule array.
type RuleTable struct {
	Rules          []model.Rule
	WithExclusions bool
}

func (t RuleTable) MarshalJSON() ([]byte, error) {
	if t.Rules == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.Rules)
}

func (t RuleTable) Sections() []output.Section {
	sec := output.Section{Title: "Rules", Headers: []string{"ID", "Name", "Type", "Severity", "Active", "Actions"}}
	if t.WithExclusions {
		sec.Title = "Rules (with exclusion information)"
		sec.Headers = append(sec.Headers, "Exclusions")
	}
	for _, r := range t.Rules {
		row := []string{r.ID, r.Name, r.Type, orNA(r.SeverityOrEmpty()), utils.Mark(r.Active), strconv.Itoa(activeActions(r))}
		if t.WithExclusions {
			row = append(row, strconv.Itoa(len(r.Exclusions)))
		}
		sec.Rows = append(sec.Rows, row)
	}
	return []output.Section{sec}
}

// ListTable lists string and user group lists.
type ListTable []model.List

func (t ListTable) Sections() []output.Section {
	sec := output.Section{Title: "Lists", Headers: []string{"ID", "Name", "Type", "Entries", "Provider Group", "Created By"}}
	for _, l := range t {
		sec.Rows = append(sec.Rows, []string{l.ID, l.Name, l.EntryType, strconv.Itoa(entryCount(l)), l.ProviderGroupName, l.CreatedBy()})
	}
	return []output.Section{sec}
}

// ExclusionTable lists global exclusions.
type ExclusionTable []model.Exclusion

func (t ExclusionTable) Sections() []output.Section {
	sec := output.Section{Title: "Exclusions", Headers: []string{"ID", "Name", "Scope", "Active", "Created By"}}
	for _, e := range t {
		sec.Rows = append(sec.Rows, []string{e.ID, e.Name, e.Scope, utils.Mark(e.Active), e.CreatedBy()})
	}
	return []output.Section{sec}
}

// FeedTable lists feeds.
type FeedTable []model.Feed

func (t FeedTable) Sections() []output.Section {
	sec := output.Section{Title: "Feeds", Headers: []string{"ID", "Name", "Git URL", "Branch", "System", "Auto Update"}}
	for _, f := range t {
		sec.Rows = append(sec.Rows, []string{f.ID, f.Name, f.GitURL, f.GitBranch, utils.Mark(f.IsSystem), utils.Mark(f.AutoUpdateRules)})
	}
	return []output.Section{sec}
}

// RuleDetail shows one rule with its actions, exclusions and source.
type RuleDetail struct {
	model.Rule
}

func (d RuleDetail) MarshalJSON() ([]byte, error) { return json.Marshal(d.Rule) }

func (d RuleDetail) Sections() []output.Section {
	r := d.Rule
	secs := []output.Section{properties("Basic Information", [][2]string{
		{"ID", r.ID},
		{"Name", r.Name},
		{"Type", r.Type},
		{"Severity", orNA(r.SeverityOrEmpty())},
		{"Active", utils.Mark(r.Active)},
		{"Description", orNA(r.Description)},
		{"Created By", r.CreatedBy()},
	})}

	actions := output.Section{Title: "Associated Actions", Headers: []string{"ID", "Name", "Active"}}
	for _, a := range r.Actions {
		actions.Rows = append(actions.Rows, []string{a.ID, a.Name, utils.Mark(a.Active)})
	}
	excl := output.Section{Title: "Rule Exclusions", Headers: []string{"Exclusion"}}
	for _, e := range r.Exclusions {
		excl.Rows = append(excl.Rows, []string{e})
	}
	source := output.Section{Title: "Source Query", Headers: []string{"Source"}, Rows: [][]string{{r.Source}}}

	secs = append(secs, actions, excl, source)

	var meta [][2]string
	if len(r.References) > 0 {
		meta = append(meta, [2]string{"References", strings.Join(r.References, "\n")})
	}
	if len(r.Tags) > 0 {
		meta = append(meta, [2]string{"Tags", strings.Join(r.Tags, ", ")})
	}
	if len(r.AttackTypes) > 0 {
		meta = append(meta, [2]string{"Attack Types", strings.Join(r.AttackTypes, ", ")})
	}
	if len(meta) > 0 {
		secs = append(secs, properties("Additional Metadata", meta))
	}
	return secs
}

// ListDetail shows one list with its entries.
type ListDetail struct {
	model.List
}

func (d ListDetail) MarshalJSON() ([]byte, error) { return json.Marshal(d.List) }

func (d ListDetail) Sections() []output.Section {
	l := d.List
	props := [][2]string{
		{"ID", l.ID},
		{"Name", l.Name},
		{"Type", l.EntryType},
		{"Description", orNA(l.Description)},
		{"Entries", strconv.Itoa(entryCount(l))},
		{"Created By", l.CreatedBy()},
	}
	if l.EntryType == model.ListTypeUserGroup {
		props = append(props, [2]string{"Provider Group", orNA(l.ProviderGroupName)})
	}

	entries := output.Section{Title: "Entries", Headers: []string{"Entry"}}
	for _, e := range l.Entries {
		entries.Rows = append(entries.Rows, []string{e})
	}
	return []output.Section{properties("List "+l.Name, props), entries}
}

// ActionDetail shows one action with its configuration.
type ActionDetail struct {
	model.Action
}

func (d ActionDetail) MarshalJSON() ([]byte, error) { return json.Marshal(d.Action) }

func (d ActionDetail) Sections() []output.Section {
	a := d.Action
	info := properties("Action "+a.Name, [][2]string{
		{"ID", a.ID},
		{"Type", a.Type},
		{"Active", utils.Mark(a.Active)},
		{"Created By", a.CreatedBy()},
	})
	keys := make([]string, 0, len(a.Config))
	for k := range a.Config {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	cfg := output.Section{Title: "Configuration", Headers: []string{"Key", "Value"}}
	for _, k := range keys {
		cfg.Rows = append(cfg.Rows, []string{k, utils.ToString(a.Config[k])})
	}
	return []output.Section{info, cfg}
}

// ExclusionDetail shows one exclusion with its source.
type ExclusionDetail struct {
	model.Exclusion
}

func (d ExclusionDetail) MarshalJSON() ([]byte, error) { return json.Marshal(d.Exclusion) }

func (d ExclusionDetail) Sections() []output.Section {
	e := d.Exclusion
	return []output.Section{
		properties("Exclusion "+e.Name, [][2]string{
			{"ID", e.ID},
			{"Scope", e.Scope},
			{"Active", utils.Mark(e.Active)},
			{"Description", orNA(e.Description)},
			{"Tags", strings.Join(e.Tags, ", ")},
			{"Created By", e.CreatedBy()},
		}),
		{Title: "Source", Headers: []string{"Source"}, Rows: [][]string{{e.Source}}},
	}
}

// FeedDetail shows one feed.
type FeedDetail struct {
	model.Feed
}

func (d FeedDetail) MarshalJSON() ([]byte, error) { return json.Marshal(d.Feed) }

func (d FeedDetail) Sections() []output.Section {
	f := d.Feed
	return []output.Section{properties("Feed "+f.Name, [][2]string{
		{"ID", f.ID},
		{"Git URL", f.GitURL},
		{"Branch", f.GitBranch},
		{"Detection Filter", f.DetectionRuleFileFilter},
		{"Triage Filter", f.TriageRuleFileFilter},
		{"YARA Filter", f.YaraFileFilter},
		{"Auto Update", utils.Mark(f.AutoUpdateRules)},
		{"Auto Activate", utils.Mark(f.AutoActivateNewRules)},
		{"System", utils.Mark(f.IsSystem)},
	})}
}

// Detail wraps a single record for display.
func Detail(rec any) any {
	switch v := rec.(type) {
	case model.Rule:
		return RuleDetail{v}
	case model.List:
		return ListDetail{v}
	case model.Action:
		return ActionDetail{v}
	case model.Exclusion:
		return ExclusionDetail{v}
	case model.Feed:
		return FeedDetail{v}
	default:
		return rec
	}
}

// Name returns the display name of a record.
func Name(rec any) string {
	switch v := rec.(type) {
	case model.Rule:
		return v.Name
	case model.List:
		return v.Name
	case model.Action:
		return v.Name
	case model.Exclusion:
		return v.Name
	case model.Feed:
		return v.Name
	default:
		return fmt.Sprintf("%v", rec)
	}
}

func properties(title string, rows [][2]string) output.Section {
	sec := output.Section{Title: title, Headers: []string{"Property", "Value"}}
	for _, r := range rows {
		sec.Rows = append(sec.Rows, []string{r[0], r[1]})
	}
	return sec
}

func activeActions(r model.Rule) int {
	n := 0
	for _, a := range r.Actions {
		if a.Active {
			n++
		}
	}
	return n
}

func entryCount(l model.List) int {
	if len(l.Entries) > 0 {
		return len(l.Entries)
	}
	return l.EntryCount
}

func orNA(s string) string {
	if s == "" {
		return na
	}
	return s
}
