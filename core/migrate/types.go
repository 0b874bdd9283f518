package migrate

import (
	"encoding/json"
	"fmt"
	"strconv"

	"sublime-migrate/core/output"
)

// Preview statuses.
const (
	StatusNew    = "New"
	StatusUpdate = "Update"
	StatusSkip   = "Skip"
)

// Item describes one source record in a preview.
type Item struct {
	// ID is the source record id.
	ID string `json:"id,omitempty"`

	// Name is the record name, the cross-instance identity for most resources.
	Name string `json:"name"`

	// Type is the record type (action type, rule type, list entry type, ...).
	Type string `json:"type,omitempty"`

	// Info carries one resource-specific attribute (severity, entry count, ...).
	Info string `json:"info,omitempty"`

	// Status is one of StatusNew, StatusUpdate or StatusSkip.
	Status string `json:"status,omitempty"`

	// Reason explains a skip.
	Reason string `json:"reason,omitempty"`
}

// Summary provides aggregate counts for a preview.
type Summary struct {
	NewCount     int `json:"new_count"`
	UpdateCount  int `json:"update_count"`
	SkippedCount int `json:"skipped_count"`
	TotalCount   int `json:"total_count"`
}

// Preview is the categorized plan shown before any write happens.
type Preview struct {
	// Resource is the plural noun used for the JSON keys, e.g. "rules"
	// produces new_rules, update_rules and skipped_rules.
	Resource string

	// InfoLabel names the Info column in tables. Empty hides the column.
	InfoLabel string

	New     []Item
	Update  []Item
	Skipped []Item

	// Results is attached once the plan was applied.
	Results *Result
}

// NewPreview creates an empty preview for resource.
func NewPreview(resource, infoLabel string) *Preview {
	return &Preview{Resource: resource, InfoLabel: infoLabel}
}

// AddNew records an item that will be created.
func (p *Preview) AddNew(item Item) {
	item.Status = StatusNew
	p.New = append(p.New, item)
}

// AddUpdate records an item that will be updated.
func (p *Preview) AddUpdate(item Item) {
	item.Status = StatusUpdate
	p.Update = append(p.Update, item)
}

// AddSkipped records an item that will not be written.
func (p *Preview) AddSkipped(item Item, reason string) {
	item.Status = StatusSkip
	item.Reason = reason
	p.Skipped = append(p.Skipped, item)
}

// Pending is the number of items Apply will process.
func (p *Preview) Pending() int {
	return len(p.New) + len(p.Update)
}

// Summary returns the aggregate counts.
func (p *Preview) Summary() Summary {
	return Summary{
		NewCount:     len(p.New),
		UpdateCount:  len(p.Update),
		SkippedCount: len(p.Skipped),
		TotalCount:   len(p.New) + len(p.Update) + len(p.Skipped),
	}
}

func (p *Preview) MarshalJSON() ([]byte, error) {
	key := p.Resource
	if key == "" {
		key = "items"
	}
	out := map[string]any{
		"new_" + key:     nonNil(p.New),
		"update_" + key:  nonNil(p.Update),
		"skipped_" + key: nonNil(p.Skipped),
		"summary":        p.Summary(),
	}
	if p.Results != nil {
		out["results"] = p.Results
	}
	return json.Marshal(out)
}

// Sections lays the preview out as tables.
func (p *Preview) Sections() []output.Section {
	headers := []string{"ID", "Name", "Type"}
	if p.InfoLabel != "" {
		headers = append(headers, p.InfoLabel)
	}
	headers = append(headers, "Status")

	row := func(item Item, status string) []string {
		cells := []string{item.ID, item.Name, item.Type}
		if p.InfoLabel != "" {
			cells = append(cells, item.Info)
		}
		return append(cells, status)
	}

	newSec := output.Section{Title: "New " + p.Resource, Headers: headers}
	for _, item := range p.New {
		newSec.Rows = append(newSec.Rows, row(item, item.Status))
	}
	updSec := output.Section{Title: "Existing " + p.Resource + " to update", Headers: headers}
	for _, item := range p.Update {
		updSec.Rows = append(updSec.Rows, row(item, item.Status))
	}
	skipSec := output.Section{Title: "Skipped " + p.Resource, Headers: []string{"ID", "Name", "Type", "Reason"}}
	for _, item := range p.Skipped {
		skipSec.Rows = append(skipSec.Rows, []string{item.ID, item.Name, item.Type, item.Reason})
	}

	s := p.Summary()
	sumSec := output.Section{
		Title:   "Summary",
		Headers: []string{"New", "Update", "Skipped", "Total"},
		Rows: [][]string{{
			strconv.Itoa(s.NewCount), strconv.Itoa(s.UpdateCount),
			strconv.Itoa(s.SkippedCount), strconv.Itoa(s.TotalCount),
		}},
	}

	sections := []output.Section{newSec, updSec, skipSec, sumSec}
	if p.Results != nil {
		sections = append(sections, p.Results.Sections()...)
	}
	return sections
}

// Detail is the outcome of one apply operation.
type Detail struct {
	Name            string `json:"name"`
	Type            string `json:"type,omitempty"`
	Status          string `json:"status"`
	Reason          string `json:"reason,omitempty"`
	ExclusionsCount int    `json:"exclusions_count,omitempty"`
}

// Result aggregates apply outcomes.
type Result struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Details []Detail `json:"details"`
}

// NewResult creates an empty result.
func NewResult() *Result {
	return &Result{Details: []Detail{}}
}

// AddCreated records a successful create.
func (r *Result) AddCreated(name, typ string) {
	r.Created++
	r.Details = append(r.Details, Detail{Name: name, Type: typ, Status: output.StatusCreated})
}

// AddUpdated records a successful update. reason may be empty.
func (r *Result) AddUpdated(name, typ, reason string) {
	r.Updated++
	r.Details = append(r.Details, Detail{Name: name, Type: typ, Status: output.StatusUpdated, Reason: reason})
}

// AddSkipped records an item that needed no write.
func (r *Result) AddSkipped(name, typ, reason string) {
	r.Skipped++
	r.Details = append(r.Details, Detail{Name: name, Type: typ, Status: output.StatusSkipped, Reason: reason})
}

// AddFailed records a failed write.
func (r *Result) AddFailed(name, typ, reason string) {
	r.Failed++
	r.Details = append(r.Details, Detail{Name: name, Type: typ, Status: output.StatusFailed, Reason: reason})
}

// AddDetail appends d without touching the counters.
func (r *Result) AddDetail(d Detail) {
	r.Details = append(r.Details, d)
}

// Message is the completion line of an applied migration.
func (r *Result) Message() string {
	return fmt.Sprintf("Migration completed: %d created, %d updated, %d skipped, %d failed",
		r.Created, r.Updated, r.Skipped, r.Failed)
}

// Sections lays the apply outcomes out as a table.
func (r *Result) Sections() []output.Section {
	sec := output.Section{Title: "Results", Headers: []string{"Name", "Type", "Status", "Reason"}}
	for _, d := range r.Details {
		reason := d.Reason
		if d.ExclusionsCount > 0 && reason == "" {
			reason = fmt.Sprintf("%d exclusions added", d.ExclusionsCount)
		}
		sec.Rows = append(sec.Rows, []string{d.Name, d.Type, d.Status, reason})
	}
	return []output.Section{sec}
}

func nonNil(items []Item) []Item {
	if items == nil {
		return []Item{}
	}
	return items
}
