package history

import (
	"strconv"
	"time"

	"sublime-migrate/core/output"
)

// Runs is a listing of recorded runs.
type Runs []Run

func (rs Runs) Sections() []output.Section {
	sec := output.Section{
		Title:   "Recent runs",
		Headers: []string{"Run ID", "Command", "Started", "Status", "Created", "Updated", "Skipped", "Failed"},
	}
	for _, r := range rs {
		sec.Rows = append(sec.Rows, []string{
			r.RunID,
			r.Command + dryRunSuffix(r.DryRun),
			r.StartedAt.Format(time.DateTime),
			status(r.Success),
			strconv.Itoa(r.Created),
			strconv.Itoa(r.Updated),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Failed),
		})
	}
	return []output.Section{sec}
}

func (r *Run) Sections() []output.Section {
	summary := output.Section{
		Title:   "Run " + r.RunID,
		Headers: []string{"Command", "Regions", "Started", "Finished", "Status", "Message"},
		Rows: [][]string{{
			r.Command + dryRunSuffix(r.DryRun),
			r.SourceRegion + " -> " + r.DestRegion,
			r.StartedAt.Format(time.DateTime),
			r.FinishedAt.Format(time.DateTime),
			status(r.Success),
			r.Message,
		}},
	}
	items := output.Section{Title: "Items", Headers: []string{"Resource", "Name", "Type", "Status", "Reason"}}
	for _, it := range r.Items {
		items.Rows = append(items.Rows, []string{it.Resource, it.Name, it.Type, it.Status, it.Reason})
	}
	return []output.Section{summary, items}
}

func status(success bool) string {
	if success {
		return output.StatusSuccess
	}
	return output.StatusError
}

func dryRunSuffix(dry bool) string {
	if dry {
		return " (dry run)"
	}
	return ""
}
