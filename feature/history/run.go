package history

import (
	"strings"
	"time"

	"sublime-migrate/core/migrate"
	"sublime-migrate/core/output"
	"sublime-migrate/core/utils"
	"sublime-migrate/feature/orchestrator"
)

// Meta describes the command being recorded.
type Meta struct {
	RunID        string
	Command      string
	DryRun       bool
	SourceRegion string
	DestRegion   string
	StartedAt    time.Time
}

// NewRun builds the record of a finished command from its result.
func NewRun(meta Meta, res *output.CommandResult, finished time.Time) Run {
	run := Run{
		RunID:        meta.RunID,
		Command:      meta.Command,
		DryRun:       meta.DryRun,
		Success:      res.Success,
		Message:      utils.Truncate(res.Message, 500),
		SourceRegion: meta.SourceRegion,
		DestRegion:   meta.DestRegion,
		StartedAt:    meta.StartedAt,
		FinishedAt:   finished,
	}

	switch data := res.Data.(type) {
	case *migrate.Preview:
		run.Items = previewItems(data)
		if r := data.Results; r != nil {
			run.Created, run.Updated, run.Skipped, run.Failed = r.Created, r.Updated, r.Skipped, r.Failed
		}
	case *orchestrator.Report:
		for _, s := range data.Steps {
			run.Items = append(run.Items, RunItem{Resource: "steps", Name: s.Name, Status: s.Status, Reason: s.Message})
			switch s.Status {
			case output.StatusSuccess:
				run.Updated++
			case output.StatusError:
				run.Failed++
			case output.StatusSkipped, output.StatusNotRun:
				run.Skipped++
			}
		}
	}

	for i := range run.Items {
		run.Items[i].RunID = run.RunID
		run.Items[i].Reason = utils.Truncate(run.Items[i].Reason, 500)
	}
	return run
}

// previewItems lists the applied outcomes, or the planned ones for a preview
// that was never applied.
func previewItems(p *migrate.Preview) []RunItem {
	var items []RunItem
	if p.Results != nil {
		for _, d := range p.Results.Details {
			items = append(items, RunItem{Resource: p.Resource, Name: d.Name, Type: d.Type, Status: d.Status, Reason: d.Reason})
		}
		return items
	}
	for _, group := range [][]migrate.Item{p.New, p.Update, p.Skipped} {
		for _, it := range group {
			items = append(items, RunItem{
				Resource: p.Resource,
				Name:     it.Name,
				Type:     it.Type,
				Status:   strings.ToLower(it.Status),
				Reason:   it.Reason,
			})
		}
	}
	return items
}
