package history

import "time"

// Run is one recorded command execution.
type Run struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	RunID        string    `gorm:"size:36;uniqueIndex" json:"run_id"`
	Command      string    `gorm:"size:64" json:"command"`
	DryRun       bool      `json:"dry_run"`
	Success      bool      `json:"success"`
	Message      string    `gorm:"size:512" json:"message"`
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	Skipped      int       `json:"skipped"`
	Failed       int       `json:"failed"`
	SourceRegion string    `gorm:"size:32" json:"source_region,omitempty"`
	DestRegion   string    `gorm:"size:32" json:"dest_region,omitempty"`
	StartedAt    time.Time `gorm:"index" json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`

	// Items are stored in their own table by Record.
	Items []RunItem `gorm:"-" json:"items,omitempty"`
}

func (Run) TableName() string { return "migration_runs" }

// RunItem is the outcome for one record of a run.
type RunItem struct {
	ID       uint   `gorm:"primaryKey" json:"-"`
	RunID    string `gorm:"size:36;index" json:"-"`
	Resource string `gorm:"size:64" json:"resource"`
	Name     string `gorm:"size:255" json:"name"`
	Type     string `gorm:"size:64" json:"type,omitempty"`
	Status   string `gorm:"size:32" json:"status"`
	Reason   string `gorm:"size:512" json:"reason,omitempty"`
}

func (RunItem) TableName() string { return "migration_run_items" }
