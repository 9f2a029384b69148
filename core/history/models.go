package history

import "time"

// Run is one resynch invocation.
type Run struct {
	ID                string      `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	StartPath         string      `gorm:"column:start_path;type:varchar(1024)" json:"start_path"`
	DryRun            bool        `gorm:"column:dry_run" json:"dry_run"`
	StartedAt         time.Time   `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt        time.Time   `gorm:"column:finished_at" json:"finished_at"`
	TotalItems        int         `gorm:"column:total_items" json:"total_items"`
	OnAuthor          int         `gorm:"column:on_author" json:"on_author"`
	OnPublish         int         `gorm:"column:on_publish" json:"on_publish"`
	Activated         int         `gorm:"column:activated" json:"activated"`
	UnknownStatus     int         `gorm:"column:unknown_status" json:"unknown_status"`
	ActivateActions   int         `gorm:"column:activate_actions" json:"activate_actions"`
	DeactivateActions int         `gorm:"column:deactivate_actions" json:"deactivate_actions"`
	Skipped           int         `gorm:"column:skipped" json:"skipped"`
	Executed          int         `gorm:"column:executed" json:"executed"`
	Error             string      `gorm:"column:error;type:text" json:"error,omitempty"`
	Actions           []RunAction `gorm:"foreignKey:RunID" json:"actions,omitempty"`
}

func (Run) TableName() string {
	return "runs"
}

// RunAction is one planned replication command of a run.
type RunAction struct {
	ID       uint   `gorm:"primaryKey;column:id" json:"-"`
	RunID    string `gorm:"column:run_id;type:varchar(36);index" json:"run_id"`
	Seq      int    `gorm:"column:seq" json:"seq"`
	Type     string `gorm:"column:type;type:varchar(16)" json:"type"`
	Path     string `gorm:"column:path;type:varchar(1024)" json:"path"`
	Reason   string `gorm:"column:reason;type:varchar(32)" json:"reason"`
	Executed bool   `gorm:"column:executed" json:"executed"`
}

func (RunAction) TableName() string {
	return "run_actions"
}

// Models lists every table owned by this package.
func Models() []any {
	return []any{Run{}, RunAction{}}
}
