package reconcile

import (
	"fmt"
	"time"
)

// Config holds the engine settings.
type Config struct {
	// StartPath is the folder below /content/dam where the comparison starts, e.g. /myfolder.
	StartPath string `mapstructure:"start_path" default:""`
	// DelayMillis is the pause before each dispatched replication command.
	DelayMillis int `mapstructure:"delay_ms" default:"5000"`
	// DryRun computes and logs actions without sending replication commands.
	DryRun bool `mapstructure:"dry_run" default:"true"`
	// Workers bounds concurrent HTTP calls during traversal and probing.
	Workers int `mapstructure:"workers" default:"1"`
	// StrictStatus skips records whose activation status could not be retrieved.
	StrictStatus bool `mapstructure:"strict_status" default:"false"`
}

// Delay returns the inter-action delay.
func (c Config) Delay() time.Duration {
	if c.DelayMillis < 0 {
		return 0
	}
	return time.Duration(c.DelayMillis) * time.Millisecond
}

// Class is the classification tag of an entity.
type Class string

const (
	// ClassAsset tags binary assets.
	ClassAsset Class = "assets/asset"
	// ClassFolder tags folders, which are traversed recursively.
	ClassFolder Class = "assets/folder"
)

// Entity is a normalized listing entry.
type Entity struct {
	Class Class  `json:"class"`
	Href  string `json:"href"`
	Path  string `json:"path"`
}

// IsFolder reports whether the entity is a folder.
func (e Entity) IsFolder() bool {
	return e.Class == ClassFolder
}

// Activation is the replication state recorded on author.
type Activation int

const (
	// Inactive means the last replication action was not an activation, or there is none.
	Inactive Activation = iota
	// Active means the last replication action was Activate.
	Active
	// Unknown means the status could not be retrieved.
	Unknown
)

func (a Activation) String() string {
	switch a {
	case Active:
		return "active"
	case Unknown:
		return "unknown"
	default:
		return "inactive"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Activation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Activation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "active":
		*a = Active
	case "unknown":
		*a = Unknown
	case "inactive", "":
		*a = Inactive
	default:
		return fmt.Errorf("reconcile: unknown activation %q", text)
	}
	return nil
}

// Record is the combined view of one logical path.
type Record struct {
	Path       string     `json:"path" yaml:"path"`
	Class      Class      `json:"class" yaml:"class"`
	OnAuthor   bool       `json:"on_author" yaml:"on_author"`
	OnPublish  bool       `json:"on_publish" yaml:"on_publish"`
	Activation Activation `json:"activation" yaml:"activation"`
}

// Activated reports whether author marks the path as live.
func (r *Record) Activated() bool {
	return r.Activation == Active
}

// ActionType is the corrective action decided for a record.
type ActionType string

const (
	// ActionNone leaves the record untouched.
	ActionNone ActionType = "none"
	// ActionActivate replicates the path to publish.
	ActionActivate ActionType = "activate"
	// ActionDeactivate removes the path from publish.
	ActionDeactivate ActionType = "deactivate"
)

// Action is a planned replication command.
type Action struct {
	Type   ActionType `json:"type" yaml:"type"`
	Path   string     `json:"path" yaml:"path"`
	Reason string     `json:"reason" yaml:"reason"`
}

// Plan contains the merged records and the actions derived from them.
type Plan struct {
	Records []Record    `json:"records" yaml:"records"`
	Actions []Action    `json:"actions" yaml:"actions"`
	Skipped []Record    `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Summary PlanSummary `json:"summary" yaml:"summary"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	TotalItems        int `json:"total_items" yaml:"total_items"`
	OnAuthor          int `json:"on_author" yaml:"on_author"`
	OnPublish         int `json:"on_publish" yaml:"on_publish"`
	Activated         int `json:"activated" yaml:"activated"`
	UnknownStatus     int `json:"unknown_status" yaml:"unknown_status"`
	ActivateActions   int `json:"activate_actions" yaml:"activate_actions"`
	DeactivateActions int `json:"deactivate_actions" yaml:"deactivate_actions"`
	Skipped           int `json:"skipped" yaml:"skipped"`
}

// Report describes one complete run. It is what gets printed, archived and stored.
type Report struct {
	RunID      string    `json:"run_id" yaml:"run_id"`
	StartPath  string    `json:"start_path" yaml:"start_path"`
	DryRun     bool      `json:"dry_run" yaml:"dry_run"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	Plan       *Plan     `json:"plan,omitempty" yaml:"plan,omitempty"`
	Executed   int       `json:"executed" yaml:"executed"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
}
