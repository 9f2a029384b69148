package history

import (
	"context"
	"errors"
	"fmt"

	"asset-resynch/core/database"
	"asset-resynch/core/reconcile"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Store reads and writes run history.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store on top of an open connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the history tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}, &RunAction{}); err != nil {
		return fmt.Errorf("failed to migrate history tables: %w", err)
	}
	return nil
}

// Missing returns the model columns absent from the database, keyed by table.
// Tables that do not exist report all of their columns.
func (s *Store) Missing() (map[string][]string, error) {
	missing := make(map[string][]string)
	for _, model := range Models() {
		stmt := &gorm.Statement{DB: s.db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("failed to parse history model: %w", err)
		}
		cols, err := database.MissingColumns(s.db, stmt.Schema.Table, stmt.Schema.DBNames)
		if err != nil {
			return nil, err
		}
		if len(cols) > 0 {
			missing[stmt.Schema.Table] = cols
		}
	}
	return missing, nil
}

// FromReport converts a run report into its database rows. Actions are marked executed
// only for live runs, up to the number of actions that were dispatched.
func FromReport(report *reconcile.Report) Run {
	run := Run{
		ID:         report.RunID,
		StartPath:  report.StartPath,
		DryRun:     report.DryRun,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Executed:   report.Executed,
		Error:      report.Error,
	}
	if report.Plan == nil {
		return run
	}

	s := report.Plan.Summary
	run.TotalItems = s.TotalItems
	run.OnAuthor = s.OnAuthor
	run.OnPublish = s.OnPublish
	run.Activated = s.Activated
	run.UnknownStatus = s.UnknownStatus
	run.ActivateActions = s.ActivateActions
	run.DeactivateActions = s.DeactivateActions
	run.Skipped = s.Skipped

	for i, a := range report.Plan.Actions {
		run.Actions = append(run.Actions, RunAction{
			RunID:    report.RunID,
			Seq:      i,
			Type:     string(a.Type),
			Path:     a.Path,
			Reason:   a.Reason,
			Executed: !report.DryRun && i < report.Executed,
		})
	}
	return run
}

// Record stores a run report with all of its actions.
func (s *Store) Record(ctx context.Context, report *reconcile.Report) error {
	if report == nil || report.RunID == "" {
		return errors.New("report with run id is required")
	}
	run := FromReport(report)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&run).Error
	})
	if err != nil {
		return fmt.Errorf("failed to record run %s: %w", report.RunID, err)
	}
	return nil
}

// Recent returns the latest runs without their actions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []Run
	if err := s.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its actions in dispatch order.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB { return db.Order("seq asc") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return &run, nil
}
