package reconcile

import (
	"context"
	"fmt"
	"time"

	"asset-resynch/core/aem"

	"go.uber.org/zap"
)

// Dispatcher issues replication commands one at a time with a fixed delay before each.
type Dispatcher struct {
	replicator Replicator
	delay      time.Duration
	dryRun     bool
	logger     *zap.Logger
	wait       func(ctx context.Context, d time.Duration) error
}

// NewDispatcher creates a dispatcher. A nil logger discards output.
func NewDispatcher(replicator Replicator, delay time.Duration, dryRun bool, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		replicator: replicator,
		delay:      delay,
		dryRun:     dryRun,
		logger:     logger,
		wait:       waitContext,
	}
}

// Dispatch executes one action. ActionNone returns immediately without delay.
// Otherwise the action is logged, the delay elapses, and unless in dry-run mode the
// replication command is sent. A failed command is a transport error.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action) error {
	var cmd string
	switch action.Type {
	case ActionNone, "":
		return nil
	case ActionActivate:
		cmd = aem.CmdActivate
	case ActionDeactivate:
		cmd = aem.CmdDeactivate
	default:
		return fmt.Errorf("reconcile: unknown action type %q", action.Type)
	}

	d.logger.Info("Replication action",
		zap.Bool("dry_run", d.dryRun),
		zap.String("action", string(action.Type)),
		zap.String("reason", action.Reason),
		zap.String("path", action.Path))

	if err := d.wait(ctx, d.delay); err != nil {
		return err
	}
	if d.dryRun {
		return nil
	}

	if err := d.replicator.Replicate(ctx, cmd, aem.ContentPath(action.Path)); err != nil {
		return transportError("dispatch", action.Path, err)
	}
	return nil
}

func waitContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
