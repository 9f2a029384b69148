package reconcile

import (
	"context"
	"errors"

	"asset-resynch/core/aem"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ResolveStatus resolves the activation status of one path. It never fails: a path that
// answers with an error response is Inactive, and a path whose status cannot be
// read at all is Unknown.
func ResolveStatus(ctx context.Context, source StatusSource, path string) Activation {
	action, err := source.ReplicationStatus(ctx, path)
	if err != nil {
		var rerr *aem.ResponseError
		if errors.As(err, &rerr) {
			return Inactive
		}
		return Unknown
	}
	if action == aem.CmdActivate {
		return Active
	}
	return Inactive
}

// Enrich sets the activation of every record present on author. Records only on
// publish keep Inactive. It only returns an error when ctx is cancelled.
func Enrich(ctx context.Context, records map[string]*Record, source StatusSource, opts Options) error {
	opts = opts.withDefaults()

	var targets []*Record
	for _, p := range SortedPaths(records) {
		if records[p].OnAuthor {
			targets = append(targets, records[p])
		}
	}

	opts.Observer.Start(PhaseStatus, len(targets))
	defer opts.Observer.Done(PhaseStatus)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, rec := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec.Activation = ResolveStatus(gctx, source, rec.Path)
			if rec.Activation == Unknown {
				opts.Logger.Warn("Replication status unavailable", zap.String("path", rec.Path))
			} else {
				opts.Logger.Debug("Replication status", zap.String("path", rec.Path), zap.Stringer("activation", rec.Activation))
			}
			opts.Observer.Step(PhaseStatus)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
