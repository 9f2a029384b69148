package reconcile

import (
	"context"
	"errors"
	"strings"

	"asset-resynch/core/aem"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine plans and applies replication resynchs for one start path.
type Engine struct {
	client   Client
	cfg      Config
	logger   *zap.Logger
	observer Observer
}

// NewEngine validates cfg and creates an engine. Logger and observer may be nil.
func NewEngine(client Client, cfg Config, logger *zap.Logger, observer Observer) (*Engine, error) {
	if client == nil {
		return nil, errors.New("reconcile: client is required")
	}
	if strings.TrimSpace(cfg.StartPath) == "" {
		return nil, errors.New("reconcile: start path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Engine{client: client, cfg: cfg, logger: logger, observer: observer}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) options() Options {
	return Options{Workers: e.cfg.Workers, Logger: e.logger, Observer: e.observer}
}

// Plan traverses both instances, merges the inventories, looks up activation status
// on author and decides an action for every record. It never mutates anything.
func (e *Engine) Plan(ctx context.Context) (*Plan, error) {
	opts := e.options()
	authorRoot := e.client.AuthorRoot(e.cfg.StartPath)
	publishRoot := e.client.PublishRoot(e.cfg.StartPath)

	e.logger.Info("Building inventories",
		zap.String("author", authorRoot),
		zap.String("publish", publishRoot),
		zap.Int("workers", opts.Workers))

	var author, publish []Entity
	if e.cfg.Workers > 1 {
		opts.slots = make(chan struct{}, e.cfg.Workers)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			author, err = Traverse(gctx, e.client, authorRoot, PhaseAuthor, opts)
			return err
		})
		g.Go(func() error {
			var err error
			publish, err = Traverse(gctx, e.client, publishRoot, PhasePublish, opts)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if author, err = Traverse(ctx, e.client, authorRoot, PhaseAuthor, opts); err != nil {
			return nil, err
		}
		if publish, err = Traverse(ctx, e.client, publishRoot, PhasePublish, opts); err != nil {
			return nil, err
		}
	}

	records := Merge(author, publish)
	e.logger.Info("Inventories merged",
		zap.Int("author", len(author)),
		zap.Int("publish", len(publish)),
		zap.Int("records", len(records)))

	if err := Enrich(ctx, records, e.client, opts); err != nil {
		return nil, err
	}

	plan := BuildPlan(records, e.cfg.StrictStatus)
	e.logger.Info("Plan ready",
		zap.Int("activate", plan.Summary.ActivateActions),
		zap.Int("deactivate", plan.Summary.DeactivateActions),
		zap.Int("skipped", plan.Summary.Skipped))
	return plan, nil
}

// Apply dispatches the plan actions in order and returns how many were dispatched.
// In dry-run mode actions are counted but no replication command is sent. The first
// failed command aborts the run.
func (e *Engine) Apply(ctx context.Context, plan *Plan) (int, error) {
	if plan == nil {
		return 0, errors.New("reconcile: plan is required")
	}
	d := NewDispatcher(e.client, e.cfg.Delay(), e.cfg.DryRun, e.logger)
	return e.apply(ctx, d, plan)
}

func (e *Engine) apply(ctx context.Context, d *Dispatcher, plan *Plan) (int, error) {
	e.observer.Start(PhaseDispatch, len(plan.Actions))
	defer e.observer.Done(PhaseDispatch)

	executed := 0
	for _, action := range plan.Actions {
		if err := d.Dispatch(ctx, action); err != nil {
			return executed, err
		}
		executed++
		e.observer.Step(PhaseDispatch)
	}
	return executed, nil
}

// Run plans and applies in one go.
func (e *Engine) Run(ctx context.Context) (*Plan, int, error) {
	plan, err := e.Plan(ctx)
	if err != nil {
		return nil, 0, err
	}
	executed, err := e.Apply(ctx, plan)
	return plan, executed, err
}

// Inspect resolves a single logical path without traversing the tree.
func (e *Engine) Inspect(ctx context.Context, path string) (*Record, Action, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, Action{}, errors.New("reconcile: path is required")
	}

	rec := &Record{Path: path}
	var err error
	if rec.OnAuthor, rec.Class, err = e.present(ctx, e.client.AuthorRoot(path)+aem.AssetsAPISuffix); err != nil {
		return nil, Action{}, err
	}
	var publishClass Class
	if rec.OnPublish, publishClass, err = e.present(ctx, e.client.PublishRoot(path)+aem.AssetsAPISuffix); err != nil {
		return nil, Action{}, err
	}
	if rec.Class == "" {
		rec.Class = publishClass
	}
	if rec.OnAuthor {
		rec.Activation = ResolveStatus(ctx, e.client, path)
	}

	action, _ := DecideRecord(rec, e.cfg.StrictStatus)
	return rec, action, nil
}

// present fetches a resource document. Not found means absent, other failures are fatal.
func (e *Engine) present(ctx context.Context, href string) (bool, Class, error) {
	page, err := e.client.FetchPage(ctx, href)
	if err != nil {
		if aem.IsNotFound(err) {
			return false, "", nil
		}
		return false, "", transportError("inspect", href, err)
	}
	var class Class
	if len(page.Class) == 1 {
		class = Class(page.Class[0])
	}
	return true, class, nil
}
