package reconcile

import (
	"context"
	"sync"

	"asset-resynch/core/aem"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options tunes the traversal and status phases.
type Options struct {
	// Workers bounds concurrent requests. Values below 2 run everything sequentially.
	Workers  int
	Logger   *zap.Logger
	Observer Observer

	// slots is shared by traversals running side by side so that together they
	// stay within Workers requests.
	slots chan struct{}
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	return o
}

// Traverse walks a listing rooted at rootHref and returns every entity below it,
// folders included. Each page of a folder is read before any of its subfolders is
// entered. The walk aborts on the first failed page or malformed entity.
func Traverse(ctx context.Context, fetcher PageFetcher, rootHref string, phase Phase, opts Options) ([]Entity, error) {
	opts = opts.withDefaults()
	w := &walker{
		fetcher: fetcher,
		opts:    opts,
		phase:   phase,
		visited: make(map[string]struct{}),
	}
	if opts.Workers > 1 {
		w.sem = opts.slots
		if w.sem == nil {
			w.sem = make(chan struct{}, opts.Workers)
		}
	}

	opts.Observer.Start(phase, 0)
	defer opts.Observer.Done(phase)

	if err := w.enter(rootHref); err != nil {
		return nil, err
	}
	entities, err := w.walk(ctx, rootHref)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debug("Traversal complete",
		zap.String("phase", string(phase)),
		zap.String("root", rootHref),
		zap.Int("entities", len(entities)))
	return entities, nil
}

type walker struct {
	fetcher PageFetcher
	opts    Options
	phase   Phase
	sem     chan struct{}

	mu      sync.Mutex
	visited map[string]struct{}
}

// enter marks a folder as visited. A folder reached twice means the listing loops.
func (w *walker) enter(href string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, seen := w.visited[href]; seen {
		return integrityError(href, nil, "folder reached twice, listing contains a cycle")
	}
	w.visited[href] = struct{}{}
	return nil
}

func (w *walker) walk(ctx context.Context, href string) ([]Entity, error) {
	raw, err := w.fetchAll(ctx, href)
	if err != nil {
		return nil, err
	}

	entities := make([]Entity, 0, len(raw))
	var folders []Entity
	for _, r := range raw {
		e, err := Normalize(r)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
		if e.IsFolder() {
			folders = append(folders, e)
		}
	}

	for _, f := range folders {
		if err := w.enter(f.Href); err != nil {
			return nil, err
		}
	}

	if w.sem == nil {
		for _, f := range folders {
			sub, err := w.walk(ctx, f.Href)
			if err != nil {
				return nil, err
			}
			entities = append(entities, sub...)
		}
		return entities, nil
	}

	subs := make([][]Entity, len(folders))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range folders {
		g.Go(func() error {
			sub, err := w.walk(gctx, f.Href)
			subs[i] = sub
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, sub := range subs {
		entities = append(entities, sub...)
	}
	return entities, nil
}

// fetchAll follows the next links of a listing and concatenates the page entities.
func (w *walker) fetchAll(ctx context.Context, href string) ([]aem.Entity, error) {
	var raw []aem.Entity
	for next := href; next != ""; {
		page, err := w.fetch(ctx, next)
		if err != nil {
			return nil, transportError("traverse", next, err)
		}
		w.opts.Observer.Step(w.phase)
		raw = append(raw, page.Entities...)
		next = page.NextHref()
	}
	return raw, nil
}

func (w *walker) fetch(ctx context.Context, href string) (*aem.Page, error) {
	if w.sem != nil {
		select {
		case w.sem <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		defer func() { <-w.sem }()
	}
	w.opts.Logger.Debug("Fetching page", zap.String("phase", string(w.phase)), zap.String("href", href))
	return w.fetcher.FetchPage(ctx, href)
}
