package reconcile

import (
	"context"

	"asset-resynch/core/aem"
)

// PageFetcher retrieves one page of an asset listing.
type PageFetcher interface {
	FetchPage(ctx context.Context, href string) (*aem.Page, error)
}

// StatusSource returns the last replication action recorded for a path on author.
// An empty action means none is recorded.
type StatusSource interface {
	ReplicationStatus(ctx context.Context, path string) (string, error)
}

// Replicator issues replication commands against author.
type Replicator interface {
	Replicate(ctx context.Context, cmd, path string) error
}

// Client is everything the engine needs from the content repository.
// *aem.API satisfies it.
type Client interface {
	PageFetcher
	StatusSource
	Replicator

	// AuthorRoot returns the author listing URL for a start path.
	AuthorRoot(startPath string) string
	// PublishRoot returns the publish listing URL for a start path.
	PublishRoot(startPath string) string
}

// Phase names a stage of a run for progress reporting.
type Phase string

const (
	PhaseAuthor   Phase = "author"
	PhasePublish  Phase = "publish"
	PhaseStatus   Phase = "status"
	PhaseDispatch Phase = "dispatch"
)

// Observer receives progress notifications. Implementations must be safe for
// concurrent use. A total of 0 means the amount of work is not known upfront.
type Observer interface {
	Start(phase Phase, total int)
	Step(phase Phase)
	Done(phase Phase)
}

// NopObserver discards progress notifications.
type NopObserver struct{}

func (NopObserver) Start(Phase, int) {}
func (NopObserver) Step(Phase)       {}
func (NopObserver) Done(Phase)       {}
