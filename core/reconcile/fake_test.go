package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"asset-resynch/core/aem"

	"github.com/stretchr/testify/mock"
)

const (
	authorHost  = "http://author.test"
	publishHost = "http://publish.test"
)

// fakeRepo serves canned listing pages and activation statuses.
type fakeRepo struct {
	mu       sync.Mutex
	pages    map[string]*aem.Page
	statuses map[string]string
	// statusErr overrides the status lookup for a path.
	statusErr map[string]error
	fetches   []string
	lookups   []string

	replicator *mockReplicator
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		pages:      make(map[string]*aem.Page),
		statuses:   make(map[string]string),
		statusErr:  make(map[string]error),
		replicator: &mockReplicator{},
	}
}

func (f *fakeRepo) AuthorRoot(startPath string) string {
	return authorHost + "/api/assets/" + strings.Trim(startPath, "/")
}

func (f *fakeRepo) PublishRoot(startPath string) string {
	return publishHost + "/api/assets/" + strings.Trim(startPath, "/")
}

func (f *fakeRepo) FetchPage(ctx context.Context, href string) (*aem.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, href)
	page, ok := f.pages[href]
	if !ok {
		return nil, &aem.ResponseError{Method: "GET", URL: href, StatusCode: 404, Status: "404 Not Found"}
	}
	return page, nil
}

func (f *fakeRepo) ReplicationStatus(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, path)
	if err, ok := f.statusErr[path]; ok {
		return "", err
	}
	return f.statuses[path], nil
}

func (f *fakeRepo) Replicate(ctx context.Context, cmd, path string) error {
	return f.replicator.Replicate(ctx, cmd, path)
}

func (f *fakeRepo) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetches)
}

// page registers a listing page at href.
func (f *fakeRepo) page(href string, next string, entities ...aem.Entity) {
	p := &aem.Page{Entities: entities}
	if next != "" {
		p.Links = append(p.Links, aem.Link{Rel: []string{aem.RelNext}, Href: next})
	}
	f.pages[href] = p
}

// tree registers one single-page listing per folder for the given paths below root.
// Paths ending in / are folders.
func (f *fakeRepo) tree(host, root string, paths ...string) {
	children := map[string][]aem.Entity{root: nil}
	for _, p := range paths {
		isFolder := strings.HasSuffix(p, "/")
		p = strings.TrimSuffix(p, "/")
		parent := root
		if i := strings.LastIndex(p, "/"); i >= 0 && p[:i] != root {
			parent = p[:i]
		}
		if isFolder {
			children[parent] = append(children[parent], folderEntity(host, p))
			if _, ok := children[p]; !ok {
				children[p] = nil
			}
		} else {
			children[parent] = append(children[parent], assetEntity(host, p))
		}
	}
	for folder, entities := range children {
		href := host + "/api/assets/" + folder
		if folder != root {
			href += ".json"
		}
		f.page(href, "", entities...)
	}
}

func selfLink(host, path string) []aem.Link {
	return []aem.Link{{Rel: []string{aem.RelSelf}, Href: host + "/api/assets/" + path + ".json"}}
}

func assetEntity(host, path string) aem.Entity {
	return aem.Entity{Class: []string{string(ClassAsset)}, Links: selfLink(host, path)}
}

func folderEntity(host, path string) aem.Entity {
	return aem.Entity{Class: []string{string(ClassFolder)}, Links: selfLink(host, path)}
}

type mockReplicator struct {
	mock.Mock
}

func (m *mockReplicator) Replicate(ctx context.Context, cmd, path string) error {
	args := m.Called(ctx, cmd, path)
	return args.Error(0)
}

// recordingObserver counts progress notifications per phase.
type recordingObserver struct {
	mu    sync.Mutex
	steps map[Phase]int
	done  map[Phase]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{steps: map[Phase]int{}, done: map[Phase]int{}}
}

func (o *recordingObserver) Start(Phase, int) {}

func (o *recordingObserver) Step(p Phase) {
	o.mu.Lock()
	o.steps[p]++
	o.mu.Unlock()
}

func (o *recordingObserver) Done(p Phase) {
	o.mu.Lock()
	o.done[p]++
	o.mu.Unlock()
}

func paths(entities []Entity) []string {
	out := make([]string, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.Path)
	}
	return out
}

func numbered(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%02d", prefix, i)
	}
	return out
}
