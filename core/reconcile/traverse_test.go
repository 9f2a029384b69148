package reconcile

import (
	"context"
	"errors"
	"testing"

	"asset-resynch/core/aem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraverse_Pagination(t *testing.T) {
	repo := newFakeRepo()
	root := repo.AuthorRoot("/big")
	pages := []string{root, root + "?offset=20", root + "?offset=40"}
	for i, href := range pages {
		var entities []aem.Entity
		for _, p := range numbered("big/"+string(rune('a'+i)), 20) {
			entities = append(entities, assetEntity(authorHost, p))
		}
		next := ""
		if i+1 < len(pages) {
			next = pages[i+1]
		}
		repo.page(href, next, entities...)
	}

	entities, err := Traverse(context.Background(), repo, root, PhaseAuthor, Options{})
	require.NoError(t, err)
	assert.Len(t, entities, 60)
	assert.Equal(t, 3, repo.fetchCount())
	assert.Equal(t, "big/a00", entities[0].Path)
	assert.Equal(t, "big/c19", entities[59].Path)
}

func TestTraverse_RecursiveFolders(t *testing.T) {
	repo := newFakeRepo()
	repo.tree(authorHost, "r", "r/a.png", "r/f/", "r/f/b.png", "r/f/c.png")

	entities, err := Traverse(context.Background(), repo, repo.AuthorRoot("/r"), PhaseAuthor, Options{})
	require.NoError(t, err)
	// folder markers are part of the inventory
	assert.Equal(t, []string{"r/a.png", "r/f", "r/f/b.png", "r/f/c.png"}, paths(entities))
	assert.Equal(t, ClassFolder, entities[1].Class)
}

func TestTraverse_PagesBeforeSubfolders(t *testing.T) {
	repo := newFakeRepo()
	root := repo.AuthorRoot("/r")
	repo.page(root, root+"?p=2", folderEntity(authorHost, "r/f"))
	repo.page(root+"?p=2", "", assetEntity(authorHost, "r/z.png"))
	repo.tree(authorHost, "r/f", "r/f/in.png")
	// tree registered the folder under its listing root, move it to the self href
	repo.pages[authorHost+"/api/assets/r/f.json"] = repo.pages[authorHost+"/api/assets/r/f"]

	entities, err := Traverse(context.Background(), repo, root, PhaseAuthor, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"r/f", "r/z.png", "r/f/in.png"}, paths(entities))
}

func TestTraverse_NullEntitiesIsEmptyPage(t *testing.T) {
	repo := newFakeRepo()
	repo.pages[repo.AuthorRoot("/empty")] = &aem.Page{}

	entities, err := Traverse(context.Background(), repo, repo.AuthorRoot("/empty"), PhaseAuthor, Options{})
	require.NoError(t, err)
	assert.NotNil(t, entities)
	assert.Empty(t, entities)
}

func TestTraverse_FetchFailureAborts(t *testing.T) {
	repo := newFakeRepo()
	// folder page is missing, so its fetch answers 404
	repo.page(repo.AuthorRoot("/r"), "", assetEntity(authorHost, "r/a.png"), folderEntity(authorHost, "r/gone"))

	entities, err := Traverse(context.Background(), repo, repo.AuthorRoot("/r"), PhaseAuthor, Options{})
	require.Error(t, err)
	assert.Nil(t, entities)
	assert.True(t, IsKind(err, KindTransport))
	assert.True(t, aem.IsNotFound(err))
	assert.Contains(t, err.Error(), "r/gone.json")
}

func TestTraverse_MalformedEntityAborts(t *testing.T) {
	tests := []struct {
		name   string
		entity aem.Entity
		reason string
	}{
		{
			name:   "missing self link",
			entity: aem.Entity{Class: []string{string(ClassAsset)}},
			reason: "no self href",
		},
		{
			name:   "no class",
			entity: aem.Entity{Links: selfLink(authorHost, "r/x.png")},
			reason: "class is not unique",
		},
		{
			name: "two classes",
			entity: aem.Entity{
				Class: []string{string(ClassAsset), string(ClassFolder)},
				Links: selfLink(authorHost, "r/x.png"),
			},
			reason: "class is not unique",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.page(repo.AuthorRoot("/r"), "", tt.entity)

			_, err := Traverse(context.Background(), repo, repo.AuthorRoot("/r"), PhaseAuthor, Options{})
			require.Error(t, err)
			assert.True(t, IsKind(err, KindDataIntegrity))
			assert.Contains(t, err.Error(), tt.reason)
			assert.Contains(t, err.Error(), "entity:")
		})
	}
}

func TestTraverse_CycleDetected(t *testing.T) {
	repo := newFakeRepo()
	loop := authorHost + "/api/assets/r/loop.json"
	repo.page(repo.AuthorRoot("/r"), "", folderEntity(authorHost, "r/loop"))
	repo.page(loop, "", folderEntity(authorHost, "r/loop"))

	_, err := Traverse(context.Background(), repo, repo.AuthorRoot("/r"), PhaseAuthor, Options{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDataIntegrity))
	assert.Contains(t, err.Error(), "cycle")
}

func TestTraverse_ParallelMatchesSequential(t *testing.T) {
	repo := newFakeRepo()
	var tree []string
	for _, folder := range []string{"r/a", "r/b", "r/c", "r/d"} {
		tree = append(tree, folder+"/")
		tree = append(tree, numbered(folder+"/img", 5)...)
		tree = append(tree, folder+"/deep/", folder+"/deep/leaf.png")
	}
	repo.tree(authorHost, "r", tree...)

	seq, err := Traverse(context.Background(), repo, repo.AuthorRoot("/r"), PhaseAuthor, Options{Workers: 1})
	require.NoError(t, err)

	obs := newRecordingObserver()
	par, err := Traverse(context.Background(), repo, repo.AuthorRoot("/r"), PhaseAuthor, Options{Workers: 4, Observer: obs})
	require.NoError(t, err)

	assert.Equal(t, paths(seq), paths(par))
	assert.Len(t, par, 4*(1+5+2))
	assert.Equal(t, 9, obs.steps[PhaseAuthor])
	assert.Equal(t, 1, obs.done[PhaseAuthor])
}

func TestTraverse_ContextCancelled(t *testing.T) {
	repo := newFakeRepo()
	repo.tree(authorHost, "r", "r/a/", "r/b/")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cancelling := &cancelledFetcher{}
	_, err := Traverse(ctx, cancelling, repo.AuthorRoot("/r"), PhaseAuthor, Options{Workers: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type cancelledFetcher struct{}

func (cancelledFetcher) FetchPage(ctx context.Context, href string) (*aem.Page, error) {
	return nil, ctx.Err()
}
