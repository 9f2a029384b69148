package aem

import (
	"net/url"
	"strings"
)

const (
	// AssetsAPIPrefix is the mount point of the Assets HTTP API.
	AssetsAPIPrefix = "/api/assets/"
	// AssetsAPISuffix is the extension of every listing resource.
	AssetsAPISuffix = ".json"
	// DAMRoot is the repository root the Assets API is mapped onto.
	DAMRoot = "/content/dam/"
)

// AuthorRoot returns the listing href for startPath on the author instance.
func (api *API) AuthorRoot(startPath string) string {
	return listingRoot(api.Author, startPath)
}

// PublishRoot returns the listing href for startPath on the publish instance.
func (api *API) PublishRoot(startPath string) string {
	return listingRoot(api.Publish, startPath)
}

// listingRoot mirrors how operators address a folder: <host>/api/assets<startPath>.
// Self links returned by the API carry the .json suffix themselves.
func listingRoot(base *url.URL, startPath string) string {
	return base.JoinPath(AssetsAPIPrefix, strings.TrimPrefix(startPath, "/")).String()
}

func (api *API) statusURL(path string) string {
	return api.Author.JoinPath(DAMRoot, strings.TrimPrefix(path, "/"), "jcr:content.0.json").String()
}

func (api *API) replicateURL() string {
	return api.Author.JoinPath("/bin/replicate.json").String()
}

// ContentPath converts a logical asset path into its absolute repository path.
// Paths already below the DAM root are returned unchanged.
func ContentPath(path string) string {
	if strings.HasPrefix(path, DAMRoot) {
		return path
	}
	return DAMRoot + strings.TrimPrefix(path, "/")
}
