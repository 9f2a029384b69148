package aem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindLink(t *testing.T) {
	links := []Link{
		{Rel: []string{"parent"}, Href: "http://x/api/assets.json"},
		{Rel: []string{"self", "canonical"}, Href: "http://x/api/assets/f.json"},
	}

	link, ok := FindLink(links, "canonical")
	assert.True(t, ok)
	assert.Equal(t, "http://x/api/assets/f.json", link.Href)

	_, ok = FindLink(links, RelNext)
	assert.False(t, ok)

	var page *Page
	assert.Equal(t, "", page.NextHref())

	_, ok = Entity{Links: []Link{{Rel: []string{"self"}}}}.SelfHref()
	assert.False(t, ok, "empty href is not a self link")
}
