package aem

// Link is one entry of a links array. A link may carry several relation names.
type Link struct {
	Rel  []string `json:"rel"`
	Href string   `json:"href"`
}

// Entity is a raw folder or asset entry of a listing page.
type Entity struct {
	Class      []string       `json:"class"`
	Links      []Link         `json:"links"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Page is one page of an Assets API listing. Entities is nil when the endpoint omits it.
type Page struct {
	Class    []string `json:"class,omitempty"`
	Entities []Entity `json:"entities"`
	Links    []Link   `json:"links"`
}

// Relation names used by the Assets API.
const (
	RelSelf = "self"
	RelNext = "next"
)

// FindLink returns the first link carrying the given relation.
func FindLink(links []Link, rel string) (Link, bool) {
	for _, link := range links {
		for _, r := range link.Rel {
			if r == rel {
				return link, true
			}
		}
	}
	return Link{}, false
}

// NextHref returns the href of the following page, or "" on the last page.
func (p *Page) NextHref() string {
	if p == nil {
		return ""
	}
	next, ok := FindLink(p.Links, RelNext)
	if !ok {
		return ""
	}
	return next.Href
}

// SelfHref returns the canonical location of the entity.
func (e Entity) SelfHref() (string, bool) {
	self, ok := FindLink(e.Links, RelSelf)
	if !ok || self.Href == "" {
		return "", false
	}
	return self.Href, true
}
