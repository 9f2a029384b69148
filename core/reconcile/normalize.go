package reconcile

import (
	"net/url"
	"regexp"

	"asset-resynch/core/aem"
)

var hrefPathPattern = regexp.MustCompile(`/api/assets/(.+)\.json`)

// Normalize reduces a raw listing entry to its class, self href and logical path.
// Entries without a self link or with an ambiguous class are integrity errors.
func Normalize(raw aem.Entity) (Entity, error) {
	self, ok := raw.SelfHref()
	if !ok {
		return Entity{}, integrityError("", raw, "no self href found")
	}

	u, err := url.Parse(self)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Entity{}, integrityError(self, raw, "self href is not an absolute URL")
	}

	if len(raw.Class) != 1 {
		return Entity{}, integrityError(self, raw, "class is not unique")
	}

	clean := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path, RawPath: u.RawPath}
	return Entity{
		Class: Class(raw.Class[0]),
		Href:  clean.String(),
		Path:  pathFromURLPath(u.Path),
	}, nil
}

// PathFromHref extracts the logical path from an assets API href. Hrefs that do not
// follow the /api/assets/<path>.json shape yield their URL path unchanged.
func PathFromHref(href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return pathFromURLPath(u.Path), nil
}

// HrefForPath builds the assets API href of a logical path on the given host.
// It is the inverse of PathFromHref.
func HrefForPath(base *url.URL, path string) string {
	u := url.URL{
		Scheme: base.Scheme,
		Host:   base.Host,
		Path:   aem.AssetsAPIPrefix + path + aem.AssetsAPISuffix,
	}
	return u.String()
}

func pathFromURLPath(p string) string {
	return hrefPathPattern.ReplaceAllString(p, "$1")
}
