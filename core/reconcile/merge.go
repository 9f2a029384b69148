package reconcile

import "sort"

// Merge combines both inventories into one record per logical path. Author is
// applied first so its classification wins on collisions.
func Merge(author, publish []Entity) map[string]*Record {
	records := make(map[string]*Record, len(author))

	for _, e := range author {
		if r, ok := records[e.Path]; ok {
			r.OnAuthor = true
			continue
		}
		records[e.Path] = &Record{Path: e.Path, Class: e.Class, OnAuthor: true}
	}

	for _, e := range publish {
		if r, ok := records[e.Path]; ok {
			r.OnPublish = true
			continue
		}
		records[e.Path] = &Record{Path: e.Path, Class: e.Class, OnPublish: true}
	}

	return records
}

// SortedPaths returns the record keys in lexical order.
func SortedPaths(records map[string]*Record) []string {
	paths := make([]string, 0, len(records))
	for p := range records {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
