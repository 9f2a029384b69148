// Package aem is a small client for the content repository HTTP endpoints used by the
// resynch engine.
//
// It covers exactly three endpoints:
//
//   - Assets API listing: GET <host>/api/assets/<path>.json, a paginated, link-annotated
//     tree of folders and assets. FetchPage returns one page; the "next" relation of the
//     page links points at the following page.
//   - Replication status: GET <author>/content/dam/<path>/jcr:content.0.json, whose
//     cq:lastReplicationAction property tells whether the asset is activated.
//   - Replication command: POST <author>/bin/replicate.json with a form body carrying
//     the command (Activate / Deactivate) and the absolute repository path.
//
// Every request carries the same basic-auth credentials. Idempotent GET requests are
// retried with exponential backoff on transport failures and 5xx responses; replication
// commands are sent exactly once.
//
// # Recording
//
// NewRecorder wraps the client with a go-vcr recorder so that a run can be captured to a
// cassette and replayed offline. Authorization headers are stripped before anything is
// written to disk.
package aem
