// Package reconcile detects replication drift between an author and a publish
// instance and issues corrective replication commands.
//
// A run has two stages:
//
// 1. Plan: both repository trees are traversed page by page into flat inventories,
//    merged into one Record per logical path, enriched with the activation status
//    recorded on author, and every record is mapped to an action.
//
// 2. Apply: actions are dispatched one at a time. Each dispatched action waits for the
//    configured delay first so that the replication queue is never flooded. In dry-run
//    mode the delay and the log line still happen, the replication call does not.
//
// # Decision table
//
// Rules are evaluated in order, the first match wins:
//
//	activated && !onPublish  -> Activate    (re-replicate)
//	onPublish && !onAuthor   -> Deactivate  (orphaned)
//	onPublish && !activated  -> Deactivate  (deactivated on author, still served)
//	otherwise                -> None
//
// # Concurrency
//
// With Workers <= 1 every HTTP call is issued sequentially. Larger values fan out sibling
// folder traversals and status lookups, bounded by Workers concurrent requests. Dispatch
// is always sequential.
//
// # Errors
//
// Fatal errors are *Error values tagged with a Kind (transport or data integrity). A
// status lookup never fails a run: an unreachable status resolves to Unknown, which is
// treated as not activated unless StrictStatus is set.
package reconcile
