// Package resynch exposes the resynch engine over HTTP.
//
// The server never replicates anything: it only serves dry-run plans and single path
// lookups. Plans are expensive to build (two full tree traversals plus one status lookup
// per author path), so they are cached for server.plan_cache_seconds and concurrent
// requests share one build.
//
// # HTTP Endpoints
//
//   - GET /resynch/plan : Returns the current plan (supports ?refresh=true).
//   - GET /resynch/status/<path> : Returns presence, activation and the decided action of one path.
package resynch
