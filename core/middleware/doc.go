// Package middleware groups the fiber middleware of the report server.
//
// rayid tags each request with an X-Ray-ID (reused when the caller sends one) that
// logger.WithRayID picks up. auth rejects requests without the configured X-API-Key;
// an empty key disables it. The server registers rayid first, then request logging,
// then swagger, then auth.
package middleware
