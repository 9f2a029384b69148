// Package server holds the HTTP server configuration.
//
// While the start command handles the server startup, this package defines the
// configuration structure for the listen address, the API key required by the auth
// middleware, and how long the resynch plan endpoint may serve a cached plan.
package server
