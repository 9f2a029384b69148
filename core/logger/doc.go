// Package logger builds the zap loggers used by every command and the HTTP server.
//
// Levels are debug, info, warn and error. Debug selects zap's development preset and
// traces every fetched listing page and status lookup of a resynch run. Formats are
// console (default) and json. Logs always go to stderr so that reports printed with
// --output json or yaml stay machine readable on stdout.
//
// WithRayID tags request scoped loggers with the id set by the rayid middleware:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
