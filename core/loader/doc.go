// Package loader registers fiber features and mounts the enabled ones.
//
// A feature reports whether it can run with the current configuration (the resynch
// feature needs an engine, the integrity feature always loads) and adds its routes in
// Load. Manager.LoadAll mounts features in registration order and returns the names it
// loaded so the server can log them.
package loader
