// Package integrity provides preflight health checks for resynch runs.
//
// It validates the infrastructure a run depends on rather than the content being
// compared.
//
// # Checks Provided
//
//   - Structure: Checks if the report folders exist in the storage bucket.
//   - Endpoints: Fetches the first listing page of the start path on author and publish.
//   - Database: Validates that the run history schema matches the GORM models (columns, types).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/endpoints : Runs endpoint check. Answers 502 if an endpoint failed.
//   - GET /integrity/database : Runs history schema check.
package integrity
