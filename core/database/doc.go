// Package database handles the run history database connection and schema inspection.
//
// It provides a wrapper around GORM to configure either a MySQL server or a local
// SQLite file based on the application's configuration.
//
// # Connect
//
// Connect opens the configured driver and verifies the connection with a ping bounded by
// the configured timeout. The history store migrates its own tables on top of it.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definitions, which the integrity
// check uses to verify that the history tables match the models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "runs", []string{"id", "start_path"})
package database
