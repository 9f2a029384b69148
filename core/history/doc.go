// Package history persists resynch runs and their actions with GORM.
//
// Every run writes one Run row and one RunAction row per planned action, in a single
// transaction. The tables are created by Migrate; the integrity check compares the live
// schema against the models declared here.
//
// # Usage
//
//	db, _ := database.Connect(cfg.Database)
//	store := history.NewStore(db)
//	_ = store.Migrate(ctx)
//	_ = store.Record(ctx, report)
//	runs, _ := store.Recent(ctx, 10)
package history
