// Package database owns the SQLite connection and schema migrations.
//
// Open returns a handle restricted to a single pooled connection; SQLite
// serialises writes anyway and one connection keeps lock contention out of
// the busy-timeout path. WAL mode is enabled from config so reads proceed
// alongside the writer, and foreign keys are always on.
//
// Migrations are embedded SQL files in VERSION_name.up.sql /
// VERSION_name.down.sql pairs, applied oldest-first and recorded in a
// schema_migrations table. The migrations package wires its embedded
// filesystem into MigrationsFS at init, so importing it for side effects is
// all the composition root needs:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
