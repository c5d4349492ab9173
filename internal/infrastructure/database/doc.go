// Package database provides SQL connectivity for meetingmap.
//
// Two drivers are supported behind one *DB type:
//   - sqlite (mattn/go-sqlite3), the default, for single-node deployments
//   - postgres (jackc/pgx via database/sql) for a shared store
//
// The sqlite driver is registered with radians, sin, cos, asin and sqrt so the
// neighborhood distance predicate runs unchanged on both engines. Callers
// build dialect-sensitive statements with Builder(), which applies the right
// placeholder format.
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Driver: "sqlite", Path: "./data/meetingmap.db"})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are *.up.sql files named YYYYMMDD_HHMMSS_description.up.sql,
// embedded by the top-level migrations package. The location data is owned by
// an upstream process, so the application only ever reads it.
package database
