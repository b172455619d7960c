// Package database provides SQLite connectivity for lampd.
//
// The database backs two optional features: the sqlite key-value store
// backend (an alternative to Redis for single-node installs) and the lamp
// change history. When neither is enabled lampd never opens it.
//
// Security Considerations:
//   - All queries use parameterised statements
//   - Database file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	db, err := database.Open(ctx, database.Config{Path: cfg.Database.Path, WALMode: true})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if _, err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Migrations are forward-only files named YYYYMMDD_HHMMSS_description.up.sql.
// Applied versions are recorded in schema_migrations.
package database
