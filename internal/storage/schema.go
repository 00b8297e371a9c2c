// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: A single kv table holds each serialized collection under its key.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := d.db.Exec(schema)
	return err
}
