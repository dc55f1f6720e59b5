package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
//
// Participants keep their position so the draw sees the same order the
// creator typed. Confirmation hash and assignment live on the participant
// row; a NULL password_hash means "not confirmed yet".
const schema = `
CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    drawn INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    group_id TEXT NOT NULL,
    name TEXT NOT NULL,
    position INTEGER NOT NULL,
    password_hash TEXT,
    assigned_to TEXT,
    PRIMARY KEY (group_id, name),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_participants_group_id ON participants(group_id);
`

// runMigrations applies the schema to the database.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
