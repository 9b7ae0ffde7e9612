package migrations

import "github.com/jmoiron/sqlx"

// EnsureSchema applies the idempotent DDL used by repositories.SQLStore.
// One row per task; position is the task's index in the list.
func EnsureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS task_lines (
  position INTEGER PRIMARY KEY CHECK (position >= 0),
  line TEXT NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}
