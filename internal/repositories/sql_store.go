package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"bean/internal/model"
)

type lineRow struct {
	Position int    `db:"position"`
	Line     string `db:"line"`
}

// SQLStore keeps the save lines in the task_lines table, one row per task
// ordered by position. See migrations.EnsureSchema.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore creates a TaskStore backed by sqlx.DB.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Backend() string { return "postgres" }

func (s *SQLStore) ReadLines(ctx context.Context) ([]string, error) {
	var lines []string
	if err := s.db.SelectContext(ctx, &lines, "SELECT line FROM task_lines ORDER BY position"); err != nil {
		return nil, &model.IOError{Op: "read", Err: err}
	}
	return lines, nil
}

// WriteLines replaces every row inside one transaction.
func (s *SQLStore) WriteLines(ctx context.Context, lines []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &model.IOError{Op: "write", Err: err}
	}
	if err := replaceLines(ctx, tx, lines); err != nil {
		_ = tx.Rollback()
		return &model.IOError{Op: "write", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &model.IOError{Op: "write", Err: err}
	}
	return nil
}

func replaceLines(ctx context.Context, tx *sqlx.Tx, lines []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM task_lines"); err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	rows := make([]lineRow, len(lines))
	for i, l := range lines {
		rows[i] = lineRow{Position: i, Line: l}
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO task_lines (position, line) VALUES (:position, :line)`, rows)
	return err
}
