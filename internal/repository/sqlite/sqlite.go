package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const createEmployeesTable = `
CREATE TABLE IF NOT EXISTS employees (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    role             TEXT NOT NULL,
    department       TEXT NOT NULL DEFAULT 'Geral',
    status           TEXT NOT NULL DEFAULT 'active',
    hourly_rate      REAL NOT NULL DEFAULT 0,
    overtime_rate    REAL NOT NULL DEFAULT 0,
    daily_hours      REAL NOT NULL DEFAULT 8,
    email            TEXT,
    phone            TEXT,
    cpf              TEXT,
    hire_date        TEXT,
    avatar_url       TEXT,
    base_salary      REAL,
    work_days        TEXT,
    night_shift_rate REAL,
    created_at       TEXT NOT NULL,
    updated_at       TEXT NOT NULL
);
`

const createTimeLogsTable = `
CREATE TABLE IF NOT EXISTS time_logs (
    id                   TEXT PRIMARY KEY,
    employee_id          TEXT NOT NULL,
    employee_name        TEXT NOT NULL,
    timestamp            TEXT NOT NULL,
    type                 TEXT NOT NULL CHECK (type IN ('IN', 'OUT')),
    photo_base64         TEXT NOT NULL DEFAULT '',
    photo_path           TEXT,
    archive_attempts     INTEGER NOT NULL DEFAULT 0,
    is_verified          BOOLEAN NOT NULL DEFAULT 0,
    verification_message TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_time_logs_timestamp ON time_logs (timestamp);
CREATE INDEX IF NOT EXISTS idx_time_logs_employee_timestamp ON time_logs (employee_id, timestamp);
`

const createSettingsTable = `
CREATE TABLE IF NOT EXISTS settings (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Open opens the embedded database file and applies the schema.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path))
	if err != nil {
		return nil, err
	}
	// A single writer avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range []string{createEmployeesTable, createTimeLogsTable, createSettingsTable} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	// Files created before upload retries were bounded lack the counter.
	return addColumnIfMissing(ctx, db, "time_logs", "archive_attempts", "INTEGER NOT NULL DEFAULT 0")
}

func addColumnIfMissing(ctx context.Context, db *sql.DB, table, column, definition string) error {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)); err != nil {
		return fmt.Errorf("failed to add %s.%s: %w", table, column, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	f := nf.Float64
	return &f
}
