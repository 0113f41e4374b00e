package database

import (
	"database/sql"
	"fmt"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// NewSQLiteDB opens a sqlite database and creates the schema. The pool is
// capped at one connection: ":memory:" databases are per-connection, and a
// single connection makes each transaction exclusive.
func NewSQLiteDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := migrateSQLite(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}

func migrateSQLite(conn *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS class_passes (
			id TEXT PRIMARY KEY,
			studio_name TEXT NOT NULL,
			total_classes INTEGER NOT NULL,
			remaining_classes INTEGER NOT NULL,
			purchase_date DATETIME NOT NULL,
			expiration_date DATETIME,
			cost INTEGER NOT NULL,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS class_bookings (
			id TEXT PRIMARY KEY,
			pass_id TEXT NOT NULL,
			class_name TEXT NOT NULL,
			instructor_name TEXT,
			class_date DATETIME NOT NULL,
			checked_in DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_class_bookings_pass_id ON class_bookings (pass_id)`,
		`CREATE TABLE IF NOT EXISTS pass_activities (
			pass_id TEXT PRIMARY KEY,
			studio_name TEXT NOT NULL,
			last_event TEXT NOT NULL,
			remaining_classes INTEGER NOT NULL,
			total_classes INTEGER NOT NULL,
			expiration_date DATETIME,
			occurred_at DATETIME NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := conn.Exec(m); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}
