// Package store persists the mock API's collections. It runs on sqlite for
// local files and :memory:, or postgres when given a DATABASE_URL.
package store

import (
	"database/sql"
	"fmt"

	// Import database drivers
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store wraps a sql.DB connection.
type Store struct {
	conn   *sql.DB
	driver string
}

// Open connects and runs migrations. driver is DriverSQLite or
// DriverPostgres; dsn is a file path (or ":memory:") for sqlite, a
// connection URL for postgres.
func Open(driver, dsn string) (*Store, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connecting to %s store: %w", driver, err)
	}

	s := &Store{conn: conn, driver: driver}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.driver == DriverPostgres {
		serial = "SERIAL PRIMARY KEY"
	}

	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS expenses (
			id %s,
			name TEXT NOT NULL,
			amount TEXT NOT NULL,
			category TEXT NOT NULL,
			date TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			note TEXT NOT NULL DEFAULT '',
			user_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS vehicles (
			id %s,
			license_plate TEXT NOT NULL,
			vehicle_type TEXT NOT NULL,
			owner_name TEXT NOT NULL,
			contact_number TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS parking_slots (
			id %s,
			slot_number TEXT NOT NULL,
			status TEXT NOT NULL,
			type TEXT NOT NULL,
			vehicle_id TEXT,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL,
			phone_number TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			zip_code TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT ''
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS users (
			id %s,
			full_name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			phone TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`, serial),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS otp_codes (
			id %s,
			phone TEXT NOT NULL,
			code TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`, serial),
	}

	for _, m := range migrations {
		if _, err := s.conn.Exec(m); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}
	return nil
}

// insertID runs an insert and returns the generated id, papering over the
// driver difference (RETURNING for postgres, LastInsertId for sqlite).
func (s *Store) insertID(query string, args ...any) (int64, error) {
	if s.driver == DriverPostgres {
		var id int64
		err := s.conn.QueryRow(query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	result, err := s.conn.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
