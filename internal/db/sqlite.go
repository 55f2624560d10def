package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS imports (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    title TEXT,
    status TEXT NOT NULL,
    remote_id INTEGER,
    message TEXT,
    source BLOB,
    source_hash TEXT,
    created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS imports_created_at ON imports (created_at);
CREATE INDEX IF NOT EXISTS imports_source_hash ON imports (source_hash);`

type SQLite struct {
	path string
	conn *sql.DB
}

// NewSQLite prepares a database at path. ":memory:" is accepted.
func NewSQLite(path string) *SQLite {
	return &SQLite{
		path: path,
		conn: nil,
	}
}

func (s *SQLite) InitDB() error {
	var err error
	s.conn, err = sql.Open("sqlite3", s.path)
	if err != nil {
		return err
	}

	// One writer at a time, and a single connection keeps ":memory:" databases alive.
	s.conn.SetMaxOpenConns(1)

	if _, err := s.conn.Exec(schema); err != nil {
		return err
	}

	dbLogger.Debug().Str("path", s.path).Msg("Database initialized")
	return nil
}

func (s *SQLite) Get() *sql.DB {
	return s.conn
}

func (s *SQLite) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

func (s *SQLite) Query(query string, args ...any) (*sql.Rows, error) {
	dbLogger.Debug().Str("query", query).Msg("Query")
	return s.conn.Query(query, args...)
}

func (s *SQLite) QueryRow(query string, args ...any) *sql.Row {
	dbLogger.Debug().Str("query", query).Msg("QueryRow")
	return s.conn.QueryRow(query, args...)
}

func (s *SQLite) Exec(query string, args ...any) (sql.Result, error) {
	dbLogger.Debug().Str("query", query).Msg("Exec")
	return s.conn.Exec(query, args...)
}
