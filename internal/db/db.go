// Package db opens the local SQLite database that backs the import journal.
package db

import (
	"database/sql"

	"github.com/rs/zerolog"
)

type DB interface {
	InitDB() error

	Get() *sql.DB
	Close() error

	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

var dbLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	dbLogger = l
}
