// Package repository keeps the local journal of import attempts.
package repository

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/amsterdam/internal/model"
)

var repoLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

var ErrRecordNotFound = errors.New("import record not found")

type JournalRepository interface {
	// Record stores rec, filling in its ID, SourceHash and CreatedAt when unset.
	Record(rec *model.ImportRecord) error

	// List returns the newest records first, without their sources. limit <= 0 means all.
	List(limit int) ([]model.ImportRecord, error)

	// Get returns one record with its decompressed source.
	Get(id model.ImportID) (*model.ImportRecord, error)

	// LastPublished returns the latest published record for a source hash, or nil.
	LastPublished(sourceHash string) (*model.ImportRecord, error)
}
