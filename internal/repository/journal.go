package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/amsterdam/internal/db"
	"github.com/debemdeboas/amsterdam/internal/model"
	"github.com/debemdeboas/amsterdam/internal/util"
	"github.com/debemdeboas/amsterdam/internal/util/compression"
)

var _ JournalRepository = (*DBJournalRepository)(nil)

type DBJournalRepository struct {
	db         db.DB
	compressor compression.Compressor
}

func NewDBJournalRepository(db db.DB) *DBJournalRepository {
	return &DBJournalRepository{
		db:         db,
		compressor: compression.NewZstdCompressor(),
	}
}

func (r *DBJournalRepository) Record(rec *model.ImportRecord) error {
	if rec.ID == "" {
		rec.ID = model.ImportID(uuid.New().String())
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.SourceHash == "" && rec.Source != nil {
		rec.SourceHash = util.ContentHash(rec.Source)
	}

	var compressed []byte
	if len(rec.Source) > 0 {
		var err error
		compressed, err = r.compressor.Compress(rec.Source)
		if err != nil {
			return fmt.Errorf("error compressing source: %w", err)
		}
	}

	res, err := r.db.Exec(
		`INSERT INTO imports (id, path, title, status, remote_id, message, source, source_hash, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(rec.ID), rec.Path, rec.Title, string(rec.Status), rec.RemoteID, rec.Message, compressed, rec.SourceHash, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error saving import record: %w", err)
	}

	repoLogger.Debug().Interface("result", res).Str("id", string(rec.ID)).Msg("Import recorded")

	return nil
}

const recordColumns = `id, path, title, status, remote_id, message, source_hash, created_at`

func (r *DBJournalRepository) List(limit int) ([]model.ImportRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM imports ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying import records: %w", err)
	}
	defer rows.Close()

	records := make([]model.ImportRecord, 0)
	for rows.Next() {
		var rec model.ImportRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating import records: %w", err)
	}

	return records, nil
}

func (r *DBJournalRepository) Get(id model.ImportID) (*model.ImportRecord, error) {
	var rec model.ImportRecord
	var compressed []byte

	row := r.db.QueryRow(`SELECT `+recordColumns+`, source FROM imports WHERE id = ?`, string(id))
	err := row.Scan(
		&rec.ID, &rec.Path, &rec.Title, &rec.Status, &rec.RemoteID, &rec.Message, &rec.SourceHash, &rec.CreatedAt,
		&compressed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error scanning import record: %w", err)
	}

	if len(compressed) > 0 {
		rec.Source, err = r.compressor.Decompress(compressed)
		if err != nil {
			return nil, fmt.Errorf("error decompressing source: %w", err)
		}
	}

	return &rec, nil
}

// GetByPrefix resolves an abbreviated id the way the history table prints it.
func (r *DBJournalRepository) GetByPrefix(prefix string) (*model.ImportRecord, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, ErrRecordNotFound
	}

	rows, err := r.db.Query(`SELECT id FROM imports WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("error querying import records: %w", err)
	}

	ids := make([]string, 0, 2)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning import record: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()

	switch len(ids) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, prefix)
	case 1:
		return r.Get(model.ImportID(ids[0]))
	default:
		return nil, fmt.Errorf("id prefix %q is ambiguous", prefix)
	}
}

func (r *DBJournalRepository) LastPublished(sourceHash string) (*model.ImportRecord, error) {
	var rec model.ImportRecord

	row := r.db.QueryRow(
		`SELECT `+recordColumns+` FROM imports WHERE source_hash = ? AND status = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		sourceHash, string(model.StatusPublished),
	)
	err := scanRecord(row, &rec)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner, rec *model.ImportRecord) error {
	err := s.Scan(&rec.ID, &rec.Path, &rec.Title, &rec.Status, &rec.RemoteID, &rec.Message, &rec.SourceHash, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err != nil {
		return fmt.Errorf("error scanning import record: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
