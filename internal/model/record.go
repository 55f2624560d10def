package model

import "time"

type ImportID string

type ImportStatus string

const (
	StatusPublished ImportStatus = "published"
	StatusRejected  ImportStatus = "rejected"
	StatusFailed    ImportStatus = "failed"
	StatusSkipped   ImportStatus = "skipped"
)

// ImportRecord is one journal entry: the outcome of importing a single file.
type ImportRecord struct {
	ID ImportID

	Path  string
	Title string

	Status   ImportStatus
	RemoteID int64
	Message  string

	// Source is the raw document as it was read. SourceHash is its sha256.
	Source     []byte
	SourceHash string

	CreatedAt time.Time
}
