// Package importer runs a batch of Markdown files through the parser and
// publishes each resulting draft, one file at a time.
package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/amsterdam/internal/config"
	"github.com/debemdeboas/amsterdam/internal/frontmatter"
	"github.com/debemdeboas/amsterdam/internal/model"
	"github.com/debemdeboas/amsterdam/internal/plume"
	"github.com/debemdeboas/amsterdam/internal/util"
)

// FileAccessError means an input file could not be opened or inspected.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("cannot access %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

type Publisher interface {
	Publish(ctx context.Context, draft model.Draft, token string) (*plume.PublishedPost, error)
}

// Journal records outcomes. It is optional.
type Journal interface {
	Record(rec *model.ImportRecord) error
	LastPublished(sourceHash string) (*model.ImportRecord, error)
}

// Result tracks the outcome of importing one path.
type Result struct {
	Path     string
	Status   model.ImportStatus
	Title    string
	RemoteID int64
	Err      error
}

type Summary struct {
	Results []Result
}

func (s Summary) Count(status model.ImportStatus) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any path was neither published nor skipped.
func (s Summary) Failed() bool {
	for _, r := range s.Results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type Importer struct {
	publisher Publisher
	token     string
	journal   Journal
	logger    zerolog.Logger
	out       io.Writer
}

type Option func(*Importer)

// WithJournal records every outcome in j.
func WithJournal(j Journal) Option {
	return func(im *Importer) { im.journal = j }
}

func WithLogger(l zerolog.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// WithOutput sets where per-file progress lines are printed. Defaults to io.Discard.
func WithOutput(w io.Writer) Option {
	return func(im *Importer) { im.out = w }
}

func New(publisher Publisher, token string, opts ...Option) *Importer {
	im := &Importer{
		publisher: publisher,
		token:     token,
		logger:    zerolog.Nop(),
		out:       io.Discard,
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFiles processes paths in order. A failing file never stops the batch;
// only a cancelled context does.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) Summary {
	summary := Summary{Results: make([]Result, 0, len(paths))}

	im.logger.Info().Int("files", len(paths)).Msg("Importing files")

	for i, path := range paths {
		if ctx.Err() != nil {
			im.logger.Warn().Int("remaining", len(paths)-i).Msg("Import cancelled")
			break
		}

		im.logger.Debug().Msgf("[%d/%d] Processing: %s", i+1, len(paths), path)
		result := im.ImportFile(ctx, path)
		summary.Results = append(summary.Results, result)
		im.report(result)
	}

	return summary
}

// ImportFile parses and publishes a single file.
func (im *Importer) ImportFile(ctx context.Context, path string) Result {
	result := Result{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		result.Status = model.StatusFailed
		result.Err = &FileAccessError{Path: path, Err: err}
		im.record(result, nil)
		return result
	}
	if info.IsDir() {
		result.Status = model.StatusSkipped
		im.record(result, nil)
		return result
	}

	f, err := os.Open(path)
	if err != nil {
		result.Status = model.StatusFailed
		result.Err = &FileAccessError{Path: path, Err: err}
		im.record(result, nil)
		return result
	}
	defer f.Close()

	// Keep a copy of exactly what the parser saw for the journal
	var source bytes.Buffer
	draft, err := frontmatter.Parse(path, io.TeeReader(f, &source))
	if err != nil {
		result.Status = model.StatusRejected
		result.Err = err
		im.record(result, source.Bytes())
		return result
	}
	result.Title = draft.Title

	im.warnIfPublished(path, source.Bytes())

	post, err := im.publisher.Publish(ctx, draft, im.token)
	if err != nil {
		var appErr *plume.ApplicationError
		if errors.As(err, &appErr) {
			result.Status = model.StatusRejected
		} else {
			result.Status = model.StatusFailed
		}
		result.Err = err
		im.record(result, source.Bytes())
		return result
	}

	result.Status = model.StatusPublished
	result.RemoteID = post.ID
	im.record(result, source.Bytes())

	return result
}

func (im *Importer) warnIfPublished(path string, source []byte) {
	if im.journal == nil {
		return
	}

	previous, err := im.journal.LastPublished(util.ContentHash(source))
	if err != nil {
		im.logger.Warn().Err(err).Str("path", path).Msg("Failed to consult import journal")
		return
	}
	if previous != nil {
		im.logger.Warn().
			Str("path", path).
			Int64("post_id", previous.RemoteID).
			Time("published_at", previous.CreatedAt).
			Msg("This exact document was published before, publishing again")
	}
}

func (im *Importer) record(result Result, source []byte) {
	if im.journal == nil {
		return
	}

	rec := &model.ImportRecord{
		Path:     result.Path,
		Title:    result.Title,
		Status:   result.Status,
		RemoteID: result.RemoteID,
		Source:   source,
	}
	switch {
	case result.Err != nil:
		rec.Message = result.Err.Error()
	case result.Status == model.StatusSkipped:
		rec.Message = "is a directory"
	}

	if err := im.journal.Record(rec); err != nil {
		im.logger.Error().Err(fmt.Errorf(config.ErrRecordImportFmt, result.Path, err)).Msg("Journal write failed")
	}
}

func (im *Importer) report(r Result) {
	switch r.Status {
	case model.StatusPublished:
		fmt.Fprintln(im.out, okStyle.Render(fmt.Sprintf("✓ %s published as %q (id %d)", r.Path, r.Title, r.RemoteID)))
	case model.StatusSkipped:
		fmt.Fprintln(im.out, skipStyle.Render(fmt.Sprintf("- %s skipped: is a directory", r.Path)))
	default:
		fmt.Fprintln(im.out, failStyle.Render(fmt.Sprintf("✗ %s %s: %v", r.Path, r.Status, r.Err)))
		im.logger.Debug().Err(r.Err).Str("path", r.Path).Msg("Import failed")
	}
}
