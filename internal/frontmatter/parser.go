package frontmatter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/amsterdam/internal/model"
)

var parseLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	parseLogger = l
}

// A reader that fails this many times in a row is given up on.
const maxConsecutiveReadErrors = 3

type Reason string

const (
	ReasonNoDelimiter        Reason = "no front matter delimiter found"
	ReasonUnterminatedHeader Reason = "front matter header is never closed"
	ReasonMissingTitle       Reason = "front matter has no title"
	ReasonUnreadable         Reason = "document could not be read"
)

// ParseError means the document is not a usable post. It only concerns the
// document it was returned for.
type ParseError struct {
	Name   string
	Reason Reason
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse runs the whole document through Step. name only labels log lines and errors.
func Parse(name string, r io.Reader) (model.Draft, error) {
	var (
		state    State = Ready{}
		br             = bufio.NewReader(r)
		lineNo   int
		failures int
	)

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			failures++
			parseLogger.Warn().Err(err).Str("document", name).Int("line", lineNo+1).Msg("Skipping unreadable line")
			if failures >= maxConsecutiveReadErrors {
				return model.Draft{}, &ParseError{Name: name, Reason: ReasonUnreadable, Err: err}
			}
			continue
		}
		failures = 0

		eof := errors.Is(err, io.EOF)
		if eof && line == "" {
			break
		}
		lineNo++
		line = strings.TrimSuffix(line, "\n")

		if !utf8.ValidString(line) {
			parseLogger.Warn().Str("document", name).Int("line", lineNo).Msg("Skipping line that is not valid UTF-8")
		} else {
			var ignored *Ignored
			state, ignored = Step(state, line)
			if ignored != nil {
				parseLogger.Warn().
					Str("document", name).
					Int("line", lineNo).
					Str("field", ignored.Field).
					Msg("The field will be ignored")
			}
		}

		if eof {
			break
		}
	}

	return Finish(name, state)
}

// Finish checks the state the automaton stopped in.
func Finish(name string, s State) (model.Draft, error) {
	switch s := s.(type) {
	case InBody:
		if !s.Draft.Complete() {
			return model.Draft{}, &ParseError{Name: name, Reason: ReasonMissingTitle}
		}
		return s.Draft, nil
	case InHeader:
		return model.Draft{}, &ParseError{Name: name, Reason: ReasonUnterminatedHeader}
	default:
		return model.Draft{}, &ParseError{Name: name, Reason: ReasonNoDelimiter}
	}
}
