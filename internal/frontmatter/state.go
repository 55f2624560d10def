// Package frontmatter turns a Markdown document with a dash-delimited metadata
// header into a post draft.
//
// The parser is a three-state automaton driven one line at a time by Step:
//
//	Ready --(all-dash line)--> InHeader --(line without ':')--> InBody
//
// Lines before the first delimiter are skipped. The line that closes the header
// is dropped, everything after it is body.
package frontmatter

import (
	"strconv"
	"strings"

	"github.com/debemdeboas/amsterdam/internal/model"
)

// State is one of Ready, InHeader or InBody.
type State interface {
	state()
}

type Ready struct{}

type InHeader struct {
	Draft model.Draft
}

type InBody struct {
	Draft model.Draft
}

func (Ready) state()    {}
func (InHeader) state() {}
func (InBody) state()   {}

const (
	FieldTitle     = "title"
	FieldSubtitle  = "subtitle"
	FieldTags      = "tags"
	FieldDate      = "date"
	FieldLicense   = "license"
	FieldPublished = "published"
)

// Ignored is a header line that left the draft unchanged: an unknown field, or a
// value that does not fit the field.
type Ignored struct {
	Field string
	Value string
}

// Step feeds one line to the automaton.
func Step(s State, line string) (State, *Ignored) {
	line = strings.TrimSuffix(line, "\r")

	switch s := s.(type) {
	case InBody:
		return InBody{Draft: s.Draft.AppendBody(line)}, nil

	case InHeader:
		field, value, found := strings.Cut(line, ":")
		if !found {
			return InBody{Draft: s.Draft}, nil
		}
		field, value = strings.TrimSpace(field), strings.TrimSpace(value)
		draft, ok := applyField(s.Draft, field, value)
		if !ok {
			return s, &Ignored{Field: field, Value: value}
		}
		return InHeader{Draft: draft}, nil

	default:
		if isDelimiter(line) {
			return InHeader{Draft: model.NewDraft()}, nil
		}
		return Ready{}, nil
	}
}

func isDelimiter(line string) bool {
	return line != "" && strings.Trim(line, "-") == ""
}

func applyField(d model.Draft, field, value string) (model.Draft, bool) {
	switch field {
	case FieldTitle:
		d.Title = value
	case FieldSubtitle:
		d.Subtitle = value
	case FieldTags:
		d.Tags = splitTags(value)
	case FieldDate:
		d.CreationDate = value
	case FieldLicense:
		d.License = value
	case FieldPublished:
		published, err := strconv.ParseBool(value)
		if err != nil {
			return d, false
		}
		d.Published = published
	default:
		return d, false
	}
	return d, true
}

// splitTags keeps empty entries, "a,,b" gives three tags.
func splitTags(value string) []string {
	parts := strings.Split(value, ",")
	tags := make([]string, len(parts))
	for i, p := range parts {
		tags[i] = strings.TrimSpace(p)
	}
	return tags
}
