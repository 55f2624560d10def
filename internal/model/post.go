// Package model defines core data structures shared by the importer packages.
package model

// Draft is a post being assembled from a Markdown document. It is the payload
// sent to the posts endpoint, so the JSON names follow the remote API.
type Draft struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// Passed through as written in the header, never parsed.
	CreationDate string `json:"creation_date,omitempty"`
	License      string `json:"license,omitempty"`
	Published    bool   `json:"published"`

	// Body is the Markdown source after the header.
	Body string `json:"source"`
}

func NewDraft() Draft {
	return Draft{Published: true}
}

// AppendBody returns a copy of d with line added to the body.
func (d Draft) AppendBody(line string) Draft {
	if d.Body == "" {
		d.Body = line
	} else {
		d.Body = d.Body + "\n" + line
	}
	return d
}

// Complete reports whether the draft can be published.
func (d Draft) Complete() bool {
	return d.Title != ""
}
