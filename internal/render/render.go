package render

import (
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Renderer renders fragments with one set of labels and name replacements.
type Renderer struct {
	Labels Labels
	Names  Names
	// HideErrors suppresses the error marker.
	HideErrors bool
	// Location is used for displayed timestamps. Nil means UTC.
	Location *time.Location
}

// New creates a Renderer without name replacements.
func New(labels Labels) Renderer {
	return Renderer{Labels: labels, Names: NoReplacements}
}

// WithNames returns a copy of rd using names.
func (rd Renderer) WithNames(names Names) Renderer {
	rd.Names = names
	return rd
}

func (rd Renderer) team(name string) string {
	if rd.Names == nil {
		return esc(name)
	}
	return esc(rd.Names.Display(name))
}

// ErrorKind selects the error marker text.
type ErrorKind string

const (
	ErrNoData  ErrorKind = "no_data"
	ErrDefault ErrorKind = "default"
)

// Error renders the error marker, or "" when errors are hidden.
func (rd Renderer) Error(kind ErrorKind) string {
	if rd.HideErrors {
		return ""
	}
	key := LabelErrorDefault
	if kind == ErrNoData {
		key = LabelErrorNoData
	}
	return `<div class="sis-error">` + esc(rd.Labels.Text(key)) + `</div>`
}

// CacheUpdate renders the "last update" note for a cached result.
func (rd Renderer) CacheUpdate(capturedAt time.Time) string {
	loc := rd.Location
	if loc == nil {
		loc = time.UTC
	}
	return `<span class="sis-cache-update">` + esc(rd.Labels.Text(LabelLastUpdate)) + " " +
		capturedAt.In(loc).Format("02.01.2006 15:04") + `</span>`
}

func esc(s string) string {
	return html.EscapeString(s)
}

func classAttr(classes ...string) string {
	var kept []string
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return ` class="` + esc(strings.Join(kept, " ")) + `"`
}
