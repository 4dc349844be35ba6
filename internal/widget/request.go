package widget

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Grabber66/sis-handball/internal/league"
)

// Request describes one rendered widget: which page to show and how.
type Request struct {
	League string      `json:"league"`
	Kind   league.Kind `json:"type"`
	// Team is the team tracked by KindChart.
	Team   string `json:"team,omitempty"`
	Marked string `json:"marked,omitempty"`
	// HideCols is a comma separated list of 1-based column numbers and
	// render.HideTeam.
	HideCols string `json:"hide_cols,omitempty"`
	// Limit is kept as text; non-numeric values mean no limit.
	Limit   string `json:"limit,omitempty"`
	Sorting string `json:"sorting,omitempty"`
	// Snapshot renders a saved dataset instead of live data.
	Snapshot string `json:"snapshot,omitempty"`
	// ConcatenationID selects the conditions of KindConcat.
	ConcatenationID int64 `json:"id,omitempty"`
	// AdditionalParams holds key:'value' pairs separated by "|".
	AdditionalParams string `json:"additional_params,omitempty"`
}

// RequestFromQuery reads a Request from URL query values using the same keys
// as the JSON form.
func RequestFromQuery(q url.Values) (Request, error) {
	r := Request{
		League:           strings.TrimSpace(q.Get("league")),
		Team:             q.Get("team"),
		Marked:           q.Get("marked"),
		HideCols:         q.Get("hide_cols"),
		Limit:            q.Get("limit"),
		Sorting:          q.Get("sorting"),
		Snapshot:         q.Get("snapshot"),
		AdditionalParams: q.Get("additional_params"),
	}
	r.Kind, _ = league.ParseKind(q.Get("type"))
	if id := q.Get("id"); id != "" {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return Request{}, fmt.Errorf("invalid concatenation id %q: %w", id, err)
		}
		r.ConcatenationID = n
	}
	return r, nil
}

// URL returns the upstream page of the request.
func (r Request) URL(b league.Builder) string {
	return b.Build(r.Kind, r.League)
}

// Params parses AdditionalParams.
func (r Request) Params() Params {
	return ParseAdditionalParams(r.AdditionalParams)
}

// LimitN returns the numeric limit, if any.
func (r Request) LimitN() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.Limit))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// HiddenColumns splits HideCols.
func (r Request) HiddenColumns() []string {
	if r.HideCols == "" {
		return nil
	}
	return strings.Split(r.HideCols, ",")
}

// Params are the additional parameters of a request.
type Params map[string]string

// ParseAdditionalParams parses "class:'big'|cache:'no-cache'". Keys are
// trimmed and quotes are removed from values. Pairs without a colon are
// ignored.
func ParseAdditionalParams(s string) Params {
	p := Params{}
	for _, pair := range strings.Split(s, "|") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		p[key] = strings.ReplaceAll(strings.TrimSpace(value), "'", "")
	}
	return p
}

// Class is the extra CSS class of the table.
func (p Params) Class() string {
	return p["class"]
}

// HideHead reports table_head:'hidden'.
func (p Params) HideHead() bool {
	return p["table_head"] == "hidden"
}

// NoCache reports cache:'no-cache'.
func (p Params) NoCache() bool {
	return p["cache"] == "no-cache"
}

// IgnoreNames reports ignore-team-replacement:'1'.
func (p Params) IgnoreNames() bool {
	return p["ignore-team-replacement"] == "1"
}
