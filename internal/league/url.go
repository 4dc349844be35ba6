package league

import "net/url"

// DefaultBaseURL is the upstream page all league views are served from.
const DefaultBaseURL = "https://www.sis-handball.de/default.aspx"

// view is the upstream view name plus the query parameter carrying the id.
type view struct {
	Name    string
	IDParam string
}

var views = map[Kind]view{
	KindTeam:      {Name: "Mannschaft", IDParam: "Liga"},
	KindNext:      {Name: "Mannschaft", IDParam: "Liga"},
	KindConcat:    {Name: "Mannschaft", IDParam: "Liga"},
	KindGames:     {Name: "AlleSpiele", IDParam: "Liga"},
	KindStandings: {Name: "Tabelle", IDParam: "Liga"},
	KindChart:     {Name: "Tabelle", IDParam: "Liga"},
	KindStats:     {Name: "Tabelle", IDParam: "Liga"},
	KindClub:      {Name: "Gesamtspielplan", IDParam: "Verein"},
}

// Builder builds upstream URLs against a configurable base.
type Builder struct {
	Base string
}

// BuildURL builds the URL for kind and id against DefaultBaseURL.
func BuildURL(kind Kind, id string) string {
	return Builder{}.Build(kind, id)
}

// Build returns the upstream URL for a league (or club) id.
// It never fails: an unknown kind yields "<base>?view=" directly followed by the id.
func (b Builder) Build(kind Kind, id string) string {
	base := b.Base
	if base == "" {
		base = DefaultBaseURL
	}
	prefix := base + "?view="

	v, ok := views[kind]
	if !ok {
		return prefix + id
	}
	return prefix + v.Name + "&" + v.IDParam + "=" + url.QueryEscape(id)
}

// ViewName returns the upstream view name for kind, or "" when unknown.
func ViewName(kind Kind) string {
	return views[kind].Name
}
