package league

import (
	"strings"
	"time"
)

// Migration describes one move of the upstream site. Monitoring records
// captured on or before Cutover were stored under the URLs in Bases.
type Migration struct {
	Cutover time.Time
	// Bases maps an upstream view name to the old page that served it.
	Bases map[string]string
}

// Migrations is the ordered list of known upstream moves.
var Migrations = []Migration{
	{
		// 2017-06-08 08:20 UTC
		Cutover: time.Unix(1496910000, 0).UTC(),
		Bases: map[string]string{
			"Mannschaft": "http://sis-handball.de/web/Mannschaft/",
			"AlleSpiele": "http://sis-handball.de/web/AlleSpiele/",
			"Tabelle":    "http://sis-handball.de/web/Tabelle/",
		},
	},
}

// LegacyURL rewrites current into the URL the given migration's old site used.
// Only the first parameter after the view is carried over. ok is false when
// the URL has no view or the view has no legacy page.
func (m Migration) LegacyURL(current string) (string, bool) {
	_, rest, found := strings.Cut(current, "view=")
	if !found {
		return "", false
	}
	parts := strings.Split(rest, "&")
	base, ok := m.Bases[parts[0]]
	if !ok {
		return "", false
	}
	param := ""
	if len(parts) > 1 {
		param = parts[1]
	}
	return base + "?view=" + parts[0] + "&" + param, true
}

// LegacyURL applies the most recent migration to current.
func LegacyURL(current string) (string, bool) {
	if len(Migrations) == 0 {
		return "", false
	}
	return Migrations[len(Migrations)-1].LegacyURL(current)
}
