package league

import "strings"

// Kind selects which upstream page is fetched and how its rows are laid out.
type Kind string

const (
	KindTeam      Kind = "team"
	KindNext      Kind = "next"
	KindGames     Kind = "games"
	KindStandings Kind = "standings"
	KindChart     Kind = "chart"
	KindStats     Kind = "stats"
	KindClub      Kind = "club"
	KindConcat    Kind = "concat"
)

// Kinds lists every supported kind in display order.
var Kinds = []Kind{KindTeam, KindNext, KindGames, KindStandings, KindChart, KindStats, KindClub, KindConcat}

// ParseKind maps a user supplied name onto a Kind. Unknown names are returned
// as-is with ok set to false so callers can still build a (degenerate) URL.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, true
		}
	}
	return k, false
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// IsGameList reports whether rows of this kind describe individual games.
func (k Kind) IsGameList() bool {
	switch k {
	case KindTeam, KindNext, KindGames, KindClub:
		return true
	}
	return false
}
