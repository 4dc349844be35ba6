package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Grabber66/sis-handball/internal/league"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortUpstream SortOrder = ""
	SortDesc     SortOrder = "desc"
	SortByDate   SortOrder = "date"
	SortByTeam   SortOrder = "team"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortUpstream, SortDesc, SortByDate, SortByTeam:
		return o, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'desc', 'date' or 'team')", s)
}

// sortDataset returns ds in the given order. Date and team ordering only
// apply to game lists and standings; other kinds keep upstream order.
func sortDataset(ds league.Dataset, kind league.Kind, order SortOrder) league.Dataset {
	switch order {
	case SortDesc:
		return ds.Reversed()
	case SortByDate:
		cells, ok := league.GameCellsFor(kind)
		if !ok {
			return ds
		}
		out := append(league.Dataset(nil), ds...)
		sort.SliceStable(out, func(i, j int) bool {
			return compareByDate(out[i], out[j], cells)
		})
		return out
	case SortByTeam:
		col := league.StandingsTeam
		if cells, ok := league.GameCellsFor(kind); ok {
			col = cells.Home
		} else if kind != league.KindStandings && kind != league.KindStats {
			return ds
		}
		out := append(league.Dataset(nil), ds...)
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].At(col)) < strings.ToLower(out[j].At(col))
		})
		return out
	}
	return ds
}

// compareByDate compares two game rows by kick-off.
// Returns true if row i should come before row j
func compareByDate(i, j league.Row, cells league.GameCells) bool {
	clock := func(r league.Row) string {
		if cells.Time < 0 {
			return ""
		}
		return r.At(cells.Time)
	}
	dateI, okI := league.ParseGameTime(i.At(cells.Date), clock(i), nil)
	dateJ, okJ := league.ParseGameTime(j.At(cells.Date), clock(j), nil)

	// If both dates are valid, compare them
	if okI && okJ {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if okI {
		return true
	}
	return false
}
