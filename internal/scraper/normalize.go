package scraper

import (
	"unicode/utf8"

	"github.com/Grabber66/sis-handball/internal/league"
)

const (
	// minCells is the cell count a row must exceed to be kept.
	minCells = 3
	// locationCell holds the venue in the second row of a next-games pair.
	locationCell = 2
	minLocation  = 10
)

// Normalize turns raw rows into a dataset. Rows with minCells or fewer cells
// are dropped and empty cells are removed from kept rows.
//
// For KindNext, a row at an odd index whose third cell is longer than ten
// characters carries the venue of the game kept just before it. When no row
// has been kept yet, a location-only row is started.
func Normalize(raw []RawRow, kind league.Kind) league.Dataset {
	ds := make(league.Dataset, 0, len(raw))
	for _, r := range raw {
		if kind == league.KindNext && r.Index%2 != 0 &&
			len(r.Cells) > locationCell && utf8.RuneCountInString(r.Cells[locationCell]) > minLocation {
			if len(ds) == 0 {
				ds = append(ds, league.Row{})
			}
			ds[len(ds)-1].Location = r.Cells[locationCell]
		}

		if len(r.Cells) > minCells {
			ds = append(ds, league.NewRow(r.Cells...))
		}
	}
	return ds
}

// NormalizeDataset re-applies the normalization rules to an existing dataset,
// for example one loaded from a snapshot. A normalized dataset comes back unchanged.
func NormalizeDataset(ds league.Dataset) league.Dataset {
	out := make(league.Dataset, 0, len(ds))
	for _, r := range ds {
		cells := make([]league.Cell, 0, len(r.Cells))
		for _, c := range r.Cells {
			if c.Text != "" {
				cells = append(cells, c)
			}
		}
		if r.Width <= minCells && r.Location == "" {
			continue
		}
		out = append(out, league.Row{Cells: cells, Width: r.Width, Location: r.Location})
	}
	return out
}
