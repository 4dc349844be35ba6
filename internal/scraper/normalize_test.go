package scraper

import (
	"testing"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  []RawRow
		kind league.Kind
		want league.Dataset
	}{
		{
			name: "short rows are dropped and empty cells keep positions",
			raw: []RawRow{
				{Index: 0, Cells: []string{"", "1", "TV Musterstadt", "10/22"}},
				{Index: 1, Cells: []string{"a", "b", "c"}},
			},
			kind: league.KindStandings,
			want: league.Dataset{
				{Cells: []league.Cell{{Col: 1, Text: "1"}, {Col: 2, Text: "TV Musterstadt"}, {Col: 3, Text: "10/22"}}, Width: 4},
			},
		},
		{
			name: "venue row attaches to the preceding game",
			raw: []RawRow{
				{Index: 0, Cells: []string{"Sa", "", "12.03.16", "17:00", "Heim", "Gast"}},
				{Index: 1, Cells: []string{"", "", "Sporthalle Am Ring, Musterstadt"}},
				{Index: 2, Cells: []string{"So", "", "13.03.16", "15:00", "Heim2", "Gast2"}},
				{Index: 3, Cells: []string{"", "", "kurz"}},
			},
			kind: league.KindNext,
			want: league.Dataset{
				{
					Cells:    []league.Cell{{Col: 0, Text: "Sa"}, {Col: 2, Text: "12.03.16"}, {Col: 3, Text: "17:00"}, {Col: 4, Text: "Heim"}, {Col: 5, Text: "Gast"}},
					Width:    6,
					Location: "Sporthalle Am Ring, Musterstadt",
				},
				{
					Cells: []league.Cell{{Col: 0, Text: "So"}, {Col: 2, Text: "13.03.16"}, {Col: 3, Text: "15:00"}, {Col: 4, Text: "Heim2"}, {Col: 5, Text: "Gast2"}},
					Width: 6,
				},
			},
		},
		{
			name: "venue before any game starts a location-only row",
			raw: []RawRow{
				{Index: 1, Cells: []string{"", "", "Sporthalle Am Ring, Musterstadt"}},
				{Index: 2, Cells: []string{"So", "", "13.03.16", "15:00", "Heim", "Gast"}},
			},
			kind: league.KindNext,
			want: league.Dataset{
				{Location: "Sporthalle Am Ring, Musterstadt"},
				{
					Cells: []league.Cell{{Col: 0, Text: "So"}, {Col: 2, Text: "13.03.16"}, {Col: 3, Text: "15:00"}, {Col: 4, Text: "Heim"}, {Col: 5, Text: "Gast"}},
					Width: 6,
				},
			},
		},
		{
			name: "venue rows are ignored outside next",
			raw: []RawRow{
				{Index: 0, Cells: []string{"Sa", "", "12.03.16", "17:00", "Heim", "Gast"}},
				{Index: 1, Cells: []string{"", "", "Sporthalle Am Ring, Musterstadt"}},
			},
			kind: league.KindTeam,
			want: league.Dataset{
				{
					Cells: []league.Cell{{Col: 0, Text: "Sa"}, {Col: 2, Text: "12.03.16"}, {Col: 3, Text: "17:00"}, {Col: 4, Text: "Heim"}, {Col: 5, Text: "Gast"}},
					Width: 6,
				},
			},
		},
		{
			name: "venue at an even index is ignored",
			raw: []RawRow{
				{Index: 0, Cells: []string{"Sa", "", "12.03.16", "17:00", "Heim", "Gast"}},
				{Index: 2, Cells: []string{"", "", "Sporthalle Am Ring, Musterstadt"}},
			},
			kind: league.KindNext,
			want: league.Dataset{
				{
					Cells: []league.Cell{{Col: 0, Text: "Sa"}, {Col: 2, Text: "12.03.16"}, {Col: 3, Text: "17:00"}, {Col: 4, Text: "Heim"}, {Col: 5, Text: "Gast"}},
					Width: 6,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw, tt.kind)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeDatasetIsIdempotent(t *testing.T) {
	raw := []RawRow{
		{Index: 1, Cells: []string{"", "", "Sporthalle Am Ring, Musterstadt"}},
		{Index: 2, Cells: []string{"So", "", "13.03.16", "15:00", "Heim", "Gast"}},
		{Index: 3, Cells: []string{"", "", "Halle West, Beispielheim"}},
		{Index: 4, Cells: []string{"a", "", "", ""}},
		{Index: 5, Cells: []string{"x", "y"}},
	}

	once := Normalize(raw, league.KindNext)
	twice := NormalizeDataset(once)
	if diff := cmp.Diff(once, twice, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("normalizing twice changed the dataset (-once +twice):\n%s", diff)
	}
	if diff := cmp.Diff(twice, NormalizeDataset(twice), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("NormalizeDataset is not idempotent:\n%s", diff)
	}
}

func TestNormalizeDatasetDropsJunk(t *testing.T) {
	in := league.Dataset{
		{Cells: []league.Cell{{Col: 0, Text: "a"}, {Col: 1, Text: ""}}, Width: 2},
		{Cells: []league.Cell{{Col: 0, Text: "a"}, {Col: 4, Text: ""}}, Width: 5},
	}
	got := NormalizeDataset(in)
	want := league.Dataset{{Cells: []league.Cell{{Col: 0, Text: "a"}}, Width: 5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeDataset() mismatch (-want +got):\n%s", diff)
	}
}
