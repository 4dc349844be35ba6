package cli

import (
	"testing"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/google/go-cmp/cmp"
)

func homes(ds league.Dataset, kind league.Kind) []string {
	cells, _ := league.GameCellsFor(kind)
	out := make([]string, len(ds))
	for i, r := range ds {
		out[i] = r.At(cells.Home)
	}
	return out
}

func TestSortDataset(t *testing.T) {
	games := league.Dataset{
		league.NewRow("", "19.03.16", "18:00", "SG Nord", "-", "HC West"),
		league.NewRow("", "", "", "Spielfrei", "-", "TV"),
		league.NewRow("", "12.03.16", "20:00", "TV Musterstadt", "-", "HSG Beispiel"),
		league.NewRow("", "12.03.16", "17:00", "HC West", "-", "SG Nord"),
	}

	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"upstream", SortUpstream, []string{"SG Nord", "Spielfrei", "TV Musterstadt", "HC West"}},
		{"desc", SortDesc, []string{"HC West", "TV Musterstadt", "Spielfrei", "SG Nord"}},
		{"date", SortByDate, []string{"HC West", "TV Musterstadt", "SG Nord", "Spielfrei"}},
		{"team", SortByTeam, []string{"HC West", "SG Nord", "Spielfrei", "TV Musterstadt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := homes(sortDataset(games, league.KindGames, tt.order), league.KindGames)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("sortDataset() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	// the input is never reordered in place
	if games[0].At(3) != "SG Nord" {
		t.Error("sortDataset modified its input")
	}
}

func TestSortDatasetStandingsByDate(t *testing.T) {
	ds := league.Dataset{league.NewRow("", "2", "B"), league.NewRow("", "1", "A")}
	if diff := cmp.Diff(ds, sortDataset(ds, league.KindStandings, SortByDate)); diff != "" {
		t.Errorf("standings should keep upstream order:\n%s", diff)
	}
	got := sortDataset(ds, league.KindStandings, SortByTeam)
	if got[0].At(league.StandingsTeam) != "A" {
		t.Errorf("standings by team = %v", got)
	}
}

func TestParseSortOrder(t *testing.T) {
	for _, in := range []string{"", "desc", "DATE", " team "} {
		if _, err := ParseSortOrder(in); err != nil {
			t.Errorf("ParseSortOrder(%q) error = %v", in, err)
		}
	}
	if _, err := ParseSortOrder("random"); err == nil {
		t.Error("expected error for unknown order")
	}
}
