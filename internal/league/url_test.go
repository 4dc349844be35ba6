package league

import (
	"strings"
	"testing"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		kind Kind
		id   string
		want string
	}{
		{KindTeam, "123", "https://www.sis-handball.de/default.aspx?view=Mannschaft&Liga=123"},
		{KindNext, "123", "https://www.sis-handball.de/default.aspx?view=Mannschaft&Liga=123"},
		{KindConcat, "123", "https://www.sis-handball.de/default.aspx?view=Mannschaft&Liga=123"},
		{KindGames, "77", "https://www.sis-handball.de/default.aspx?view=AlleSpiele&Liga=77"},
		{KindStandings, "9", "https://www.sis-handball.de/default.aspx?view=Tabelle&Liga=9"},
		{KindChart, "9", "https://www.sis-handball.de/default.aspx?view=Tabelle&Liga=9"},
		{KindStats, "9", "https://www.sis-handball.de/default.aspx?view=Tabelle&Liga=9"},
		{KindClub, "001", "https://www.sis-handball.de/default.aspx?view=Gesamtspielplan&Verein=001"},
		{Kind("bogus"), "5", "https://www.sis-handball.de/default.aspx?view=5"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got := BuildURL(tt.kind, tt.id)
			if got != tt.want {
				t.Errorf("BuildURL(%q, %q) = %q, want %q", tt.kind, tt.id, got, tt.want)
			}
			if again := BuildURL(tt.kind, tt.id); again != got {
				t.Errorf("BuildURL is not deterministic: %q != %q", again, got)
			}
		})
	}
}

func TestBuildURLViewToken(t *testing.T) {
	for _, kind := range Kinds {
		got := BuildURL(kind, "42")
		if !strings.Contains(got, "view="+ViewName(kind)) {
			t.Errorf("BuildURL(%q) = %q, missing view=%s", kind, got, ViewName(kind))
		}
	}
}

func TestBuilderCustomBase(t *testing.T) {
	b := Builder{Base: "http://127.0.0.1:8080/page"}
	got := b.Build(KindStandings, "1")
	want := "http://127.0.0.1:8080/page?view=Tabelle&Liga=1"
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in     string
		want   Kind
		wantOK bool
	}{
		{"standings", KindStandings, true},
		{" Next ", KindNext, true},
		{"CONCAT", KindConcat, true},
		{"ranking", Kind("ranking"), false},
		{"", Kind(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseKind(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseKind(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
