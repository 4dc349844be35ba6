package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/monitor"
	"github.com/Grabber66/sis-handball/internal/storage"
	"github.com/google/go-cmp/cmp"
)

func sampleResult() *DatasetResult {
	ds := league.Dataset{
		league.NewRow("", "1", "TV Musterstadt", "10/22", "8", "1", "1", "280:240", "40", "17:3"),
		league.NewRow("", "2", "HSG Beispiel", "10/22", "7", "1", "2", "270:250", "20", "15:5"),
	}
	return &DatasetResult{
		URL:       league.BuildURL(league.KindStandings, "1"),
		Type:      league.KindStandings,
		FetchedAt: time.Date(2016, time.March, 1, 12, 0, 0, 0, time.UTC),
		RowCount:  len(ds),
		Rows:      ds,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		allowICS bool
		wantErr  bool
	}{
		{"text", false, false},
		{"json", false, false},
		{"markdown", false, false},
		{"ics", true, false},
		{"ics", false, true},
		{"xml", true, true},
	}
	for _, tt := range tests {
		_, err := ParseFormat(tt.in, tt.allowICS)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q, %v) error = %v, wantErr %v", tt.in, tt.allowICS, err, tt.wantErr)
		}
	}
}

func TestWriteDatasetText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, sampleResult(), FormatText); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"TEAM", "TV Musterstadt", "HSG Beispiel", "17:3", "Total: 2 rows"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDatasetTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	result := sampleResult()
	result.Rows = nil
	if err := WriteDataset(&buf, result, FormatText); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	if buf.String() != "No rows found.\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteDatasetJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, sampleResult(), FormatJSON); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}

	var got DatasetResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.RowCount != 2 || got.Rows[1].At(league.StandingsTeam) != "HSG Beispiel" {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.CachedAt != nil {
		t.Error("live result should not carry cached_at")
	}
}

func TestWriteDatasetMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDataset(&buf, sampleResult(), FormatMarkdown); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"## SIS Handball standings", "Source: ", "TV Musterstadt", "|"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDatasetICS(t *testing.T) {
	next := league.NewRow("Sa", "", "12.03.16", "17:00", "TV Musterstadt", "HSG Beispiel")
	result := &DatasetResult{Type: league.KindNext, Rows: league.Dataset{next}, FetchedAt: time.Now()}

	var buf bytes.Buffer
	if err := WriteDataset(&buf, result, FormatICS); err != nil {
		t.Fatalf("WriteDataset() error = %v", err)
	}
	if !strings.Contains(buf.String(), "SUMMARY:TV Musterstadt - HSG Beispiel") {
		t.Errorf("ics output missing game:\n%s", buf.String())
	}
}

func TestDatasetTable(t *testing.T) {
	next := league.NewRow("Sa", "", "12.03.16", "17:00", "TV Musterstadt", "HSG Beispiel")
	next.Location = "Halle Nord"

	tests := []struct {
		name       string
		ds         league.Dataset
		kind       league.Kind
		wantHeader []string
		wantRows   [][]string
	}{
		{
			name:       "next adds location",
			ds:         league.Dataset{next},
			kind:       league.KindNext,
			wantHeader: []string{"Date", "Time", "Home", "Guest", "Location"},
			wantRows:   [][]string{{"12.03.16", "17:00", "TV Musterstadt", "HSG Beispiel", "Halle Nord"}},
		},
		{
			name:       "kind without layout shows raw positions",
			ds:         league.Dataset{league.NewRow("a", "", "c")},
			kind:       league.KindStats,
			wantHeader: []string{"1", "2", "3"},
			wantRows:   [][]string{{"a", "", "c"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, rows := datasetTable(tt.ds, tt.kind)
			if diff := cmp.Diff(tt.wantHeader, header); diff != "" {
				t.Errorf("header mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRows, rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriteSeries(t *testing.T) {
	series := &monitor.Series{Team: "TV Musterstadt", Chart: []monitor.Point{{Gameday: 1, Position: 4}, {Gameday: 2, Position: 3}}}

	for _, format := range []OutputFormat{FormatText, FormatJSON, FormatMarkdown} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteSeries(&buf, series, format); err != nil {
				t.Fatalf("WriteSeries() error = %v", err)
			}
			if !strings.Contains(buf.String(), "TV Musterstadt") {
				t.Errorf("output missing team:\n%s", buf.String())
			}
		})
	}

	var buf bytes.Buffer
	if err := WriteSeries(&buf, &monitor.Series{Team: "TV"}, FormatText); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No positions recorded for TV.\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestWriteReplacementsAndConditions(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReplacements(&buf, nil, FormatText); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "No name replacements.\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	conds := []storage.Condition{{ID: 3, ConcatenationID: 1, Payload: []byte(`{"league":"10","type":"next"}`)}}
	if err := WriteConditions(&buf, conds, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var got []struct {
		ID      int64             `json:"id"`
		Request map[string]string `json:"request"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].ID != 3 || got[0].Request["league"] != "10" {
		t.Errorf("unexpected conditions: %+v", got)
	}
}
