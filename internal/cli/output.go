package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Grabber66/sis-handball/internal/calendar"
	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/Grabber66/sis-handball/internal/monitor"
	"github.com/Grabber66/sis-handball/internal/storage"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/markdown"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatMarkdown OutputFormat = "markdown"
	FormatICS      OutputFormat = "ics"
)

// ParseFormat validates a --format value. ICS is only valid when allowICS is set.
func ParseFormat(s string, allowICS bool) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case FormatICS:
		if allowICS {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format: %s", s)
}

// DatasetResult contains a dataset to be output
type DatasetResult struct {
	URL       string         `json:"url"`
	Type      league.Kind    `json:"type"`
	FetchedAt time.Time      `json:"fetched_at"`
	CachedAt  *time.Time     `json:"cached_at,omitempty"`
	RowCount  int            `json:"row_count"`
	Rows      league.Dataset `json:"rows"`
}

// WriteDataset writes the result in the specified format
func WriteDataset(w io.Writer, result *DatasetResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeDatasetText(w, result)
	case FormatMarkdown:
		return writeDatasetMarkdown(w, result)
	case FormatICS:
		games := calendar.Games(result.Rows, result.Type, nil)
		_, err := io.WriteString(w, calendar.GenerateICS(games, calendar.Options{
			Name: "SIS Handball " + result.Type.String(),
			Now:  result.FetchedAt,
		}))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeDatasetText(w io.Writer, result *DatasetResult) error {
	if len(result.Rows) == 0 {
		fmt.Fprintln(w, "No rows found.")
		return nil
	}
	header, rows := datasetTable(result.Rows, result.Type)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(toTableRow(header))
	for _, r := range rows {
		t.AppendRow(toTableRow(r))
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintf(w, "\nTotal: %d rows", len(result.Rows))
	if result.CachedAt != nil {
		fmt.Fprintf(w, " (cached %s)", result.CachedAt.Format("02.01.2006 15:04"))
	}
	fmt.Fprintln(w)
	return nil
}

func writeDatasetMarkdown(w io.Writer, result *DatasetResult) error {
	md := markdown.NewMarkdown(w)
	md.H2("SIS Handball " + result.Type.String())
	md.PlainText("")
	md.PlainText("Source: " + result.URL)
	md.PlainText("")

	if len(result.Rows) == 0 {
		md.PlainText("No rows found.")
		return md.Build()
	}
	header, rows := datasetTable(result.Rows, result.Type)
	md.Table(markdown.TableSet{Header: header, Rows: rows})
	return md.Build()
}

// datasetTable lays ds out in the columns of kind. Kinds without a layout
// show every upstream cell position.
func datasetTable(ds league.Dataset, kind league.Kind) ([]string, [][]string) {
	layout, ok := league.Layouts[kind]
	if !ok {
		layout = rawLayout(ds)
	}

	header := make([]string, len(layout))
	for i, c := range layout {
		header[i] = c.Label
	}

	rows := make([][]string, 0, len(ds))
	for _, r := range ds {
		cells := make([]string, len(layout))
		for i, c := range layout {
			cells[i] = r.At(c.Cell)
		}
		if kind == league.KindNext {
			cells = append(cells, r.Location)
		}
		rows = append(rows, cells)
	}
	if kind == league.KindNext {
		header = append(header, "Location")
	}
	return header, rows
}

func rawLayout(ds league.Dataset) []league.Column {
	width := 0
	for _, r := range ds {
		for _, c := range r.Cells {
			if c.Col+1 > width {
				width = c.Col + 1
			}
		}
	}
	layout := make([]league.Column, width)
	for i := range layout {
		layout[i] = league.Column{Label: strconv.Itoa(i + 1), Cell: i}
	}
	return layout
}

func toTableRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// WriteSeries writes a position series in the specified format
func WriteSeries(w io.Writer, series *monitor.Series, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, series)
	case FormatText:
		if len(series.Chart) == 0 {
			fmt.Fprintf(w, "No positions recorded for %s.\n", series.Team)
			return nil
		}
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetTitle(series.Team)
		t.AppendHeader(table.Row{"Gameday", "Position"})
		for _, p := range series.Chart {
			t.AppendRow(table.Row{p.Gameday, p.Position})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	case FormatMarkdown:
		md := markdown.NewMarkdown(w)
		md.H2("Position per gameday for: " + series.Team)
		md.PlainText("")
		rows := make([][]string, 0, len(series.Chart))
		for _, p := range series.Chart {
			rows = append(rows, []string{strconv.Itoa(p.Gameday), strconv.Itoa(p.Position)})
		}
		md.Table(markdown.TableSet{Header: []string{"Gameday", "Position"}, Rows: rows})
		return md.Build()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteReplacements lists display-name overrides.
func WriteReplacements(w io.Writer, rs []storage.Replacement, format OutputFormat) error {
	if format == FormatJSON {
		return writeJSON(w, rs)
	}
	if len(rs) == 0 {
		fmt.Fprintln(w, "No name replacements.")
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Source", "Replace"})
	for _, r := range rs {
		t.AppendRow(table.Row{r.ID, r.Source, r.Replace})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}

// conditionView is the readable form of a stored concatenation condition.
type conditionView struct {
	ID      int64           `json:"id"`
	Request json.RawMessage `json:"request"`
}

// WriteConditions lists the conditions of a concatenation.
func WriteConditions(w io.Writer, conds []storage.Condition, format OutputFormat) error {
	if format == FormatJSON {
		views := make([]conditionView, 0, len(conds))
		for _, c := range conds {
			views = append(views, conditionView{ID: c.ID, Request: json.RawMessage(c.Payload)})
		}
		return writeJSON(w, views)
	}
	if len(conds) == 0 {
		fmt.Fprintln(w, "No conditions.")
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Request"})
	for _, c := range conds {
		t.AppendRow(table.Row{c.ID, string(c.Payload)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
