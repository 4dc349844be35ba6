package render

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/Grabber66/sis-handball/internal/league"
)

// HideTeam is the hide-column flag that folds home and guest of KindNext
// into a single opponent column.
const HideTeam = "hide-team"

// TableOptions controls how a dataset is rendered.
type TableOptions struct {
	League string
	Kind   league.Kind
	// HideCols holds 1-based column numbers to omit, and HideTeam.
	HideCols []string
	// Limit > 0 hides rows past the limit behind a show-more row.
	Limit int
	// Marked is the team to highlight.
	Marked string
	// Class is appended to the table classes.
	Class    string
	HideHead bool
}

func (o TableOptions) hidden(col string) bool {
	for _, h := range o.HideCols {
		if strings.TrimSpace(h) == col {
			return true
		}
	}
	return false
}

// column is one rendered column of a table kind.
type column struct {
	header string
	// attr returns extra td attributes.
	attr func(league.Row) string
	cell func(league.Row) string
}

// Table renders ds as the table of opts.Kind. An empty dataset or a kind
// without a table renders the no-data marker.
func (rd Renderer) Table(ds league.Dataset, opts TableOptions) string {
	if len(ds) == 0 {
		return rd.Error(ErrNoData)
	}

	var sb strings.Builder
	sb.WriteString(`<table` + classAttr("sis-handball-table", "sis-league-id-"+opts.League,
		"sis-handball-type-"+opts.Kind.String(), opts.Class) + `>`)

	switch opts.Kind {
	case league.KindStats:
		rd.writeStats(&sb, ds, opts)
	case league.KindTeam, league.KindGames, league.KindStandings, league.KindNext, league.KindClub:
		rd.writeRows(&sb, ds, opts, rd.columns(opts))
	default:
		return rd.Error(ErrNoData)
	}

	sb.WriteString(`</table>`)
	return sb.String()
}

func (rd Renderer) writeRows(sb *strings.Builder, ds league.Dataset, opts TableOptions, cols []column) {
	if !opts.HideHead {
		sb.WriteString(`<thead><tr>`)
		for _, c := range cols {
			sb.WriteString(`<th>` + esc(c.header) + `</th>`)
		}
		sb.WriteString(`</tr></thead>`)
	}

	sb.WriteString(`<tbody>`)
	more := len(ds) - opts.Limit
	for i, r := range ds {
		key := i + 1
		limitClass := ""
		if opts.Limit > 0 && key > opts.Limit {
			limitClass = "sis-limit-hidden"
		}

		sb.WriteString(`<tr` + classAttr(limitClass, rowClass(r, opts)) + `>`)
		for _, c := range cols {
			attr := ""
			if c.attr != nil {
				attr = c.attr(r)
			}
			sb.WriteString(`<td` + attr + `>` + c.cell(r) + `</td>`)
		}
		sb.WriteString(`</tr>`)

		if opts.Limit > 0 && key == opts.Limit && more >= 1 {
			sb.WriteString(rd.showMore(more, len(cols)))
		}
	}
	sb.WriteString(`</tbody>`)
}

func rowClass(r league.Row, opts TableOptions) string {
	if opts.Marked == "" {
		return ""
	}
	switch opts.Kind {
	case league.KindGames:
		g, _ := league.GameCellsFor(opts.Kind)
		if r.At(g.Home) == opts.Marked || r.At(g.Guest) == opts.Marked {
			return "sis-handball-marked-row"
		}
	case league.KindStandings:
		if r.At(league.StandingsTeam) == opts.Marked {
			return "marked"
		}
	}
	return ""
}

// showMore renders the row announcing n hidden rows.
func (rd Renderer) showMore(n, colspan int) string {
	sentence := rd.Labels.Text(LabelShowMorePlural)
	if n == 1 {
		sentence = rd.Labels.Text(LabelShowMoreSingular)
	}
	return `<tr class="show-more sis-limit-show-more"><td colspan="` + strconv.Itoa(colspan) + `">` +
		strconv.Itoa(n) + " " + esc(sentence) + `</td></tr>`
}

func (rd Renderer) columns(opts TableOptions) []column {
	layout := league.Layouts[opts.Kind]
	cols := make([]column, 0, len(layout)+1)

	for i, lc := range layout {
		if opts.hidden(strconv.Itoa(i + 1)) {
			continue
		}
		if opts.Kind == league.KindNext && lc.Team && opts.hidden(HideTeam) {
			continue
		}
		cols = append(cols, rd.layoutColumn(lc, opts))
	}

	if opts.Kind == league.KindNext {
		if opts.hidden(HideTeam) {
			cols = append(cols, rd.opponentColumn(opts))
		}
		if !opts.hidden(strconv.Itoa(len(layout) + 1)) {
			cols = append(cols, rd.mapColumn())
		}
	}
	return cols
}

func (rd Renderer) layoutColumn(lc league.Column, opts TableOptions) column {
	c := column{header: rd.Labels.Text(lc.Label)}
	switch {
	case lc.Weekday:
		c.cell = func(r league.Row) string {
			date := r.At(lc.Cell)
			if day := league.Weekday(date); day != "" {
				return esc(day + ". " + date)
			}
			return esc(date)
		}
	case lc.Team:
		c.cell = func(r league.Row) string { return rd.team(r.At(lc.Cell)) }
	default:
		c.cell = func(r league.Row) string { return esc(r.At(lc.Cell)) }
	}

	if lc.Team && opts.Marked != "" && (opts.Kind == league.KindTeam || opts.Kind == league.KindGames) {
		g, _ := league.GameCellsFor(opts.Kind)
		result := "2:0"
		if lc.Cell == g.Guest {
			result = "0:2"
		}
		c.attr = func(r league.Row) string {
			if r.At(lc.Cell) == opts.Marked && r.At(g.Points) == result {
				return ` class="marked-winner"`
			}
			return ""
		}
	}
	return c
}

func (rd Renderer) opponentColumn(opts TableOptions) column {
	g, _ := league.GameCellsFor(league.KindNext)
	return column{
		header: rd.Labels.Text("Opponent"),
		cell: func(r league.Row) string {
			if r.At(g.Home) == opts.Marked {
				return rd.team(r.At(g.Guest))
			}
			return rd.team(r.At(g.Home))
		},
	}
}

const mapsURL = "https://maps.google.com/maps?q="

func (rd Renderer) mapColumn() column {
	return column{
		cell: func(r league.Row) string {
			if r.Location == "" {
				return ""
			}
			loc := esc(r.Location)
			return `<a title="` + loc + `" class="map-link" href="` + esc(mapsURL+mapsQuery(r.Location)) +
				`" target="_blank"><span class="map-icon"></span><span class="map-text">` +
				esc(rd.Labels.Text(LabelShowMap)) + `</span></a>`
		},
	}
}

func mapsQuery(location string) string {
	return url.QueryEscape(strings.TrimSpace(location))
}

func (rd Renderer) writeStats(sb *strings.Builder, ds league.Dataset, opts TableOptions) {
	if opts.Marked == "" {
		return
	}
	headers := []string{
		rd.Labels.Text("Position"),
		rd.Labels.Text("Games made"),
		rd.Labels.Text("Average goals made"),
		rd.Labels.Text("Average goals got"),
		rd.Labels.Text("W") + ":" + rd.Labels.Text("T") + ":" + rd.Labels.Text("L"),
	}

	for _, r := range ds {
		if r.At(league.StandingsTeam) != opts.Marked {
			continue
		}
		s := teamStats(r)
		values := []string{
			r.At(league.StandingsPosition),
			s.GamesText,
			strconv.Itoa(s.GoalsMade),
			strconv.Itoa(s.GoalsGot),
			r.At(league.StandingsWon) + ":" + r.At(league.StandingsTied) + ":" + r.At(league.StandingsLost),
		}

		if !opts.HideHead {
			sb.WriteString(`<thead><tr>`)
			for i, h := range headers {
				if !opts.hidden(strconv.Itoa(i + 1)) {
					sb.WriteString(`<th>` + esc(h) + `</th>`)
				}
			}
			sb.WriteString(`</tr></thead>`)
		}
		sb.WriteString(`<tbody><tr>`)
		for i, v := range values {
			if !opts.hidden(strconv.Itoa(i + 1)) {
				sb.WriteString(`<td>` + esc(v) + `</td>`)
			}
		}
		sb.WriteString(`</tr></tbody>`)
	}
}

// Stats are the per-game averages of one standings row.
type Stats struct {
	GamesText string
	Games     int
	GoalsMade int
	GoalsGot  int
}

func teamStats(r league.Row) Stats {
	s := Stats{GamesText: strings.SplitN(r.At(league.StandingsGames), "/", 2)[0]}
	s.Games = atoi(s.GamesText)
	if s.Games < 1 {
		return s
	}
	made, got, _ := strings.Cut(r.At(league.StandingsGoals), ":")
	s.GoalsMade = int(math.Round(float64(atoi(made)) / float64(s.Games)))
	s.GoalsGot = int(math.Round(float64(atoi(got)) / float64(s.Games)))
	return s
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
