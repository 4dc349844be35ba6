package render

import (
	"strings"

	"github.com/Grabber66/sis-handball/internal/league"
)

// Concatenation renders the next-games overview built from the first next
// game of several teams. Rows without cells are skipped; no rows at all
// renders the no-data marker.
func (rd Renderer) Concatenation(rows []league.Row, class string) string {
	if len(rows) == 0 {
		return rd.Error(ErrNoData)
	}
	g, _ := league.GameCellsFor(league.KindNext)

	var sb strings.Builder
	sb.WriteString(`<table` + classAttr("sis-handball-table", "sis-handball-next-games-overview",
		"sis-handball-type-"+league.KindNext.String(), class) + `>`)
	sb.WriteString(`<thead><tr>`)
	for _, h := range []string{"Date", "Time", "Home", "Guest"} {
		sb.WriteString(`<th>` + esc(rd.Labels.Text(h)) + `</th>`)
	}
	sb.WriteString(`</tr></thead><tbody>`)

	for _, r := range rows {
		if r.Len() == 0 {
			continue
		}
		sb.WriteString(`<tr>`)
		sb.WriteString(`<td>` + esc(r.At(g.Date)) + `</td>`)
		sb.WriteString(`<td>` + esc(r.At(g.Time)) + `</td>`)
		sb.WriteString(`<td>` + rd.team(r.At(g.Home)) + `</td>`)
		sb.WriteString(`<td>` + rd.team(r.At(g.Guest)) + `</td>`)
		sb.WriteString(`</tr>`)
	}
	sb.WriteString(`</tbody></table>`)
	return sb.String()
}
