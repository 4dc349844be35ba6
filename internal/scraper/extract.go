package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/Grabber66/sis-handball/internal/league"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// TableSelector matches the result tables of every league view.
	TableSelector = `[class="table-responsive"] > table`
	// MinRowText is the shortest row text that is not a spacer.
	MinRowText = 10
)

// RawRow is one table row as found upstream.
type RawRow struct {
	// Index is the row's position inside its table section.
	Index int
	Cells []string
}

// Extract collects the data rows of the result tables kind reads from.
// KindNext reads the second table, KindTeam the first and every other kind
// (including the empty kind used for position tracking) reads all of them.
func Extract(doc *goquery.Document, kind league.Kind) ([]RawRow, error) {
	tables := doc.Find(TableSelector)
	if tables.Length() == 0 {
		return nil, ErrNoMatch
	}

	switch kind {
	case league.KindNext:
		tables = tables.Eq(1)
	case league.KindTeam:
		tables = tables.Eq(0)
	}
	if tables.Length() == 0 {
		return nil, ErrNoMatch
	}

	var rows []RawRow
	tables.Each(func(_ int, table *goquery.Selection) {
		rows = append(rows, tableRows(table)...)
	})
	return rows, nil
}

// tableRows skips the table's first row (the header) and spacer rows.
func tableRows(table *goquery.Selection) []RawRow {
	var rows []RawRow
	header := true

	table.ChildrenFiltered("thead, tbody, tfoot").Each(func(_ int, section *goquery.Selection) {
		section.ChildrenFiltered("tr").Each(func(i int, tr *goquery.Selection) {
			if header {
				header = false
				return
			}
			if utf8.RuneCountInString(tr.Text()) < MinRowText {
				return
			}
			cells := dataCells(tr.Nodes[0])
			if len(cells) == 0 {
				return
			}
			rows = append(rows, RawRow{Index: i, Cells: cells})
		})
	})
	return rows
}

// dataCells returns the trimmed text of the td children of tr.
func dataCells(tr *html.Node) []string {
	var cells []string
	for n := tr.FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.ElementNode || n.DataAtom != atom.Td {
			continue
		}
		cells = append(cells, strings.TrimSpace(nodeText(n)))
	}
	return cells
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
