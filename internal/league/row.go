package league

import "strings"

// Cell is one non-empty cell of a row. Col is the cell's position in the
// upstream row, so dropping empty cells never shifts the meaning of a column.
type Cell struct {
	Col  int    `json:"col"`
	Text string `json:"text"`
}

// Row is one normalized table row.
type Row struct {
	Cells []Cell `json:"cells"`
	// Width is the number of cells the upstream row had, empty ones included.
	Width int `json:"width,omitempty"`
	// Location is the venue of a game. Only rows of KindNext carry it.
	Location string `json:"location,omitempty"`
}

// Dataset is an ordered list of normalized rows.
type Dataset []Row

// NewRow builds a row from cell texts in upstream order, keeping empty cells
// out while preserving their positions.
func NewRow(texts ...string) Row {
	r := Row{Cells: make([]Cell, 0, len(texts)), Width: len(texts)}
	for i, text := range texts {
		if text == "" {
			continue
		}
		r.Cells = append(r.Cells, Cell{Col: i, Text: text})
	}
	return r
}

// At returns the text of the cell at upstream position col, or "".
func (r Row) At(col int) string {
	for _, c := range r.Cells {
		if c.Col == col {
			return c.Text
		}
	}
	return ""
}

// Len returns the number of kept cells.
func (r Row) Len() int {
	return len(r.Cells)
}

// Texts returns the kept cell texts in order.
func (r Row) Texts() []string {
	texts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		texts[i] = c.Text
	}
	return texts
}

// Contains reports whether any cell equals text exactly.
func (r Row) Contains(text string) bool {
	for _, c := range r.Cells {
		if c.Text == text {
			return true
		}
	}
	return false
}

// String joins the kept cells for log output.
func (r Row) String() string {
	return strings.Join(r.Texts(), " | ")
}

// Reversed returns a copy of d in reverse order.
func (d Dataset) Reversed() Dataset {
	out := make(Dataset, len(d))
	for i, r := range d {
		out[len(d)-1-i] = r
	}
	return out
}

// Head returns at most n rows from the start of d.
func (d Dataset) Head(n int) Dataset {
	if n < 0 || n >= len(d) {
		return d
	}
	return d[:n]
}
