package services

// Renderer-neutral styled grid. Both report renderers lay their tables
// out as a Grid and then emit it to their own format, so header
// shading, borders and merges behave identically in the spreadsheet
// and the document.

// HeaderFillDefault is the light blue applied to header rows unless a
// caller picks its own color.
const HeaderFillDefault = "D9E2F3"

// GridCell is one styled cell. Zero value renders as an unstyled empty
// cell.
type GridCell struct {
	Text      string
	FillColor string
	FontColor string
	Bold      bool
	Center    bool
}

// GridMerge is a vertical merge of one column across a row range,
// inclusive on both ends.
type GridMerge struct {
	Col     int
	RowFrom int
	RowTo   int
}

// GridRect is a bordered rectangle, inclusive on all sides.
type GridRect struct {
	RowFrom, ColFrom int
	RowTo, ColTo     int
}

// Grid is a sequence of styled rows plus merge and border directives.
type Grid struct {
	Rows    [][]GridCell
	Merges  []GridMerge
	Borders []GridRect

	headerFill string
}

// NewGrid creates a grid whose first added row is styled as a header
// with the given fill ("" picks the default light blue).
func NewGrid(headerFill string) *Grid {
	if headerFill == "" {
		headerFill = HeaderFillDefault
	}
	return &Grid{headerFill: headerFill}
}

// AddRow appends a row of plain string cells. The first row of the
// grid is always header-styled (bold, colored fill) regardless of
// content; later rows are unstyled.
func (g *Grid) AddRow(values ...string) {
	row := make([]GridCell, len(values))
	header := len(g.Rows) == 0
	for i, v := range values {
		row[i] = GridCell{Text: v}
		if header {
			row[i].Bold = true
			row[i].FillColor = g.headerFill
			row[i].Center = true
		}
	}
	g.Rows = append(g.Rows, row)
}

// AddStyledRow appends a pre-built row, the escape hatch for rows that
// need per-cell styling. A styled first row still receives the header
// fill on cells that carry none of their own.
func (g *Grid) AddStyledRow(row []GridCell) {
	if len(g.Rows) == 0 {
		for i := range row {
			row[i].Bold = true
			if row[i].FillColor == "" {
				row[i].FillColor = g.headerFill
			}
		}
	}
	g.Rows = append(g.Rows, row)
}

// ApplyBorders marks a rectangle for thin borders, creating empty
// cells where the rectangle extends past existing rows or columns.
// Idempotent: re-applying the same rectangle changes nothing.
func (g *Grid) ApplyBorders(rowFrom, colFrom, rowTo, colTo int) {
	if rowTo < rowFrom || colTo < colFrom {
		return
	}
	for len(g.Rows) <= rowTo {
		g.Rows = append(g.Rows, nil)
	}
	for r := rowFrom; r <= rowTo; r++ {
		for len(g.Rows[r]) <= colTo {
			g.Rows[r] = append(g.Rows[r], GridCell{})
		}
	}
	rect := GridRect{RowFrom: rowFrom, ColFrom: colFrom, RowTo: rowTo, ColTo: colTo}
	for _, b := range g.Borders {
		if b == rect {
			return
		}
	}
	g.Borders = append(g.Borders, rect)
}

// MergeVertical merges one column across a row range and centers the
// anchor cell both ways. Single-row ranges are left alone.
func (g *Grid) MergeVertical(col, rowFrom, rowTo int) {
	if rowTo <= rowFrom {
		return
	}
	if rowFrom < len(g.Rows) && col < len(g.Rows[rowFrom]) {
		g.Rows[rowFrom][col].Center = true
	}
	g.Merges = append(g.Merges, GridMerge{Col: col, RowFrom: rowFrom, RowTo: rowTo})
}

// ColCount is the widest row's cell count.
func (g *Grid) ColCount() int {
	max := 0
	for _, row := range g.Rows {
		if len(row) > max {
			max = len(row)
		}
	}
	return max
}
