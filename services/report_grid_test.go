package services

import "testing"

func TestGridFirstRowIsHeader(t *testing.T) {
	g := NewGrid("")
	g.AddRow("Location", "Item")
	g.AddRow("Lift Pit", "Pit clean")

	for i, cell := range g.Rows[0] {
		if !cell.Bold || !cell.Center || cell.FillColor != HeaderFillDefault {
			t.Errorf("header cell %d not header-styled: %+v", i, cell)
		}
	}
	for i, cell := range g.Rows[1] {
		if cell.Bold || cell.FillColor != "" {
			t.Errorf("body cell %d should be unstyled: %+v", i, cell)
		}
	}
}

func TestGridCustomHeaderFill(t *testing.T) {
	g := NewGrid("ABCDEF")
	g.AddRow("a")
	if got := g.Rows[0][0].FillColor; got != "ABCDEF" {
		t.Errorf("header fill = %q, want ABCDEF", got)
	}
}

func TestAddStyledRowKeepsExplicitFill(t *testing.T) {
	g := NewGrid("")
	g.AddStyledRow([]GridCell{
		{Text: "plain"},
		{Text: "colored", FillColor: "FF0000"},
	})
	if g.Rows[0][0].FillColor != HeaderFillDefault {
		t.Errorf("unset fill on header row should take the header fill, got %q", g.Rows[0][0].FillColor)
	}
	if g.Rows[0][1].FillColor != "FF0000" {
		t.Errorf("explicit fill must survive header styling, got %q", g.Rows[0][1].FillColor)
	}
	if !g.Rows[0][0].Bold || !g.Rows[0][1].Bold {
		t.Error("header row cells should be bold")
	}
}

func TestApplyBordersCreatesMissingCells(t *testing.T) {
	g := NewGrid("")
	g.AddRow("only", "two")

	g.ApplyBorders(0, 0, 2, 3)

	if len(g.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(g.Rows))
	}
	for r, row := range g.Rows {
		if len(row) != 4 {
			t.Errorf("row %d has %d cells, want 4", r, len(row))
		}
	}
	if len(g.Borders) != 1 {
		t.Fatalf("borders = %d, want 1", len(g.Borders))
	}
	want := GridRect{RowFrom: 0, ColFrom: 0, RowTo: 2, ColTo: 3}
	if g.Borders[0] != want {
		t.Errorf("border rect = %+v, want %+v", g.Borders[0], want)
	}
}

func TestApplyBordersIdempotent(t *testing.T) {
	g := NewGrid("")
	g.AddRow("a", "b")
	g.ApplyBorders(0, 0, 0, 1)
	g.ApplyBorders(0, 0, 0, 1)
	if len(g.Borders) != 1 {
		t.Errorf("re-applying the same rectangle should not add a second entry, got %d", len(g.Borders))
	}
}

func TestApplyBordersRejectsInvertedRect(t *testing.T) {
	g := NewGrid("")
	g.ApplyBorders(2, 0, 1, 3)
	if len(g.Borders) != 0 || len(g.Rows) != 0 {
		t.Error("inverted rectangle should be ignored")
	}
}

func TestMergeVertical(t *testing.T) {
	g := NewGrid("")
	g.AddRow("h1", "h2")
	g.AddRow("Lift Pit", "item 1")
	g.AddRow("", "item 2")

	g.MergeVertical(0, 1, 2)

	if len(g.Merges) != 1 {
		t.Fatalf("merges = %d, want 1", len(g.Merges))
	}
	m := g.Merges[0]
	if m.Col != 0 || m.RowFrom != 1 || m.RowTo != 2 {
		t.Errorf("merge = %+v", m)
	}
	if !g.Rows[1][0].Center {
		t.Error("merge anchor should be centered")
	}
}

func TestMergeVerticalSingleRowNoop(t *testing.T) {
	g := NewGrid("")
	g.AddRow("h")
	g.AddRow("v")
	g.MergeVertical(0, 1, 1)
	if len(g.Merges) != 0 {
		t.Error("single-row range should not create a merge")
	}
}

func TestColCount(t *testing.T) {
	g := NewGrid("")
	if g.ColCount() != 0 {
		t.Error("empty grid should have zero columns")
	}
	g.AddRow("a")
	g.AddRow("a", "b", "c")
	g.AddRow("a", "b")
	if got := g.ColCount(); got != 3 {
		t.Errorf("ColCount() = %d, want 3", got)
	}
}
