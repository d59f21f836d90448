package services

import (
	"fmt"
	"strconv"

	"backend/models"

	"github.com/xuri/excelize/v2"
)

const (
	// Hard ceiling the xlsx format imposes on sheet names.
	sheetNameLimit = 31

	// The inspection-items table always starts at this row, leaving
	// the header blocks and three blank rows above it.
	inspectionTableStartRow = 14
)

// Fixed column widths of the inspection sheets, in character units.
var inspectionColWidths = map[string]float64{
	"A": 25,
	"B": 50,
	"C": 20,
	"D": 50,
}

// RenderSpreadsheet produces the inspection workbook: one worksheet
// per equipment unit, or a single "Project Info" sheet when the
// project has no equipment.
func RenderSpreadsheet(model *models.ProjectReport, catalog []models.ChecklistItem) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	em := newExcelEmitter(f)

	if len(model.Equipment) == 0 {
		sheet := "Project Info"
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, err
		}
		if err := writeSheetHeader(em, sheet, model, nil); err != nil {
			return nil, err
		}
	} else {
		used := make(map[string]bool)
		for i := range model.Equipment {
			eq := &model.Equipment[i]
			sheet := sheetTitle(eq.Name, used)
			if i == 0 {
				if err := f.SetSheetName("Sheet1", sheet); err != nil {
					return nil, err
				}
			} else {
				if _, err := f.NewSheet(sheet); err != nil {
					return nil, err
				}
			}

			if err := writeSheetHeader(em, sheet, model, eq); err != nil {
				return nil, err
			}
			grid := buildInspectionGrid(eq, catalog)
			if err := em.emitGrid(sheet, grid, inspectionTableStartRow, 1); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %v", err)
	}
	return buf.Bytes(), nil
}

// buildInspectionGrid lays out the per-equipment inspection table:
// header row, then one row per checklist item grouped by the canonical
// location order, with the location column merged per group and the
// populated rectangle bordered.
func buildInspectionGrid(eq *models.EquipmentReport, catalog []models.ChecklistItem) *Grid {
	grid := NewGrid("")
	grid.AddRow("Location", "Inspection Item", "Status", "Comment")

	rowIdx := 1
	for _, loc := range models.InspectionLocations {
		items := ItemsForLocation(catalog, eq.Category, loc)
		if len(items) == 0 {
			continue
		}
		groupStart := rowIdx
		for _, item := range items {
			answer := eq.Answer(item.ID)
			style := DescribeStatus(answer.Status)
			locText := ""
			if rowIdx == groupStart {
				locText = DisplayLocation(loc)
			}
			grid.AddStyledRow([]GridCell{
				{Text: locText},
				{Text: item.Title},
				{Text: style.Label, FillColor: style.FillColor, FontColor: style.FontColor, Center: true},
				{Text: answer.Comment},
			})
			rowIdx++
		}
		grid.MergeVertical(0, groupStart, rowIdx-1)
	}

	grid.ApplyBorders(0, 0, rowIdx-1, 3)
	return grid
}

// writeSheetHeader writes the project block (rows 1-4) and, when an
// equipment unit is present, the equipment block (rows 5-10), then the
// fixed column widths.
func writeSheetHeader(em *excelEmitter, sheet string, model *models.ProjectReport, eq *models.EquipmentReport) error {
	rows := [][2]string{
		{"Project Name", model.Name},
		{"Project Type", model.Category},
		{"Address", model.Address.Text()},
		{"Customer", model.AccountName},
	}
	if eq != nil {
		rows = append(rows, [][2]string{
			{"Equipment", eq.Name},
			{"Load (kg)", strconv.Itoa(eq.Load)},
			{"Speed (m/s)", fmt.Sprintf("%.2f", eq.Speed)},
			{"Floors Served", fmt.Sprintf("%d/%d", eq.FloorsServedFront, eq.FloorsServedRear)},
			{"Install Date", eq.Attributes.Attr("lift", "install_date")},
			{"Maintenance Provider", eq.Attributes.Attr("maintenance", "provider")},
		}...)
	}

	for i, pair := range rows {
		row := i + 1
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := em.f.SetCellValue(sheet, labelCell, pair[0]); err != nil {
			return err
		}
		if err := em.f.SetCellValue(sheet, valueCell, pair[1]); err != nil {
			return err
		}
		labelStyle, err := em.styleID(GridCell{Bold: true, Center: true}, false)
		if err != nil {
			return err
		}
		valueStyle, err := em.styleID(GridCell{Center: true}, false)
		if err != nil {
			return err
		}
		if err := em.f.SetCellStyle(sheet, labelCell, labelCell, labelStyle); err != nil {
			return err
		}
		if err := em.f.SetCellStyle(sheet, valueCell, valueCell, valueStyle); err != nil {
			return err
		}
	}

	for col, width := range inspectionColWidths {
		if err := em.f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

// sheetTitle clamps an equipment name to the sheet-name limit and
// de-duplicates collisions with a numeric suffix.
func sheetTitle(name string, used map[string]bool) string {
	if name == "" {
		name = "Equipment"
	}
	runes := []rune(name)
	if len(runes) > sheetNameLimit {
		runes = runes[:sheetNameLimit]
	}
	title := string(runes)
	for n := 2; used[title]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		base := runes
		if len(base)+len(suffix) > sheetNameLimit {
			base = base[:sheetNameLimit-len(suffix)]
		}
		title = string(base) + suffix
	}
	used[title] = true
	return title
}

// excelEmitter writes grids onto worksheets, caching excelize style
// ids so identical cells share one style.
type excelEmitter struct {
	f      *excelize.File
	styles map[excelStyleKey]int
}

type excelStyleKey struct {
	fill     string
	font     string
	bold     bool
	center   bool
	bordered bool
}

func newExcelEmitter(f *excelize.File) *excelEmitter {
	return &excelEmitter{f: f, styles: make(map[excelStyleKey]int)}
}

func (em *excelEmitter) styleID(c GridCell, bordered bool) (int, error) {
	key := excelStyleKey{fill: c.FillColor, font: c.FontColor, bold: c.Bold, center: c.Center, bordered: bordered}
	if id, ok := em.styles[key]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Font: &excelize.Font{Bold: c.Bold},
	}
	if c.FontColor != "" {
		style.Font.Color = c.FontColor
	}
	if c.FillColor != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{c.FillColor}, Pattern: 1}
	}
	if c.Center {
		style.Alignment = &excelize.Alignment{Horizontal: "center", Vertical: "center"}
	}
	if bordered {
		style.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	}

	id, err := em.f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	em.styles[key] = id
	return id, nil
}

// emitGrid writes a grid onto a sheet with its top-left cell at
// (startRow, startCol), one-based.
func (em *excelEmitter) emitGrid(sheet string, grid *Grid, startRow, startCol int) error {
	bordered := func(r, c int) bool {
		for _, rect := range grid.Borders {
			if r >= rect.RowFrom && r <= rect.RowTo && c >= rect.ColFrom && c <= rect.ColTo {
				return true
			}
		}
		return false
	}

	for r, row := range grid.Rows {
		for c, cell := range row {
			name, err := excelize.CoordinatesToCellName(startCol+c, startRow+r)
			if err != nil {
				return err
			}
			if cell.Text != "" {
				if err := em.f.SetCellValue(sheet, name, cell.Text); err != nil {
					return err
				}
			}
			id, err := em.styleID(cell, bordered(r, c))
			if err != nil {
				return err
			}
			if err := em.f.SetCellStyle(sheet, name, name, id); err != nil {
				return err
			}
		}
	}

	for _, m := range grid.Merges {
		from, err := excelize.CoordinatesToCellName(startCol+m.Col, startRow+m.RowFrom)
		if err != nil {
			return err
		}
		to, err := excelize.CoordinatesToCellName(startCol+m.Col, startRow+m.RowTo)
		if err != nil {
			return err
		}
		if err := em.f.MergeCell(sheet, from, to); err != nil {
			return err
		}
	}

	return nil
}
