package services

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"backend/models"

	"github.com/xuri/excelize/v2"
)

func spreadsheetTestModel() *models.ProjectReport {
	return &models.ProjectReport{
		ProjectID:   1,
		Name:        "Harbour Towers",
		Category:    "Commercial",
		AccountName: "Harbour Towers Pte Ltd",
		Address: models.Address{
			Line1:      "10 Harbour Front",
			City:       "Singapore",
			PostalCode: "098633",
			Country:    "Singapore",
		},
		Equipment: []models.EquipmentReport{
			{
				EquipmentID:       1,
				Name:              "Passenger Lift 1",
				Category:          "passenger",
				Load:              1000,
				Speed:             1.75,
				FloorsServedFront: 12,
				Answers: map[string]models.Answer{
					"chk-pit-oil":   {Status: models.StatusPass},
					"chk-pit-light": {Status: models.StatusPriority1, Comment: "lamp out"},
				},
			},
		},
	}
}

func spreadsheetTestCatalog() []models.ChecklistItem {
	return []models.ChecklistItem{
		{ID: "chk-pit-oil", EquipmentType: "passenger", Title: "Pit free of oil", Location: "lift_pit", Order: 1},
		{ID: "chk-pit-light", EquipmentType: "passenger", Title: "Pit lighting works", Location: "lift_pit", Order: 2},
	}
}

func TestRenderSpreadsheetZeroEquipment(t *testing.T) {
	model := spreadsheetTestModel()
	model.Equipment = nil

	data, err := RenderSpreadsheet(model, nil)
	if err != nil {
		t.Fatalf("RenderSpreadsheet: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Project Info"}) {
		t.Errorf("sheets = %v, want [Project Info]", got)
	}
	name, err := f.GetCellValue("Project Info", "B1")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Harbour Towers" {
		t.Errorf("B1 = %q, want project name", name)
	}
}

func TestRenderSpreadsheetInspectionTable(t *testing.T) {
	data, err := RenderSpreadsheet(spreadsheetTestModel(), spreadsheetTestCatalog())
	if err != nil {
		t.Fatalf("RenderSpreadsheet: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheet := "Passenger Lift 1"
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{sheet}) {
		t.Fatalf("sheets = %v", got)
	}

	checks := map[string]string{
		"A1":  "Project Name",
		"B1":  "Harbour Towers",
		"B3":  "10 Harbour Front, Singapore, 098633, Singapore",
		"B5":  "Passenger Lift 1",
		"B6":  "1000",
		"B7":  "1.75",
		"B8":  "12/0",
		"A14": "Location",
		"B14": "Inspection Item",
		"C14": "Status",
		"D14": "Comment",
		"A15": "Lift Pit",
		"B15": "Pit free of oil",
		"C15": "Pass",
		"B16": "Pit lighting works",
		"C16": "Priority 1",
		"D16": "lamp out",
	}
	for cell, want := range checks {
		got, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	// Both lift pit rows share a merged location cell.
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, m := range merges {
		if m.GetStartAxis() == "A15" && m.GetEndAxis() == "A16" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected A15:A16 merge, got %v", merges)
	}

	width, err := f.GetColWidth(sheet, "B")
	if err != nil {
		t.Fatal(err)
	}
	if width != 50 {
		t.Errorf("column B width = %v, want 50", width)
	}
}

func TestSheetTitle(t *testing.T) {
	used := make(map[string]bool)
	long := strings.Repeat("x", 40)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Lift 1", "Lift 1"},
		{"clamped", long, strings.Repeat("x", 31)},
		{"collision", "Lift 1", "Lift 1 (2)"},
		{"second collision", "Lift 1", "Lift 1 (3)"},
		{"clamped collision", long, strings.Repeat("x", 27) + " (2)"},
		{"empty", "", "Equipment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sheetTitle(tt.in, used)
			if got != tt.want {
				t.Errorf("sheetTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len([]rune(got)) > sheetNameLimit {
				t.Errorf("title %q exceeds %d runes", got, sheetNameLimit)
			}
		})
	}
}
