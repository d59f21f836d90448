package services

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"backend/models"

	docx "github.com/fumiama/go-docx"
)

func failingFetch(containerID, blobName string) ([]byte, error) {
	return nil, fs.ErrNotExist
}

func docxTestRenderer(t *testing.T) *DocumentRenderer {
	t.Helper()
	return &DocumentRenderer{
		Embedder:     NewImageEmbedder(failingFetch, 2),
		ReadTemplate: DefaultTemplate,
		Now:          func() time.Time { return time.Date(2024, 3, 18, 10, 0, 0, 0, time.UTC) },
	}
}

func docxTestModel() *models.ProjectReport {
	return &models.ProjectReport{
		ProjectID:      7,
		Name:           "Harbour Towers",
		Category:       "audit",
		Contractor:     "Vertical Transport Co",
		AccountName:    "Harbour Body Corporate",
		InspectionDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		Address:        models.Address{Line1: "1 Quay St", City: "Auckland", Country: "NZ"},
		Equipment: []models.EquipmentReport{
			{
				EquipmentID: 1,
				Name:        "Lift 1",
				Category:    "passenger",
				Load:        1000,
				Speed:       1.75,
				Floors: []models.Floor{
					{Designation: "L1", Levelling: "pass", CallButton: "pass", Indication: "pass", Chime: "na"},
					{Designation: "L2", Levelling: "priority2"},
				},
				Answers: map[string]models.Answer{
					"chk-mr-housekeeping": {Status: models.StatusPass, Comment: "machine room needs sweeping"},
				},
			},
		},
	}
}

func docxTestCatalog() []models.ChecklistItem {
	return []models.ChecklistItem{
		{ID: "chk-mr-housekeeping", EquipmentType: "passenger", Title: "Machine room clean", Location: models.LocationMachineRoom, Category: "housekeeping", Order: 10},
		{ID: "chk-pit-oil", EquipmentType: "passenger", Title: "Pit free of oil", Location: models.LocationLiftPit, Category: "housekeeping", Order: 20},
	}
}

func parseDocx(t *testing.T, data []byte) *docx.Docx {
	t.Helper()
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func bodyParagraphTexts(doc *docx.Docx) []string {
	var out []string
	for _, item := range doc.Document.Body.Items {
		if para, ok := item.(*docx.Paragraph); ok {
			out = append(out, paragraphText(para))
		}
	}
	return out
}

func containsText(texts []string, want string) bool {
	for _, s := range texts {
		if s == want {
			return true
		}
	}
	return false
}

func TestDefaultTemplateCarriesPlaceholders(t *testing.T) {
	data, err := DefaultTemplate()
	if err != nil {
		t.Fatalf("DefaultTemplate: %v", err)
	}
	texts := bodyParagraphTexts(parseDocx(t, data))

	for _, want := range []string{
		"Lift Audit Report",
		"Project: {{PROJECT_NAME}}",
		"Report Date: {{REPORT_DATE}}",
		"{{EQUIPMENT_COMPARISON_TABLE}}",
		"{{DEFECTIVE_ITEMS_TABLE}}",
		"{{SUSTAINABILITY_ITEMS}}",
	} {
		if !containsText(texts, want) {
			t.Errorf("template is missing paragraph %q", want)
		}
	}
}

func TestRenderReplacesEveryPlaceholder(t *testing.T) {
	r := docxTestRenderer(t)
	out, err := r.Render(context.Background(), docxTestModel(), docxTestCatalog(), "Jordan Reid")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	texts := bodyParagraphTexts(parseDocx(t, out))
	for _, s := range texts {
		if strings.Contains(s, "{{") {
			t.Errorf("unreplaced placeholder left in paragraph %q", s)
		}
	}

	for _, want := range []string{
		"Project: Harbour Towers",
		"Customer: Harbour Body Corporate",
		"Address: 1 Quay St, Auckland, NZ",
		"Contractor: Vertical Transport Co",
		"Equipment: Lift 1",
		"Inspection Date: 05-Feb-2024",
		"Prepared By: Jordan Reid",
		"Report Date: 18-Mar-2024",
	} {
		if !containsText(texts, want) {
			t.Errorf("rendered document is missing paragraph %q", want)
		}
	}
}

func TestRenderNoDefectsParagraph(t *testing.T) {
	r := docxTestRenderer(t)
	out, err := r.Render(context.Background(), docxTestModel(), docxTestCatalog(), "Jordan Reid")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	texts := bodyParagraphTexts(parseDocx(t, out))
	if !containsText(texts, "No priority findings were recorded.") {
		t.Error("expected the no-findings paragraph when nothing is defective")
	}
}

func TestRenderCategoryBullets(t *testing.T) {
	model := docxTestModel()
	model.Equipment[0].Answers["chk-pit-oil"] = models.Answer{Status: models.StatusPass, Comment: "oil film on pit floor"}

	r := docxTestRenderer(t)
	out, err := r.Render(context.Background(), model, docxTestCatalog(), "Jordan Reid")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	texts := bodyParagraphTexts(parseDocx(t, out))
	for _, want := range []string{
		"• machine room needs sweeping",
		"• oil film on pit floor",
	} {
		if !containsText(texts, want) {
			t.Errorf("rendered document is missing bullet %q", want)
		}
	}
}

func TestRenderZeroEquipment(t *testing.T) {
	model := docxTestModel()
	model.Equipment = nil

	r := docxTestRenderer(t)
	out, err := r.Render(context.Background(), model, docxTestCatalog(), "Jordan Reid")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	texts := bodyParagraphTexts(parseDocx(t, out))
	if !containsText(texts, "Equipment: ") {
		t.Error("expected an empty equipment list line")
	}
}

func TestRenderTemplateUnavailable(t *testing.T) {
	cases := []struct {
		name string
		read func() ([]byte, error)
	}{
		{"read error", func() ([]byte, error) { return nil, errors.New("disk gone") }},
		{"empty template", func() ([]byte, error) { return nil, nil }},
		{"garbage bytes", func() ([]byte, error) { return []byte("not a docx archive"), nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := docxTestRenderer(t)
			r.ReadTemplate = tc.read
			_, err := r.Render(context.Background(), docxTestModel(), docxTestCatalog(), "Jordan Reid")
			if !errors.Is(err, ErrTemplateUnavailable) {
				t.Fatalf("got %v, want ErrTemplateUnavailable", err)
			}
		})
	}
}
