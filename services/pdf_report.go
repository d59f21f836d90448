package services

import (
	"bytes"
	"fmt"
	"time"

	"backend/models"

	"github.com/jung-kurt/gofpdf"
)

// RenderDefectSummaryPDF produces the condensed one-page-per-project
// defect summary: every priority finding with its location, status and
// comment, grouped by equipment. A lighter companion to the full audit
// document for site handover meetings.
func RenderDefectSummaryPDF(model *models.ProjectReport, catalog []models.ChecklistItem, userName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFillColor(0, 0, 0)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(190, 12, "Defect Summary", "1", 1, "C", true, 0, "")
	pdf.SetFillColor(255, 255, 255)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, fmt.Sprintf("Project: %s", model.Name))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(190, 6, fmt.Sprintf("Customer: %s", model.AccountName))
	pdf.Ln(4)
	pdf.Cell(190, 6, fmt.Sprintf("Generated by: %s", userName))
	pdf.Ln(4)
	pdf.Cell(190, 6, fmt.Sprintf("Generated on: %s", time.Now().Format("2006-01-02 15:04:05")))
	pdf.Ln(10)

	items := CollectDefectiveItems(model, catalog)
	if len(items) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(190, 8, "No priority findings were recorded.")
	} else {
		pdf.SetFillColor(200, 220, 240)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(40, 8, "Equipment", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 8, "Location", "1", 0, "C", true, 0, "")
		pdf.CellFormat(55, 8, "Inspection Item", "1", 0, "C", true, 0, "")
		pdf.CellFormat(22, 8, "Status", "1", 0, "C", true, 0, "")
		pdf.CellFormat(43, 8, "Comment", "1", 1, "C", true, 0, "")
		pdf.SetFillColor(255, 255, 255)

		pdf.SetFont("Arial", "", 8)
		for _, item := range items {
			style := DescribeStatus(item.Answer.Status)
			statusFill := item.Answer.Status == models.StatusPriority1
			if statusFill {
				pdf.SetFillColor(255, 200, 200)
			}
			pdf.CellFormat(40, 7, item.Equipment.Name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 7, DisplayLocation(item.Item.Location), "1", 0, "L", false, 0, "")
			pdf.CellFormat(55, 7, item.Item.Title, "1", 0, "L", false, 0, "")
			pdf.CellFormat(22, 7, style.Label, "1", 0, "C", statusFill, 0, "")
			pdf.CellFormat(43, 7, item.Answer.Comment, "1", 1, "L", false, 0, "")
			if statusFill {
				pdf.SetFillColor(255, 255, 255)
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render defect summary PDF: %v", err)
	}
	return buf.Bytes(), nil
}
