package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"backend/models"

	docx "github.com/fumiama/go-docx"
)

// ErrTemplateUnavailable aborts a document render: without the
// pre-authored template there is nothing to fill in.
var ErrTemplateUnavailable = errors.New("report template unavailable")

// Scalar placeholders, replaced inside body paragraph runs.
const (
	phProjectName    = "{{PROJECT_NAME}}"
	phContractor     = "{{CONTRACTOR}}"
	phInspectionDate = "{{INSPECTION_DATE}}"
	phCustomer       = "{{CUSTOMER}}"
	phAddress        = "{{ADDRESS}}"
	phPreparedBy     = "{{PREPARED_BY}}"
	phEquipmentList  = "{{EQUIPMENT_LIST}}"
	phReportDate     = "{{REPORT_DATE}}"
)

// Block placeholders, each replacing its whole paragraph with
// generated tables or lists.
const (
	phComparisonTable     = "{{EQUIPMENT_COMPARISON_TABLE}}"
	phExecutiveDashboard  = "{{EXECUTIVE_DASHBOARD_TABLE}}"
	phMaintenanceRecords  = "{{MAINTENANCE_RECORDS_TABLE}}"
	phPassengerComfort    = "{{PASSENGER_COMFORT_TABLE}}"
	phCarDoorOperation    = "{{CAR_DOOR_OPERATION_TABLE}}"
	phComfortParameters   = "{{PASSENGER_COMFORT_PARAMETERS_TABLE}}"
	phCarInteriorTables   = "{{CAR_INTERIOR_TABLES}}"
	phFloorLevellingPivot = "{{FLOOR_LEVELLING_PIVOT}}"
	phLandingSignalPivot  = "{{LANDING_SIGNALISATION_PIVOT}}"
	phDefectiveItems      = "{{DEFECTIVE_ITEMS_TABLE}}"
	phOwnerItems          = "{{OWNER_ITEMS}}"
	phHousekeepingItems   = "{{HOUSEKEEPING_ITEMS}}"
	phSafetyDeviceItems   = "{{SAFETY_DEVICE_ITEMS}}"
	phSafetyRiskItems     = "{{SAFETY_RISK_ITEMS}}"
	phReliabilityItems    = "{{RELIABILITY_ITEMS}}"
	phComfortItems        = "{{PASSENGER_COMFORT_ITEMS}}"
	phComplianceItems     = "{{COMPLIANCE_ITEMS}}"
	phSustainabilityItems = "{{SUSTAINABILITY_ITEMS}}"
)

const reportDateLayout = "02-Jan-2006"

// DocumentRenderer fills the audit-report template from the assembled
// project model. It holds only the collaborators it actually uses: the
// template reader and the image embedder.
type DocumentRenderer struct {
	Embedder     *ImageEmbedder
	ReadTemplate func() ([]byte, error)

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

// Render parses the template, substitutes every placeholder and
// serializes the finished document.
func (r *DocumentRenderer) Render(ctx context.Context, model *models.ProjectReport, catalog []models.ChecklistItem, currentUser string) ([]byte, error) {
	tpl, err := r.ReadTemplate()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}
	if len(tpl) == 0 {
		return nil, fmt.Errorf("%w: template is empty", ErrTemplateUnavailable)
	}

	doc, err := docx.Parse(bytes.NewReader(tpl), int64(len(tpl)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}

	scalars := r.scalarValues(model, currentUser)
	blocks := map[string]func(){
		phComparisonTable:     func() { buildComparisonTable(doc, model) },
		phExecutiveDashboard:  func() { buildManualTable(doc, "Review Area", executiveDashboardAreas, model) },
		phMaintenanceRecords:  func() { buildManualTable(doc, "Maintenance Record", maintenanceRecordRows, model) },
		phPassengerComfort:    func() { buildManualTable(doc, "Comfort Aspect", passengerComfortAreas, model) },
		phCarDoorOperation:    func() { buildParameterTable(doc, carDoorParameters, model) },
		phComfortParameters:   func() { buildParameterTable(doc, comfortParameters, model) },
		phCarInteriorTables:   func() { buildCarInteriorTables(doc, model) },
		phFloorLevellingPivot: func() { buildLevellingPivot(doc, model) },
		phLandingSignalPivot:  func() { buildSignalisationPivot(doc, model) },
		phDefectiveItems:      func() { r.buildDefectiveItemsTable(ctx, doc, model, catalog) },
		phOwnerItems:          func() { buildCategoryBullets(doc, model, catalog, "owner") },
		phHousekeepingItems:   func() { buildCategoryBullets(doc, model, catalog, "housekeeping") },
		phSafetyDeviceItems:   func() { buildCategoryBullets(doc, model, catalog, "safety-devices") },
		phSafetyRiskItems:     func() { buildCategoryBullets(doc, model, catalog, "safety-risk") },
		phReliabilityItems:    func() { buildCategoryBullets(doc, model, catalog, "reliability", "outage-risk") },
		phComfortItems:        func() { buildCategoryBullets(doc, model, catalog, "passenger-comfort") },
		phComplianceItems:     func() { buildCategoryBullets(doc, model, catalog, "compliance") },
		phSustainabilityItems: func() { buildCategoryBullets(doc, model, catalog, "sustainability") },
	}

	original := append([]interface{}(nil), doc.Document.Body.Items...)
	out := make([]interface{}, 0, len(original))
	for _, item := range original {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			out = append(out, item)
			continue
		}
		token := strings.TrimSpace(paragraphText(para))
		if build, isBlock := blocks[token]; isBlock {
			out = append(out, capture(doc, build)...)
			continue
		}
		replaceScalars(para, scalars)
		out = append(out, item)
	}
	doc.Document.Body.Items = out

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %v", err)
	}
	return buf.Bytes(), nil
}

func (r *DocumentRenderer) scalarValues(model *models.ProjectReport, currentUser string) map[string]string {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	inspectionDate := ""
	if !model.InspectionDate.IsZero() {
		inspectionDate = model.InspectionDate.Format(reportDateLayout)
	}
	return map[string]string{
		phProjectName:    model.Name,
		phContractor:     model.Contractor,
		phInspectionDate: inspectionDate,
		phCustomer:       model.AccountName,
		phAddress:        model.Address.Text(),
		phPreparedBy:     currentUser,
		phEquipmentList:  model.EquipmentNames(),
		phReportDate:     now().Format(reportDateLayout),
	}
}

// capture runs a builder and returns the body items it appended,
// removing them from the tail so the caller can splice them in at the
// placeholder's position.
func capture(doc *docx.Docx, build func()) []interface{} {
	start := len(doc.Document.Body.Items)
	build()
	added := append([]interface{}(nil), doc.Document.Body.Items[start:]...)
	doc.Document.Body.Items = doc.Document.Body.Items[:start]
	return added
}

func paragraphText(p *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				sb.WriteString(t.Text)
			}
		}
	}
	return sb.String()
}

func replaceScalars(p *docx.Paragraph, scalars map[string]string) {
	for _, child := range p.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			t, ok := rc.(*docx.Text)
			if !ok {
				continue
			}
			for token, value := range scalars {
				if strings.Contains(t.Text, token) {
					t.Text = strings.ReplaceAll(t.Text, token, value)
				}
			}
		}
	}
}

// emitDocxGrid materializes a grid as a document table. Header shading
// is applied at run level; merges are a spreadsheet concern and are
// ignored here.
func emitDocxGrid(doc *docx.Docx, grid *Grid) {
	rows := len(grid.Rows)
	cols := grid.ColCount()
	if rows == 0 || cols == 0 {
		return
	}

	tbl := doc.AddTable(rows, cols, 0, nil)
	for r, row := range grid.Rows {
		for c := 0; c < cols; c++ {
			var cell GridCell
			if c < len(row) {
				cell = row[c]
			}
			para := tbl.TableRows[r].TableCells[c].AddParagraph()
			if cell.Center {
				para.Justification("center")
			}
			if cell.Text == "" {
				continue
			}
			run := para.AddText(cell.Text)
			if cell.Bold {
				run.Bold()
			}
			if cell.FontColor != "" && cell.FontColor != fontBlack {
				run.Color(cell.FontColor)
			}
			if cell.FillColor != "" {
				run.Shade("clear", "auto", cell.FillColor)
			}
		}
	}
}

// Fixed attribute rows of the equipment comparison table.
func buildComparisonTable(doc *docx.Docx, model *models.ProjectReport) {
	header := append([]string{"Attribute"}, equipmentNames(model)...)
	grid := NewGrid("")
	grid.AddRow(header...)

	type attrRow struct {
		label string
		value func(eq *models.EquipmentReport) string
	}
	rows := []attrRow{
		{"Load (kg)", func(eq *models.EquipmentReport) string { return strconv.Itoa(eq.Load) }},
		{"Speed (m/s)", func(eq *models.EquipmentReport) string { return fmt.Sprintf("%.2f", eq.Speed) }},
		{"Floors Served (Front/Rear)", func(eq *models.EquipmentReport) string {
			return fmt.Sprintf("%d/%d", eq.FloorsServedFront, eq.FloorsServedRear)
		}},
		{"Install Date", func(eq *models.EquipmentReport) string { return eq.Attributes.Attr("lift", "install_date") }},
		{"OEM", func(eq *models.EquipmentReport) string { return eq.Attributes.Attr("lift", "oem") }},
		{"Maintenance Provider", func(eq *models.EquipmentReport) string { return eq.Attributes.Attr("maintenance", "provider") }},
		{"Roping / Hoist Size", func(eq *models.EquipmentReport) string { return eq.Attributes.Attr("lift", "roping_hoist_size") }},
		{"Drive System", func(eq *models.EquipmentReport) string { return eq.Attributes.Attr("lift", "drive_system") }},
	}

	for _, row := range rows {
		cells := []string{row.label}
		for i := range model.Equipment {
			cells = append(cells, row.value(&model.Equipment[i]))
		}
		grid.AddRow(cells...)
	}
	grid.ApplyBorders(0, 0, len(grid.Rows)-1, grid.ColCount()-1)
	emitDocxGrid(doc, grid)
}

// Review areas and record rows for the manual-completion tables. Data
// cells stay blank on purpose: the engineer fills them in by hand.
var (
	executiveDashboardAreas = []string{
		"Statutory Compliance",
		"Safety Devices",
		"Reliability / Outage Risk",
		"Maintenance Quality",
		"Housekeeping",
		"Passenger Comfort",
		"Sustainability",
	}
	maintenanceRecordRows = []string{
		"Log Book Up To Date",
		"Service Schedule Followed",
		"Callback Records Available",
		"Maintenance Contract Scope",
	}
	passengerComfortAreas = []string{
		"Ride Quality",
		"In-Car Noise",
		"Ventilation",
		"Door Operation",
	}
)

func buildManualTable(doc *docx.Docx, firstHeader string, labels []string, model *models.ProjectReport) {
	grid := NewGrid("")
	grid.AddRow(append([]string{firstHeader}, equipmentNames(model)...)...)
	for _, label := range labels {
		cells := make([]string, 1+len(model.Equipment))
		cells[0] = label
		grid.AddRow(cells...)
	}
	grid.ApplyBorders(0, 0, len(grid.Rows)-1, grid.ColCount()-1)
	emitDocxGrid(doc, grid)
}

// Standard/target acceptance ranges annotated per parameter; the
// per-equipment measurement cells stay blank for manual entry.
type parameterRow struct {
	Parameter string
	Target    string
}

var (
	carDoorParameters = []parameterRow{
		{"Door Opening Time (s)", "1.8 - 3.0"},
		{"Door Closing Time (s)", "2.5 - 4.0"},
		{"Door Dwell Time (s)", "3.0 - 5.0"},
		{"Door Protection", "Full-height light curtain"},
	}
	comfortParameters = []parameterRow{
		{"Maximum Acceleration (m/s²)", "1.0 - 1.2"},
		{"Maximum Jerk (m/s³)", "1.2 - 1.5"},
		{"Horizontal Vibration (milli-g)", "< 15"},
		{"Vertical Vibration (milli-g)", "< 20"},
		{"In-Car Noise (dBA)", "< 55"},
	}
)

func buildParameterTable(doc *docx.Docx, params []parameterRow, model *models.ProjectReport) {
	grid := NewGrid("")
	grid.AddRow(append([]string{"Parameter", "Acceptance Range"}, equipmentNames(model)...)...)
	for _, p := range params {
		cells := make([]string, 2+len(model.Equipment))
		cells[0] = p.Parameter
		cells[1] = p.Target
		grid.AddRow(cells...)
	}
	grid.ApplyBorders(0, 0, len(grid.Rows)-1, grid.ColCount()-1)
	emitDocxGrid(doc, grid)
}

// buildCarInteriorTables emits one sub-table per equipment: each
// interior attribute's installed type plus the status of the checklist
// item the lookup table binds it to. Attributes without a binding get
// a blank status.
func buildCarInteriorTables(doc *docx.Docx, model *models.ProjectReport) {
	for i := range model.Equipment {
		eq := &model.Equipment[i]
		doc.AddParagraph().AddText(eq.Name).Bold()

		grid := NewGrid("")
		grid.AddRow("Attribute", "Type", "Status")
		for _, attr := range CarInteriorAttributes {
			key, label := attr[0], attr[1]
			statusCell := GridCell{Center: true}
			if id, ok := InteriorChecklistID(key, eq.Category); ok {
				style := DescribeStatus(eq.Answer(id).Status)
				statusCell.Text = style.Label
				statusCell.FillColor = style.FillColor
				statusCell.FontColor = style.FontColor
			}
			grid.AddStyledRow([]GridCell{
				{Text: label},
				{Text: eq.Attributes.Attr("car_interior", key)},
				statusCell,
			})
		}
		grid.ApplyBorders(0, 0, len(grid.Rows)-1, grid.ColCount()-1)
		emitDocxGrid(doc, grid)
	}
}

// buildLevellingPivot emits the floor-levelling pivot: one shared row
// per floor designation across all equipment, one status-glyph column
// per unit.
func buildLevellingPivot(doc *docx.Docx, model *models.ProjectReport) {
	grid := NewGrid("")
	grid.AddRow(append([]string{"Floor"}, equipmentNames(model)...)...)

	for _, designation := range FloorDesignationAxis(model) {
		row := []GridCell{{Text: designation}}
		for i := range model.Equipment {
			row = append(row, glyphCell(model.Equipment[i].FloorByDesignation(designation), func(f *models.Floor) string {
				return f.Levelling
			}))
		}
		grid.AddStyledRow(row)
	}
	grid.ApplyBorders(0, 0, len(grid.Rows)-1, grid.ColCount()-1)
	emitDocxGrid(doc, grid)
}

// buildSignalisationPivot emits the landing-signalisation pivot with
// three sub-columns (buttons, indicator, chime) per equipment on the
// same shared floor axis.
func buildSignalisationPivot(doc *docx.Docx, model *models.ProjectReport) {
	grid := NewGrid("")

	top := []GridCell{{Text: "Floor"}}
	sub := []GridCell{{}}
	for i := range model.Equipment {
		top = append(top, GridCell{Text: model.Equipment[i].Name, Center: true}, GridCell{}, GridCell{})
		sub = append(sub,
			GridCell{Text: "Buttons", Bold: true, FillColor: HeaderFillDefault, Center: true},
			GridCell{Text: "Indicator", Bold: true, FillColor: HeaderFillDefault, Center: true},
			GridCell{Text: "Chime", Bold: true, FillColor: HeaderFillDefault, Center: true},
		)
	}
	grid.AddStyledRow(top)
	grid.AddStyledRow(sub)

	for _, designation := range FloorDesignationAxis(model) {
		row := []GridCell{{Text: designation}}
		for i := range model.Equipment {
			floor := model.Equipment[i].FloorByDesignation(designation)
			row = append(row,
				glyphCell(floor, func(f *models.Floor) string { return f.CallButton }),
				glyphCell(floor, func(f *models.Floor) string { return f.Indication }),
				glyphCell(floor, func(f *models.Floor) string { return f.Chime }),
			)
		}
		grid.AddStyledRow(row)
	}
	grid.ApplyBorders(0, 0, len(grid.Rows)-1, grid.ColCount()-1)
	emitDocxGrid(doc, grid)
}

// glyphCell renders one pivot cell: blank when the unit does not serve
// the floor, otherwise the colored status glyph.
func glyphCell(floor *models.Floor, field func(*models.Floor) string) GridCell {
	if floor == nil {
		return GridCell{Center: true}
	}
	glyph, color := StatusGlyph(models.ParseStatusCode(field(floor)))
	return GridCell{Text: glyph, FontColor: color, Center: true}
}

// buildDefectiveItemsTable emits the defective-items table directly
// (not through the grid): the finding cell mixes comment text with
// embedded evidence images, which a plain grid cell cannot carry.
func (r *DocumentRenderer) buildDefectiveItemsTable(ctx context.Context, doc *docx.Docx, model *models.ProjectReport, catalog []models.ChecklistItem) {
	items := CollectDefectiveItems(model, catalog)
	if len(items) == 0 {
		doc.AddParagraph().AddText("No priority findings were recorded.").Italic()
		return
	}

	tbl := doc.AddTable(len(items)+1, 3, 0, nil)
	for c, title := range []string{"Equipment", "Finding", "Completion Details"} {
		p := tbl.TableRows[0].TableCells[c].AddParagraph().Justification("center")
		p.AddText(title).Bold().Shade("clear", "auto", HeaderFillDefault)
	}

	for i, item := range items {
		row := tbl.TableRows[i+1]
		row.TableCells[0].AddParagraph().AddText(item.Equipment.Name)

		finding := row.TableCells[1]
		if item.Answer.Comment != "" {
			finding.AddParagraph().AddText(item.Answer.Comment)
		}
		for _, block := range r.Embedder.EmbedAll(ctx, item.Attachments) {
			p := finding.AddParagraph()
			if block.OK() {
				if _, err := p.AddInlineDrawing(block.Data); err != nil {
					p.AddText(fmt.Sprintf("[Image: embed failed - %v]", err)).Italic().Color("FF0000")
				}
			} else {
				p.AddText(block.Fallback).Italic().Color("FF0000")
			}
		}

		// completion details cell stays blank for manual sign-off
		row.TableCells[2].AddParagraph()
	}
}

// buildCategoryBullets emits the narrative bullet list for one
// category set: per equipment, a bold name heading followed by one
// bullet per commented checklist item. Units without qualifying
// comments are skipped entirely, heading included.
func buildCategoryBullets(doc *docx.Docx, model *models.ProjectReport, catalog []models.ChecklistItem, categories ...string) {
	for i := range model.Equipment {
		eq := &model.Equipment[i]
		var comments []string
		for _, item := range ItemsForCategories(catalog, eq.Category, categories...) {
			if c := eq.Answer(item.ID).Comment; c != "" {
				comments = append(comments, c)
			}
		}
		if len(comments) == 0 {
			continue
		}
		doc.AddParagraph().AddText(eq.Name).Bold()
		for _, c := range comments {
			doc.AddParagraph().AddText("• " + c)
		}
	}
}

// DefaultTemplate builds the skeleton audit template: section headings
// with every placeholder on its own paragraph. Report authors download
// this, restyle it, and point REPORT_TEMPLATE_PATH at the result.
func DefaultTemplate() ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph().Justification("center")
	title.AddText("Lift Audit Report").Size("36").Bold()
	doc.AddParagraph().AddText("Project: " + phProjectName)
	doc.AddParagraph().AddText("Customer: " + phCustomer)
	doc.AddParagraph().AddText("Address: " + phAddress)
	doc.AddParagraph().AddText("Contractor: " + phContractor)
	doc.AddParagraph().AddText("Equipment: " + phEquipmentList)
	doc.AddParagraph().AddText("Inspection Date: " + phInspectionDate)
	doc.AddParagraph().AddText("Prepared By: " + phPreparedBy)
	doc.AddParagraph().AddText("Report Date: " + phReportDate)

	sections := []struct {
		heading string
		token   string
	}{
		{"Equipment Comparison", phComparisonTable},
		{"Executive Dashboard", phExecutiveDashboard},
		{"Maintenance Records", phMaintenanceRecords},
		{"Passenger Comfort Review", phPassengerComfort},
		{"Car Door Operation", phCarDoorOperation},
		{"Passenger Comfort Parameters", phComfortParameters},
		{"Car Interior", phCarInteriorTables},
		{"Floor Levelling", phFloorLevellingPivot},
		{"Landing Signalisation", phLandingSignalPivot},
		{"Defective Items", phDefectiveItems},
		{"Owner Items", phOwnerItems},
		{"Housekeeping", phHousekeepingItems},
		{"Safety Devices", phSafetyDeviceItems},
		{"Safety Risks", phSafetyRiskItems},
		{"Reliability and Outage Risk", phReliabilityItems},
		{"Passenger Comfort Findings", phComfortItems},
		{"Compliance", phComplianceItems},
		{"Sustainability", phSustainabilityItems},
	}
	for _, s := range sections {
		doc.AddParagraph().AddText(s.heading).Size("28").Bold()
		doc.AddParagraph().AddText(s.token)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to build default template: %v", err)
	}
	return buf.Bytes(), nil
}

func equipmentNames(model *models.ProjectReport) []string {
	names := make([]string, 0, len(model.Equipment))
	for i := range model.Equipment {
		names = append(names, model.Equipment[i].Name)
	}
	return names
}
