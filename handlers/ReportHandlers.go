package handlers

import (
	"backend/models"
	"backend/repository"
	"backend/services"
	"backend/utils"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePDF  = "application/pdf"
)

// fetchReportModel serves the model from the TTL cache when present,
// otherwise assembles it and caches the result. Writes the HTTP error
// itself and reports ok=false on failure.
func fetchReportModel(c *gin.Context, repo *repository.ReportRepository, cache *services.ReportCache, projectID int) (*models.ProjectReport, bool) {
	if model, hit := cache.Get(projectID); hit {
		return model, true
	}

	model, err := repo.FetchProjectReport(c.Request.Context(), projectID)
	if errors.Is(err, repository.ErrProjectNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return nil, false
	}
	if err != nil {
		log.Printf("Error assembling report model for project %d: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assemble report data"})
		return nil, false
	}

	cache.Add(projectID, model)
	return model, true
}

// GenerateInspectionSpreadsheetHandler godoc
// @Summary      Generate inspection findings spreadsheet
// @Description  One worksheet per equipment unit; colored statuses grouped by location
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path      int  true  "Project ID"
// @Success      200  {file}    file  "XLSX workbook"
// @Failure      404  {object}  object
// @Router       /api/projects/{id}/reports/spreadsheet [get]
func GenerateInspectionSpreadsheetHandler(db *sql.DB, repo *repository.ReportRepository, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		projectID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		model, ok := fetchReportModel(c, repo, cache, projectID)
		if !ok {
			return
		}
		catalog, err := repo.FetchChecklistCatalog(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load checklist catalog"})
			return
		}

		data, err := services.RenderSpreadsheet(model, catalog)
		if err != nil {
			log.Printf("Error rendering spreadsheet for project %d: %v", projectID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render spreadsheet"})
			return
		}

		filename := fmt.Sprintf("Inspection Report %s.xlsx", utils.SanitizeFilename(model.Name))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, mimeXLSX, data)
	}
}

// GenerateAuditDocumentHandler godoc
// @Summary      Generate audit report document
// @Description  Fills the pre-authored DOCX template with assembled findings
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param        id   path      int  true  "Project ID"
// @Success      200  {file}    file  "DOCX document"
// @Failure      404  {object}  object
// @Failure      500  {object}  object
// @Router       /api/projects/{id}/reports/document [get]
func GenerateAuditDocumentHandler(db *sql.DB, repo *repository.ReportRepository, cache *services.ReportCache,
	renderer *services.DocumentRenderer, email *services.EmailService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, displayName, ok := requireSession(c, db)
		if !ok {
			return
		}
		projectID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		model, ok := fetchReportModel(c, repo, cache, projectID)
		if !ok {
			return
		}
		catalog, err := repo.FetchChecklistCatalog(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load checklist catalog"})
			return
		}

		data, err := renderer.Render(c.Request.Context(), model, catalog, displayName)
		if errors.Is(err, services.ErrTemplateUnavailable) {
			log.Printf("Audit document template unavailable: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Report template unavailable"})
			return
		}
		if err != nil {
			log.Printf("Error rendering audit document for project %d: %v", projectID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render document"})
			return
		}

		filename := fmt.Sprintf("Audit Report %s.docx", utils.SanitizeFilename(model.Name))

		if email.Enabled() && user.Email != "" {
			go func(to, project, report string) {
				if err := email.SendReportReady(to, project, report); err != nil {
					log.Printf("Failed to send report-ready email to %s: %v", to, err)
				}
			}(user.Email, model.Name, filename)
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, mimeDOCX, data)
	}
}

// GenerateDefectSummaryPDFHandler godoc
// @Summary      Generate defect summary PDF
// @Description  Flat table of priority findings across all equipment in the project
// @Tags         reports
// @Produce      application/pdf
// @Param        id   path      int  true  "Project ID"
// @Success      200  {file}    file  "PDF document"
// @Failure      404  {object}  object
// @Router       /api/projects/{id}/reports/defects [get]
func GenerateDefectSummaryPDFHandler(db *sql.DB, repo *repository.ReportRepository, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		_, displayName, ok := requireSession(c, db)
		if !ok {
			return
		}
		projectID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		model, ok := fetchReportModel(c, repo, cache, projectID)
		if !ok {
			return
		}
		catalog, err := repo.FetchChecklistCatalog(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load checklist catalog"})
			return
		}

		data, err := services.RenderDefectSummaryPDF(model, catalog, displayName)
		if err != nil {
			log.Printf("Error rendering defect summary for project %d: %v", projectID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render PDF"})
			return
		}

		filename := fmt.Sprintf("Defect Summary %s.pdf", utils.SanitizeFilename(model.Name))
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, mimePDF, data)
	}
}

// DownloadReportTemplateHandler godoc
// @Summary      Download the audit template skeleton
// @Description  Starting point for authoring a customized report template
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Success      200  {file}  file  "DOCX template"
// @Router       /api/reports/template [get]
func DownloadReportTemplateHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		data, err := services.DefaultTemplate()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build template"})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="audit_report_template.docx"`)
		c.Data(http.StatusOK, mimeDOCX, data)
	}
}
