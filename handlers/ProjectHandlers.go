package handlers

import (
	"backend/models"
	"backend/services"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAccountsHandler godoc
// @Summary      List accounts
// @Tags         accounts
// @Produce      json
// @Success      200  {array}   models.Account
// @Failure      401  {object}  object
// @Router       /api/accounts [get]
func GetAccountsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		rows, err := db.Query(`
			SELECT account_id, name, COALESCE(contact_name, ''), COALESCE(email, ''),
			       COALESCE(phone_no, ''), created_at
			FROM account
			ORDER BY name`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		accounts := []models.Account{}
		for rows.Next() {
			var a models.Account
			if err := rows.Scan(&a.AccountID, &a.Name, &a.ContactName, &a.Email, &a.PhoneNo, &a.CreatedAt); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			accounts = append(accounts, a)
		}

		c.JSON(http.StatusOK, accounts)
	}
}

// CreateAccountHandler godoc
// @Summary      Create account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      models.Account  true  "Account"
// @Success      201   {object}  models.Account
// @Failure      400   {object}  object
// @Router       /api/accounts [post]
func CreateAccountHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		var account models.Account
		if err := c.ShouldBindJSON(&account); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if account.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Account name is required"})
			return
		}

		err := db.QueryRow(`
			INSERT INTO account (name, contact_name, email, phone_no, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING account_id, created_at`,
			account.Name, account.ContactName, account.Email, account.PhoneNo,
		).Scan(&account.AccountID, &account.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, account)
	}
}

// GetProjectsHandler godoc
// @Summary      List projects
// @Description  Soft-deleted projects are excluded unless include_deleted=true
// @Tags         projects
// @Produce      json
// @Param        include_deleted  query     bool  false  "Include soft-deleted rows"
// @Success      200              {array}   models.Project
// @Router       /api/projects [get]
func GetProjectsHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		query := `
			SELECT p.project_id, p.account_id, p.name, COALESCE(p.category, ''),
			       COALESCE(p.contractor, ''), COALESCE(p.address_line1, ''),
			       COALESCE(p.address_line2, ''), COALESCE(p.city, ''),
			       COALESCE(p.state, ''), COALESCE(p.postal_code, ''),
			       COALESCE(p.country, ''), p.inspection_date, p.deleted,
			       p.created_at, p.updated_at, COALESCE(a.name, '')
			FROM project p
			LEFT JOIN account a ON a.account_id = p.account_id`
		if c.Query("include_deleted") != "true" {
			query += ` WHERE p.deleted = false`
		}
		query += ` ORDER BY p.project_id`

		rows, err := db.Query(query)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		projects := []models.Project{}
		for rows.Next() {
			var p models.Project
			err := rows.Scan(&p.ProjectID, &p.AccountID, &p.Name, &p.Category,
				&p.Contractor, &p.AddressLine1, &p.AddressLine2, &p.City,
				&p.State, &p.PostalCode, &p.Country, &p.InspectionDate,
				&p.Deleted, &p.CreatedAt, &p.UpdatedAt, &p.AccountName)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			projects = append(projects, p)
		}

		c.JSON(http.StatusOK, projects)
	}
}

// GetProjectHandler godoc
// @Summary      Get one project
// @Tags         projects
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  models.Project
// @Failure      404  {object}  object
// @Router       /api/projects/{id} [get]
func GetProjectHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		projectID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var p models.Project
		err := db.QueryRow(`
			SELECT p.project_id, p.account_id, p.name, COALESCE(p.category, ''),
			       COALESCE(p.contractor, ''), COALESCE(p.address_line1, ''),
			       COALESCE(p.address_line2, ''), COALESCE(p.city, ''),
			       COALESCE(p.state, ''), COALESCE(p.postal_code, ''),
			       COALESCE(p.country, ''), p.inspection_date, p.deleted,
			       p.created_at, p.updated_at, COALESCE(a.name, '')
			FROM project p
			LEFT JOIN account a ON a.account_id = p.account_id
			WHERE p.project_id = $1 AND p.deleted = false`, projectID,
		).Scan(&p.ProjectID, &p.AccountID, &p.Name, &p.Category,
			&p.Contractor, &p.AddressLine1, &p.AddressLine2, &p.City,
			&p.State, &p.PostalCode, &p.Country, &p.InspectionDate,
			&p.Deleted, &p.CreatedAt, &p.UpdatedAt, &p.AccountName)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, p)
	}
}

// CreateProjectHandler godoc
// @Summary      Create project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        body  body      models.Project  true  "Project"
// @Success      201   {object}  models.Project
// @Failure      400   {object}  object
// @Router       /api/projects [post]
func CreateProjectHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		var p models.Project
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if p.Name == "" || p.AccountID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and account_id are required"})
			return
		}
		if p.InspectionDate.IsZero() {
			p.InspectionDate = time.Now()
		}

		err := db.QueryRow(`
			INSERT INTO project (account_id, name, category, contractor,
			    address_line1, address_line2, city, state, postal_code,
			    country, inspection_date, deleted, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false, NOW(), NOW())
			RETURNING project_id, created_at, updated_at`,
			p.AccountID, p.Name, p.Category, p.Contractor,
			p.AddressLine1, p.AddressLine2, p.City, p.State, p.PostalCode,
			p.Country, p.InspectionDate,
		).Scan(&p.ProjectID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, p)
	}
}

// UpdateProjectHandler godoc
// @Summary      Update project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id    path      int             true  "Project ID"
// @Param        body  body      models.Project  true  "Project"
// @Success      200   {object}  models.Project
// @Failure      404   {object}  object
// @Router       /api/projects/{id} [put]
func UpdateProjectHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		projectID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var p models.Project
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		result, err := db.Exec(`
			UPDATE project
			SET account_id = $1, name = $2, category = $3, contractor = $4,
			    address_line1 = $5, address_line2 = $6, city = $7, state = $8,
			    postal_code = $9, country = $10, inspection_date = $11,
			    updated_at = NOW()
			WHERE project_id = $12 AND deleted = false`,
			p.AccountID, p.Name, p.Category, p.Contractor,
			p.AddressLine1, p.AddressLine2, p.City, p.State,
			p.PostalCode, p.Country, p.InspectionDate, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		cache.Invalidate(projectID)
		p.ProjectID = projectID
		c.JSON(http.StatusOK, p)
	}
}

// DeleteProjectHandler godoc
// @Summary      Soft-delete project
// @Description  Sets the deleted flag; the row is kept for history
// @Tags         projects
// @Param        id   path      int  true  "Project ID"
// @Success      200  {object}  object
// @Failure      404  {object}  object
// @Router       /api/projects/{id} [delete]
func DeleteProjectHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		projectID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		result, err := db.Exec(`
			UPDATE project SET deleted = true, updated_at = NOW()
			WHERE project_id = $1 AND deleted = false`, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}

		cache.Invalidate(projectID)
		c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
	}
}
