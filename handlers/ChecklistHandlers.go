package handlers

import (
	"backend/models"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetChecklistCatalogHandler godoc
// @Summary      List checklist item definitions
// @Description  Optionally filtered by equipment_type and/or location
// @Tags         checklist
// @Produce      json
// @Param        equipment_type  query     string  false  "Equipment type filter"
// @Param        location        query     string  false  "Location filter"
// @Success      200             {array}   models.ChecklistItem
// @Router       /api/checklist [get]
func GetChecklistCatalogHandler(db *sql.DB, gormDB *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		query := gormDB.WithContext(c.Request.Context()).Order("id")
		if et := c.Query("equipment_type"); et != "" {
			query = query.Where("equipment_type = ?", et)
		}
		if loc := c.Query("location"); loc != "" {
			query = query.Where("location = ?", loc)
		}

		var items []models.ChecklistItem
		if err := query.Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// CreateChecklistItemHandler godoc
// @Summary      Create checklist item definition
// @Tags         checklist
// @Accept       json
// @Produce      json
// @Param        body  body      models.ChecklistItem  true  "Checklist item"
// @Success      201   {object}  models.ChecklistItem
// @Failure      400   {object}  object
// @Router       /api/checklist [post]
func CreateChecklistItemHandler(db *sql.DB, gormDB *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		var item models.ChecklistItem
		if err := c.ShouldBindJSON(&item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if item.ID == "" || item.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id and title are required"})
			return
		}
		if item.Order == 0 {
			item.Order = models.DefaultChecklistOrder
		}

		if err := gormDB.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

// UpdateChecklistItemHandler godoc
// @Summary      Update checklist item definition
// @Tags         checklist
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Checklist item ID"
// @Param        body  body      models.ChecklistItem  true  "Checklist item"
// @Success      200   {object}  models.ChecklistItem
// @Failure      404   {object}  object
// @Router       /api/checklist/{id} [put]
func UpdateChecklistItemHandler(db *sql.DB, gormDB *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		id := c.Param("id")

		var item models.ChecklistItem
		if err := gormDB.WithContext(c.Request.Context()).First(&item, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Checklist item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var incoming models.ChecklistItem
		if err := c.ShouldBindJSON(&incoming); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		incoming.ID = id
		if incoming.Order == 0 {
			incoming.Order = models.DefaultChecklistOrder
		}

		if err := gormDB.WithContext(c.Request.Context()).Save(&incoming).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, incoming)
	}
}

// DeleteChecklistItemHandler godoc
// @Summary      Delete checklist item definition
// @Tags         checklist
// @Param        id   path      string  true  "Checklist item ID"
// @Success      200  {object}  object
// @Failure      404  {object}  object
// @Router       /api/checklist/{id} [delete]
func DeleteChecklistItemHandler(db *sql.DB, gormDB *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		id := c.Param("id")

		result := gormDB.WithContext(c.Request.Context()).Delete(&models.ChecklistItem{}, "id = ?", id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Checklist item not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Checklist item deleted"})
	}
}
