package handlers

import (
	"backend/models"
	"backend/services"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetFloorsByEquipmentHandler godoc
// @Summary      List floors for an equipment unit
// @Tags         floors
// @Produce      json
// @Param        id   path      int  true  "Equipment ID"
// @Success      200  {array}   models.Floor
// @Router       /api/equipment/{id}/floors [get]
func GetFloorsByEquipmentHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		equipmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		rows, err := db.Query(`
			SELECT floor_id, equipment_id, designation,
			       COALESCE(door_opening, ''), COALESCE(levelling, ''),
			       COALESCE(call_button, ''), COALESCE(chime, ''),
			       COALESCE(indication, ''), COALESCE(comments, '')
			FROM floor
			WHERE equipment_id = $1
			ORDER BY floor_id`, equipmentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		floors := []models.Floor{}
		for rows.Next() {
			var f models.Floor
			err := rows.Scan(&f.FloorID, &f.EquipmentID, &f.Designation,
				&f.DoorOpening, &f.Levelling, &f.CallButton, &f.Chime,
				&f.Indication, &f.Comments)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			floors = append(floors, f)
		}

		c.JSON(http.StatusOK, floors)
	}
}

// CreateFloorHandler godoc
// @Summary      Create floor record
// @Tags         floors
// @Accept       json
// @Produce      json
// @Param        body  body      models.Floor  true  "Floor"
// @Success      201   {object}  models.Floor
// @Failure      400   {object}  object
// @Router       /api/floors [post]
func CreateFloorHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		var f models.Floor
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if f.EquipmentID == 0 || f.Designation == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "equipment_id and designation are required"})
			return
		}
		normalizeFloorStatuses(&f)

		err := db.QueryRow(`
			INSERT INTO floor (equipment_id, designation, door_opening,
			    levelling, call_button, chime, indication, comments)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING floor_id`,
			f.EquipmentID, f.Designation, f.DoorOpening, f.Levelling,
			f.CallButton, f.Chime, f.Indication, f.Comments,
		).Scan(&f.FloorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		invalidateByEquipment(db, cache, f.EquipmentID)
		c.JSON(http.StatusCreated, f)
	}
}

// UpdateFloorHandler godoc
// @Summary      Update floor record
// @Tags         floors
// @Accept       json
// @Produce      json
// @Param        id    path      int           true  "Floor ID"
// @Param        body  body      models.Floor  true  "Floor"
// @Success      200   {object}  models.Floor
// @Failure      404   {object}  object
// @Router       /api/floors/{id} [put]
func UpdateFloorHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		floorID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var f models.Floor
		if err := c.ShouldBindJSON(&f); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		normalizeFloorStatuses(&f)

		var equipmentID int
		err := db.QueryRow(`
			UPDATE floor
			SET designation = $1, door_opening = $2, levelling = $3,
			    call_button = $4, chime = $5, indication = $6, comments = $7
			WHERE floor_id = $8
			RETURNING equipment_id`,
			f.Designation, f.DoorOpening, f.Levelling, f.CallButton,
			f.Chime, f.Indication, f.Comments, floorID,
		).Scan(&equipmentID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Floor not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		invalidateByEquipment(db, cache, equipmentID)
		f.FloorID = floorID
		f.EquipmentID = equipmentID
		c.JSON(http.StatusOK, f)
	}
}

// DeleteFloorHandler godoc
// @Summary      Delete floor record
// @Tags         floors
// @Param        id   path      int  true  "Floor ID"
// @Success      200  {object}  object
// @Failure      404  {object}  object
// @Router       /api/floors/{id} [delete]
func DeleteFloorHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		floorID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var equipmentID int
		err := db.QueryRow(`
			DELETE FROM floor WHERE floor_id = $1
			RETURNING equipment_id`, floorID,
		).Scan(&equipmentID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Floor not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		invalidateByEquipment(db, cache, equipmentID)
		c.JSON(http.StatusOK, gin.H{"message": "Floor deleted"})
	}
}

// normalizeFloorStatuses folds the free-text status fields onto the
// canonical status codes so renders never see stray casing.
func normalizeFloorStatuses(f *models.Floor) {
	f.DoorOpening = string(models.ParseStatusCode(f.DoorOpening))
	f.Levelling = string(models.ParseStatusCode(f.Levelling))
	f.CallButton = string(models.ParseStatusCode(f.CallButton))
	f.Chime = string(models.ParseStatusCode(f.Chime))
	f.Indication = string(models.ParseStatusCode(f.Indication))
}

// invalidateByEquipment drops the owning project's cached report model.
func invalidateByEquipment(db *sql.DB, cache *services.ReportCache, equipmentID int) {
	var projectID int
	if err := db.QueryRow(`SELECT project_id FROM equipment WHERE equipment_id = $1`,
		equipmentID).Scan(&projectID); err == nil {
		cache.Invalidate(projectID)
	}
}
