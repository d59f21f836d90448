package handlers

import (
	"backend/models"
	"backend/services"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

func scanEquipmentRow(rows interface {
	Scan(dest ...interface{}) error
}) (models.Equipment, error) {
	var e models.Equipment
	var groupsJSON, answersJSON []byte
	err := rows.Scan(&e.EquipmentID, &e.ProjectID, &e.Name, &e.Category,
		&e.Load, &e.Speed, &e.FloorsServedFront, &e.FloorsServedRear,
		&groupsJSON, &answersJSON, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(groupsJSON, &e.AttributeGroups); err != nil {
		return e, err
	}
	if err := json.Unmarshal(answersJSON, &e.Answers); err != nil {
		return e, err
	}
	return e, nil
}

// GetEquipmentByProjectHandler godoc
// @Summary      List equipment for a project
// @Tags         equipment
// @Produce      json
// @Param        id   path      int  true  "Project ID"
// @Success      200  {array}   models.Equipment
// @Router       /api/projects/{id}/equipment [get]
func GetEquipmentByProjectHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		projectID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		rows, err := db.Query(`
			SELECT equipment_id, project_id, name, COALESCE(category, ''),
			       COALESCE(load_kg, 0), COALESCE(speed, 0),
			       COALESCE(floors_served_front, 0), COALESCE(floors_served_rear, 0),
			       COALESCE(attribute_groups, '{}'::jsonb), COALESCE(answers, '{}'::jsonb),
			       created_at, updated_at
			FROM equipment
			WHERE project_id = $1
			ORDER BY equipment_id`, projectID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		equipment := []models.Equipment{}
		for rows.Next() {
			e, err := scanEquipmentRow(rows)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			equipment = append(equipment, e)
		}

		c.JSON(http.StatusOK, equipment)
	}
}

// GetEquipmentHandler godoc
// @Summary      Get one equipment unit
// @Tags         equipment
// @Produce      json
// @Param        id   path      int  true  "Equipment ID"
// @Success      200  {object}  models.Equipment
// @Failure      404  {object}  object
// @Router       /api/equipment/{id} [get]
func GetEquipmentHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		equipmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		row := db.QueryRow(`
			SELECT equipment_id, project_id, name, COALESCE(category, ''),
			       COALESCE(load_kg, 0), COALESCE(speed, 0),
			       COALESCE(floors_served_front, 0), COALESCE(floors_served_rear, 0),
			       COALESCE(attribute_groups, '{}'::jsonb), COALESCE(answers, '{}'::jsonb),
			       created_at, updated_at
			FROM equipment
			WHERE equipment_id = $1`, equipmentID)

		e, err := scanEquipmentRow(row)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, e)
	}
}

// CreateEquipmentHandler godoc
// @Summary      Create equipment unit
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        body  body      models.Equipment  true  "Equipment"
// @Success      201   {object}  models.Equipment
// @Failure      400   {object}  object
// @Router       /api/equipment [post]
func CreateEquipmentHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}

		var e models.Equipment
		if err := c.ShouldBindJSON(&e); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		if e.Name == "" || e.ProjectID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and project_id are required"})
			return
		}
		if e.AttributeGroups == nil {
			e.AttributeGroups = models.AttributeGroups{}
		}
		if e.Answers == nil {
			e.Answers = map[string]models.Answer{}
		}

		groupsJSON, err := json.Marshal(e.AttributeGroups)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		answersJSON, err := json.Marshal(e.Answers)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		err = db.QueryRow(`
			INSERT INTO equipment (project_id, name, category, load_kg, speed,
			    floors_served_front, floors_served_rear, attribute_groups,
			    answers, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
			RETURNING equipment_id, created_at, updated_at`,
			e.ProjectID, e.Name, e.Category, e.Load, e.Speed,
			e.FloorsServedFront, e.FloorsServedRear, groupsJSON, answersJSON,
		).Scan(&e.EquipmentID, &e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		cache.Invalidate(e.ProjectID)
		c.JSON(http.StatusCreated, e)
	}
}

// UpdateEquipmentHandler godoc
// @Summary      Update equipment unit
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        id    path      int               true  "Equipment ID"
// @Param        body  body      models.Equipment  true  "Equipment"
// @Success      200   {object}  models.Equipment
// @Failure      404   {object}  object
// @Router       /api/equipment/{id} [put]
func UpdateEquipmentHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		equipmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var e models.Equipment
		if err := c.ShouldBindJSON(&e); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		groupsJSON, err := json.Marshal(e.AttributeGroups)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		answersJSON, err := json.Marshal(e.Answers)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var projectID int
		err = db.QueryRow(`
			UPDATE equipment
			SET name = $1, category = $2, load_kg = $3, speed = $4,
			    floors_served_front = $5, floors_served_rear = $6,
			    attribute_groups = $7, answers = $8, updated_at = NOW()
			WHERE equipment_id = $9
			RETURNING project_id`,
			e.Name, e.Category, e.Load, e.Speed,
			e.FloorsServedFront, e.FloorsServedRear,
			groupsJSON, answersJSON, equipmentID,
		).Scan(&projectID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		cache.Invalidate(projectID)
		e.EquipmentID = equipmentID
		e.ProjectID = projectID
		c.JSON(http.StatusOK, e)
	}
}

// UpdateEquipmentAnswersHandler godoc
// @Summary      Record inspection answers for a unit
// @Description  Merges the posted checklist-id keyed answers into the stored map
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        id    path      int     true  "Equipment ID"
// @Param        body  body      object  true  "checklist id -> {status, comment}"
// @Success      200   {object}  object
// @Failure      404   {object}  object
// @Router       /api/equipment/{id}/answers [put]
func UpdateEquipmentAnswersHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		equipmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var incoming map[string]models.Answer
		if err := c.ShouldBindJSON(&incoming); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		for id, a := range incoming {
			incoming[id] = models.Answer{
				Status:  models.ParseStatusCode(string(a.Status)),
				Comment: a.Comment,
			}
		}

		var answersJSON []byte
		var projectID int
		err := db.QueryRow(`
			SELECT COALESCE(answers, '{}'::jsonb), project_id
			FROM equipment WHERE equipment_id = $1`, equipmentID,
		).Scan(&answersJSON, &projectID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		answers := map[string]models.Answer{}
		if err := json.Unmarshal(answersJSON, &answers); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		for id, a := range incoming {
			answers[id] = a
		}

		merged, err := json.Marshal(answers)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if _, err := db.Exec(`
			UPDATE equipment SET answers = $1, updated_at = NOW()
			WHERE equipment_id = $2`, merged, equipmentID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		cache.Invalidate(projectID)
		c.JSON(http.StatusOK, gin.H{"message": "Answers updated", "answers": answers})
	}
}

// DeleteEquipmentHandler godoc
// @Summary      Delete equipment unit
// @Tags         equipment
// @Param        id   path      int  true  "Equipment ID"
// @Success      200  {object}  object
// @Failure      404  {object}  object
// @Router       /api/equipment/{id} [delete]
func DeleteEquipmentHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		equipmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var projectID int
		err := db.QueryRow(`
			DELETE FROM equipment WHERE equipment_id = $1
			RETURNING project_id`, equipmentID,
		).Scan(&projectID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		cache.Invalidate(projectID)
		c.JSON(http.StatusOK, gin.H{"message": "Equipment deleted"})
	}
}
