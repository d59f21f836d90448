package handlers

import (
	"backend/models"
	"backend/storage"
	"backend/utils"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUser godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.User
// @Failure      404  {object}  object
// @Router       /api/users/{id} [get]
func GetUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		userID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var u models.User
		err := db.QueryRow(`
			SELECT id, email, first_name, last_name, COALESCE(phone_no, ''),
			       is_admin, suspended, created_at, updated_at
			FROM users WHERE id = $1`, userID,
		).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNo,
			&u.IsAdmin, &u.Suspended, &u.CreatedAt, &u.UpdatedAt)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		u.Password = ""
		c.JSON(http.StatusOK, u)
	}
}

// GetAllUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   models.User
// @Failure      403  {object}  object
// @Router       /api/users [get]
func GetAllUsers(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _, ok := requireSession(c, db)
		if !ok {
			return
		}
		if !caller.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		rows, err := db.Query(`
			SELECT id, email, first_name, last_name, COALESCE(phone_no, ''),
			       is_admin, suspended, created_at, updated_at
			FROM users ORDER BY id`)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		users := []models.User{}
		for rows.Next() {
			var u models.User
			err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PhoneNo,
				&u.IsAdmin, &u.Suspended, &u.CreatedAt, &u.UpdatedAt)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			users = append(users, u)
		}

		c.JSON(http.StatusOK, users)
	}
}

// CreateUser godoc
// @Summary      Create user
// @Description  Admin-only; passwords are bcrypt hashed before storage
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "email, password, first_name, last_name, phone_no, is_admin"
// @Success      201   {object}  models.User
// @Failure      400   {object}  object
// @Failure      403   {object}  object
// @Router       /api/users [post]
func CreateUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _, ok := requireSession(c, db)
		if !ok {
			return
		}
		if !caller.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		var req struct {
			Email     string `json:"email" binding:"required,email"`
			Password  string `json:"password" binding:"required,min=8"`
			FirstName string `json:"first_name" binding:"required"`
			LastName  string `json:"last_name"`
			PhoneNo   string `json:"phone_no"`
			IsAdmin   bool   `json:"is_admin"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
			return
		}

		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		var u models.User
		err = db.QueryRow(`
			INSERT INTO users (email, password, first_name, last_name, phone_no,
			    is_admin, suspended, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, false, NOW(), NOW())
			RETURNING id, created_at, updated_at`,
			req.Email, hash, req.FirstName, req.LastName, req.PhoneNo, req.IsAdmin,
		).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		u.Email = req.Email
		u.FirstName = req.FirstName
		u.LastName = req.LastName
		u.PhoneNo = req.PhoneNo
		u.IsAdmin = req.IsAdmin
		c.JSON(http.StatusCreated, u)
	}
}

// ChangePassword godoc
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      object  true  "current_password, new_password"
// @Success      200   {object}  object
// @Failure      401   {object}  object
// @Router       /api/user/password [put]
func ChangePassword(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _, ok := requireSession(c, db)
		if !ok {
			return
		}

		var req struct {
			CurrentPassword string `json:"current_password" binding:"required"`
			NewPassword     string `json:"new_password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		stored, err := storage.GetUserByEmail(db, caller.Email)
		if err != nil || !utils.ValidatePassword(stored.Password, req.CurrentPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}

		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if _, err := db.Exec(`UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`,
			hash, caller.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}

// SuspendUser godoc
// @Summary      Suspend or unsuspend user
// @Description  Suspending also revokes every active session for the user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      int     true  "User ID"
// @Param        body  body      object  true  "suspended (bool)"
// @Success      200   {object}  object
// @Failure      403   {object}  object
// @Failure      404   {object}  object
// @Router       /api/users/{id}/suspend [put]
func SuspendUser(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, _, ok := requireSession(c, db)
		if !ok {
			return
		}
		if !caller.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		userID, ok := paramInt(c, "id")
		if !ok {
			return
		}
		if userID == caller.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot suspend your own account"})
			return
		}

		var req struct {
			Suspended *bool `json:"suspended" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}

		result, err := db.Exec(`UPDATE users SET suspended = $1, updated_at = NOW() WHERE id = $2`,
			*req.Suspended, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if n, _ := result.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		if *req.Suspended {
			if _, err := db.Exec(`DELETE FROM session WHERE user_id = $1`, userID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "User updated", "suspended": *req.Suspended})
	}
}
