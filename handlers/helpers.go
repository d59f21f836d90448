package handlers

import (
	"backend/models"
	"backend/storage"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetSessionDetails resolves the Authorization header's session to its
// user and a display name for report attribution.
func GetSessionDetails(db *sql.DB, sessionID string) (*models.User, string, error) {
	user, err := storage.GetUserBySessionID(db, sessionID)
	if err != nil {
		return nil, "", err
	}
	name := user.FirstName
	if user.LastName != "" {
		name = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
	}
	return user, name, nil
}

// requireSession validates the Authorization header and writes the
// error response itself when the session is missing or invalid.
func requireSession(c *gin.Context, db *sql.DB) (*models.User, string, bool) {
	sessionID := c.GetHeader("Authorization")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session"})
		return nil, "", false
	}
	user, name, err := GetSessionDetails(db, sessionID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
		return nil, "", false
	}
	return user, name, true
}

// paramInt parses an integer path parameter, writing the error
// response on failure.
func paramInt(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid %s", name)})
		return 0, false
	}
	return v, true
}
