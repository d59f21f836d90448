package handlers

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ValidateSession godoc
// @Summary      Validate session
// @Description  Check the Authorization header's session row is current
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Session ID"
// @Success      200            {object}  object
// @Failure      401            {object}  object
// @Router       /api/validate-session [post]
func ValidateSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(c.GetHeader("Authorization"))
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing Authorization header"})
			return
		}

		var userID int
		var expiresAt time.Time
		err := db.QueryRow(`
			SELECT user_id, expires_at FROM session
			WHERE session_id = $1 AND expires_at > NOW()`, sessionID,
		).Scan(&userID, &expiresAt)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		var email, firstName, lastName string
		var isAdmin, suspended bool
		err = db.QueryRow(`
			SELECT email, first_name, last_name, is_admin, suspended
			FROM users WHERE id = $1`, userID,
		).Scan(&email, &firstName, &lastName, &isAdmin, &suspended)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session", "details": err.Error()})
			return
		}
		if suspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":    "Session validated",
			"session_id": sessionID,
			"expires_at": expiresAt,
			"user": gin.H{
				"id":         userID,
				"email":      email,
				"first_name": firstName,
				"last_name":  lastName,
				"is_admin":   isAdmin,
			},
		})
	}
}
