package handler

import (
	"math"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/internal/domain/entity"
)

// GetUserID extracts the authenticated user's ID from the Gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}

	return userID, true
}

// GetUserEmail extracts the authenticated user's email from the Gin context
func GetUserEmail(c *gin.Context) (string, bool) {
	emailValue, exists := c.Get("user_email")
	if !exists {
		return "", false
	}

	email, ok := emailValue.(string)
	return email, ok
}

// GetUserRole extracts the authenticated user's role from the Gin context
func GetUserRole(c *gin.Context) (string, bool) {
	roleValue, exists := c.Get("user_role")
	if !exists {
		return "", false
	}

	role, ok := roleValue.(string)
	return role, ok
}

// IsAdmin checks if the authenticated user has the admin role
func IsAdmin(c *gin.Context) bool {
	role, ok := GetUserRole(c)
	return ok && role == entity.RoleAdmin
}

// toCents converts a major-unit amount to integer cents. Rounding instead of
// truncating avoids 19.99 turning into 1998 through float representation.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
