package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// extractUserID reads the authenticated user id bound by the auth middleware
func extractUserID(c *gin.Context) (uint64, error) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found in context"})
		return 0, errors.New("user not found in context")
	}

	userID, ok := value.(uint64)
	if !ok || userID == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user id in context"})
		return 0, errors.New("invalid user id in context")
	}

	return userID, nil
}
