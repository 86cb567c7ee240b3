package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reliabot/internal/middleware"
	"reliabot/internal/repository"
	"reliabot/internal/service"
)

// respondError maps domain errors to HTTP statuses. Unexpected errors are
// attached to the context for the request logger and answered with 500.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repository.ErrTaskAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Task already completed"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// currentUser returns the session user id set by the auth middleware.
func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return "", false
	}
	return userID, true
}

// pathUser checks that the :user_id path segment is the caller.
func pathUser(c *gin.Context) (string, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return "", false
	}
	if c.Param("user_id") != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return "", false
	}
	return userID, true
}
