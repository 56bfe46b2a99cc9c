package handlers

import (
	"errors"
	"net/http"

	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// currentUserID pulls the authenticated user out of the gin context.
// Writes the 401 itself so callers can just return.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return userID, true
}

func pathUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.FromString(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// handleLifecycleError maps engine errors onto HTTP statuses.
func handleLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrNotAssignee),
		errors.Is(err, services.ErrNotReviewer),
		errors.Is(err, services.ErrNotTaskOwner),
		errors.Is(err, services.ErrNotNotificationOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSelfAssignment),
		errors.Is(err, services.ErrEmptyDescription),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrSelfMessage),
		errors.Is(err, services.ErrNoLinkedAssignment),
		errors.Is(err, services.ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process request"})
	}
}
