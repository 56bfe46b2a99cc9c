package handlers

import (
	"log"
	"net/http"

	"questboard/backend/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db                  *gorm.DB
	notificationService services.NotificationService
}

func NewNotificationHandler(db *gorm.DB, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{db: db, notificationService: notificationService}
}

// GetNotifications returns the consolidated feed and marks everything
// read in one batch. Viewing the list is what flips the read state, not
// touching individual entries.
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListConsolidated(h.db, userID)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	if err := h.notificationService.MarkAllRead(h.db, userID); err != nil {
		log.Printf("failed to mark notifications read for %s: %v", userID, err)
	}

	c.JSON(http.StatusOK, notifications)
}

// OpenReview resolves the linked assignment and removes the
// notification, then hands the assignment id back for navigation.
func (h *NotificationHandler) OpenReview(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	assignmentID, err := h.notificationService.OpenReview(h.db, userID, id)
	if err != nil {
		handleLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment_id": assignmentID})
}
