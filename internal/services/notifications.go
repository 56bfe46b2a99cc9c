package services

import (
	"errors"
	"strings"
	"time"

	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// NewMessageNotification is the text dispatched when a direct message
// arrives. ListConsolidated matches on it to collapse chat floods.
const NewMessageNotification = "sent you a new message"

var ErrNotNotificationOwner = errors.New("notification belongs to another user")
var ErrNoLinkedAssignment = errors.New("notification has no linked assignment")

type NotificationService interface {
	Dispatch(db *gorm.DB, recipient, sender uuid.UUID, message string, assignmentID *uuid.UUID) error
	ListConsolidated(db *gorm.DB, recipient uuid.UUID) ([]models.Notification, error)
	MarkAllRead(db *gorm.DB, recipient uuid.UUID) error
	OpenReview(db *gorm.DB, recipient, notificationID uuid.UUID) (uuid.UUID, error)
}

type NotificationServiceImpl struct{}

func NewNotificationService() *NotificationServiceImpl {
	return &NotificationServiceImpl{}
}

func (s *NotificationServiceImpl) Dispatch(db *gorm.DB, recipient, sender uuid.UUID, message string, assignmentID *uuid.UUID) error {
	notification := models.Notification{
		ID:           uuid.Must(uuid.NewV4()),
		UserID:       recipient,
		SenderID:     sender,
		Message:      message,
		IsRead:       false,
		AssignmentID: assignmentID,
		CreatedAt:    time.Now(),
	}
	return db.Create(&notification).Error
}

// ListConsolidated returns the recipient's feed newest first. Plain
// message notifications from the same sender collapse into the most
// recent one; notifications linked to an assignment always pass through.
func (s *NotificationServiceImpl) ListConsolidated(db *gorm.DB, recipient uuid.UUID) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.Where("user_id = ?", recipient).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	consolidated := make([]models.Notification, 0, len(notifications))
	seenMessageSender := make(map[uuid.UUID]bool)

	for _, n := range notifications {
		if n.AssignmentID == nil && strings.Contains(n.Message, NewMessageNotification) {
			if seenMessageSender[n.SenderID] {
				continue
			}
			seenMessageSender[n.SenderID] = true
		}
		consolidated = append(consolidated, n)
	}

	return consolidated, nil
}

func (s *NotificationServiceImpl) MarkAllRead(db *gorm.DB, recipient uuid.UUID) error {
	return db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", recipient, false).
		Update("is_read", true).Error
}

// OpenReview resolves the assignment a notification points at and
// deletes the notification row. Deletion happens up front: if the
// recipient navigates away without finishing the review, the
// notification is gone.
func (s *NotificationServiceImpl) OpenReview(db *gorm.DB, recipient, notificationID uuid.UUID) (uuid.UUID, error) {
	var notification models.Notification
	if err := db.First(&notification, "id = ?", notificationID).Error; err != nil {
		return uuid.Nil, err
	}

	if notification.UserID != recipient {
		return uuid.Nil, ErrNotNotificationOwner
	}
	if notification.AssignmentID == nil {
		return uuid.Nil, ErrNoLinkedAssignment
	}

	if err := db.Delete(&notification).Error; err != nil {
		return uuid.Nil, err
	}

	return *notification.AssignmentID, nil
}
