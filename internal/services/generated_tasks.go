package services

import (
	"errors"
	"log"
	"time"

	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

var ErrNotTaskOwner = errors.New("only the task owner can complete it")

type CreateGeneratedTaskInput struct {
	TaskDescription string
	Category        string
	Difficulty      string
	UserID          uuid.UUID
	AssignedBy      uuid.UUID // zero uuid when the application generated it
}

type CompletionInput struct {
	ProofURL string
	Comment  string
}

type GeneratedTaskService interface {
	CreateGeneratedTask(db *gorm.DB, input CreateGeneratedTaskInput) (models.GeneratedTask, error)
	CompleteGeneratedTask(db *gorm.DB, id, actor uuid.UUID, input CompletionInput) (models.GeneratedTask, error)
	GetGeneratedTaskByID(db *gorm.DB, id uuid.UUID) (models.GeneratedTask, error)
	GetGeneratedTasksForUser(db *gorm.DB, userID uuid.UUID) ([]models.GeneratedTask, error)
}

type GeneratedTaskServiceImpl struct {
	notifier NotificationService
}

func NewGeneratedTaskService(notifier NotificationService) *GeneratedTaskServiceImpl {
	return &GeneratedTaskServiceImpl{notifier: notifier}
}

func (s *GeneratedTaskServiceImpl) CreateGeneratedTask(db *gorm.DB, input CreateGeneratedTaskInput) (models.GeneratedTask, error) {
	if input.TaskDescription == "" {
		return models.GeneratedTask{}, ErrEmptyDescription
	}

	task := models.GeneratedTask{
		ID:              uuid.Must(uuid.NewV4()),
		TaskDescription: input.TaskDescription,
		Category:        input.Category,
		Difficulty:      input.Difficulty,
		Status:          models.StatusPending,
		UserID:          input.UserID,
		AssignedBy:      input.AssignedBy,
		Points:          models.PointsForDifficulty(input.Difficulty),
	}

	if err := db.Create(&task).Error; err != nil {
		return models.GeneratedTask{}, err
	}

	if !task.SelfGenerated() && s.notifier != nil {
		if err := s.notifier.Dispatch(db, task.UserID, task.AssignedBy, "sent you a task to try", nil); err != nil {
			log.Printf("notification dispatch to %s failed: %v", task.UserID, err)
		}
	}

	return task, nil
}

// CompleteGeneratedTask is the single transition a generated task has.
// Points carry through unchanged; there is no proof bonus and no review.
// Re-completing an already-completed task re-applies the transition,
// refreshing duration and proof, and the status stays completed.
func (s *GeneratedTaskServiceImpl) CompleteGeneratedTask(db *gorm.DB, id, actor uuid.UUID, input CompletionInput) (models.GeneratedTask, error) {
	task, err := s.GetGeneratedTaskByID(db, id)
	if err != nil {
		return models.GeneratedTask{}, err
	}
	if task.UserID != actor {
		return models.GeneratedTask{}, ErrNotTaskOwner
	}

	proofURL := task.ProofURL
	if input.ProofURL != "" {
		proofURL = input.ProofURL
	}

	err = db.Model(&models.GeneratedTask{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":    models.StatusCompleted,
			"duration":  durationSince(task.CreatedAt, time.Now()),
			"proof_url": proofURL,
			"comment":   input.Comment,
		}).Error
	if err != nil {
		return models.GeneratedTask{}, err
	}

	return s.GetGeneratedTaskByID(db, id)
}

func (s *GeneratedTaskServiceImpl) GetGeneratedTaskByID(db *gorm.DB, id uuid.UUID) (models.GeneratedTask, error) {
	var task models.GeneratedTask
	err := db.First(&task, "id = ?", id).Error
	return task, err
}

func (s *GeneratedTaskServiceImpl) GetGeneratedTasksForUser(db *gorm.DB, userID uuid.UUID) ([]models.GeneratedTask, error) {
	var tasks []models.GeneratedTask
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}
