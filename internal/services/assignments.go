package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// Completion-time bonuses. The proof bonus applies every time a proof
// file accompanies a submission; the approval bonus once per approval.
const (
	ProofBonus    = 25
	ApprovalBonus = 25
)

var (
	ErrNotAssignee       = errors.New("only the assignee can perform this action")
	ErrNotReviewer       = errors.New("only the assigner can review this assignment")
	ErrInvalidTransition = errors.New("assignment is not in a state that allows this transition")
	ErrSelfAssignment    = errors.New("cannot assign a task to yourself")
	ErrEmptyDescription  = errors.New("task description must not be empty")
)

type CreateAssignmentInput struct {
	TaskDescription string
	Difficulty      string
	AssignedBy      uuid.UUID
	AssignedTo      uuid.UUID
}

type SubmissionInput struct {
	ProofURL           string
	Comment            string
	ResubmissionReason string
}

type AssignmentService interface {
	CreateAssignment(db *gorm.DB, input CreateAssignmentInput) (models.Assignment, error)
	SubmitAssignment(db *gorm.DB, id, actor uuid.UUID, input SubmissionInput) (models.Assignment, error)
	ApproveAssignment(db *gorm.DB, id, actor uuid.UUID, reviewComment string) (models.Assignment, error)
	DeclineAssignment(db *gorm.DB, id, actor uuid.UUID, reviewComment string) (models.Assignment, error)
	GetAssignmentByID(db *gorm.DB, id uuid.UUID) (models.Assignment, error)
	GetAssignmentsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Assignment, error)
}

type AssignmentServiceImpl struct {
	notifier NotificationService

	// onScoreChange runs after an approval credits a profile, so the
	// leaderboard cache can drop its stale entries.
	onScoreChange func()
}

func NewAssignmentService(notifier NotificationService) *AssignmentServiceImpl {
	return &AssignmentServiceImpl{notifier: notifier}
}

func (s *AssignmentServiceImpl) OnScoreChange(hook func()) {
	s.onScoreChange = hook
}

func (s *AssignmentServiceImpl) CreateAssignment(db *gorm.DB, input CreateAssignmentInput) (models.Assignment, error) {
	if input.TaskDescription == "" {
		return models.Assignment{}, ErrEmptyDescription
	}
	if input.AssignedTo == input.AssignedBy {
		return models.Assignment{}, ErrSelfAssignment
	}

	assignment := models.Assignment{
		ID:              uuid.Must(uuid.NewV4()),
		TaskDescription: input.TaskDescription,
		Difficulty:      input.Difficulty,
		Status:          models.StatusPending,
		AssignedTo:      input.AssignedTo,
		AssignedBy:      input.AssignedBy,
		Points:          models.PointsForDifficulty(input.Difficulty),
	}

	if err := db.Create(&assignment).Error; err != nil {
		return models.Assignment{}, err
	}

	s.dispatch(db, assignment.AssignedTo, assignment.AssignedBy, "assigned you a new task", nil)

	return assignment, nil
}

// SubmitAssignment moves an assignment into review. Allowed from
// pending, and from declined or completed for resubmission. The status
// guard on the update rejects a concurrent transition instead of
// overwriting it.
func (s *AssignmentServiceImpl) SubmitAssignment(db *gorm.DB, id, actor uuid.UUID, input SubmissionInput) (models.Assignment, error) {
	assignment, err := s.GetAssignmentByID(db, id)
	if err != nil {
		return models.Assignment{}, err
	}
	if assignment.AssignedTo != actor {
		return models.Assignment{}, ErrNotAssignee
	}

	switch assignment.Status {
	case models.StatusPending, models.StatusDeclined, models.StatusCompleted:
	default:
		return models.Assignment{}, ErrInvalidTransition
	}

	comment := input.Comment
	if input.ResubmissionReason != "" {
		comment = input.ResubmissionReason + ": " + comment
	}

	points := assignment.Points
	proofURL := assignment.ProofURL
	if input.ProofURL != "" {
		proofURL = input.ProofURL
		points += ProofBonus
	}

	updates := map[string]interface{}{
		"status":         models.StatusSubmitted,
		"proof_url":      proofURL,
		"comment":        comment,
		"review_comment": "",
		"points":         points,
		"duration":       durationSince(assignment.CreatedAt, time.Now()),
	}

	result := db.Model(&models.Assignment{}).
		Where("id = ? AND status = ?", id, assignment.Status).
		Updates(updates)
	if result.Error != nil {
		return models.Assignment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Assignment{}, ErrInvalidTransition
	}

	s.dispatch(db, assignment.AssignedBy, assignment.AssignedTo, "submitted a task for your review", &assignment.ID)

	return s.GetAssignmentByID(db, id)
}

// ApproveAssignment flips a submitted assignment to completed and
// credits the assignee. The status write and the profile credit happen
// in one transaction so a crash cannot leave a completed task without
// its points, or credited points without a completed task.
func (s *AssignmentServiceImpl) ApproveAssignment(db *gorm.DB, id, actor uuid.UUID, reviewComment string) (models.Assignment, error) {
	assignment, err := s.GetAssignmentByID(db, id)
	if err != nil {
		return models.Assignment{}, err
	}
	if assignment.AssignedBy != actor {
		return models.Assignment{}, ErrNotReviewer
	}
	if assignment.Status != models.StatusSubmitted {
		return models.Assignment{}, ErrInvalidTransition
	}

	finalPoints := assignment.Points + ApprovalBonus

	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Assignment{}).
			Where("id = ? AND status = ?", id, models.StatusSubmitted).
			Updates(map[string]interface{}{
				"status":         models.StatusCompleted,
				"points":         finalPoints,
				"review_comment": reviewComment,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		return tx.Model(&models.Profile{}).
			Where("id = ?", assignment.AssignedTo).
			Updates(map[string]interface{}{
				"score":                gorm.Expr("score + ?", finalPoints),
				"completed_challenges": gorm.Expr("completed_challenges + ?", 1),
			}).Error
	})
	if err != nil {
		return models.Assignment{}, err
	}

	if s.onScoreChange != nil {
		s.onScoreChange()
	}

	s.dispatch(db, assignment.AssignedTo, assignment.AssignedBy, "approved your submission", nil)

	return s.GetAssignmentByID(db, id)
}

func (s *AssignmentServiceImpl) DeclineAssignment(db *gorm.DB, id, actor uuid.UUID, reviewComment string) (models.Assignment, error) {
	assignment, err := s.GetAssignmentByID(db, id)
	if err != nil {
		return models.Assignment{}, err
	}
	if assignment.AssignedBy != actor {
		return models.Assignment{}, ErrNotReviewer
	}
	if assignment.Status != models.StatusSubmitted {
		return models.Assignment{}, ErrInvalidTransition
	}

	result := db.Model(&models.Assignment{}).
		Where("id = ? AND status = ?", id, models.StatusSubmitted).
		Updates(map[string]interface{}{
			"status":         models.StatusDeclined,
			"review_comment": reviewComment,
		})
	if result.Error != nil {
		return models.Assignment{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Assignment{}, ErrInvalidTransition
	}

	s.dispatch(db, assignment.AssignedTo, assignment.AssignedBy, "declined your submission", nil)

	return s.GetAssignmentByID(db, id)
}

func (s *AssignmentServiceImpl) GetAssignmentByID(db *gorm.DB, id uuid.UUID) (models.Assignment, error) {
	var assignment models.Assignment
	err := db.First(&assignment, "id = ?", id).Error
	return assignment, err
}

func (s *AssignmentServiceImpl) GetAssignmentsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := db.Where("assigned_to = ? OR assigned_by = ?", userID, userID).
		Order("created_at DESC").
		Find(&assignments).Error
	return assignments, err
}

// dispatch sends a notification as a side effect of a transition that
// already succeeded. Failures are logged and swallowed: a lost
// notification never rolls a lifecycle change back.
func (s *AssignmentServiceImpl) dispatch(db *gorm.DB, recipient, sender uuid.UUID, message string, assignmentID *uuid.UUID) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Dispatch(db, recipient, sender, message, assignmentID); err != nil {
		log.Printf("notification dispatch to %s failed: %v", recipient, err)
	}
}

// durationSince renders elapsed whole minutes between creation and the
// completing action.
func durationSince(createdAt, completedAt time.Time) string {
	minutes := int(completedAt.Sub(createdAt) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d minutes", minutes)
}
