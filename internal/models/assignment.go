package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// Assignment is a task given by one user to another. It is subject to
// review: the assignee submits, the assigner approves or declines.
type Assignment struct {
	ID              uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TaskDescription string    `json:"task_description" gorm:"not null"`
	Difficulty      string    `json:"difficulty" gorm:"not null"`
	Duration        string    `json:"duration"`
	ProofURL        string    `json:"proof_url"`
	Comment         string    `json:"comment"`
	ReviewComment   string    `json:"review_comment"`
	Status          string    `json:"status" gorm:"not null;default:'pending'"`
	AssignedTo      uuid.UUID `json:"assigned_to" gorm:"type:uuid;index;not null"`
	AssignedBy      uuid.UUID `json:"assigned_by" gorm:"type:uuid;index;not null"`
	Points          int       `json:"points" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (a *Assignment) TaskID() uuid.UUID      { return a.ID }
func (a *Assignment) TaskStatus() string     { return a.Status }
func (a *Assignment) TaskPoints() int        { return a.Points }
func (a *Assignment) TaskDifficulty() string { return a.Difficulty }
