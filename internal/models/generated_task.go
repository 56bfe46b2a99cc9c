package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// GeneratedTask is a task drawn from the catalog (or handed over by a
// friend) that the owner completes without review. AssignedBy is the
// zero uuid when the application itself generated the task.
type GeneratedTask struct {
	ID              uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	TaskDescription string    `json:"task_description" gorm:"not null"`
	Category        string    `json:"category"`
	Difficulty      string    `json:"difficulty" gorm:"not null"`
	Duration        string    `json:"duration"`
	ProofURL        string    `json:"proof_url"`
	Comment         string    `json:"comment"`
	Status          string    `json:"status" gorm:"not null;default:'pending'"`
	UserID          uuid.UUID `json:"user_id" gorm:"type:uuid;index;not null"`
	AssignedBy      uuid.UUID `json:"assigned_by" gorm:"type:uuid"`
	Points          int       `json:"points" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SelfGenerated reports whether the task came from the application
// rather than from another user.
func (g *GeneratedTask) SelfGenerated() bool {
	return g.AssignedBy == uuid.Nil
}

func (g *GeneratedTask) TaskID() uuid.UUID      { return g.ID }
func (g *GeneratedTask) TaskStatus() string     { return g.Status }
func (g *GeneratedTask) TaskPoints() int        { return g.Points }
func (g *GeneratedTask) TaskDifficulty() string { return g.Difficulty }
