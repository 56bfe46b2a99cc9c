package models

import "github.com/gofrs/uuid"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusDeclined  = "declined"
	StatusCompleted = "completed"
)

// difficultyPoints is the single source of truth for base point values.
var difficultyPoints = map[string]int{
	DifficultyEasy:   25,
	DifficultyMedium: 50,
	DifficultyHard:   75,
}

// PointsForDifficulty returns the base point value for a difficulty.
// Unknown difficulties are worth nothing.
func PointsForDifficulty(difficulty string) int {
	return difficultyPoints[difficulty]
}

// TaskRecord is the common view over the two task families. Assignment
// and GeneratedTask both implement it so callers that only need
// id/status/points/difficulty do not care which family they hold.
type TaskRecord interface {
	TaskID() uuid.UUID
	TaskStatus() string
	TaskPoints() int
	TaskDifficulty() string
}
