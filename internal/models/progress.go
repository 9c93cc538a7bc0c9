package models

import (
	"time"

	"gorm.io/datatypes"
)

// Lesson progress statuses. At most one record exists per (user, lesson).
const (
	ProgressStatusNotStarted = "not_started"
	ProgressStatusInProgress = "in_progress"
	ProgressStatusCompleted  = "completed"
)

// LessonProgress records a user's completion state for a single lesson.
type LessonProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"user_id"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"lesson_id"`
	Status      string     `gorm:"size:32;not null;default:'not_started'" json:"status"`
	CompletedAt *time.Time `gorm:"index" json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Lesson      *Lesson    `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

// QuizAttempt records one run through a quiz. Score stays nil until the
// attempt is graded.
type QuizAttempt struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	QuizID      uint           `gorm:"index;not null" json:"quiz_id"`
	Score       *float64       `json:"score"`
	Passed      bool           `gorm:"not null;default:false" json:"passed"`
	Answers     datatypes.JSON `gorm:"type:jsonb" json:"answers"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `gorm:"index" json:"completed_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Quiz        *Quiz          `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
}
