package models

import "time"

// Lesson kinds supported by the content hierarchy.
const (
	LessonKindVideo   = "video"
	LessonKindArticle = "article"
	LessonKindProject = "project"
	LessonKindQuiz    = "quiz"
)

// Course is the top-level unit of published content.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:128;uniqueIndex" json:"slug"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CourseModule groups lessons inside a course. Position drives ordering.
type CourseModule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourseID  uint      `gorm:"index;not null" json:"course_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Lessons   []Lesson  `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

// Lesson is the smallest completable unit of content.
type Lesson struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ModuleID        uint      `gorm:"index;not null" json:"module_id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Kind            string    `gorm:"size:32;not null;default:'video'" json:"kind"`
	Position        int       `gorm:"not null;default:0" json:"position"`
	DurationMinutes int       `gorm:"not null;default:0" json:"duration_minutes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Quiz attaches an assessable unit to a lesson of kind "quiz".
type Quiz struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	LessonID  uint      `gorm:"index;not null" json:"lesson_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	PassScore float64   `gorm:"not null;default:70" json:"pass_score"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Lesson    *Lesson   `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}
