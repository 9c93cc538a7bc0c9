package models

import "time"

// Enrollment roles.
const (
	EnrollmentRoleStudent    = "student"
	EnrollmentRoleInstructor = "instructor"
)

// User represents a learner or instructor profile.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"size:128" json:"first_name"`
	LastName  string    `gorm:"size:128" json:"last_name"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enrollment associates a user with a course. EnrolledAt defines the stable
// ordering used when progress percentages tie.
type Enrollment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	CourseID   uint      `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	Role       string    `gorm:"size:32;not null;default:'student'" json:"role"`
	EnrolledAt time.Time `gorm:"index" json:"enrolled_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
