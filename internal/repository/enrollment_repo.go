package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// EnrollmentRepository resolves which users belong to a course.
type EnrollmentRepository interface {
	ListStudents(ctx context.Context, courseID uint) ([]models.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository constructs the enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// ListStudents returns student enrollments for the course in enrollment order.
// The (enrolled_at, id) ordering is the tie-break order used downstream when
// progress percentages are equal.
func (r *enrollmentRepository) ListStudents(ctx context.Context, courseID uint) ([]models.Enrollment, error) {
	enrollments := make([]models.Enrollment, 0)
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ? AND role = ?", courseID, models.EnrollmentRoleStudent).
		Order("enrolled_at ASC, id ASC").
		Find(&enrollments).Error
	return enrollments, err
}
