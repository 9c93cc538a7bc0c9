package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// ContentRepository reads the course content hierarchy.
type ContentRepository interface {
	GetCourse(ctx context.Context, id uint) (models.Course, error)
	ListModules(ctx context.Context, courseID uint) ([]models.CourseModule, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository constructs the content repository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) GetCourse(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).First(&course, id).Error
	return course, err
}

// ListModules returns the course's modules ordered by position, with each
// module's lessons preloaded in position order. A course without modules
// yields an empty slice, not an error.
func (r *contentRepository) ListModules(ctx context.Context, courseID uint) ([]models.CourseModule, error) {
	modules := make([]models.CourseModule, 0)
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position ASC, lessons.id ASC")
		}).
		Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&modules).Error
	return modules, err
}
