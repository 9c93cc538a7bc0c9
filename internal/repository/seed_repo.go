package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// DemoFixture bundles the rows inserted by the development seed endpoint.
type DemoFixture struct {
	Courses     []models.Course
	Modules     []models.CourseModule
	Lessons     []models.Lesson
	Quizzes     []models.Quiz
	Users       []models.User
	Enrollments []models.Enrollment
	Progress    []models.LessonProgress
	Attempts    []models.QuizAttempt
}

// SeedRepository writes demo fixtures. It is the only write path in this
// service and is never registered in production.
type SeedRepository interface {
	UpsertFixture(ctx context.Context, fixture DemoFixture) (int64, error)
}

type seedRepository struct {
	db *gorm.DB
}

// NewSeedRepository constructs the seed repository.
func NewSeedRepository(db *gorm.DB) SeedRepository {
	return &seedRepository{db: db}
}

func (r *seedRepository) UpsertFixture(ctx context.Context, fixture DemoFixture) (int64, error) {
	var affected int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := tx.Clauses(clause.OnConflict{UpdateAll: true})

		batches := []interface{}{}
		if len(fixture.Courses) > 0 {
			batches = append(batches, &fixture.Courses)
		}
		if len(fixture.Modules) > 0 {
			batches = append(batches, &fixture.Modules)
		}
		if len(fixture.Lessons) > 0 {
			batches = append(batches, &fixture.Lessons)
		}
		if len(fixture.Quizzes) > 0 {
			batches = append(batches, &fixture.Quizzes)
		}
		if len(fixture.Users) > 0 {
			batches = append(batches, &fixture.Users)
		}
		if len(fixture.Enrollments) > 0 {
			batches = append(batches, &fixture.Enrollments)
		}
		if len(fixture.Progress) > 0 {
			batches = append(batches, &fixture.Progress)
		}
		if len(fixture.Attempts) > 0 {
			batches = append(batches, &fixture.Attempts)
		}

		for _, batch := range batches {
			result := upsert.Create(batch)
			if result.Error != nil {
				return result.Error
			}
			affected += result.RowsAffected
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return affected, nil
}
