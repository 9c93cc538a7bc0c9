package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

// ProgressRepository retrieves raw completion and quiz-attempt facts.
type ProgressRepository interface {
	ListLessonProgress(ctx context.Context, userIDs []uint, lessonIDs []uint) ([]models.LessonProgress, error)
	ListQuizAttempts(ctx context.Context, userIDs []uint, courseID uint, limit int) ([]models.QuizAttempt, error)
	ListRecentCompletions(ctx context.Context, courseID uint, limit int) ([]models.LessonProgress, error)
	ListRecentCourseAttempts(ctx context.Context, courseID uint, limit int) ([]models.QuizAttempt, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository constructs the progress fact repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

// ListLessonProgress returns the completion records that exist inside the
// user x lesson domain. Pairs without a record simply do not appear.
func (r *progressRepository) ListLessonProgress(ctx context.Context, userIDs []uint, lessonIDs []uint) ([]models.LessonProgress, error) {
	records := make([]models.LessonProgress, 0)
	if len(userIDs) == 0 || len(lessonIDs) == 0 {
		return records, nil
	}

	err := r.db.WithContext(ctx).
		Preload("Lesson").
		Where("user_id IN ?", userIDs).
		Where("lesson_id IN ?", lessonIDs).
		Find(&records).Error
	return records, err
}

// ListQuizAttempts returns the most recent attempts by the given users on
// quizzes belonging to the course. The inner joins through quiz, lesson and
// module drop attempts whose parent linkage is broken.
func (r *progressRepository) ListQuizAttempts(ctx context.Context, userIDs []uint, courseID uint, limit int) ([]models.QuizAttempt, error) {
	attempts := make([]models.QuizAttempt, 0)
	if len(userIDs) == 0 {
		return attempts, nil
	}
	if limit <= 0 {
		limit = 200
	}

	err := r.courseAttemptQuery(ctx, courseID).
		Where("quiz_attempts.user_id IN ?", userIDs).
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

// ListRecentCompletions returns the latest completed lessons across the whole
// course, for the activity feed.
func (r *progressRepository) ListRecentCompletions(ctx context.Context, courseID uint, limit int) ([]models.LessonProgress, error) {
	records := make([]models.LessonProgress, 0)
	if limit <= 0 {
		limit = 20
	}

	err := r.db.WithContext(ctx).
		Select("lesson_progresses.*").
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("course_modules.course_id = ?", courseID).
		Where("lesson_progresses.status = ?", models.ProgressStatusCompleted).
		Where("lesson_progresses.completed_at IS NOT NULL").
		Preload("Lesson").
		Order("lesson_progresses.completed_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// ListRecentCourseAttempts returns the latest attempts across the whole
// course regardless of user, for the activity feed.
func (r *progressRepository) ListRecentCourseAttempts(ctx context.Context, courseID uint, limit int) ([]models.QuizAttempt, error) {
	attempts := make([]models.QuizAttempt, 0)
	if limit <= 0 {
		limit = 20
	}

	err := r.courseAttemptQuery(ctx, courseID).
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}

func (r *progressRepository) courseAttemptQuery(ctx context.Context, courseID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Select("quiz_attempts.*").
		Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
		Joins("JOIN lessons ON lessons.id = quizzes.lesson_id").
		Joins("JOIN course_modules ON course_modules.id = lessons.module_id").
		Where("course_modules.course_id = ?", courseID).
		Preload("Quiz").
		Preload("Quiz.Lesson").
		Order("quiz_attempts.created_at DESC, quiz_attempts.id DESC")
}
