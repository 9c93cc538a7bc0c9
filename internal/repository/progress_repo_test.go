package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Course{},
		&models.CourseModule{},
		&models.Lesson{},
		&models.Quiz{},
		&models.User{},
		&models.Enrollment{},
		&models.LessonProgress{},
		&models.QuizAttempt{},
	))

	return db
}

func seedCourseContent(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&models.Course{ID: 1, Slug: "c1", Title: "Course One"}).Error)
	require.NoError(t, db.Create(&models.Course{ID: 2, Slug: "c2", Title: "Course Two"}).Error)
	require.NoError(t, db.Create(&models.CourseModule{ID: 1, CourseID: 1, Title: "M1", Position: 1}).Error)
	require.NoError(t, db.Create(&models.CourseModule{ID: 2, CourseID: 2, Title: "Other", Position: 1}).Error)
	require.NoError(t, db.Create(&models.Lesson{ID: 1, ModuleID: 1, Title: "L1", Position: 1}).Error)
	require.NoError(t, db.Create(&models.Lesson{ID: 2, ModuleID: 1, Title: "L2", Position: 2}).Error)
	require.NoError(t, db.Create(&models.Lesson{ID: 3, ModuleID: 2, Title: "Other Lesson", Position: 1}).Error)
	require.NoError(t, db.Create(&models.Quiz{ID: 1, LessonID: 2, Title: "Q1"}).Error)
	require.NoError(t, db.Create(&models.Quiz{ID: 2, LessonID: 3, Title: "Other Quiz"}).Error)
}

func TestListLessonProgressRestrictsToDomain(t *testing.T) {
	db := newTestDB(t)
	seedCourseContent(t, db)

	now := time.Now().UTC()
	records := []models.LessonProgress{
		{UserID: 1, LessonID: 1, Status: models.ProgressStatusCompleted, CompletedAt: &now},
		{UserID: 1, LessonID: 3, Status: models.ProgressStatusCompleted, CompletedAt: &now},
		{UserID: 9, LessonID: 1, Status: models.ProgressStatusCompleted, CompletedAt: &now},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}

	repo := NewProgressRepository(db)
	got, err := repo.ListLessonProgress(context.Background(), []uint{1}, []uint{1, 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, uint(1), got[0].UserID)
	require.Equal(t, uint(1), got[0].LessonID)
	require.NotNil(t, got[0].Lesson)
	require.Equal(t, "L1", got[0].Lesson.Title)
}

func TestListLessonProgressEmptyDomain(t *testing.T) {
	db := newTestDB(t)

	repo := NewProgressRepository(db)
	got, err := repo.ListLessonProgress(context.Background(), nil, []uint{1})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestListQuizAttemptsRestrictsToCourse(t *testing.T) {
	db := newTestDB(t)
	seedCourseContent(t, db)

	now := time.Now().UTC()
	score := 75.0
	attempts := []models.QuizAttempt{
		{UserID: 1, QuizID: 1, Score: &score, Passed: true, CompletedAt: &now},
		{UserID: 1, QuizID: 2, Score: &score, Passed: true, CompletedAt: &now},
		{UserID: 9, QuizID: 1, Score: &score, Passed: true, CompletedAt: &now},
	}
	for i := range attempts {
		require.NoError(t, db.Create(&attempts[i]).Error)
	}

	repo := NewProgressRepository(db)
	got, err := repo.ListQuizAttempts(context.Background(), []uint{1}, 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, uint(1), got[0].QuizID)
	require.NotNil(t, got[0].Quiz)
	require.NotNil(t, got[0].Quiz.Lesson)
	require.Equal(t, "L2", got[0].Quiz.Lesson.Title)
}

func TestListQuizAttemptsSkipsBrokenLinkage(t *testing.T) {
	db := newTestDB(t)
	seedCourseContent(t, db)

	now := time.Now().UTC()
	score := 80.0
	require.NoError(t, db.Create(&models.QuizAttempt{UserID: 1, QuizID: 1, Score: &score, CompletedAt: &now}).Error)

	// Break the quiz -> lesson linkage; the attempt must drop out instead
	// of failing the read.
	require.NoError(t, db.Delete(&models.Lesson{}, 2).Error)

	repo := NewProgressRepository(db)
	got, err := repo.ListQuizAttempts(context.Background(), []uint{1}, 1, 10)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestListRecentCompletionsOrdersMostRecentFirst(t *testing.T) {
	db := newTestDB(t)
	seedCourseContent(t, db)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	older := base
	newer := base.Add(time.Hour)
	records := []models.LessonProgress{
		{UserID: 1, LessonID: 1, Status: models.ProgressStatusCompleted, CompletedAt: &older},
		{UserID: 2, LessonID: 2, Status: models.ProgressStatusCompleted, CompletedAt: &newer},
		{UserID: 3, LessonID: 1, Status: models.ProgressStatusInProgress},
	}
	for i := range records {
		require.NoError(t, db.Create(&records[i]).Error)
	}

	repo := NewProgressRepository(db)
	got, err := repo.ListRecentCompletions(context.Background(), 1, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, uint(2), got[0].UserID)
	require.Equal(t, uint(1), got[1].UserID)
}

func TestListModulesReturnsOrderedHierarchy(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&models.Course{ID: 1, Slug: "c1", Title: "Course One"}).Error)
	require.NoError(t, db.Create(&models.CourseModule{ID: 1, CourseID: 1, Title: "Second", Position: 2}).Error)
	require.NoError(t, db.Create(&models.CourseModule{ID: 2, CourseID: 1, Title: "First", Position: 1}).Error)
	require.NoError(t, db.Create(&models.Lesson{ID: 1, ModuleID: 2, Title: "B", Position: 2}).Error)
	require.NoError(t, db.Create(&models.Lesson{ID: 2, ModuleID: 2, Title: "A", Position: 1}).Error)

	repo := NewContentRepository(db)
	modules, err := repo.ListModules(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, modules, 2)
	require.Equal(t, "First", modules[0].Title)
	require.Len(t, modules[0].Lessons, 2)
	require.Equal(t, "A", modules[0].Lessons[0].Title)
	require.Equal(t, "B", modules[0].Lessons[1].Title)
}

func TestListModulesEmptyCourse(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Course{ID: 1, Slug: "c1", Title: "Course One"}).Error)

	repo := NewContentRepository(db)
	modules, err := repo.ListModules(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, modules)
}

func TestListStudentsKeepsEnrollmentOrder(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&models.Course{ID: 1, Slug: "c1", Title: "Course One"}).Error)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	users := []models.User{
		{ID: 1, Email: "late@example.com"},
		{ID: 2, Email: "early@example.com"},
		{ID: 3, Email: "instructor@example.com"},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}
	enrollments := []models.Enrollment{
		{UserID: 1, CourseID: 1, Role: models.EnrollmentRoleStudent, EnrolledAt: base.Add(time.Hour)},
		{UserID: 2, CourseID: 1, Role: models.EnrollmentRoleStudent, EnrolledAt: base},
		{UserID: 3, CourseID: 1, Role: models.EnrollmentRoleInstructor, EnrolledAt: base},
	}
	for i := range enrollments {
		require.NoError(t, db.Create(&enrollments[i]).Error)
	}

	repo := NewEnrollmentRepository(db)
	got, err := repo.ListStudents(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, uint(2), got[0].UserID)
	require.Equal(t, uint(1), got[1].UserID)
	require.NotNil(t, got[0].User)
	require.Equal(t, "early@example.com", got[0].User.Email)
}
