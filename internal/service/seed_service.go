package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService installs demo data for development environments.
type SeedService interface {
	SeedDemoCourse(ctx context.Context, token string) (int64, error)
}

type seedService struct {
	repo    repository.SeedRepository
	enabled bool
	token   string
	logger  zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(repo repository.SeedRepository, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		repo:    repo,
		enabled: enabled,
		token:   token,
		logger:  logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedDemoCourse(ctx context.Context, token string) (int64, error) {
	if !s.enabled {
		return 0, ErrSeedDisabled
	}
	if !s.validateToken(token) {
		return 0, ErrSeedUnauthorized
	}

	affected, err := s.repo.UpsertFixture(ctx, demoFixture())
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("affected", affected).Msg("demo course seeded")
	return affected, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}
	return constantTimeEqual(expected, strings.TrimSpace(token))
}

func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	mismatch := byte(0)
	for i := 0; i < len(a); i++ {
		mismatch |= a[i] ^ b[i]
	}
	return mismatch == 0
}

func demoFixture() repository.DemoFixture {
	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	score := func(v float64) *float64 { return &v }
	at := func(d time.Duration) *time.Time {
		t := base.Add(d)
		return &t
	}

	return repository.DemoFixture{
		Courses: []models.Course{
			{ID: 1, Slug: "go-fundamentals", Title: "Go Fundamentals"},
		},
		Modules: []models.CourseModule{
			{ID: 1, CourseID: 1, Title: "Getting Started", Position: 1},
			{ID: 2, CourseID: 1, Title: "Core Concepts", Position: 2},
		},
		Lessons: []models.Lesson{
			{ID: 1, ModuleID: 1, Title: "Installing the Toolchain", Kind: models.LessonKindVideo, Position: 1, DurationMinutes: 12},
			{ID: 2, ModuleID: 1, Title: "Your First Program", Kind: models.LessonKindArticle, Position: 2, DurationMinutes: 18},
			{ID: 3, ModuleID: 2, Title: "Structs and Interfaces", Kind: models.LessonKindVideo, Position: 1, DurationMinutes: 25},
			{ID: 4, ModuleID: 2, Title: "Checkpoint Quiz", Kind: models.LessonKindQuiz, Position: 2, DurationMinutes: 15},
		},
		Quizzes: []models.Quiz{
			{ID: 1, LessonID: 4, Title: "Core Concepts Checkpoint", PassScore: 70},
		},
		Users: []models.User{
			{ID: 1, Email: "amara@example.com", FirstName: "Amara", LastName: "Putri"},
			{ID: 2, Email: "bayu@example.com", FirstName: "Bayu", LastName: "Santoso"},
			{ID: 3, Email: "citra@example.com", FirstName: "Citra", LastName: "Wijaya"},
		},
		Enrollments: []models.Enrollment{
			{ID: 1, UserID: 1, CourseID: 1, Role: models.EnrollmentRoleStudent, EnrolledAt: base},
			{ID: 2, UserID: 2, CourseID: 1, Role: models.EnrollmentRoleStudent, EnrolledAt: base.Add(time.Hour)},
			{ID: 3, UserID: 3, CourseID: 1, Role: models.EnrollmentRoleStudent, EnrolledAt: base.Add(2 * time.Hour)},
		},
		Progress: []models.LessonProgress{
			{ID: 1, UserID: 1, LessonID: 1, Status: models.ProgressStatusCompleted, CompletedAt: at(24 * time.Hour)},
			{ID: 2, UserID: 1, LessonID: 2, Status: models.ProgressStatusCompleted, CompletedAt: at(48 * time.Hour)},
			{ID: 3, UserID: 1, LessonID: 3, Status: models.ProgressStatusCompleted, CompletedAt: at(72 * time.Hour)},
			{ID: 4, UserID: 1, LessonID: 4, Status: models.ProgressStatusCompleted, CompletedAt: at(96 * time.Hour)},
			{ID: 5, UserID: 2, LessonID: 1, Status: models.ProgressStatusCompleted, CompletedAt: at(30 * time.Hour)},
			{ID: 6, UserID: 2, LessonID: 2, Status: models.ProgressStatusInProgress},
			{ID: 7, UserID: 3, LessonID: 1, Status: models.ProgressStatusInProgress},
		},
		Attempts: []models.QuizAttempt{
			{ID: 1, UserID: 1, QuizID: 1, Score: score(85), Passed: true, StartedAt: base.Add(95 * time.Hour), CompletedAt: at(96 * time.Hour)},
			{ID: 2, UserID: 2, QuizID: 1, Score: score(55), Passed: false, StartedAt: base.Add(40 * time.Hour), CompletedAt: at(41 * time.Hour)},
			{ID: 3, UserID: 2, QuizID: 1, StartedAt: base.Add(50 * time.Hour)},
		},
	}
}
