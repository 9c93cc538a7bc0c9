package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/observability"
	"github.com/noah-isme/lentera-go-api/internal/progresscache"
	"github.com/noah-isme/lentera-go-api/internal/repository"
)

// ErrCourseNotFound indicates the requested course does not exist.
var ErrCourseNotFound = errors.New("course not found")

const (
	maxQuizScoresShown  = 3
	maxRecentActivity   = 2
	defaultAttemptFetch = 200
)

// CourseProgressService aggregates per-student and course-level progress.
type CourseProgressService interface {
	GetCourseProgress(ctx context.Context, courseID uint, studentIDs []uint) (dto.CourseProgressResponse, error)
	GetCourseSummary(ctx context.Context, courseID uint) (dto.CourseSummaryResponse, error)
}

type courseProgressService struct {
	content      repository.ContentRepository
	enrollments  repository.EnrollmentRepository
	progress     repository.ProgressRepository
	cache        *progresscache.Cache
	attemptLimit int
	logger       zerolog.Logger
	now          func() time.Time
}

// NewCourseProgressService builds the progress aggregator.
func NewCourseProgressService(content repository.ContentRepository, enrollments repository.EnrollmentRepository, progress repository.ProgressRepository, cache *progresscache.Cache, attemptLimit int, logger zerolog.Logger) CourseProgressService {
	if attemptLimit <= 0 {
		attemptLimit = defaultAttemptFetch
	}

	return &courseProgressService{
		content:      content,
		enrollments:  enrollments,
		progress:     progress,
		cache:        cache,
		attemptLimit: attemptLimit,
		logger:       logger.With().Str("component", "course_progress_service").Logger(),
		now:          time.Now,
	}
}

func (s *courseProgressService) GetCourseProgress(ctx context.Context, courseID uint, studentIDs []uint) (dto.CourseProgressResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/lentera-go-api/internal/service/course_progress")
	ctx, span := tracer.Start(ctx, "progress.aggregate")
	span.SetAttributes(attribute.Int64("progress.course_id", int64(courseID)))
	defer span.End()

	// The cache key is the course id alone; a student filter always
	// recomputes so it can never serve a narrowed result to other callers.
	cacheKey := strconv.FormatUint(uint64(courseID), 10)
	filtered := len(studentIDs) > 0

	if s.cache != nil && !filtered {
		if cached, ok := s.cache.Get(cacheKey); ok {
			cached.CacheHit = true
			observability.ProgressRequests().WithLabelValues("hit").Inc()
			span.SetAttributes(attribute.Bool("progress.cache_hit", true))
			s.logger.Debug().Uint("course_id", courseID).Msg("progress cache hit")
			return cached, nil
		}
	}

	start := time.Now()

	course, err := s.content.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.ProgressRequests().WithLabelValues("not_found").Inc()
			return dto.CourseProgressResponse{}, ErrCourseNotFound
		}
		observability.ProgressRequests().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "get_course_failed")
		return dto.CourseProgressResponse{}, fmt.Errorf("load course %d: %w", courseID, err)
	}

	modules, err := s.content.ListModules(ctx, courseID)
	if err != nil {
		observability.ProgressRequests().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_modules_failed")
		return dto.CourseProgressResponse{}, fmt.Errorf("load modules for course %d: %w", courseID, err)
	}

	enrollments, err := s.enrollments.ListStudents(ctx, courseID)
	if err != nil {
		observability.ProgressRequests().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_students_failed")
		return dto.CourseProgressResponse{}, fmt.Errorf("load enrollments for course %d: %w", courseID, err)
	}
	if filtered {
		enrollments = filterEnrollments(enrollments, studentIDs)
	}

	lessons := flattenLessons(modules)
	lessonIDs := make([]uint, 0, len(lessons))
	for _, lesson := range lessons {
		lessonIDs = append(lessonIDs, lesson.ID)
	}
	userIDs := make([]uint, 0, len(enrollments))
	for _, enrollment := range enrollments {
		userIDs = append(userIDs, enrollment.UserID)
	}

	records, err := s.progress.ListLessonProgress(ctx, userIDs, lessonIDs)
	if err != nil {
		observability.ProgressRequests().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_progress_failed")
		return dto.CourseProgressResponse{}, fmt.Errorf("load lesson progress for course %d: %w", courseID, err)
	}

	attempts, err := s.progress.ListQuizAttempts(ctx, userIDs, courseID, s.attemptLimit)
	if err != nil {
		observability.ProgressRequests().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_attempts_failed")
		return dto.CourseProgressResponse{}, fmt.Errorf("load quiz attempts for course %d: %w", courseID, err)
	}

	response := buildCourseProgress(course, lessons, enrollments, records, attempts)
	response.GeneratedAt = s.now().UTC()

	if s.cache != nil && !filtered {
		s.cache.Put(cacheKey, response)
	}

	observability.ProgressRequests().WithLabelValues("miss").Inc()
	observability.ProgressLatency().Observe(time.Since(start).Seconds())
	span.SetAttributes(
		attribute.Int("progress.students", len(response.Students)),
		attribute.Int("progress.total_lessons", response.CourseStats.TotalLessons),
	)

	return response, nil
}

func (s *courseProgressService) GetCourseSummary(ctx context.Context, courseID uint) (dto.CourseSummaryResponse, error) {
	progress, err := s.GetCourseProgress(ctx, courseID, nil)
	if err != nil {
		return dto.CourseSummaryResponse{}, err
	}

	return toCourseSummary(progress), nil
}

// buildCourseProgress is the pure aggregation step: no I/O, no clock. Calling
// it twice with the same inputs yields identical output.
func buildCourseProgress(course models.Course, lessons []models.Lesson, enrollments []models.Enrollment, records []models.LessonProgress, attempts []models.QuizAttempt) dto.CourseProgressResponse {
	totalLessons := len(lessons)

	lessonTitles := make(map[uint]string, totalLessons)
	for _, lesson := range lessons {
		lessonTitles[lesson.ID] = lesson.Title
	}

	completedCount := make(map[uint]int)
	completionsByUser := make(map[uint][]models.LessonProgress)
	for _, record := range records {
		if record.Status != models.ProgressStatusCompleted {
			continue
		}
		if _, ok := lessonTitles[record.LessonID]; !ok {
			// Orphaned record, lesson no longer part of the course.
			continue
		}
		completedCount[record.UserID]++
		completionsByUser[record.UserID] = append(completionsByUser[record.UserID], record)
	}

	attemptsByUser := make(map[uint][]models.QuizAttempt)
	for _, attempt := range attempts {
		if attempt.Quiz == nil || attempt.Quiz.Lesson == nil {
			// Broken quiz or lesson linkage, skip rather than fail.
			continue
		}
		attemptsByUser[attempt.UserID] = append(attemptsByUser[attempt.UserID], attempt)
	}

	students := make([]dto.StudentProgressResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if enrollment.User == nil {
			// Orphaned enrollment; a student without profile data is
			// excluded rather than rendered with blank fields.
			continue
		}

		stats, scores := buildQuizStats(attemptsByUser[enrollment.UserID])
		students = append(students, dto.StudentProgressResponse{
			ID:             enrollment.User.ID,
			Email:          enrollment.User.Email,
			FirstName:      enrollment.User.FirstName,
			LastName:       enrollment.User.LastName,
			AvatarURL:      enrollment.User.AvatarURL,
			EnrolledAt:     enrollment.EnrolledAt,
			Progress:       lessonCompletion(completedCount[enrollment.UserID], totalLessons),
			QuizStats:      stats,
			QuizScores:     scores,
			RecentActivity: recentCompletions(completionsByUser[enrollment.UserID]),
		})
	}

	// Stable sort: equal percentages keep their enrollment order.
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].Progress.Percentage > students[j].Progress.Percentage
	})

	stats := dto.CourseStatsResponse{TotalLessons: totalLessons}
	percentageSum := 0
	for _, student := range students {
		percentageSum += student.Progress.Percentage
		if student.Progress.Completed {
			stats.StudentsCompleted++
		}
	}
	if len(students) > 0 {
		stats.AverageProgress = roundRatio(percentageSum, len(students))
	}

	return dto.CourseProgressResponse{
		Course:        dto.CourseRef{ID: course.ID, Title: course.Title},
		Students:      students,
		TotalStudents: len(students),
		CourseStats:   stats,
	}
}

// lessonCompletion applies the completion invariants: percentage is the
// rounded share of completed lessons, and an empty course is never counted
// as completed (no vacuous 100% of 0).
func lessonCompletion(completed, total int) dto.ProgressSummary {
	if completed < 0 || total < 0 || completed > total {
		panic(fmt.Sprintf("malformed lesson counts: completed=%d total=%d", completed, total))
	}

	summary := dto.ProgressSummary{
		CompletedLessons: completed,
		TotalLessons:     total,
	}
	if total > 0 {
		summary.Percentage = roundRatio(100*completed, total)
		summary.Completed = completed == total
	}

	return summary
}

// buildQuizStats rolls up a student's attempts. The average covers every
// scored attempt even though only the most recent few are listed.
func buildQuizStats(attempts []models.QuizAttempt) (dto.QuizStats, []dto.QuizScoreEntry) {
	ordered := append([]models.QuizAttempt(nil), attempts...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return attemptMoreRecent(ordered[i], ordered[j])
	})

	stats := dto.QuizStats{TotalAttempts: len(ordered)}
	scores := make([]dto.QuizScoreEntry, 0, maxQuizScoresShown)

	scoreSum := 0.0
	scoredCount := 0
	for _, attempt := range ordered {
		if attempt.Score == nil {
			continue
		}

		scoreSum += *attempt.Score
		scoredCount++
		if attempt.Passed {
			stats.PassedQuizzes++
		}

		if len(scores) < maxQuizScoresShown {
			score := int(math.Round(*attempt.Score))
			passed := attempt.Passed
			scores = append(scores, dto.QuizScoreEntry{
				QuizTitle:   attempt.Quiz.Title,
				LessonTitle: attempt.Quiz.Lesson.Title,
				Score:       &score,
				Passed:      &passed,
				CompletedAt: attempt.CompletedAt,
			})
		}
	}

	if scoredCount > 0 {
		average := int(math.Round(scoreSum / float64(scoredCount)))
		stats.AverageScore = &average
	}

	return stats, scores
}

// recentCompletions lists the latest completed lessons by completion time.
func recentCompletions(records []models.LessonProgress) []dto.RecentActivityEntry {
	timestamped := make([]models.LessonProgress, 0, len(records))
	for _, record := range records {
		if record.CompletedAt == nil || record.Lesson == nil {
			continue
		}
		timestamped = append(timestamped, record)
	}

	sort.SliceStable(timestamped, func(i, j int) bool {
		return timestamped[i].CompletedAt.After(*timestamped[j].CompletedAt)
	})

	entries := make([]dto.RecentActivityEntry, 0, maxRecentActivity)
	for _, record := range timestamped {
		if len(entries) == maxRecentActivity {
			break
		}
		entries = append(entries, dto.RecentActivityEntry{
			LessonTitle: record.Lesson.Title,
			CompletedAt: *record.CompletedAt,
		})
	}

	return entries
}

func toCourseSummary(progress dto.CourseProgressResponse) dto.CourseSummaryResponse {
	scoreSum := 0
	scored := 0
	for _, student := range progress.Students {
		if student.QuizStats.AverageScore != nil {
			scoreSum += *student.QuizStats.AverageScore
			scored++
		}
	}

	var averageQuiz *int
	if scored > 0 {
		value := roundRatio(scoreSum, scored)
		averageQuiz = &value
	}

	return dto.CourseSummaryResponse{
		Course:            progress.Course,
		TotalLessons:      progress.CourseStats.TotalLessons,
		TotalStudents:     progress.TotalStudents,
		AverageProgress:   progress.CourseStats.AverageProgress,
		StudentsCompleted: progress.CourseStats.StudentsCompleted,
		AverageQuizScore:  dto.ScoreLabel(averageQuiz),
		GeneratedAt:       progress.GeneratedAt,
		CacheHit:          progress.CacheHit,
	}
}

func flattenLessons(modules []models.CourseModule) []models.Lesson {
	lessons := make([]models.Lesson, 0)
	for _, module := range modules {
		lessons = append(lessons, module.Lessons...)
	}
	return lessons
}

func filterEnrollments(enrollments []models.Enrollment, studentIDs []uint) []models.Enrollment {
	wanted := make(map[uint]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = struct{}{}
	}

	filtered := make([]models.Enrollment, 0, len(studentIDs))
	for _, enrollment := range enrollments {
		if _, ok := wanted[enrollment.UserID]; ok {
			filtered = append(filtered, enrollment)
		}
	}
	return filtered
}

// attemptMoreRecent orders attempts most-recent-first by completion time,
// with ungraded attempts (no completion timestamp) last.
func attemptMoreRecent(a, b models.QuizAttempt) bool {
	switch {
	case a.CompletedAt != nil && b.CompletedAt != nil:
		return a.CompletedAt.After(*b.CompletedAt)
	case a.CompletedAt != nil:
		return true
	case b.CompletedAt != nil:
		return false
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}

func roundRatio(numerator, denominator int) int {
	return int(math.Round(float64(numerator) / float64(denominator)))
}
