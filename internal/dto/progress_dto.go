package dto

import (
	"strconv"
	"time"
)

// CourseRef identifies a course in responses.
type CourseRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// ProgressSummary captures lesson completion for one student in one course.
type ProgressSummary struct {
	CompletedLessons int  `json:"completed_lessons"`
	TotalLessons     int  `json:"total_lessons"`
	Percentage       int  `json:"percentage"`
	Completed        bool `json:"completed"`
}

// QuizStats rolls up a student's quiz attempts. AverageScore covers every
// scored attempt, not just the scores shown, and stays nil when no attempt
// has been graded.
type QuizStats struct {
	TotalAttempts int  `json:"total_attempts"`
	AverageScore  *int `json:"average_score"`
	PassedQuizzes int  `json:"passed_quizzes"`
}

// QuizScoreEntry is one displayed quiz result.
type QuizScoreEntry struct {
	QuizTitle   string     `json:"quiz_title"`
	LessonTitle string     `json:"lesson_title"`
	Score       *int       `json:"score"`
	Passed      *bool      `json:"passed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// RecentActivityEntry is one recently completed lesson.
type RecentActivityEntry struct {
	LessonTitle string    `json:"lesson_title"`
	CompletedAt time.Time `json:"completed_at"`
}

// StudentProgressResponse is the per-student slice of the course progress
// aggregate.
type StudentProgressResponse struct {
	ID             uint                  `json:"id"`
	Email          string                `json:"email"`
	FirstName      string                `json:"first_name"`
	LastName       string                `json:"last_name"`
	AvatarURL      string                `json:"avatar_url"`
	EnrolledAt     time.Time             `json:"enrolled_at"`
	Progress       ProgressSummary       `json:"progress"`
	QuizStats      QuizStats             `json:"quiz_stats"`
	QuizScores     []QuizScoreEntry      `json:"quiz_scores"`
	RecentActivity []RecentActivityEntry `json:"recent_activity"`
}

// CourseStatsResponse is the course-level rollup.
type CourseStatsResponse struct {
	TotalLessons      int `json:"total_lessons"`
	AverageProgress   int `json:"average_progress"`
	StudentsCompleted int `json:"students_completed"`
}

// CourseProgressResponse is the full aggregate served to instructor views.
// Students are sorted by percentage descending; ties keep enrollment order.
type CourseProgressResponse struct {
	Course        CourseRef                 `json:"course"`
	Students      []StudentProgressResponse `json:"students"`
	TotalStudents int                       `json:"total_students"`
	CourseStats   CourseStatsResponse       `json:"course_stats"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	CacheHit      bool                      `json:"cache_hit"`
}

// CourseSummaryResponse backs the instructor summary card.
type CourseSummaryResponse struct {
	Course            CourseRef `json:"course"`
	TotalLessons      int       `json:"total_lessons"`
	TotalStudents     int       `json:"total_students"`
	AverageProgress   int       `json:"average_progress"`
	StudentsCompleted int       `json:"students_completed"`
	AverageQuizScore  string    `json:"average_quiz_score"`
	GeneratedAt       time.Time `json:"generated_at"`
	CacheHit          bool      `json:"cache_hit"`
}

// ScoreLabel renders a nullable score for display. A missing score reads as
// "N/A", never as zero.
func ScoreLabel(score *int) string {
	if score == nil {
		return "N/A"
	}

	return strconv.Itoa(*score)
}
