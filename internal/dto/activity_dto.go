package dto

import "time"

// Activity item types.
const (
	ActivityLessonCompleted = "lesson_completed"
	ActivityQuizGraded      = "quiz_graded"
)

// ActivityFeedRequest filters the course activity feed.
type ActivityFeedRequest struct {
	CourseID uint `validate:"required"`
	Limit    int  `validate:"gte=0,lte=50"`
}

// ActivityFeedItem is one event in the course activity feed.
type ActivityFeedItem struct {
	Type        string    `json:"type"`
	UserID      uint      `json:"user_id"`
	LessonTitle string    `json:"lesson_title"`
	QuizTitle   string    `json:"quiz_title,omitempty"`
	Score       *int      `json:"score,omitempty"`
	Passed      *bool     `json:"passed,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// ActivityFeedResponse wraps the course activity feed.
type ActivityFeedResponse struct {
	Course   CourseRef          `json:"course"`
	Items    []ActivityFeedItem `json:"items"`
	CacheHit bool               `json:"cache_hit"`
}
