package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/models"
	"github.com/noah-isme/lentera-go-api/internal/observability"
	"github.com/noah-isme/lentera-go-api/internal/repository"
)

// ActivityFeedService exposes the recent-activity stream for a course.
type ActivityFeedService interface {
	ListCourseActivity(ctx context.Context, req dto.ActivityFeedRequest) (dto.ActivityFeedResponse, error)
}

type activityFeedService struct {
	content  repository.ContentRepository
	progress repository.ProgressRepository
	cache    *redis.Client
	ttl      time.Duration
	limit    int
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewActivityFeedService builds the activity feed service.
func NewActivityFeedService(content repository.ContentRepository, progress repository.ProgressRepository, cache *redis.Client, ttl time.Duration, limit int, validate *validator.Validate, logger zerolog.Logger) ActivityFeedService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if limit <= 0 {
		limit = 20
	}

	return &activityFeedService{
		content:  content,
		progress: progress,
		cache:    cache,
		ttl:      ttl,
		limit:    limit,
		validate: validate,
		logger:   logger.With().Str("component", "activity_feed_service").Logger(),
	}
}

func (s *activityFeedService) ListCourseActivity(ctx context.Context, req dto.ActivityFeedRequest) (dto.ActivityFeedResponse, error) {
	if s.validate != nil {
		if err := s.validate.Struct(req); err != nil {
			return dto.ActivityFeedResponse{}, err
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.limit
	}

	cacheKey := fmt.Sprintf("activity:course:%d:%d", req.CourseID, limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.ActivityFeedResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				observability.ActivityRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read activity cache")
		}
	}

	course, err := s.content.GetCourse(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityFeedResponse{}, ErrCourseNotFound
		}
		observability.ActivityRequests().WithLabelValues("error").Inc()
		return dto.ActivityFeedResponse{}, fmt.Errorf("load course %d: %w", req.CourseID, err)
	}

	completions, err := s.progress.ListRecentCompletions(ctx, req.CourseID, limit)
	if err != nil {
		observability.ActivityRequests().WithLabelValues("error").Inc()
		return dto.ActivityFeedResponse{}, fmt.Errorf("load recent completions for course %d: %w", req.CourseID, err)
	}

	attempts, err := s.progress.ListRecentCourseAttempts(ctx, req.CourseID, limit)
	if err != nil {
		observability.ActivityRequests().WithLabelValues("error").Inc()
		return dto.ActivityFeedResponse{}, fmt.Errorf("load recent attempts for course %d: %w", req.CourseID, err)
	}

	response := buildActivityFeed(course, completions, attempts, limit)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store activity cache")
			}
		}
	}

	observability.ActivityRequests().WithLabelValues("miss").Inc()

	return response, nil
}

func buildActivityFeed(course models.Course, completions []models.LessonProgress, attempts []models.QuizAttempt, limit int) dto.ActivityFeedResponse {
	items := make([]dto.ActivityFeedItem, 0, len(completions)+len(attempts))

	for _, record := range completions {
		if record.CompletedAt == nil || record.Lesson == nil {
			continue
		}
		items = append(items, dto.ActivityFeedItem{
			Type:        dto.ActivityLessonCompleted,
			UserID:      record.UserID,
			LessonTitle: record.Lesson.Title,
			OccurredAt:  *record.CompletedAt,
		})
	}

	for _, attempt := range attempts {
		if attempt.Score == nil || attempt.CompletedAt == nil || attempt.Quiz == nil || attempt.Quiz.Lesson == nil {
			continue
		}
		score := int(math.Round(*attempt.Score))
		passed := attempt.Passed
		items = append(items, dto.ActivityFeedItem{
			Type:        dto.ActivityQuizGraded,
			UserID:      attempt.UserID,
			LessonTitle: attempt.Quiz.Lesson.Title,
			QuizTitle:   attempt.Quiz.Title,
			Score:       &score,
			Passed:      &passed,
			OccurredAt:  *attempt.CompletedAt,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OccurredAt.After(items[j].OccurredAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}

	return dto.ActivityFeedResponse{
		Course: dto.CourseRef{ID: course.ID, Title: course.Title},
		Items:  items,
	}
}
