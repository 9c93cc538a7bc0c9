package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-go-api/internal/dto"
	"github.com/noah-isme/lentera-go-api/internal/service"
	"github.com/noah-isme/lentera-go-api/internal/utils"
)

// ActivityFeedHandler exposes the course activity feed endpoint.
type ActivityFeedHandler struct {
	service service.ActivityFeedService
	logger  zerolog.Logger
}

// NewActivityFeedHandler creates a new handler instance.
func NewActivityFeedHandler(service service.ActivityFeedService, logger zerolog.Logger) *ActivityFeedHandler {
	return &ActivityFeedHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_feed_handler").Logger(),
	}
}

// Register attaches the activity feed endpoint.
func (h *ActivityFeedHandler) Register(router fiber.Router) {
	router.Get("/:id/activity", h.getCourseActivity)
}

func (h *ActivityFeedHandler) getCourseActivity(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	feed, err := h.service.ListCourseActivity(c.Context(), dto.ActivityFeedRequest{CourseID: courseID, Limit: limit})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCourseNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid activity feed request")
		default:
			h.logger.Error().Err(err).Uint("course_id", courseID).Msg("failed to load course activity")
			return utils.SendTransientError(c, fiber.StatusInternalServerError, "failed to load course activity")
		}
	}

	return utils.SendSuccess(c, "course activity retrieved", feed)
}
