package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-go-api/internal/service"
	"github.com/noah-isme/lentera-go-api/internal/utils"
)

// CourseProgressHandler exposes the instructor progress endpoints.
type CourseProgressHandler struct {
	service service.CourseProgressService
	logger  zerolog.Logger
}

// NewCourseProgressHandler creates a new handler instance.
func NewCourseProgressHandler(service service.CourseProgressService, logger zerolog.Logger) *CourseProgressHandler {
	return &CourseProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "course_progress_handler").Logger(),
	}
}

// Register attaches the progress endpoints.
func (h *CourseProgressHandler) Register(router fiber.Router) {
	router.Get("/courses/:id/progress", h.getCourseProgress)
	router.Get("/courses/:id/summary", h.getCourseSummary)
}

func (h *CourseProgressHandler) getCourseProgress(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentIDs, err := parseUintList(c.Query("students"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid students filter")
	}

	progress, err := h.service.GetCourseProgress(c.Context(), courseID, studentIDs)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		h.logger.Error().Err(err).Uint("course_id", courseID).Msg("failed to load course progress")
		return utils.SendTransientError(c, fiber.StatusInternalServerError, "failed to load course progress")
	}

	return utils.SendSuccess(c, "course progress retrieved", progress)
}

func (h *CourseProgressHandler) getCourseSummary(c *fiber.Ctx) error {
	courseID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	summary, err := h.service.GetCourseSummary(c.Context(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "course not found")
		}
		h.logger.Error().Err(err).Uint("course_id", courseID).Msg("failed to load course summary")
		return utils.SendTransientError(c, fiber.StatusInternalServerError, "failed to load course summary")
	}

	return utils.SendSuccess(c, "course summary retrieved", summary)
}
