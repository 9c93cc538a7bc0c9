package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/lentera-go-api/internal/service"
	"github.com/noah-isme/lentera-go-api/internal/utils"
)

// SeedHandler exposes the development-only seed endpoint.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler creates a new handler instance.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register attaches the seed endpoint.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/seed", h.seedDemoCourse)
}

func (h *SeedHandler) seedDemoCourse(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")

	affected, err := h.service.SeedDemoCourse(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeedDisabled):
			return utils.SendError(c, fiber.StatusForbidden, "seeding is disabled")
		case errors.Is(err, service.ErrSeedUnauthorized):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid seed token")
		default:
			h.logger.Error().Err(err).Msg("failed to seed demo course")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to seed demo course")
		}
	}

	return utils.SendSuccess(c, "demo course seeded", fiber.Map{"affected": affected})
}
