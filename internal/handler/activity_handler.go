package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/middleware"
	"github.com/Huerte/AcademiQly/internal/service"
	"github.com/Huerte/AcademiQly/internal/utils"
)

// ActivityHandler exposes activity creation, lookup and the close sweep.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler builds an activity handler instance.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Post("/rooms/:id/activities", h.create)
	router.Post("/activities/sweep", h.sweep)
	router.Get("/activities/:id", h.get)
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return teacherOnly(c)
	}

	roomID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ActivityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.Create(requestContext(c), teacher, roomID, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity created", activity)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	role, ok := middleware.RoleFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusForbidden, "role required")
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	activity, err := h.service.Get(requestContext(c), role, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "activity retrieved", activity)
}

func (h *ActivityHandler) sweep(c *fiber.Ctx) error {
	if _, ok := teacherFromContext(c); !ok {
		return teacherOnly(c)
	}

	closed, err := h.service.Sweep(requestContext(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().Int64("closed", closed).Msg("overdue activities closed on demand")
	return utils.SendSuccess(c, "sweep completed", dto.SweepResponse{Closed: closed, RanAt: time.Now().UTC()})
}
