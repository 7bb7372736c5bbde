package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/service"
	"github.com/Huerte/AcademiQly/internal/utils"
)

// AnalyticsHandler serves the cohort report.
type AnalyticsHandler struct {
	service service.AnalyticsService
	logger  zerolog.Logger
}

// NewAnalyticsHandler constructs an analytics handler.
func NewAnalyticsHandler(service service.AnalyticsService, logger zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger.With().Str("component", "analytics_handler").Logger(),
	}
}

// Register attaches the report route.
func (h *AnalyticsHandler) Register(router fiber.Router) {
	router.Get("/report", h.report)
}

func (h *AnalyticsHandler) report(c *fiber.Ctx) error {
	var query dto.AnalyticsReportQuery
	var err error

	if query.RoomID, err = parseQueryUint(c, "room_id"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if query.From, err = parseQueryTime(c, "from"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if query.To, err = parseQueryTime(c, "to"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	report, err := h.service.Report(requestContext(c), query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "analytics report generated", report)
}
