package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/service"
	"github.com/Huerte/AcademiQly/internal/utils"
)

// AuditHandler lists the grading audit trail of the calling teacher.
type AuditHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(service service.AuditService, logger zerolog.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_handler").Logger(),
	}
}

// Register attaches the audit route.
func (h *AuditHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
}

func (h *AuditHandler) list(c *fiber.Ctx) error {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return teacherOnly(c)
	}

	var query dto.AuditLogListRequest
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	page, err := h.service.ListForActor(requestContext(c), teacher.ID, query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "audit log retrieved", page)
}
