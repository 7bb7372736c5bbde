package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/service"
	"github.com/Huerte/AcademiQly/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams room grade workbooks.
type ExportHandler struct {
	service service.ExportService
	logger  zerolog.Logger
}

// NewExportHandler constructs an export handler.
func NewExportHandler(service service.ExportService, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		service: service,
		logger:  logger.With().Str("component", "export_handler").Logger(),
	}
}

// Register attaches the export route.
func (h *ExportHandler) Register(router fiber.Router) {
	router.Get("/rooms/:id/grades/export", h.roomGrades)
}

func (h *ExportHandler) roomGrades(c *fiber.Ctx) error {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return teacherOnly(c)
	}

	roomID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	export, err := h.service.RoomGrades(requestContext(c), teacher, roomID)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	requestLogger(h.logger, c).Info().Uint("room_id", roomID).Int("bytes", len(export.Content)).Msg("grade workbook exported")
	return utils.SendAttachment(c, export.FileName, xlsxContentType, export.Content)
}
