package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/service"
	"github.com/Huerte/AcademiQly/internal/utils"
)

// DashboardHandler serves the teacher and student dashboards.
type DashboardHandler struct {
	teacher service.TeacherDashboardService
	student service.StudentDashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(teacher service.TeacherDashboardService, student service.StudentDashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		teacher: teacher,
		student: student,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard/teacher", h.teacherDashboard)
	router.Get("/dashboard/student", h.studentDashboard)
}

func (h *DashboardHandler) teacherDashboard(c *fiber.Ctx) error {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return teacherOnly(c)
	}

	var query dto.TeacherDashboardQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	view, err := h.teacher.GetDashboard(requestContext(c), teacher, query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", view)
}

func (h *DashboardHandler) studentDashboard(c *fiber.Ctx) error {
	student, ok := studentFromContext(c)
	if !ok {
		return studentOnly(c)
	}

	var query dto.StudentDashboardQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	view, err := h.student.GetDashboard(requestContext(c), student, query)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "dashboard retrieved", view)
}
