package handler

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/service"
	"github.com/Huerte/AcademiQly/internal/utils"
)

// SubmissionHandler accepts student work and teacher grades.
type SubmissionHandler struct {
	submissions service.SubmissionService
	grading     service.GradingService
	logger      zerolog.Logger
}

// NewSubmissionHandler builds a submission handler instance.
func NewSubmissionHandler(submissions service.SubmissionService, grading service.GradingService, logger zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissions: submissions,
		grading:     grading,
		logger:      logger.With().Str("component", "submission_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group. limiter, when
// non-nil, guards the submit route.
func (h *SubmissionHandler) Register(router fiber.Router, limiter fiber.Handler) {
	if limiter != nil {
		router.Post("/activities/:id/submissions", limiter, h.submit)
	} else {
		router.Post("/activities/:id/submissions", h.submit)
	}
	router.Patch("/submissions/:id/grade", h.grade)
}

func (h *SubmissionHandler) submit(c *fiber.Ctx) error {
	student, ok := studentFromContext(c)
	if !ok {
		return studentOnly(c)
	}

	activityID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SubmissionCreateRequest
	var file *multipart.FileHeader
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid multipart form")
		}
		if files := form.File["file"]; len(files) > 0 {
			file = files[0]
		}
	}

	submission, err := h.submissions.Submit(requestContext(c), student, activityID, payload, file)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission received", submission)
}

func (h *SubmissionHandler) grade(c *fiber.Ctx) error {
	teacher, ok := teacherFromContext(c)
	if !ok {
		return teacherOnly(c)
	}

	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	submission, err := h.grading.Grade(requestContext(c), teacher, id, payload)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return utils.SendSuccess(c, "submission graded", submission)
}
