package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/observability"
	"github.com/Huerte/AcademiQly/internal/repository"
)

// GradingService records scores for submissions in the teacher's rooms.
type GradingService interface {
	Grade(ctx context.Context, teacher models.Teacher, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
}

type gradingService struct {
	repo             repository.SubmissionRepository
	validator        *validator.Validate
	audit            AuditRecorder
	notifier         Notifier
	sanitizer        *bluemonday.Policy
	defaultThreshold int
	logger           zerolog.Logger
	now              func() time.Time
}

// NewGradingService constructs the grading service. audit and notifier may be nil.
func NewGradingService(repo repository.SubmissionRepository, validator *validator.Validate, audit AuditRecorder, notifier Notifier, defaultThreshold int, logger zerolog.Logger) GradingService {
	return &gradingService{
		repo:             repo,
		validator:        validator,
		audit:            audit,
		notifier:         notifier,
		sanitizer:        bluemonday.UGCPolicy(),
		defaultThreshold: defaultThreshold,
		logger:           logger.With().Str("component", "grading_service").Logger(),
		now:              time.Now,
	}
}

func (s *gradingService) Grade(ctx context.Context, teacher models.Teacher, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/Huerte/AcademiQly/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.update")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.teacher_id", int64(teacher.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.repo.GetByID(ctx, submissionID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.SetStatus(codes.Error, "submission_lookup_failed")
		return dto.SubmissionResponse{}, err
	}

	if !submission.Activity.Room.OwnedBy(teacher.ID) {
		span.SetStatus(codes.Error, "not_room_owner")
		return dto.SubmissionResponse{}, ErrNotRoomOwner
	}

	score := *payload.Score
	if score < 0 || score > submission.Activity.TotalMarks {
		span.RecordError(ErrScoreOutOfRange)
		span.SetStatus(codes.Error, "score_out_of_range")
		return dto.SubmissionResponse{}, ErrScoreOutOfRange
	}

	feedback := strings.TrimSpace(s.sanitizer.Sanitize(payload.Feedback))

	unchanged := submission.Score != nil && *submission.Score == score &&
		strings.TrimSpace(submission.Feedback) == feedback &&
		submission.GradedBy != nil && *submission.GradedBy == teacher.ID
	if unchanged {
		span.SetAttributes(attribute.Bool("grading.idempotent", true))
		observability.GradesRecorded().WithLabelValues("idempotent").Inc()
		return dto.NewSubmissionResponse(submission, s.defaultThreshold), nil
	}

	graded, err := s.repo.ApplyGrade(ctx, submission.ID, repository.GradeUpdate{
		Score:    score,
		Feedback: feedback,
		GradedBy: teacher.ID,
		GradedAt: s.now(),
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	observability.GradesRecorded().WithLabelValues("graded").Inc()
	span.SetAttributes(
		attribute.Int("grading.score", score),
		attribute.Int("grading.total_marks", graded.Activity.TotalMarks),
	)

	if s.audit != nil {
		var previous interface{}
		if submission.Score != nil {
			previous = *submission.Score
		}
		if _, err := s.audit.Record(ctx, AuditEntry{
			ActorID:    teacher.ID,
			ActorRole:  TeacherRole{}.Kind(),
			Action:     "submission.graded",
			EntityType: "submission",
			EntityID:   &graded.ID,
			Metadata: map[string]interface{}{
				"activity_id":    graded.ActivityID,
				"student_id":     graded.StudentID,
				"score":          score,
				"previous_score": previous,
				"total_marks":    graded.Activity.TotalMarks,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", graded.ID).Msg("failed to record grading audit entry")
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyGraded(ctx, graded.StudentID, graded.ActivityID, score, graded.Activity.TotalMarks); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", graded.ID).Msg("failed to notify student about grade")
		}
	}

	return dto.NewSubmissionResponse(graded, s.defaultThreshold), nil
}
