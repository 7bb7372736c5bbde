package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/observability"
	"github.com/Huerte/AcademiQly/internal/repository"
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

var allowedSubmissionTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "application/pdf", "application/zip", "text/plain"}

// SubmissionService accepts student work for open activities.
type SubmissionService interface {
	Submit(ctx context.Context, student models.Student, activityID uint, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
}

type submissionService struct {
	activities       repository.ActivityRepository
	rooms            repository.RoomRepository
	submissions      repository.SubmissionRepository
	storage          FileStorage
	notifier         Notifier
	validator        *validator.Validate
	defaultThreshold int
	maxUploadBytes   int64
	logger           zerolog.Logger
	tracer           trace.Tracer
	now              func() time.Time
}

// SubmissionServiceConfig carries the optional collaborators of the submission service.
type SubmissionServiceConfig struct {
	Storage          FileStorage
	Notifier         Notifier
	DefaultThreshold int
	MaxUploadMB      int
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(activities repository.ActivityRepository, rooms repository.RoomRepository, submissions repository.SubmissionRepository, validate *validator.Validate, cfg SubmissionServiceConfig, logger zerolog.Logger) SubmissionService {
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}
	return &submissionService{
		activities:       activities,
		rooms:            rooms,
		submissions:      submissions,
		storage:          cfg.Storage,
		notifier:         cfg.Notifier,
		validator:        validate,
		defaultThreshold: cfg.DefaultThreshold,
		maxUploadBytes:   int64(cfg.MaxUploadMB) * 1024 * 1024,
		logger:           logger.With().Str("component", "submission_service").Logger(),
		tracer:           otel.Tracer("github.com/Huerte/AcademiQly/internal/service/submission"),
		now:              time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, student models.Student, activityID uint, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "submission.accept", trace.WithAttributes(
		attribute.Int64("submission.activity_id", int64(activityID)),
		attribute.Int64("submission.student_id", int64(student.ID)),
		attribute.Bool("submission.file_present", file != nil),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	contentURL := strings.TrimSpace(payload.ContentURL)
	contentText := strings.TrimSpace(payload.ContentText)
	if file == nil && contentURL == "" && contentText == "" {
		span.SetStatus(codes.Error, "empty_submission")
		return dto.SubmissionResponse{}, ErrEmptySubmission
	}

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "activity_not_found")
			return dto.SubmissionResponse{}, ErrActivityNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	member, err := s.rooms.IsMember(ctx, activity.RoomID, student.ID)
	if err != nil {
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}
	if !member {
		span.SetStatus(codes.Error, "not_room_member")
		return dto.SubmissionResponse{}, ErrNotRoomMember
	}

	now := s.now()
	if !activity.AcceptsSubmissions(now) {
		if activity.Status == models.ActivityStatusOpen {
			if closed, err := s.activities.CloseIfOverdue(ctx, activity.ID, now); err != nil {
				s.logger.Warn().Err(err).Uint("activity_id", activity.ID).Msg("failed to close overdue activity")
			} else if closed {
				observability.ActivitiesClosed().WithLabelValues("read").Inc()
			}
		}
		span.SetStatus(codes.Error, "activity_closed")
		return dto.SubmissionResponse{}, ErrActivityClosed
	}

	kind := "text"
	if contentURL != "" {
		kind = "url"
	}
	if file != nil {
		uploaded, err := s.upload(ctx, file)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "upload_failed")
			return dto.SubmissionResponse{}, err
		}
		contentURL = uploaded
		kind = "file"
	}

	submission := models.Submission{
		ActivityID:  activity.ID,
		StudentID:   student.ID,
		ContentURL:  contentURL,
		ContentText: contentText,
		Status:      models.SubmissionStatusSubmitted,
		SubmittedAt: now,
	}
	if err := s.submissions.Upsert(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_upsert_failed")
		return dto.SubmissionResponse{}, err
	}

	observability.SubmissionsAccepted().WithLabelValues(kind).Inc()
	span.SetAttributes(attribute.Int64("submission.id", int64(submission.ID)))

	if s.notifier != nil {
		if err := s.notifier.NotifySubmitted(ctx, activity.Room.TeacherID, submission.ID); err != nil {
			s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to notify teacher about submission")
		}
	}

	submission.Activity = activity
	submission.Student = student
	return dto.NewSubmissionResponse(submission, s.defaultThreshold), nil
}

func (s *submissionService) upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if s.storage == nil {
		return "", ErrUploadsDisabled
	}
	if file.Size > s.maxUploadBytes {
		return "", ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxUploadBytes+1)); err != nil {
		return "", err
	}
	if int64(buf.Len()) > s.maxUploadBytes {
		return "", ErrUploadTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	if !allowedSubmissionType(detected) {
		return "", fmt.Errorf("%w: %s", ErrUploadTypeNotAllowed, detected.String())
	}

	return s.storage.Upload(ctx, submissionFileName(file.Filename, detected.Extension()), bytes.NewReader(buf.Bytes()))
}

// allowedSubmissionType walks the detected type's parents, so zip based
// office documents are accepted through application/zip.
func allowedSubmissionType(detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range allowedSubmissionTypes {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

func submissionFileName(name, detectedExt string) string {
	base := strings.ToLower(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = "submission"
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = detectedExt
	}
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}
