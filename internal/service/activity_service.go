package service

import (
	"context"
	"errors"
	"strings"
	"time"

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

// Sweeper closes every overdue activity in one pass.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// ActivityService drives the activity side of the lifecycle.
type ActivityService interface {
	Sweeper
	Create(ctx context.Context, teacher models.Teacher, roomID uint, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error)
	Get(ctx context.Context, role Role, id uint) (dto.ActivityResponse, error)
}

type activityService struct {
	activities repository.ActivityRepository
	rooms      repository.RoomRepository
	notifier   Notifier
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewActivityService constructs the activity service. notifier may be nil.
func NewActivityService(activities repository.ActivityRepository, rooms repository.RoomRepository, notifier Notifier, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		activities: activities,
		rooms:      rooms,
		notifier:   notifier,
		validator:  validate,
		logger:     logger.With().Str("component", "activity_service").Logger(),
		tracer:     otel.Tracer("github.com/Huerte/AcademiQly/internal/service/activity"),
		now:        time.Now,
	}
}

func (s *activityService) Create(ctx context.Context, teacher models.Teacher, roomID uint, payload dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "activity.create", trace.WithAttributes(
		attribute.Int64("activity.room_id", int64(roomID)),
		attribute.Int64("activity.teacher_id", int64(teacher.ID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ActivityResponse{}, err
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "room_not_found")
			return dto.ActivityResponse{}, ErrRoomNotFound
		}
		span.SetStatus(codes.Error, "room_lookup_failed")
		return dto.ActivityResponse{}, err
	}

	if !room.OwnedBy(teacher.ID) {
		span.SetStatus(codes.Error, "not_room_owner")
		return dto.ActivityResponse{}, ErrNotRoomOwner
	}

	now := s.now()
	activity := models.Activity{
		RoomID:      room.ID,
		Title:       strings.TrimSpace(payload.Title),
		Description: strings.TrimSpace(payload.Description),
		Resource:    strings.TrimSpace(payload.Resource),
		TotalMarks:  payload.TotalMarks,
		DueDate:     payload.DueDate,
		Status:      models.ActivityStatusOpen,
	}
	if activity.IsPastDue(now) {
		activity.Status = models.ActivityStatusClosed
	}

	if err := s.activities.Create(ctx, &activity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "activity_create_failed")
		return dto.ActivityResponse{}, err
	}
	activity.Room = room

	if s.notifier != nil {
		if err := s.notifier.NotifyRoom(ctx, room.ID, activity.ID); err != nil {
			s.logger.Warn().Err(err).Uint("activity_id", activity.ID).Msg("failed to notify room about new activity")
		}
	}

	span.SetAttributes(attribute.String("activity.status", string(activity.Status)))
	return dto.NewActivityResponse(activity, now), nil
}

// Get returns the activity after applying the lazy due-date check.
func (s *activityService) Get(ctx context.Context, role Role, id uint) (dto.ActivityResponse, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ActivityResponse{}, ErrActivityNotFound
		}
		return dto.ActivityResponse{}, err
	}

	if err := s.authorizeRoom(ctx, role, activity.Room); err != nil {
		return dto.ActivityResponse{}, err
	}

	now := s.now()
	if activity.Status == models.ActivityStatusOpen && activity.IsPastDue(now) {
		closed, err := s.activities.CloseIfOverdue(ctx, activity.ID, now)
		if err != nil {
			return dto.ActivityResponse{}, err
		}
		if closed {
			observability.ActivitiesClosed().WithLabelValues("read").Inc()
		}
		activity.Status = models.ActivityStatusClosed
	}

	return dto.NewActivityResponse(activity, now), nil
}

func (s *activityService) Sweep(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "activity.sweep")
	defer span.End()

	closed, err := s.activities.CloseOverdue(ctx, s.now())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sweep_failed")
		return 0, err
	}

	span.SetAttributes(attribute.Int64("activity.closed", closed))
	if closed > 0 {
		observability.ActivitiesClosed().WithLabelValues("sweep").Add(float64(closed))
		s.logger.Info().Int64("closed", closed).Msg("closed overdue activities")
	}
	return closed, nil
}

func (s *activityService) authorizeRoom(ctx context.Context, role Role, room models.Room) error {
	switch actor := role.(type) {
	case TeacherRole:
		if !room.OwnedBy(actor.Profile.ID) {
			return ErrNotRoomOwner
		}
		return nil
	case StudentRole:
		member, err := s.rooms.IsMember(ctx, room.ID, actor.Profile.ID)
		if err != nil {
			return err
		}
		if !member {
			return ErrNotRoomMember
		}
		return nil
	default:
		return ErrUnknownRole
	}
}
