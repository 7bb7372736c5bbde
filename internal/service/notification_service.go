package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/observability"
	"github.com/Huerte/AcademiQly/internal/repository"
)

// Notifier is invoked after lifecycle transitions. Callers log failures and
// never roll back the transition.
type Notifier interface {
	NotifyGraded(ctx context.Context, studentID, activityID uint, score, total int) error
	NotifyRoom(ctx context.Context, roomID, activityID uint) error
	NotifySubmitted(ctx context.Context, teacherID, submissionID uint) error
}

// NotificationService is the Notifier plus the recipient inbox.
type NotificationService interface {
	Notifier
	List(ctx context.Context, role Role, limit, offset int) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, role Role, id uint) (dto.NotificationResponse, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	rooms       repository.RoomRepository
	activities  repository.ActivityRepository
	submissions repository.SubmissionRepository
	redis       *redis.Client
	redisStream string
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
	nodeID      string
	now         func() time.Time
}

type notificationEvent struct {
	Source        string                     `json:"source"`
	Notifications []dto.NotificationResponse `json:"notifications"`
	SentAt        time.Time                  `json:"sent_at"`
}

// NewNotificationService constructs a notification service. redisClient and
// natsConn are optional fan-out targets.
func NewNotificationService(
	repo repository.NotificationRepository,
	rooms repository.RoomRepository,
	activities repository.ActivityRepository,
	submissions repository.SubmissionRepository,
	redisClient *redis.Client,
	natsConn *nats.Conn,
	channelBase string,
	logger zerolog.Logger,
) NotificationService {
	stream := ""
	subject := ""
	if channelBase != "" {
		stream = channelBase + ":notifications"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:        repo,
		rooms:       rooms,
		activities:  activities,
		submissions: submissions,
		redis:       redisClient,
		redisStream: stream,
		nats:        natsConn,
		natsSubject: subject,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/Huerte/AcademiQly/internal/service/notification"),
		sanitizer:   bluemonday.StrictPolicy(),
		nodeID:      uuid.NewString(),
		now:         time.Now,
	}
}

func (s *notificationService) NotifyGraded(ctx context.Context, studentID, activityID uint, score, total int) error {
	ctx, span := s.tracer.Start(ctx, "notifications.graded", trace.WithAttributes(
		attribute.Int64("notification.student_id", int64(studentID)),
		attribute.Int64("notification.activity_id", int64(activityID)),
	))
	defer span.End()

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	roomID := activity.RoomID
	notification := models.Notification{
		RecipientKind: models.RecipientStudent,
		RecipientID:   studentID,
		Type:          models.NotificationActivityGraded,
		Title:         s.clean("Activity graded"),
		Message:       s.clean(fmt.Sprintf("Your submission for %s was graded: %d/%d.", activity.Title, score, total)),
		RoomID:        &roomID,
		ActivityID:    &activityID,
		Metadata:      datatypes.JSONMap{"score": score, "total": total},
	}

	return s.deliver(ctx, span, []models.Notification{notification})
}

func (s *notificationService) NotifyRoom(ctx context.Context, roomID, activityID uint) error {
	ctx, span := s.tracer.Start(ctx, "notifications.room", trace.WithAttributes(
		attribute.Int64("notification.room_id", int64(roomID)),
		attribute.Int64("notification.activity_id", int64(activityID)),
	))
	defer span.End()

	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	members, err := s.rooms.ListMemberIDs(ctx, roomID)
	if err != nil {
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.Int("notification.recipients", len(members)))

	title := s.clean("New activity")
	message := s.clean(fmt.Sprintf("New activity %s was posted in %s.", activity.Title, activity.Room.Name))
	notifications := make([]models.Notification, 0, len(members))
	for _, studentID := range members {
		room, activityRef := roomID, activityID
		notifications = append(notifications, models.Notification{
			RecipientKind: models.RecipientStudent,
			RecipientID:   studentID,
			Type:          models.NotificationNewActivity,
			Title:         title,
			Message:       message,
			RoomID:        &room,
			ActivityID:    &activityRef,
		})
	}

	return s.deliver(ctx, span, notifications)
}

func (s *notificationService) NotifySubmitted(ctx context.Context, teacherID, submissionID uint) error {
	ctx, span := s.tracer.Start(ctx, "notifications.submitted", trace.WithAttributes(
		attribute.Int64("notification.teacher_id", int64(teacherID)),
		attribute.Int64("notification.submission_id", int64(submissionID)),
	))
	defer span.End()

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	roomID, activityID := submission.Activity.RoomID, submission.ActivityID
	notification := models.Notification{
		RecipientKind: models.RecipientTeacher,
		RecipientID:   teacherID,
		Type:          models.NotificationStudentSubmitted,
		Title:         s.clean("New submission"),
		Message:       s.clean(fmt.Sprintf("%s submitted work for %s.", submission.Student.FullName(), submission.Activity.Title)),
		RoomID:        &roomID,
		ActivityID:    &activityID,
		SubmissionID:  &submissionID,
	}

	return s.deliver(ctx, span, []models.Notification{notification})
}

func (s *notificationService) List(ctx context.Context, role Role, limit, offset int) ([]dto.NotificationResponse, error) {
	kind, err := recipientKind(role)
	if err != nil {
		return nil, err
	}

	notifications, err := s.repo.ListByRecipient(ctx, kind, role.ProfileID(), limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, role Role, id uint) (dto.NotificationResponse, error) {
	kind, err := recipientKind(role)
	if err != nil {
		return dto.NotificationResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "notifications.mark_read", trace.WithAttributes(
		attribute.String("notification.recipient_kind", string(kind)),
		attribute.Int64("notification.recipient_id", int64(role.ProfileID())),
	))
	defer span.End()

	notification, err := s.repo.MarkRead(ctx, id, kind, role.ProfileID())
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) deliver(ctx context.Context, span trace.Span, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		span.RecordError(err)
		return err
	}

	observability.NotificationsPublished().WithLabelValues(notifications[0].Type).Add(float64(len(notifications)))

	if err := s.publish(ctx, dto.NewNotificationResponseSlice(notifications)); err != nil {
		s.logger.Warn().Err(err).Str("type", notifications[0].Type).Msg("failed to publish notification to broker")
	}
	return nil
}

func (s *notificationService) publish(ctx context.Context, notifications []dto.NotificationResponse) error {
	if (s.redis == nil || s.redisStream == "") && (s.nats == nil || s.natsSubject == "") {
		return nil
	}

	payload, err := json.Marshal(notificationEvent{
		Source:        s.nodeID,
		Notifications: notifications,
		SentAt:        s.now().UTC(),
	})
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisStream != "" {
		if err := s.redis.Publish(ctx, s.redisStream, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *notificationService) clean(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}

func recipientKind(role Role) (models.RecipientKind, error) {
	switch role.(type) {
	case TeacherRole:
		return models.RecipientTeacher, nil
	case StudentRole:
		return models.RecipientStudent, nil
	default:
		return "", ErrUnknownRole
	}
}
