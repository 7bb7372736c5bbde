package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/config"
	"github.com/Huerte/AcademiQly/internal/handler"
	"github.com/Huerte/AcademiQly/internal/middleware"
	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/repository"
	"github.com/Huerte/AcademiQly/internal/router"
	"github.com/Huerte/AcademiQly/internal/service"
)

const (
	teacherUserID  uint = 100
	outsiderUserID uint = 300
)

type memoryStorage struct {
	mu    sync.Mutex
	names []string
}

func (m *memoryStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names = append(m.names, name)
	return "https://files.test/" + name, nil
}

type apiFixture struct {
	app      *fiber.App
	db       *gorm.DB
	teacher  models.Teacher
	students []models.Student
	room     models.Room
	storage  *memoryStorage
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

func setupAPI(t *testing.T) apiFixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	teacher := models.Teacher{UserID: teacherUserID, FirstName: "Grace", LastName: "Hopper", Username: "ghopper"}
	require.NoError(t, db.Create(&teacher).Error)

	students := []models.Student{
		{UserID: 200, StudentNumber: "API-001", FirstName: "Ada", LastName: "Lovelace", Username: "ada"},
		{UserID: 201, StudentNumber: "API-002", FirstName: "Alan", LastName: "Turing", Username: "alan"},
	}
	for i := range students {
		require.NoError(t, db.Create(&students[i]).Error)
	}

	passing := 75
	room := models.Room{Name: "Algorithms", Code: "API-101", TeacherID: teacher.ID, BasePassing: &passing}
	require.NoError(t, db.Omit("Students").Create(&room).Error)
	require.NoError(t, db.Model(&room).Association("Students").Append(&students))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	storage := &memoryStorage{}

	rooms := repository.NewRoomRepository(db)
	activities := repository.NewActivityRepository(db)
	submissions := repository.NewSubmissionRepository(db)

	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), rooms, activities, submissions, nil, nil, "academiqly", logger)
	audit := service.NewAuditService(repository.NewAuditLogRepository(db), validate, logger)
	activitySvc := service.NewActivityService(activities, rooms, notifications, validate, logger)
	submissionSvc := service.NewSubmissionService(activities, rooms, submissions, validate, service.SubmissionServiceConfig{
		Storage:          storage,
		Notifier:         notifications,
		DefaultThreshold: 60,
		MaxUploadMB:      1,
	}, logger)
	gradingSvc := service.NewGradingService(submissions, validate, audit, notifications, 60, logger)
	teacherDashboard := service.NewTeacherDashboardService(activitySvc, rooms, activities, submissions, validate, 60, logger)
	studentDashboard := service.NewStudentDashboardService(activitySvc, rooms, activities, submissions, validate, 60, logger)
	analyticsSvc := service.NewAnalyticsService(repository.NewAnalyticsRepository(db), activitySvc, nil, 0, 60, logger)
	exportSvc := service.NewExportService(rooms, submissions, 60, logger)
	resolver := service.NewRoleResolver(repository.NewTeacherRepository(db), repository.NewStudentRepository(db))

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, config.Config{AppName: "Test", AppEnv: "test", JWTSecret: "secret"}, router.Dependencies{
		ActivityHandler:     handler.NewActivityHandler(activitySvc, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionSvc, gradingSvc, logger),
		DashboardHandler:    handler.NewDashboardHandler(teacherDashboard, studentDashboard, logger),
		AnalyticsHandler:    handler.NewAnalyticsHandler(analyticsSvc, logger),
		ExportHandler:       handler.NewExportHandler(exportSvc, logger),
		NotificationHandler: handler.NewNotificationHandler(notifications, logger),
		AuditHandler:        handler.NewAuditHandler(audit, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if raw := c.Get("X-Test-User"); raw != "" {
				id, err := strconv.ParseUint(raw, 10, 64)
				require.NoError(t, err)
				c.Locals(middleware.LocalUserID, uint(id))
			}
			if role := c.Get("X-Test-Role"); role != "" {
				c.Locals(middleware.LocalUserRole, role)
			}
			return c.Next()
		},
		RoleMiddleware: middleware.ResolveRole(resolver, logger),
	})

	return apiFixture{app: app, db: db, teacher: teacher, students: students, room: room, storage: storage}
}

func (f apiFixture) do(t *testing.T, method, path string, userID uint, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if userID > 0 {
		req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))
	}

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (f apiFixture) seedActivity(t *testing.T, activity models.Activity) models.Activity {
	t.Helper()
	if activity.RoomID == 0 {
		activity.RoomID = f.room.ID
	}
	if activity.Status == "" {
		activity.Status = models.ActivityStatusOpen
	}
	require.NoError(t, f.db.Omit("Room").Create(&activity).Error)
	return activity
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target), string(data))
}
