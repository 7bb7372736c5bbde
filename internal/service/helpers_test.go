package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/models"
)

var fixedNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func fixedClock() time.Time {
	return fixedNow
}

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type roomFixture struct {
	teacher  models.Teacher
	students []models.Student
	room     models.Room
}

var profileSeq uint

func nextUserID() uint {
	profileSeq++
	return profileSeq
}

func seedRoomFixture(t *testing.T, db *gorm.DB, code string, basePassing *int, studentCount int) roomFixture {
	t.Helper()

	teacher := models.Teacher{UserID: nextUserID(), FirstName: "Grace", LastName: "Hopper", Username: "teacher_" + code}
	require.NoError(t, db.Create(&teacher).Error)

	students := make([]models.Student, 0, studentCount)
	for i := 0; i < studentCount; i++ {
		student := models.Student{
			UserID:        nextUserID(),
			StudentNumber: fmt.Sprintf("%s-%03d", code, i+1),
			FirstName:     fmt.Sprintf("Learner%d", i+1),
			LastName:      code,
			Email:         fmt.Sprintf("learner%d@%s.test", i+1, strings.ToLower(code)),
			Username:      fmt.Sprintf("%s_l%d", strings.ToLower(code), i+1),
		}
		require.NoError(t, db.Create(&student).Error)
		students = append(students, student)
	}

	room := models.Room{Name: "Room " + code, Code: code, TeacherID: teacher.ID, BasePassing: basePassing}
	require.NoError(t, db.Omit("Students").Create(&room).Error)
	if len(students) > 0 {
		require.NoError(t, db.Model(&room).Association("Students").Append(&students))
	}

	return roomFixture{teacher: teacher, students: students, room: room}
}

func seedOpenActivity(t *testing.T, db *gorm.DB, roomID uint, title string, total int, due *time.Time) models.Activity {
	t.Helper()
	activity := models.Activity{RoomID: roomID, Title: title, TotalMarks: total, DueDate: due, Status: models.ActivityStatusOpen}
	require.NoError(t, db.Omit("Room").Create(&activity).Error)
	return activity
}

func seedStudentSubmission(t *testing.T, db *gorm.DB, activityID, studentID uint, score *int, submittedAt time.Time) models.Submission {
	t.Helper()
	status := models.SubmissionStatusSubmitted
	if score != nil {
		status = models.SubmissionStatusGraded
	}
	submission := models.Submission{ActivityID: activityID, StudentID: studentID, Score: score, Status: status, SubmittedAt: submittedAt, ContentText: "answer"}
	require.NoError(t, db.Omit("Activity", "Student", "History").Create(&submission).Error)
	return submission
}

func intRef(v int) *int { return &v }

func timeRef(v time.Time) *time.Time { return &v }

type notifierCall struct {
	kind string
	ids  []uint
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
	err   error
}

func (f *fakeNotifier) record(kind string, ids ...uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifierCall{kind: kind, ids: ids})
	return f.err
}

func (f *fakeNotifier) NotifyGraded(_ context.Context, studentID, activityID uint, _, _ int) error {
	return f.record("graded", studentID, activityID)
}

func (f *fakeNotifier) NotifyRoom(_ context.Context, roomID, activityID uint) error {
	return f.record("room", roomID, activityID)
}

func (f *fakeNotifier) NotifySubmitted(_ context.Context, teacherID, submissionID uint) error {
	return f.record("submitted", teacherID, submissionID)
}

func (f *fakeNotifier) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	kinds := make([]string, 0, len(f.calls))
	for _, call := range f.calls {
		kinds = append(kinds, call.kind)
	}
	return kinds
}

type stubAuditRecorder struct {
	entries []AuditEntry
	err     error
}

func (s *stubAuditRecorder) Record(_ context.Context, entry AuditEntry) (dto.AuditLogResponse, error) {
	if s.err != nil {
		return dto.AuditLogResponse{}, s.err
	}
	s.entries = append(s.entries, entry)
	return dto.AuditLogResponse{Action: entry.Action, EntityType: entry.EntityType, EntityID: entry.EntityID}, nil
}

type fakeStorage struct {
	names []string
	data  [][]byte
}

func (f *fakeStorage) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.names = append(f.names, name)
	f.data = append(f.data, content)
	return "https://files.test/" + name, nil
}

type stubSweeper struct {
	calls int
	err   error
}

func (s *stubSweeper) Sweep(context.Context) (int64, error) {
	s.calls++
	return 0, s.err
}

var errBroker = errors.New("broker unavailable")
