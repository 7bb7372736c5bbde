package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/repository"
)

func setupActivityService(t *testing.T) (*gorm.DB, roomFixture, *fakeNotifier, ActivityService) {
	t.Helper()
	db := setupServiceDB(t)
	room := seedRoomFixture(t, db, "ACT-101", nil, 2)
	notifier := &fakeNotifier{}

	svc := NewActivityService(repository.NewActivityRepository(db), repository.NewRoomRepository(db), notifier, testValidator(), testLogger())
	if concrete, ok := svc.(*activityService); ok {
		concrete.now = fixedClock
	}
	return db, room, notifier, svc
}

func TestActivityServiceCreate(t *testing.T) {
	_, room, notifier, svc := setupActivityService(t)
	due := fixedNow.Add(72 * time.Hour)

	result, err := svc.Create(context.Background(), room.teacher, room.room.ID, dto.ActivityCreateRequest{
		Title:      "  Lab 1 ",
		TotalMarks: 20,
		DueDate:    &due,
	})
	require.NoError(t, err)
	require.Equal(t, "Lab 1", result.Title)
	require.Equal(t, "open", result.Status)
	require.True(t, result.AcceptsSubmissions)
	require.Equal(t, []string{"room"}, notifier.kinds())
}

func TestActivityServiceCreatePastDueStartsClosed(t *testing.T) {
	_, room, _, svc := setupActivityService(t)
	due := fixedNow.Add(-time.Hour)

	result, err := svc.Create(context.Background(), room.teacher, room.room.ID, dto.ActivityCreateRequest{Title: "Retro", DueDate: &due})
	require.NoError(t, err)
	require.Equal(t, "closed", result.Status)
	require.False(t, result.AcceptsSubmissions)
}

func TestActivityServiceCreateRejectsNegativeMarks(t *testing.T) {
	_, room, notifier, svc := setupActivityService(t)

	_, err := svc.Create(context.Background(), room.teacher, room.room.ID, dto.ActivityCreateRequest{Title: "Quiz", TotalMarks: -5})
	require.Error(t, err)
	require.True(t, IsValidation(err))
	require.Empty(t, notifier.kinds())
}

func TestActivityServiceCreateRequiresOwnership(t *testing.T) {
	db, room, _, svc := setupActivityService(t)
	other := seedRoomFixture(t, db, "ACT-202", nil, 0)

	_, err := svc.Create(context.Background(), other.teacher, room.room.ID, dto.ActivityCreateRequest{Title: "Quiz"})
	require.ErrorIs(t, err, ErrNotRoomOwner)

	_, err = svc.Create(context.Background(), room.teacher, 9999, dto.ActivityCreateRequest{Title: "Quiz"})
	require.ErrorIs(t, err, ErrRoomNotFound)
}

func TestActivityServiceCreateSurvivesNotifierFailure(t *testing.T) {
	_, room, notifier, svc := setupActivityService(t)
	notifier.err = errBroker

	result, err := svc.Create(context.Background(), room.teacher, room.room.ID, dto.ActivityCreateRequest{Title: "Quiz"})
	require.NoError(t, err)
	require.NotZero(t, result.ID)
}

func TestActivityServiceGetClosesOverdueLazily(t *testing.T) {
	db, room, _, svc := setupActivityService(t)
	activity := seedOpenActivity(t, db, room.room.ID, "Essay", 10, timeRef(fixedNow.Add(-time.Minute)))

	result, err := svc.Get(context.Background(), StudentRole{Profile: room.students[0]}, activity.ID)
	require.NoError(t, err)
	require.Equal(t, "closed", result.Status)

	var stored models.Activity
	require.NoError(t, db.First(&stored, activity.ID).Error)
	require.Equal(t, models.ActivityStatusClosed, stored.Status)
}

func TestActivityServiceGetAuthorizesRoles(t *testing.T) {
	db, room, _, svc := setupActivityService(t)
	activity := seedOpenActivity(t, db, room.room.ID, "Essay", 10, nil)
	other := seedRoomFixture(t, db, "ACT-303", nil, 1)

	_, err := svc.Get(context.Background(), TeacherRole{Profile: room.teacher}, activity.ID)
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), TeacherRole{Profile: other.teacher}, activity.ID)
	require.ErrorIs(t, err, ErrNotRoomOwner)

	_, err = svc.Get(context.Background(), StudentRole{Profile: other.students[0]}, activity.ID)
	require.ErrorIs(t, err, ErrNotRoomMember)

	_, err = svc.Get(context.Background(), TeacherRole{Profile: room.teacher}, 9999)
	require.ErrorIs(t, err, ErrActivityNotFound)
}

func TestActivityServiceSweepIsIdempotent(t *testing.T) {
	db, room, _, svc := setupActivityService(t)
	overdue := seedOpenActivity(t, db, room.room.ID, "Old", 10, timeRef(fixedNow.Add(-24*time.Hour)))
	future := seedOpenActivity(t, db, room.room.ID, "New", 10, timeRef(fixedNow.Add(24*time.Hour)))
	undated := seedOpenActivity(t, db, room.room.ID, "Someday", 10, nil)

	closed, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), closed)

	closed, err = svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, closed)

	statuses := map[uint]models.ActivityStatus{}
	var activities []models.Activity
	require.NoError(t, db.Find(&activities).Error)
	for _, activity := range activities {
		statuses[activity.ID] = activity.Status
	}
	require.Equal(t, models.ActivityStatusClosed, statuses[overdue.ID])
	require.Equal(t, models.ActivityStatusOpen, statuses[future.ID])
	require.Equal(t, models.ActivityStatusOpen, statuses[undated.ID])
}
