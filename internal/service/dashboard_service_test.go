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

type dashboardFixture struct {
	db       *gorm.DB
	room     roomFixture
	overdue  models.Activity
	soon     models.Activity
	later    models.Activity
	undated  models.Activity
	activity ActivityService
}

// seedDashboard builds one room with two students:
//   - overdue (due yesterday): student 1 graded 18/20, student 2 never submitted
//   - soon (due in 12h): student 1 submitted, not graded
//   - later (due in 5 days): student 2 submitted, not graded
//   - undated: nobody submitted
func seedDashboard(t *testing.T) dashboardFixture {
	t.Helper()
	db := setupServiceDB(t)
	room := seedRoomFixture(t, db, "DSH-101", intRef(75), 2)
	require.NoError(t, db.Create(&models.Announcement{RoomID: room.room.ID, Title: "Welcome"}).Error)

	overdue := seedOpenActivity(t, db, room.room.ID, "Quiz 1", 20, timeRef(fixedNow.Add(-24*time.Hour)))
	soon := seedOpenActivity(t, db, room.room.ID, "Essay", 50, timeRef(fixedNow.Add(12*time.Hour)))
	later := seedOpenActivity(t, db, room.room.ID, "Project", 100, timeRef(fixedNow.Add(5*24*time.Hour)))
	undated := seedOpenActivity(t, db, room.room.ID, "Reading", 0, nil)

	seedStudentSubmission(t, db, overdue.ID, room.students[0].ID, intRef(18), fixedNow.Add(-30*time.Hour))
	seedStudentSubmission(t, db, soon.ID, room.students[0].ID, nil, fixedNow.Add(-2*time.Hour))
	seedStudentSubmission(t, db, later.ID, room.students[1].ID, nil, fixedNow.Add(-6*time.Hour))

	activitySvc := NewActivityService(repository.NewActivityRepository(db), repository.NewRoomRepository(db), nil, testValidator(), testLogger())
	if concrete, ok := activitySvc.(*activityService); ok {
		concrete.now = fixedClock
	}

	return dashboardFixture{db: db, room: room, overdue: overdue, soon: soon, later: later, undated: undated, activity: activitySvc}
}

func newTeacherDashboard(fx dashboardFixture) TeacherDashboardService {
	svc := NewTeacherDashboardService(fx.activity, repository.NewRoomRepository(fx.db), repository.NewActivityRepository(fx.db), repository.NewSubmissionRepository(fx.db), testValidator(), 60, testLogger())
	if concrete, ok := svc.(*teacherDashboardService); ok {
		concrete.now = fixedClock
	}
	return svc
}

func newStudentDashboard(fx dashboardFixture) StudentDashboardService {
	svc := NewStudentDashboardService(fx.activity, repository.NewRoomRepository(fx.db), repository.NewActivityRepository(fx.db), repository.NewSubmissionRepository(fx.db), testValidator(), 60, testLogger())
	if concrete, ok := svc.(*studentDashboardService); ok {
		concrete.now = fixedClock
	}
	return svc
}

func TestTeacherDashboardProjection(t *testing.T) {
	fx := seedDashboard(t)

	view, err := newTeacherDashboard(fx).GetDashboard(context.Background(), fx.room.teacher, dto.TeacherDashboardQuery{})
	require.NoError(t, err)

	require.Equal(t, dto.TeacherCounts{Rooms: 1, Students: 2, Activities: 4, Announcements: 1}, view.Counts)
	require.Equal(t, dto.GradingStats{Pending: 2, Graded: 1}, view.GradingStats)

	require.Len(t, view.GradingQueue, 2)
	require.Equal(t, fx.soon.ID, view.GradingQueue[0].ActivityID)
	require.Equal(t, fx.later.ID, view.GradingQueue[1].ActivityID)
	require.Equal(t, int64(1), view.GradingQueue[0].Pending)

	require.Len(t, view.PendingSubmissions, 2)
	require.Equal(t, fx.later.ID, view.PendingSubmissions[0].ActivityID)
	require.Equal(t, "low", view.PendingSubmissions[0].Priority)
	require.Equal(t, 6.0, view.PendingSubmissions[0].HoursSince)
	require.Equal(t, fx.soon.ID, view.PendingSubmissions[1].ActivityID)
	require.Equal(t, "high", view.PendingSubmissions[1].Priority)
	require.Equal(t, "danger", view.PendingSubmissions[1].PriorityTone)

	require.Len(t, view.Roster, 2)
	byStudent := map[uint]dto.RosterEntry{}
	for _, entry := range view.Roster {
		byStudent[entry.StudentID] = entry
	}
	graded := byStudent[fx.room.students[0].ID]
	require.NotNil(t, graded.Grade)
	require.Equal(t, 90.0, graded.Grade.Percentage)
	require.True(t, graded.Grade.Passed)
	require.Equal(t, 1, graded.GradedCount)
	require.Equal(t, "DSH-101", graded.CourseDisplay)
	require.Nil(t, byStudent[fx.room.students[1].ID].Grade)

	require.Equal(t, []string{"DSH-101"}, view.CourseOptions)
	require.Len(t, view.Rooms, 1)
	require.Equal(t, 75, view.Rooms[0].PassingThreshold)

	var stored models.Activity
	require.NoError(t, fx.db.First(&stored, fx.overdue.ID).Error)
	require.Equal(t, models.ActivityStatusClosed, stored.Status)
}

func TestTeacherDashboardFilters(t *testing.T) {
	fx := seedDashboard(t)
	svc := newTeacherDashboard(fx)

	view, err := svc.GetDashboard(context.Background(), fx.room.teacher, dto.TeacherDashboardQuery{Search: "LEARNER2"})
	require.NoError(t, err)
	require.Len(t, view.Roster, 1)
	require.Equal(t, fx.room.students[1].ID, view.Roster[0].StudentID)

	view, err = svc.GetDashboard(context.Background(), fx.room.teacher, dto.TeacherDashboardQuery{Course: "dsh-101"})
	require.NoError(t, err)
	require.Len(t, view.Roster, 2)

	view, err = svc.GetDashboard(context.Background(), fx.room.teacher, dto.TeacherDashboardQuery{Course: "DSH-1"})
	require.NoError(t, err)
	require.Empty(t, view.Roster)

	view, err = svc.GetDashboard(context.Background(), fx.room.teacher, dto.TeacherDashboardQuery{RoomSearch: "nothing"})
	require.NoError(t, err)
	require.Empty(t, view.Rooms)
	require.Equal(t, 1, view.Counts.Rooms)
}

func TestTeacherDashboardWithoutRooms(t *testing.T) {
	fx := seedDashboard(t)
	stranger := seedRoomFixture(t, fx.db, "DSH-EMPTY", nil, 0).teacher
	require.NoError(t, fx.db.Where("teacher_id = ?", stranger.ID).Delete(&models.Room{}).Error)

	view, err := newTeacherDashboard(fx).GetDashboard(context.Background(), stranger, dto.TeacherDashboardQuery{})
	require.NoError(t, err)
	require.Zero(t, view.Counts.Rooms)
	require.Empty(t, view.Roster)
	require.Empty(t, view.PendingSubmissions)
	require.Empty(t, view.GradingQueue)
}

func TestStudentDashboardProjection(t *testing.T) {
	fx := seedDashboard(t)

	view, err := newStudentDashboard(fx).GetDashboard(context.Background(), fx.room.students[0], dto.StudentDashboardQuery{})
	require.NoError(t, err)

	require.Len(t, view.Rooms, 1)
	require.Equal(t, "Grace Hopper", view.Rooms[0].Instructor)
	require.Equal(t, 90.0, view.Rooms[0].Progress)
	require.Equal(t, "A", view.Rooms[0].Letter)

	statuses := map[uint]string{}
	for _, item := range view.Assignments {
		statuses[item.ActivityID] = item.Status
	}
	require.Equal(t, map[uint]string{
		fx.overdue.ID: "graded",
		fx.soon.ID:    "submitted",
		fx.later.ID:   "pending",
		fx.undated.ID: "pending",
	}, statuses)
	require.Equal(t, fx.undated.ID, view.Assignments[len(view.Assignments)-1].ActivityID)

	require.Equal(t, dto.AssignmentStats{Pending: 2, Submitted: 1, Graded: 1, Total: 4}, view.Stats)
	require.Len(t, view.Upcoming, 2)
	require.Equal(t, fx.soon.ID, view.Upcoming[0].ActivityID)
	require.Equal(t, 90.0, view.OverallPercentage)
	require.Equal(t, 3.6, view.GPA)
}

func TestStudentDashboardOverdueAndFilters(t *testing.T) {
	fx := seedDashboard(t)
	svc := newStudentDashboard(fx)
	student := fx.room.students[1]

	view, err := svc.GetDashboard(context.Background(), student, dto.StudentDashboardQuery{Status: "overdue"})
	require.NoError(t, err)
	require.Len(t, view.Assignments, 1)
	require.Equal(t, fx.overdue.ID, view.Assignments[0].ActivityID)
	require.Equal(t, 1, view.Stats.Overdue)
	require.Zero(t, view.GPA)

	view, err = svc.GetDashboard(context.Background(), student, dto.StudentDashboardQuery{Search: "proj"})
	require.NoError(t, err)
	require.Len(t, view.Assignments, 1)
	require.Equal(t, "submitted", view.Assignments[0].Status)

	_, err = svc.GetDashboard(context.Background(), student, dto.StudentDashboardQuery{Status: "archived"})
	require.Error(t, err)
	require.True(t, IsValidation(err))
}

func TestStudentDashboardScoreWinsOverStoredStatus(t *testing.T) {
	fx := seedDashboard(t)
	require.NoError(t, fx.db.Model(&models.Submission{}).
		Where("activity_id = ?", fx.overdue.ID).
		Update("status", models.SubmissionStatusSubmitted).Error)

	view, err := newStudentDashboard(fx).GetDashboard(context.Background(), fx.room.students[0], dto.StudentDashboardQuery{Status: "graded"})
	require.NoError(t, err)
	require.Len(t, view.Assignments, 1)
	require.Equal(t, fx.overdue.ID, view.Assignments[0].ActivityID)
	require.NotNil(t, view.Assignments[0].Grade)
	require.True(t, view.Assignments[0].Grade.Passed)
}
