package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

type fixture struct {
	teacher  models.Teacher
	students []models.Student
	room     models.Room
}

func seedRoom(t *testing.T, db *gorm.DB, code string, basePassing *int, studentCount int) fixture {
	t.Helper()

	teacher := models.Teacher{UserID: uniqueUserID(), FirstName: "Grace", LastName: "Hopper", Username: "ghopper" + code}
	require.NoError(t, db.Create(&teacher).Error)

	students := make([]models.Student, 0, studentCount)
	for i := 0; i < studentCount; i++ {
		student := models.Student{
			UserID:        uniqueUserID(),
			StudentNumber: fmt.Sprintf("%s-%03d", code, i+1),
			FirstName:     fmt.Sprintf("Student%d", i+1),
			LastName:      code,
			Username:      fmt.Sprintf("%s_s%d", code, i+1),
		}
		require.NoError(t, db.Create(&student).Error)
		students = append(students, student)
	}

	room := models.Room{Name: "Room " + code, Code: code, TeacherID: teacher.ID, BasePassing: basePassing}
	require.NoError(t, db.Omit("Students").Create(&room).Error)
	if len(students) > 0 {
		require.NoError(t, db.Model(&room).Association("Students").Append(&students))
	}

	return fixture{teacher: teacher, students: students, room: room}
}

func seedActivity(t *testing.T, db *gorm.DB, roomID uint, title string, total int, due *time.Time) models.Activity {
	t.Helper()
	activity := models.Activity{RoomID: roomID, Title: title, TotalMarks: total, DueDate: due, Status: models.ActivityStatusOpen}
	require.NoError(t, db.Omit("Room").Create(&activity).Error)
	return activity
}

func seedSubmission(t *testing.T, db *gorm.DB, activityID, studentID uint, score *int, submittedAt time.Time) models.Submission {
	t.Helper()
	status := models.SubmissionStatusSubmitted
	if score != nil {
		status = models.SubmissionStatusGraded
	}
	submission := models.Submission{ActivityID: activityID, StudentID: studentID, Score: score, Status: status, SubmittedAt: submittedAt, ContentText: "work"}
	require.NoError(t, db.Omit("Activity", "Student", "History").Create(&submission).Error)
	return submission
}

var userSeq uint

func uniqueUserID() uint {
	userSeq++
	return userSeq
}

func intPtr(v int) *int { return &v }

func timePtr(v time.Time) *time.Time { return &v }
