package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/analytics"
	"github.com/Huerte/AcademiQly/internal/models"
)

// AnalyticsScope narrows the submission records feeding a report.
type AnalyticsScope struct {
	RoomID *uint
	From   *time.Time
	To     *time.Time
}

// AnalyticsRepository supplies the cohort report dataset.
type AnalyticsRepository interface {
	Totals(ctx context.Context, since time.Time) (analytics.Totals, error)
	ListRecords(ctx context.Context, scope AnalyticsScope) ([]analytics.Record, error)
	AveragePassingThreshold(ctx context.Context) (int, bool, error)
	TeachersByDepartment(ctx context.Context) ([]analytics.LabelCount, error)
	ActiveTeachers(ctx context.Context, limit int) ([]analytics.ActiveTeacher, error)
	DataVersion(ctx context.Context) (string, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository constructs the analytics repository.
func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Totals counts entities; RecentRooms and RecentActivities use since as the lower bound.
func (r *analyticsRepository) Totals(ctx context.Context, since time.Time) (analytics.Totals, error) {
	db := r.db.WithContext(ctx)
	var totals analytics.Totals

	counts := []struct {
		query *gorm.DB
		dest  *int64
	}{
		{db.Model(&models.Student{}), &totals.Students},
		{db.Model(&models.Teacher{}), &totals.Teachers},
		{db.Model(&models.Room{}), &totals.Rooms},
		{db.Model(&models.Activity{}), &totals.Activities},
		{db.Model(&models.Submission{}), &totals.Submissions},
		{db.Table(roomStudentsTable), &totals.Enrollments},
		{db.Model(&models.Room{}).Where("created_at >= ?", since), &totals.RecentRooms},
		{db.Model(&models.Activity{}).Where("created_at >= ?", since), &totals.RecentActivities},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return analytics.Totals{}, err
		}
	}

	return totals, nil
}

// DataVersion fingerprints the tables a report reads. Any insert, update or
// delete on them yields a different value.
func (r *analyticsRepository) DataVersion(ctx context.Context) (string, error) {
	db := r.db.WithContext(ctx)

	sources := []struct {
		query   *gorm.DB
		touched bool
	}{
		{db.Model(&models.Submission{}), true},
		{db.Model(&models.SubmissionGradeHistory{}), false},
		{db.Model(&models.Activity{}), true},
		{db.Model(&models.Room{}), true},
		{db.Model(&models.Teacher{}), true},
		{db.Model(&models.Student{}), true},
		{db.Table(roomStudentsTable), false},
	}

	parts := make([]string, 0, len(sources))
	for _, source := range sources {
		var row struct {
			Total   int64
			Touched sql.NullString
		}
		selection := "COUNT(*) AS total"
		if source.touched {
			selection += ", MAX(updated_at) AS touched"
		}
		if err := source.query.Select(selection).Scan(&row).Error; err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%d@%s", row.Total, row.Touched.String))
	}

	return strings.Join(parts, "|"), nil
}

type recordRow struct {
	SubmissionID     uint
	StudentID        uint
	StudentFirstName string
	StudentLastName  string
	StudentUsername  string
	StudentNumber    string
	ActivityID       uint
	ActivityTitle    string
	TotalMarks       int
	RoomID           uint
	RoomName         string
	BasePassing      *int
	TeacherID        *uint
	TeacherFirstName *string
	TeacherLastName  *string
	TeacherUsername  *string
	Score            *int
	SubmittedAt      time.Time
}

func (r *analyticsRepository) ListRecords(ctx context.Context, scope AnalyticsScope) ([]analytics.Record, error) {
	query := r.db.WithContext(ctx).
		Table("submissions").
		Select(`submissions.id AS submission_id,
			submissions.student_id AS student_id,
			students.first_name AS student_first_name,
			students.last_name AS student_last_name,
			students.username AS student_username,
			students.student_number AS student_number,
			submissions.activity_id AS activity_id,
			activities.title AS activity_title,
			activities.total_marks AS total_marks,
			activities.room_id AS room_id,
			rooms.name AS room_name,
			rooms.base_passing AS base_passing,
			teachers.id AS teacher_id,
			teachers.first_name AS teacher_first_name,
			teachers.last_name AS teacher_last_name,
			teachers.username AS teacher_username,
			submissions.score AS score,
			submissions.submitted_at AS submitted_at`).
		Joins("JOIN activities ON activities.id = submissions.activity_id").
		Joins("JOIN rooms ON rooms.id = activities.room_id").
		Joins("JOIN students ON students.id = submissions.student_id").
		Joins("LEFT JOIN teachers ON teachers.id = rooms.teacher_id")

	if scope.RoomID != nil {
		query = query.Where("activities.room_id = ?", *scope.RoomID)
	}
	if scope.From != nil {
		query = query.Where("submissions.submitted_at >= ?", *scope.From)
	}
	if scope.To != nil {
		query = query.Where("submissions.submitted_at < ?", *scope.To)
	}

	var rows []recordRow
	if err := query.Order("submissions.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]analytics.Record, 0, len(rows))
	for _, row := range rows {
		student := models.Student{FirstName: row.StudentFirstName, LastName: row.StudentLastName, Username: row.StudentUsername}
		record := analytics.Record{
			SubmissionID:  row.SubmissionID,
			StudentID:     row.StudentID,
			StudentName:   student.FullName(),
			StudentNumber: row.StudentNumber,
			ActivityID:    row.ActivityID,
			ActivityTitle: row.ActivityTitle,
			RoomID:        row.RoomID,
			RoomName:      row.RoomName,
			RoomThreshold: row.BasePassing,
			Score:         row.Score,
			TotalMarks:    row.TotalMarks,
			SubmittedAt:   row.SubmittedAt,
		}
		if row.TeacherID != nil {
			teacher := models.Teacher{
				FirstName: deref(row.TeacherFirstName),
				LastName:  deref(row.TeacherLastName),
				Username:  deref(row.TeacherUsername),
			}
			record.TeacherID = *row.TeacherID
			record.TeacherName = teacher.FullName()
		}
		records = append(records, record)
	}

	return records, nil
}

// AveragePassingThreshold returns the rounded mean of the rooms' configured
// thresholds. ok is false when no room configures one.
func (r *analyticsRepository) AveragePassingThreshold(ctx context.Context) (int, bool, error) {
	var average sql.NullFloat64
	err := r.db.WithContext(ctx).
		Model(&models.Room{}).
		Select("AVG(base_passing)").
		Where("base_passing IS NOT NULL").
		Scan(&average).Error
	if err != nil {
		return 0, false, err
	}
	if !average.Valid {
		return 0, false, nil
	}
	return int(math.Round(average.Float64)), true, nil
}

const unassignedDepartment = "Unassigned"

func (r *analyticsRepository) TeachersByDepartment(ctx context.Context) ([]analytics.LabelCount, error) {
	var rows []struct {
		Department *string
		Total      int64
	}
	err := r.db.WithContext(ctx).
		Table("teachers").
		Select("courses.name AS department, COUNT(teachers.id) AS total").
		Joins("LEFT JOIN courses ON courses.id = teachers.department_id").
		Group("courses.name").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]analytics.LabelCount, 0, len(rows))
	for _, row := range rows {
		label := unassignedDepartment
		if row.Department != nil && *row.Department != "" {
			label = *row.Department
		}
		result = append(result, analytics.LabelCount{Label: label, Count: row.Total})
	}
	return result, nil
}

type activeTeacherRow struct {
	TeacherID     uint
	FirstName     string
	LastName      string
	Username      string
	RoomCount     int64
	ActivityCount int64
	StudentCount  int64
}

func (r *analyticsRepository) ActiveTeachers(ctx context.Context, limit int) ([]analytics.ActiveTeacher, error) {
	if limit <= 0 {
		limit = analytics.TopLimit
	}

	var rows []activeTeacherRow
	err := r.db.WithContext(ctx).
		Table("teachers").
		Select(`teachers.id AS teacher_id,
			teachers.first_name AS first_name,
			teachers.last_name AS last_name,
			teachers.username AS username,
			COUNT(DISTINCT rooms.id) AS room_count,
			COUNT(DISTINCT activities.id) AS activity_count,
			COUNT(DISTINCT ` + roomStudentsTable + `.student_id) AS student_count`).
		Joins("JOIN rooms ON rooms.teacher_id = teachers.id").
		Joins("LEFT JOIN activities ON activities.room_id = rooms.id").
		Joins("LEFT JOIN " + roomStudentsTable + " ON " + roomStudentsTable + ".room_id = rooms.id").
		Group("teachers.id, teachers.first_name, teachers.last_name, teachers.username").
		Order("room_count DESC").
		Order("teachers.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]analytics.ActiveTeacher, 0, len(rows))
	for _, row := range rows {
		teacher := models.Teacher{FirstName: row.FirstName, LastName: row.LastName, Username: row.Username}
		result = append(result, analytics.ActiveTeacher{
			TeacherID:     row.TeacherID,
			Name:          teacher.FullName(),
			RoomCount:     row.RoomCount,
			ActivityCount: row.ActivityCount,
			StudentCount:  row.StudentCount,
		})
	}
	return result, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
