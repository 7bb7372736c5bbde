// Package analytics aggregates submission records into cohort statistics.
//
// Everything here is pure: callers load a Dataset from the store and pass the
// reference time explicitly.
package analytics

import (
	"time"

	"github.com/Huerte/AcademiQly/internal/grading"
)

// Record is a denormalised submission row.
type Record struct {
	SubmissionID  uint
	StudentID     uint
	StudentName   string
	StudentNumber string
	ActivityID    uint
	ActivityTitle string
	RoomID        uint
	RoomName      string
	RoomThreshold *int
	TeacherID     uint
	TeacherName   string
	Score         *int
	TotalMarks    int
	SubmittedAt   time.Time
}

// Percentage returns the unrounded percentage. ok is false when the record is
// ungraded or its activity has no marks.
func (r Record) Percentage() (float64, bool) {
	if r.Score == nil {
		return 0, false
	}
	return grading.Percentage(*r.Score, r.TotalMarks)
}

// Threshold returns the room threshold or the dataset default.
func (r Record) Threshold(defaultThreshold int) int {
	return grading.Threshold(r.RoomThreshold, defaultThreshold)
}

// Totals are entity counts for the report header.
type Totals struct {
	Students         int64 `json:"students"`
	Teachers         int64 `json:"teachers"`
	Rooms            int64 `json:"rooms"`
	Activities       int64 `json:"activities"`
	Submissions      int64 `json:"submissions"`
	Enrollments      int64 `json:"enrollments"`
	RecentRooms      int64 `json:"recent_rooms"`
	RecentActivities int64 `json:"recent_activities"`
}

// LabelCount is a single bar of a categorical chart.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// ActiveTeacher summarises the rooms a teacher runs.
type ActiveTeacher struct {
	TeacherID     uint   `json:"teacher_id"`
	Name          string `json:"name"`
	RoomCount     int64  `json:"room_count"`
	ActivityCount int64  `json:"activity_count"`
	StudentCount  int64  `json:"student_count"`
}

// Dataset is everything Compute needs for one report.
type Dataset struct {
	Totals               Totals
	Records              []Record
	DefaultThreshold     int
	TeachersByDepartment []LabelCount
	ActiveTeachers       []ActiveTeacher
}

// graded keeps records with a defined percentage, preserving order.
func graded(records []Record) ([]Record, []float64) {
	kept := make([]Record, 0, len(records))
	percentages := make([]float64, 0, len(records))
	for _, record := range records {
		percentage, ok := record.Percentage()
		if !ok {
			continue
		}
		kept = append(kept, record)
		percentages = append(percentages, percentage)
	}
	return kept, percentages
}
