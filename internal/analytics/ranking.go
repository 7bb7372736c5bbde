package analytics

import (
	"sort"
	"time"

	"github.com/Huerte/AcademiQly/internal/grading"
)

// Ranking limits used by the report.
const (
	TopLimit    = 10
	RecentLimit = 15
)

// RankedEntity is one row of a top-N table.
type RankedEntity struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Reference       string  `json:"reference,omitempty"`
	Average         float64 `json:"average"`
	SubmissionCount int     `json:"submission_count"`
}

type rankKey func(Record) (id uint, name, reference string, ok bool)

// rank averages graded percentages per entity and returns the best limit
// entities. Ties keep first-seen order.
func rank(records []Record, limit int, key rankKey) []RankedEntity {
	order := make([]uint, 0)
	entries := map[uint]*RankedEntity{}
	accumulators := map[uint]*Accumulator{}

	for _, record := range records {
		percentage, ok := record.Percentage()
		if !ok {
			continue
		}
		id, name, reference, ok := key(record)
		if !ok {
			continue
		}
		if _, exists := entries[id]; !exists {
			order = append(order, id)
			entries[id] = &RankedEntity{ID: id, Name: name, Reference: reference}
			accumulators[id] = &Accumulator{}
		}
		accumulators[id].Add(percentage)
	}

	ranked := make([]RankedEntity, 0, len(order))
	for _, id := range order {
		entry := *entries[id]
		entry.Average = grading.Round2(accumulators[id].Mean())
		entry.SubmissionCount = accumulators[id].Count()
		ranked = append(ranked, entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Average > ranked[j].Average })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TopRooms ranks rooms by average percentage.
func TopRooms(records []Record, limit int) []RankedEntity {
	return rank(records, limit, func(r Record) (uint, string, string, bool) {
		return r.RoomID, r.RoomName, "", r.RoomID != 0
	})
}

// TopStudents ranks students by average percentage.
func TopStudents(records []Record, limit int) []RankedEntity {
	return rank(records, limit, func(r Record) (uint, string, string, bool) {
		return r.StudentID, r.StudentName, r.StudentNumber, r.StudentID != 0
	})
}

// TopTeachers ranks teachers by the average percentage of submissions in rooms they own.
func TopTeachers(records []Record, limit int) []RankedEntity {
	return rank(records, limit, func(r Record) (uint, string, string, bool) {
		return r.TeacherID, r.TeacherName, "", r.TeacherID != 0
	})
}

// RecentGrade is one entry of the recent activity feed.
type RecentGrade struct {
	SubmissionID  uint      `json:"submission_id"`
	StudentName   string    `json:"student_name"`
	ActivityTitle string    `json:"activity_title"`
	RoomName      string    `json:"room_name"`
	Score         int       `json:"score"`
	TotalMarks    int       `json:"total_marks"`
	Percentage    float64   `json:"percentage"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// RecentGrades returns the newest graded records, newest first.
func RecentGrades(records []Record, limit int) []RecentGrade {
	kept, _ := graded(records)
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].SubmittedAt.After(kept[j].SubmittedAt) })
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}

	feed := make([]RecentGrade, 0, len(kept))
	for _, record := range kept {
		percentage, _ := record.Percentage()
		feed = append(feed, RecentGrade{
			SubmissionID:  record.SubmissionID,
			StudentName:   record.StudentName,
			ActivityTitle: record.ActivityTitle,
			RoomName:      record.RoomName,
			Score:         *record.Score,
			TotalMarks:    record.TotalMarks,
			Percentage:    grading.Round2(percentage),
			SubmittedAt:   record.SubmittedAt,
		})
	}
	return feed
}
