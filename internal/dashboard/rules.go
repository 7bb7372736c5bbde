// Package dashboard holds the classification rules shared by the teacher and
// student views.
package dashboard

import (
	"strings"
	"time"

	"github.com/Huerte/AcademiQly/internal/grading"
	"github.com/Huerte/AcademiQly/internal/models"
)

// View limits.
const (
	PendingLimit  = 50
	UpcomingLimit = 5
)

// AssignmentStatus is the student-facing state of an activity.
type AssignmentStatus string

const (
	StatusPending   AssignmentStatus = "pending"
	StatusSubmitted AssignmentStatus = "submitted"
	StatusGraded    AssignmentStatus = "graded"
	StatusOverdue   AssignmentStatus = "overdue"
)

// ClassifyAssignment assigns exactly one status. A scored submission is graded
// even when its stored status says otherwise.
func ClassifyAssignment(submission *models.Submission, activity models.Activity, now time.Time) AssignmentStatus {
	switch {
	case submission != nil && submission.Score != nil:
		return StatusGraded
	case submission != nil:
		return StatusSubmitted
	case activity.IsPastDue(now):
		return StatusOverdue
	default:
		return StatusPending
	}
}

// Priority ranks a pending submission by how close its activity's deadline is.
type Priority struct {
	Level string
	Tone  string
}

var (
	PriorityHigh   = Priority{Level: "high", Tone: "danger"}
	PriorityMedium = Priority{Level: "medium", Tone: "warning"}
	PriorityLow    = Priority{Level: "low", Tone: "success"}
)

// PriorityFor maps a due date to a priority using exact 24h and 72h windows.
// Undated activities are low.
func PriorityFor(due *time.Time, now time.Time) Priority {
	if due == nil {
		return PriorityLow
	}
	remaining := due.Sub(now)
	switch {
	case remaining <= 24*time.Hour:
		return PriorityHigh
	case remaining <= 72*time.Hour:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Progress sums scored and possible marks over graded submissions.
type Progress struct {
	Scored   int
	Possible int
	Graded   int
}

// Add folds a submission in. Ungraded submissions and zero-mark activities are skipped.
func (p *Progress) Add(submission models.Submission) {
	if submission.Score == nil || submission.Activity.TotalMarks <= 0 {
		return
	}
	p.Scored += *submission.Score
	p.Possible += submission.Activity.TotalMarks
	p.Graded++
}

// Percentage returns scored/possible*100 unrounded; ok is false when nothing is graded.
func (p Progress) Percentage() (float64, bool) {
	return grading.Percentage(p.Scored, p.Possible)
}

// Matches reports whether any field contains query, ignoring case. An empty
// query matches everything.
func Matches(query string, fields ...string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// SelectorMatches is the exact, case-insensitive room/course selector.
func SelectorMatches(selector, value string) bool {
	selector = strings.TrimSpace(selector)
	return selector == "" || strings.EqualFold(selector, value)
}
