package dto

import "time"

// TeacherDashboardQuery holds the roster and room filters.
type TeacherDashboardQuery struct {
	Search     string `query:"q" json:"q" validate:"max=100"`
	Course     string `query:"course" json:"course" validate:"max=32"`
	RoomSearch string `query:"room_q" json:"room_q" validate:"max=100"`
}

// TeacherCounts are the headline numbers of the teacher view.
type TeacherCounts struct {
	Rooms         int   `json:"rooms"`
	Students      int   `json:"students"`
	Activities    int   `json:"activities"`
	Announcements int64 `json:"announcements"`
}

// GradingStats splits the teacher's submissions by grading state.
type GradingStats struct {
	Pending int `json:"pending"`
	Graded  int `json:"graded"`
}

// GradingQueueItem is an activity with at least one unscored submission.
type GradingQueueItem struct {
	ActivityID uint       `json:"activity_id"`
	Title      string     `json:"title"`
	RoomID     uint       `json:"room_id"`
	RoomName   string     `json:"room_name"`
	RoomCode   string     `json:"room_code"`
	DueDate    *time.Time `json:"due_date"`
	Pending    int64      `json:"pending"`
}

// TeacherRoomSummary lists an owned room.
type TeacherRoomSummary struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Code             string `json:"code"`
	StudentCount     int    `json:"student_count"`
	PassingThreshold int    `json:"passing_threshold"`
}

// RosterEntry is one (student, room) row of the flattened roster.
type RosterEntry struct {
	StudentID     uint           `json:"student_id"`
	Name          string         `json:"name"`
	Initials      string         `json:"initials"`
	Email         string         `json:"email"`
	Username      string         `json:"username"`
	StudentNumber string         `json:"student_number"`
	RoomID        uint           `json:"room_id"`
	RoomName      string         `json:"room_name"`
	RoomCode      string         `json:"room_code"`
	CourseDisplay string         `json:"course_display"`
	GradedCount   int            `json:"graded_count"`
	Grade         *GradeResponse `json:"grade"`
}

// PendingSubmissionItem is an unscored submission awaiting the teacher.
type PendingSubmissionItem struct {
	SubmissionID  uint       `json:"submission_id"`
	StudentID     uint       `json:"student_id"`
	StudentName   string     `json:"student_name"`
	ActivityID    uint       `json:"activity_id"`
	ActivityTitle string     `json:"activity_title"`
	RoomCode      string     `json:"room_code"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	HoursSince    float64    `json:"hours_since"`
	DueDate       *time.Time `json:"due_date"`
	Priority      string     `json:"priority"`
	PriorityTone  string     `json:"priority_tone"`
}

// TeacherDashboardResponse is the teacher view.
type TeacherDashboardResponse struct {
	Counts             TeacherCounts           `json:"counts"`
	GradingStats       GradingStats            `json:"grading_stats"`
	GradingQueue       []GradingQueueItem      `json:"grading_queue"`
	Rooms              []TeacherRoomSummary    `json:"rooms"`
	Roster             []RosterEntry           `json:"roster"`
	CourseOptions      []string                `json:"course_options"`
	PendingSubmissions []PendingSubmissionItem `json:"pending_submissions"`
	Filters            TeacherDashboardQuery   `json:"filters"`
	GeneratedAt        time.Time               `json:"generated_at"`
}

// StudentDashboardQuery holds the assignment filters.
type StudentDashboardQuery struct {
	Search string `query:"q" json:"q" validate:"max=100"`
	Status string `query:"status" json:"status" validate:"omitempty,oneof=pending submitted graded overdue"`
	Course string `query:"course" json:"course" validate:"max=32"`
}

// StudentRoomProgress is one enrolled room with graded progress.
type StudentRoomProgress struct {
	RoomID        uint    `json:"room_id"`
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	Instructor    string  `json:"instructor"`
	ScoredMarks   int     `json:"scored_marks"`
	PossibleMarks int     `json:"possible_marks"`
	GradedCount   int     `json:"graded_count"`
	Progress      float64 `json:"progress"`
	Letter        string  `json:"letter"`
}

// StudentAssignmentItem is one activity of an enrolled room.
type StudentAssignmentItem struct {
	ActivityID   uint           `json:"activity_id"`
	Title        string         `json:"title"`
	RoomID       uint           `json:"room_id"`
	RoomName     string         `json:"room_name"`
	RoomCode     string         `json:"room_code"`
	DueDate      *time.Time     `json:"due_date"`
	TotalMarks   int            `json:"total_marks"`
	Status       string         `json:"status"`
	SubmissionID *uint          `json:"submission_id"`
	Score        *int           `json:"score"`
	Grade        *GradeResponse `json:"grade"`
	Feedback     string         `json:"feedback"`
}

// UpcomingActivity is a not yet due activity.
type UpcomingActivity struct {
	ActivityID uint      `json:"activity_id"`
	Title      string    `json:"title"`
	RoomCode   string    `json:"room_code"`
	DueDate    time.Time `json:"due_date"`
}

// AssignmentStats counts assignments per status.
type AssignmentStats struct {
	Pending   int `json:"pending"`
	Submitted int `json:"submitted"`
	Graded    int `json:"graded"`
	Overdue   int `json:"overdue"`
	Total     int `json:"total"`
}

// StudentDashboardResponse is the student view.
type StudentDashboardResponse struct {
	Rooms             []StudentRoomProgress   `json:"rooms"`
	Assignments       []StudentAssignmentItem `json:"assignments"`
	Upcoming          []UpcomingActivity      `json:"upcoming"`
	Stats             AssignmentStats         `json:"stats"`
	OverallPercentage float64                 `json:"overall_percentage"`
	GPA               float64                 `json:"gpa"`
	CourseOptions     []string                `json:"course_options"`
	Filters           StudentDashboardQuery   `json:"filters"`
	GeneratedAt       time.Time               `json:"generated_at"`
}
