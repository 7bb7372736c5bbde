package models

import "time"

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	// SubmissionStatusSubmitted indicates the submission has been uploaded but not graded.
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	// SubmissionStatusGraded indicates the submission has been evaluated.
	SubmissionStatusGraded SubmissionStatus = "graded"
)

// Submission is a student's work for an activity. There is at most one per (activity, student).
type Submission struct {
	ID          uint                     `gorm:"primaryKey" json:"id"`
	ActivityID  uint                     `gorm:"not null;uniqueIndex:idx_submission_activity_student" json:"activity_id"`
	StudentID   uint                     `gorm:"not null;uniqueIndex:idx_submission_activity_student;index" json:"student_id"`
	ContentURL  string                   `gorm:"size:512" json:"content_url"`
	ContentText string                   `gorm:"type:text" json:"content_text"`
	Score       *int                     `json:"score"`
	Feedback    string                   `gorm:"type:text" json:"feedback"`
	Status      SubmissionStatus         `gorm:"size:16;not null;default:submitted" json:"status"`
	SubmittedAt time.Time                `gorm:"index" json:"submitted_at"`
	GradedAt    *time.Time               `json:"graded_at"`
	GradedBy    *uint                    `json:"graded_by"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Activity    Activity                 `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"activity"`
	Student     Student                  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	History     []SubmissionGradeHistory `gorm:"foreignKey:SubmissionID" json:"history,omitempty"`
}

// IsGraded reports whether the submission carries a score.
func (s Submission) IsGraded() bool {
	return s.Score != nil
}

// SubmissionGradeHistory is an append-only trail of grading actions.
type SubmissionGradeHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	Score        int       `gorm:"not null" json:"score"`
	Feedback     string    `gorm:"type:text" json:"feedback"`
	GradedBy     uint      `gorm:"not null" json:"graded_by"`
	GradedAt     time.Time `gorm:"not null" json:"graded_at"`
}
