package dto

import (
	"time"

	"github.com/Huerte/AcademiQly/internal/grading"
	"github.com/Huerte/AcademiQly/internal/models"
)

// SubmissionCreateRequest carries a content reference when no file is uploaded.
type SubmissionCreateRequest struct {
	ContentURL  string `json:"content_url" form:"content_url" validate:"omitempty,url,max=512"`
	ContentText string `json:"content_text" form:"content_text" validate:"max=20000"`
}

// GradeSubmissionRequest is used to record a score.
type GradeSubmissionRequest struct {
	Score    *int   `json:"score" validate:"required"`
	Feedback string `json:"feedback" validate:"max=5000"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID          uint                             `json:"id"`
	ActivityID  uint                             `json:"activity_id"`
	StudentID   uint                             `json:"student_id"`
	ContentURL  string                           `json:"content_url"`
	ContentText string                           `json:"content_text"`
	Status      string                           `json:"status"`
	Score       *int                             `json:"score"`
	Grade       *GradeResponse                   `json:"grade,omitempty"`
	Feedback    string                           `json:"feedback"`
	SubmittedAt time.Time                        `json:"submitted_at"`
	GradedBy    *uint                            `json:"graded_by"`
	GradedAt    *time.Time                       `json:"graded_at"`
	History     []SubmissionGradeHistoryResponse `json:"history,omitempty"`
	Activity    ActivityLite                     `json:"activity"`
	Student     StudentLite                      `json:"student"`
}

// ActivityLite summarizes an activity in submission responses.
type ActivityLite struct {
	ID         uint       `json:"id"`
	Title      string     `json:"title"`
	TotalMarks int        `json:"total_marks"`
	DueDate    *time.Time `json:"due_date"`
	RoomID     uint       `json:"room_id"`
}

// SubmissionGradeHistoryResponse serializes grading history entries.
type SubmissionGradeHistoryResponse struct {
	Score    int       `json:"score"`
	Feedback string    `json:"feedback"`
	GradedBy uint      `json:"graded_by"`
	GradedAt time.Time `json:"graded_at"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	StudentNumber string `json:"student_number"`
}

// NewSubmissionResponse converts a Submission model into a DTO. The room
// threshold wins over defaultThreshold when the preloaded room has one.
func NewSubmissionResponse(model models.Submission, defaultThreshold int) SubmissionResponse {
	response := SubmissionResponse{
		ID:          model.ID,
		ActivityID:  model.ActivityID,
		StudentID:   model.StudentID,
		ContentURL:  model.ContentURL,
		ContentText: model.ContentText,
		Status:      string(model.Status),
		Score:       model.Score,
		Feedback:    model.Feedback,
		SubmittedAt: model.SubmittedAt,
		GradedBy:    model.GradedBy,
		GradedAt:    model.GradedAt,
		Activity: ActivityLite{
			ID:         model.Activity.ID,
			Title:      model.Activity.Title,
			TotalMarks: model.Activity.TotalMarks,
			DueDate:    model.Activity.DueDate,
			RoomID:     model.Activity.RoomID,
		},
		Student: StudentLite{
			ID:            model.Student.ID,
			Name:          model.Student.FullName(),
			StudentNumber: model.Student.StudentNumber,
		},
	}

	if model.Score != nil {
		threshold := grading.Threshold(model.Activity.Room.BasePassing, defaultThreshold)
		grade := NewGradeResponse(*model.Score, model.Activity.TotalMarks, threshold)
		response.Grade = &grade
	}

	if len(model.History) > 0 {
		response.History = make([]SubmissionGradeHistoryResponse, 0, len(model.History))
		for _, entry := range model.History {
			response.History = append(response.History, SubmissionGradeHistoryResponse{
				Score:    entry.Score,
				Feedback: entry.Feedback,
				GradedBy: entry.GradedBy,
				GradedAt: entry.GradedAt,
			})
		}
	}

	return response
}
