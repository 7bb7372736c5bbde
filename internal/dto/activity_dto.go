package dto

import (
	"time"

	"github.com/Huerte/AcademiQly/internal/models"
)

// ActivityCreateRequest is the payload for posting an activity to a room.
type ActivityCreateRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description" validate:"max=10000"`
	Resource    string     `json:"resource" validate:"omitempty,url,max=512"`
	TotalMarks  int        `json:"total_marks" validate:"gte=0,lte=100000"`
	DueDate     *time.Time `json:"due_date"`
}

// ActivityResponse is returned to API clients when viewing activities.
type ActivityResponse struct {
	ID                 uint       `json:"id"`
	RoomID             uint       `json:"room_id"`
	RoomName           string     `json:"room_name"`
	RoomCode           string     `json:"room_code"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Resource           string     `json:"resource"`
	TotalMarks         int        `json:"total_marks"`
	DueDate            *time.Time `json:"due_date"`
	Status             string     `json:"status"`
	AcceptsSubmissions bool       `json:"accepts_submissions"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewActivityResponse converts an Activity model into a DTO as of now.
func NewActivityResponse(model models.Activity, now time.Time) ActivityResponse {
	return ActivityResponse{
		ID:                 model.ID,
		RoomID:             model.RoomID,
		RoomName:           model.Room.Name,
		RoomCode:           model.Room.Code,
		Title:              model.Title,
		Description:        model.Description,
		Resource:           model.Resource,
		TotalMarks:         model.TotalMarks,
		DueDate:            model.DueDate,
		Status:             string(model.Status),
		AcceptsSubmissions: model.AcceptsSubmissions(now),
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
	}
}

// SweepResponse reports the outcome of a bulk close.
type SweepResponse struct {
	Closed int64     `json:"closed"`
	RanAt  time.Time `json:"ran_at"`
}
