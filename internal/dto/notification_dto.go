package dto

import (
	"time"

	"github.com/Huerte/AcademiQly/internal/models"
)

// NotificationResponse is the wire shape of an inbox entry.
type NotificationResponse struct {
	ID            uint                   `json:"id"`
	RecipientKind string                 `json:"recipient_kind"`
	RecipientID   uint                   `json:"recipient_id"`
	Type          string                 `json:"type"`
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	RoomID        *uint                  `json:"room_id,omitempty"`
	ActivityID    *uint                  `json:"activity_id,omitempty"`
	SubmissionID  *uint                  `json:"submission_id,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Read          bool                   `json:"read"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewNotificationResponse converts a Notification model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            model.ID,
		RecipientKind: string(model.RecipientKind),
		RecipientID:   model.RecipientID,
		Type:          model.Type,
		Title:         model.Title,
		Message:       model.Message,
		RoomID:        model.RoomID,
		ActivityID:    model.ActivityID,
		SubmissionID:  model.SubmissionID,
		Metadata:      model.Metadata,
		Read:          model.Read,
		CreatedAt:     model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewNotificationResponse(item))
	}
	return responses
}
