package models

import (
	"time"

	"gorm.io/datatypes"
)

// RecipientKind distinguishes teacher and student inboxes.
type RecipientKind string

const (
	RecipientTeacher RecipientKind = "teacher"
	RecipientStudent RecipientKind = "student"
)

// Notification types raised by lifecycle transitions.
const (
	NotificationActivityGraded   = "activity_graded"
	NotificationNewActivity      = "new_activity"
	NotificationStudentSubmitted = "student_submitted"
)

// Notification is an inbox entry for a teacher or student profile.
type Notification struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	RecipientKind RecipientKind     `gorm:"size:16;not null;index:idx_notification_recipient" json:"recipient_kind"`
	RecipientID   uint              `gorm:"not null;index:idx_notification_recipient" json:"recipient_id"`
	Type          string            `gorm:"size:64;not null" json:"type"`
	Title         string            `gorm:"size:255" json:"title"`
	Message       string            `gorm:"type:text" json:"message"`
	RoomID        *uint             `json:"room_id"`
	ActivityID    *uint             `json:"activity_id"`
	SubmissionID  *uint             `json:"submission_id"`
	Metadata      datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Read          bool              `gorm:"not null;default:false" json:"read"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
