package models

import "time"

// ActivityStatus is the lifecycle state of an activity.
type ActivityStatus string

const (
	// ActivityStatusOpen accepts submissions.
	ActivityStatusOpen ActivityStatus = "open"
	// ActivityStatusClosed is terminal; a closed activity never reopens.
	ActivityStatusClosed ActivityStatus = "closed"
)

// Activity is a gradable piece of work assigned to a room.
type Activity struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RoomID      uint           `gorm:"not null;index" json:"room_id"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Resource    string         `gorm:"size:512" json:"resource"`
	TotalMarks  int            `gorm:"not null;default:0" json:"total_marks"`
	DueDate     *time.Time     `gorm:"index" json:"due_date"`
	Status      ActivityStatus `gorm:"size:16;not null;default:open;index" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Room        Room           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"room"`
}

// IsPastDue returns true when the activity has a deadline that has already passed.
func (a Activity) IsPastDue(reference time.Time) bool {
	return a.DueDate != nil && a.DueDate.Before(reference)
}

// AcceptsSubmissions recomputes openness from the deadline instead of trusting the stored status.
func (a Activity) AcceptsSubmissions(reference time.Time) bool {
	return a.Status != ActivityStatusClosed && !a.IsPastDue(reference)
}
