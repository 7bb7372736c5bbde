package models

import "time"

// Course is a program of study. Teachers reference it as their department.
type Course struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Room groups a teacher, the enrolled students and the activities they work on.
type Room struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Code        string    `gorm:"size:16;uniqueIndex;not null" json:"code"`
	TeacherID   uint      `gorm:"not null;index" json:"teacher_id"`
	BasePassing *int      `json:"base_passing"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Teacher     Teacher   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
	Students    []Student `gorm:"many2many:room_students;" json:"students,omitempty"`
}

// OwnedBy reports whether the teacher profile owns the room.
func (r Room) OwnedBy(teacherID uint) bool {
	return teacherID != 0 && r.TeacherID == teacherID
}

// Announcement is a message posted by the teacher to a room.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
