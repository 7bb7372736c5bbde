package models

import (
	"strings"
	"time"
)

// Teacher is the teacher profile attached to an authenticated user.
type Teacher struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	MiddleName   string    `gorm:"size:50" json:"middle_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	Email        string    `gorm:"size:255" json:"email"`
	Username     string    `gorm:"size:150" json:"username"`
	DepartmentID *uint     `json:"department_id"`
	Department   *Course   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"department,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName returns the display name, falling back to the username.
func (t Teacher) FullName() string {
	return displayName(t.FirstName, t.LastName, t.Username)
}

// Student is the student profile attached to an authenticated user.
type Student struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	StudentNumber string    `gorm:"size:15" json:"student_number"`
	FirstName     string    `gorm:"size:150" json:"first_name"`
	MiddleName    string    `gorm:"size:50" json:"middle_name"`
	LastName      string    `gorm:"size:150" json:"last_name"`
	Email         string    `gorm:"size:255" json:"email"`
	Username      string    `gorm:"size:150" json:"username"`
	CourseID      *uint     `json:"course_id"`
	Course        *Course   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"course,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FullName returns the display name, falling back to the username.
func (s Student) FullName() string {
	return displayName(s.FirstName, s.LastName, s.Username)
}

// Initials returns two upper-case letters used by roster avatars.
func (s Student) Initials() string {
	initials := firstRune(s.FirstName) + firstRune(s.LastName)
	if initials == "" {
		username := []rune(s.Username)
		if len(username) > 2 {
			username = username[:2]
		}
		initials = string(username)
	}
	return strings.ToUpper(initials)
}

func displayName(first, last, username string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name == "" {
		return username
	}
	return name
}

func firstRune(value string) string {
	for _, r := range strings.TrimSpace(value) {
		return string(r)
	}
	return ""
}
