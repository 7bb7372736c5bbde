package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/models"
	"github.com/Huerte/AcademiQly/internal/repository"
)

// Role is the resolved identity of the caller: either TeacherRole or StudentRole.
type Role interface {
	Kind() string
	ProfileID() uint
	isRole()
}

// TeacherRole carries the caller's teacher profile.
type TeacherRole struct {
	Profile models.Teacher
}

// StudentRole carries the caller's student profile.
type StudentRole struct {
	Profile models.Student
}

func (TeacherRole) Kind() string      { return "teacher" }
func (r TeacherRole) ProfileID() uint { return r.Profile.ID }
func (TeacherRole) isRole()           {}

func (StudentRole) Kind() string      { return "student" }
func (r StudentRole) ProfileID() uint { return r.Profile.ID }
func (StudentRole) isRole()           {}

// RoleResolver maps an authenticated user to a Role once per request.
type RoleResolver interface {
	Resolve(ctx context.Context, userID uint) (Role, error)
}

type roleResolver struct {
	teachers repository.TeacherRepository
	students repository.StudentRepository
}

// NewRoleResolver constructs a resolver backed by the profile repositories.
func NewRoleResolver(teachers repository.TeacherRepository, students repository.StudentRepository) RoleResolver {
	return &roleResolver{teachers: teachers, students: students}
}

// Resolve prefers the teacher profile when a user somehow has both.
func (r *roleResolver) Resolve(ctx context.Context, userID uint) (Role, error) {
	if userID == 0 {
		return nil, ErrUnknownRole
	}

	teacher, err := r.teachers.GetByUserID(ctx, userID)
	if err == nil {
		return TeacherRole{Profile: teacher}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	student, err := r.students.GetByUserID(ctx, userID)
	if err == nil {
		return StudentRole{Profile: student}, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownRole
	}
	return nil, err
}
