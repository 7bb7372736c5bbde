package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/models"
)

// TeacherRepository provides access to teacher profiles.
type TeacherRepository interface {
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	GetByUserID(ctx context.Context, userID uint) (models.Teacher, error)
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Preload("Department").First(&teacher, id).Error; err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Preload("Department").Where("user_id = ?", userID).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}
