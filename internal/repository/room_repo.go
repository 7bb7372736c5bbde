package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/models"
)

const roomStudentsTable = "room_students"

// RoomRepository exposes rooms together with their membership.
type RoomRepository interface {
	GetByID(ctx context.Context, id uint) (models.Room, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Room, error)
	ListByStudent(ctx context.Context, studentID uint) ([]models.Room, error)
	IsMember(ctx context.Context, roomID, studentID uint) (bool, error)
	ListMemberIDs(ctx context.Context, roomID uint) ([]uint, error)
	CountAnnouncements(ctx context.Context, roomIDs []uint) (int64, error)
}

type roomRepository struct {
	db *gorm.DB
}

// NewRoomRepository constructs a room repository.
func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) GetByID(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	if err := r.db.WithContext(ctx).Preload("Teacher").First(&room, id).Error; err != nil {
		return models.Room{}, err
	}
	return room, nil
}

func (r *roomRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Preload("Students", func(db *gorm.DB) *gorm.DB { return db.Order("students.last_name ASC, students.first_name ASC") }).
		Preload("Students.Course").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) ListByStudent(ctx context.Context, studentID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Joins("JOIN "+roomStudentsTable+" ON "+roomStudentsTable+".room_id = rooms.id").
		Where(roomStudentsTable+".student_id = ?", studentID).
		Order("rooms.created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) IsMember(ctx context.Context, roomID, studentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(roomStudentsTable).
		Where("room_id = ? AND student_id = ?", roomID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *roomRepository) ListMemberIDs(ctx context.Context, roomID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table(roomStudentsTable).
		Where("room_id = ?", roomID).
		Order("student_id ASC").
		Pluck("student_id", &ids).Error
	return ids, err
}

func (r *roomRepository) CountAnnouncements(ctx context.Context, roomIDs []uint) (int64, error) {
	if len(roomIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Announcement{}).
		Where("room_id IN ?", roomIDs).
		Count(&count).Error
	return count, err
}
