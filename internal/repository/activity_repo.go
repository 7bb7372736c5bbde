package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Huerte/AcademiQly/internal/models"
)

// ActivityRepository persists activities and applies the due-date transition.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id uint) (models.Activity, error)
	ListByRooms(ctx context.Context, roomIDs []uint) ([]models.Activity, error)
	CloseOverdue(ctx context.Context, now time.Time) (int64, error)
	CloseIfOverdue(ctx context.Context, id uint, now time.Time) (bool, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository constructs an activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Omit("Room").Create(activity).Error
}

func (r *activityRepository) GetByID(ctx context.Context, id uint) (models.Activity, error) {
	var activity models.Activity
	if err := r.db.WithContext(ctx).Preload("Room").First(&activity, id).Error; err != nil {
		return models.Activity{}, err
	}
	return activity, nil
}

// ListByRooms orders by due date, undated activities last.
func (r *activityRepository) ListByRooms(ctx context.Context, roomIDs []uint) ([]models.Activity, error) {
	if len(roomIDs) == 0 {
		return []models.Activity{}, nil
	}
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Preload("Room").
		Where("room_id IN ?", roomIDs).
		Order("due_date IS NULL, due_date ASC, id ASC").
		Find(&activities).Error
	return activities, err
}

// CloseOverdue closes every open activity whose due date is before now in a
// single statement. Closed rows are never matched, so repeated runs are no-ops.
func (r *activityRepository) CloseOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.overdue(ctx, now).
		Updates(map[string]interface{}{"status": models.ActivityStatusClosed, "updated_at": now})
	return result.RowsAffected, result.Error
}

func (r *activityRepository) CloseIfOverdue(ctx context.Context, id uint, now time.Time) (bool, error) {
	result := r.overdue(ctx, now).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": models.ActivityStatusClosed, "updated_at": now})
	return result.RowsAffected > 0, result.Error
}

func (r *activityRepository) overdue(ctx context.Context, now time.Time) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Where("status = ?", models.ActivityStatusOpen).
		Where("due_date IS NOT NULL AND due_date < ?", now)
}
