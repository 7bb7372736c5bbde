package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Huerte/AcademiQly/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	ActivityID *uint
	StudentID  *uint
	RoomIDs    []uint
	Graded     *bool
	Limit      int
}

// GradeUpdate is the single-row write applied when a teacher records a score.
type GradeUpdate struct {
	Score    int
	Feedback string
	GradedBy uint
	GradedAt time.Time
}

// PendingCount is the number of unscored submissions of an activity.
type PendingCount struct {
	ActivityID uint
	Pending    int64
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.Submission, error)
	Upsert(ctx context.Context, submission *models.Submission) error
	ApplyGrade(ctx context.Context, id uint, grade GradeUpdate) (models.Submission, error)
	PendingByActivity(ctx context.Context, roomIDs []uint) ([]PendingCount, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Activity").
		Preload("Activity.Room").
		Preload("Student")
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.baseQuery(ctx)

	if filter.ActivityID != nil {
		query = query.Where("submissions.activity_id = ?", *filter.ActivityID)
	}

	if filter.StudentID != nil {
		query = query.Where("submissions.student_id = ?", *filter.StudentID)
	}

	if len(filter.RoomIDs) > 0 {
		query = query.Where("submissions.activity_id IN (?)",
			r.db.Model(&models.Activity{}).Select("id").Where("room_id IN ?", filter.RoomIDs))
	}

	if filter.Graded != nil {
		if *filter.Graded {
			query = query.Where("submissions.score IS NOT NULL")
		} else {
			query = query.Where("submissions.score IS NULL")
		}
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var submissions []models.Submission
	if err := query.Order("submissions.submitted_at DESC").Order("submissions.id DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByActivityAndStudent(ctx context.Context, activityID, studentID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("activity_id = ?", activityID).
		Where("student_id = ?", studentID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

// Upsert inserts the submission or replaces the content of the existing row
// for the same (activity, student). Score, feedback and status are left alone
// on conflict, and the stored row is loaded back into submission.
func (r *submissionRepository) Upsert(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "activity_id"}, {Name: "student_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_url", "content_text", "submitted_at", "updated_at"}),
		}).Omit(clause.Associations).Create(submission).Error
		if err != nil {
			return err
		}

		var stored models.Submission
		if err := tx.Where("activity_id = ? AND student_id = ?", submission.ActivityID, submission.StudentID).
			First(&stored).Error; err != nil {
			return err
		}
		*submission = stored
		return nil
	})
}

// ApplyGrade updates the score columns of one row and appends the matching
// history entry in the same transaction.
func (r *submissionRepository) ApplyGrade(ctx context.Context, id uint, grade GradeUpdate) (models.Submission, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Submission{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"score":      grade.Score,
				"feedback":   grade.Feedback,
				"status":     models.SubmissionStatusGraded,
				"graded_by":  grade.GradedBy,
				"graded_at":  grade.GradedAt,
				"updated_at": grade.GradedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		history := models.SubmissionGradeHistory{
			SubmissionID: id,
			Score:        grade.Score,
			Feedback:     grade.Feedback,
			GradedBy:     grade.GradedBy,
			GradedAt:     grade.GradedAt,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return models.Submission{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *submissionRepository) PendingByActivity(ctx context.Context, roomIDs []uint) ([]PendingCount, error) {
	if len(roomIDs) == 0 {
		return []PendingCount{}, nil
	}

	var counts []PendingCount
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("submissions.activity_id AS activity_id, COUNT(*) AS pending").
		Joins("JOIN activities ON activities.id = submissions.activity_id").
		Where("activities.room_id IN ?", roomIDs).
		Where("submissions.score IS NULL").
		Group("submissions.activity_id").
		Order("submissions.activity_id ASC").
		Scan(&counts).Error
	return counts, err
}
