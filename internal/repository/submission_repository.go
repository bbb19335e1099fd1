package repository

import (
	"context"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"gorm.io/gorm"
)

// GormSubmissionRepository is a GORM implementation of SubmissionRepository
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// Create inserts a new submission row
func (r *GormSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

// FindByID finds a submission by ID
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id uint64) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByTaskAndUser finds the live submission of a user for a task
func (r *GormSubmissionRepository) FindByTaskAndUser(ctx context.Context, taskID, userID uint64) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&submission).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateVersioned applies updates if the submission is still at expectedVersion
func (r *GormSubmissionRepository) UpdateVersioned(ctx context.Context, id uint64, expectedVersion int64, updates map[string]any) error {
	return updateVersioned(ctx, r.db, &models.Submission{}, id, expectedVersion, updates)
}

// ListByTask lists submissions for a task with their users, newest first
func (r *GormSubmissionRepository) ListByTask(ctx context.Context, taskID uint64) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListByUser lists submissions of a user, newest first
func (r *GormSubmissionRepository) ListByUser(ctx context.Context, userID uint64) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// ListByUsers lists submissions of several users
func (r *GormSubmissionRepository) ListByUsers(ctx context.Context, userIDs []uint64) ([]models.Submission, error) {
	if len(userIDs) == 0 {
		return []models.Submission{}, nil
	}

	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

// SumPointsByUser sums points_awarded over all of a user's submissions
func (r *GormSubmissionRepository) SumPointsByUser(ctx context.Context, userID uint64) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.Submission{}).
		Select("COALESCE(SUM(points_awarded), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error
	return total, err
}

// ListRecent lists the newest submissions across all users
func (r *GormSubmissionRepository) ListRecent(ctx context.Context, limit int) ([]models.Submission, error) {
	var submissions []models.Submission
	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("Task.Department").
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}
