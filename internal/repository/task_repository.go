package repository

import (
	"context"
	"time"

	"github.com/yukikurage/hospital-task-points/internal/database"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// CreateBatch creates several tasks
func (r *GormTaskRepository) CreateBatch(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tasks).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.WithContext(ctx).Model(&models.Task{})

	// Apply filters
	if filter.DepartmentID != nil {
		query = query.Where("tasks.department_id = ?", *filter.DepartmentID)
	}
	if filter.Archived != nil {
		query = query.Where("tasks.archived = ?", *filter.Archived)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.due_at ASC").Order("tasks.id ASC").
		Scopes(database.Paginate(filter.Pagination))

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateVersioned applies updates if the task is still at expectedVersion
func (r *GormTaskRepository) UpdateVersioned(ctx context.Context, id uint64, expectedVersion int64, updates map[string]any) error {
	return updateVersioned(ctx, r.db, &models.Task{}, id, expectedVersion, updates)
}

// Archive flips archived from false to true
func (r *GormTaskRepository) Archive(ctx context.Context, id uint64, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND archived = ?", id, false).
		Updates(map[string]any{
			"archived":    true,
			"archived_at": at,
			"row_version": gorm.Expr("row_version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// FindOverdue returns unarchived tasks due before now with id > afterID,
// ordered by id
func (r *GormTaskRepository) FindOverdue(ctx context.Context, now time.Time, afterID uint64, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := r.db.WithContext(ctx).
		Where("due_at < ? AND archived = ? AND id > ?", now, false, afterID).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// SumActivePoints sums default_points of unarchived tasks in a department
func (r *GormTaskRepository) SumActivePoints(ctx context.Context, departmentID uint64) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select("COALESCE(SUM(default_points), 0)").
		Where("department_id = ? AND archived = ?", departmentID, false).
		Scan(&total).Error
	return total, err
}

// DeletePermanently removes a task and its submissions in a transaction
func (r *GormTaskRepository) DeletePermanently(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Submission{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
