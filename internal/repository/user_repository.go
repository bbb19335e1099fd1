package repository

import (
	"context"
	"strings"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Department").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByDepartment lists active users of a department
func (r *GormUserRepository) ListByDepartment(ctx context.Context, departmentID uint64, role *models.Role) ([]models.User, error) {
	query := r.db.WithContext(ctx).
		Preload("Department").
		Where("department_id = ? AND is_active = ?", departmentID, true)
	if role != nil {
		query = query.Where("role = ?", *role)
	}

	var users []models.User
	if err := query.Order("name ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// AdjustReceivedPoints adds delta to the running total, floored at zero
func (r *GormUserRepository) AdjustReceivedPoints(ctx context.Context, userID uint64, delta int) error {
	if delta == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("received_points", gorm.Expr(
			"CASE WHEN received_points + ? < 0 THEN 0 ELSE received_points + ? END", delta, delta,
		))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL reports unchanged rows as unaffected
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LeaderboardByDepartment aggregates running totals of active users per department
func (r *GormUserRepository) LeaderboardByDepartment(ctx context.Context) ([]DepartmentTotals, error) {
	var rows []DepartmentTotals
	err := r.db.WithContext(ctx).
		Table("users").
		Select("users.department_id AS department_id, departments.name AS department_name, " +
			"COALESCE(SUM(users.received_points), 0) AS total_received, COUNT(users.id) AS user_count").
		Joins("JOIN departments ON departments.id = users.department_id").
		Where("users.is_active = ?", true).
		Group("users.department_id, departments.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// List lists users matching the filter, newest first
func (r *GormUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := r.db.WithContext(ctx).Preload("Department")
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies updates to a user
func (r *GormUserRepository) Update(ctx context.Context, id uint64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePermanently removes a user and their submissions in a transaction
func (r *GormUserRepository) DeletePermanently(ctx context.Context, id uint64) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", id).Delete(&models.Submission{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected

		result = tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
