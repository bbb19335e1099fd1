package repository

import (
	"context"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"gorm.io/gorm"
)

// GormTaskTemplateRepository is a GORM implementation of TaskTemplateRepository
type GormTaskTemplateRepository struct {
	db *gorm.DB
}

// NewTaskTemplateRepository creates a new TaskTemplateRepository
func NewTaskTemplateRepository(db *gorm.DB) TaskTemplateRepository {
	return &GormTaskTemplateRepository{db: db}
}

// Create creates a new template
func (r *GormTaskTemplateRepository) Create(ctx context.Context, template *models.TaskTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

// FindByID finds a template by ID
func (r *GormTaskTemplateRepository) FindByID(ctx context.Context, id uint64) (*models.TaskTemplate, error) {
	var template models.TaskTemplate
	if err := r.db.WithContext(ctx).First(&template, id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// List lists every template, newest first
func (r *GormTaskTemplateRepository) List(ctx context.Context) ([]models.TaskTemplate, error) {
	var templates []models.TaskTemplate
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Delete removes a template
func (r *GormTaskTemplateRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&models.TaskTemplate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
