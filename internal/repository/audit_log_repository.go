package repository

import (
	"context"

	"github.com/yukikurage/hospital-task-points/internal/database"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"gorm.io/gorm"
)

// GormAuditLogRepository is a GORM implementation of AuditLogRepository.
// It only ever inserts and reads.
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Append inserts a new entry
func (r *GormAuditLogRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List queries entries newest first
func (r *GormAuditLogRepository) List(ctx context.Context, filter AuditFilter) ([]models.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("created_at DESC").Order("id DESC").
		Scopes(database.Paginate(filter.Pagination))

	var entries []models.AuditLog
	if err := listQuery.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
