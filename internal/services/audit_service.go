package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/yukikurage/hospital-task-points/internal/logger"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"github.com/yukikurage/hospital-task-points/internal/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// AuditService appends to and queries the audit trail.
type AuditService struct {
	store repository.Store
}

// NewAuditService creates a new AuditService
func NewAuditService(store repository.Store) *AuditService {
	return &AuditService{store: store}
}

// EntityID formats a numeric primary key as an audit entity id.
func EntityID(id uint64) *string {
	s := strconv.FormatUint(id, 10)
	return &s
}

// Record appends an entry. It never fails the caller: on error it logs and
// returns nil. Call it after the business transaction has committed.
func (s *AuditService) Record(ctx context.Context, entityType string, entityID *string, action string, performedBy uint64, metadata map[string]any) *models.AuditLog {
	entry := &models.AuditLog{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		PerformedBy: performedBy,
		Metadata:    datatypes.JSONMap(metadata),
	}

	if err := s.store.AuditLogs().Append(ctx, entry); err != nil {
		fields := []zap.Field{
			zap.String("entity_type", entityType),
			zap.String("action", action),
			zap.Uint64("performed_by", performedBy),
		}
		if entityID != nil {
			fields = append(fields, zap.String("entity_id", *entityID))
		}
		logger.Error("failed to record audit log", err, fields...)
		return nil
	}

	return entry
}

// ListAuditInput represents filters for querying the audit trail
type ListAuditInput struct {
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Pagination utils.PaginationParams
}

// List returns matching entries newest first together with the total count.
func (s *AuditService) List(ctx context.Context, input ListAuditInput) ([]models.AuditLog, int64, error) {
	if input.From != nil && input.To != nil && input.To.Before(*input.From) {
		return nil, 0, invalid("to", "must not be before from")
	}

	entries, total, err := s.store.AuditLogs().List(ctx, repository.AuditFilter{
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		From:       input.From,
		To:         input.To,
		Pagination: input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}

	return entries, total, nil
}
