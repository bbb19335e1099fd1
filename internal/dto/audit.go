package dto

import (
	"time"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/utils"
)

// AuditLogDTO represents an audit entry in API responses
type AuditLogDTO struct {
	ID          uint64         `json:"id"`
	EntityType  string         `json:"entity_type"`
	EntityID    *string        `json:"entity_id"`
	Action      string         `json:"action"`
	PerformedBy uint64         `json:"performed_by"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

// AuditListResponse represents a paginated list of audit entries
type AuditListResponse struct {
	Logs       []AuditLogDTO `json:"logs"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalCount int64         `json:"total_count"`
	HasMore    bool          `json:"has_more"`
}

// ToAuditLogDTO converts an AuditLog model
func ToAuditLogDTO(entry models.AuditLog) AuditLogDTO {
	return AuditLogDTO{
		ID:          entry.ID,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Action:      entry.Action,
		PerformedBy: entry.PerformedBy,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
}

// ToAuditListResponse converts a page of audit entries
func ToAuditListResponse(entries []models.AuditLog, page utils.PaginationParams, total int64) AuditListResponse {
	logs := make([]AuditLogDTO, len(entries))
	for i, e := range entries {
		logs[i] = ToAuditLogDTO(e)
	}
	return AuditListResponse{
		Logs:       logs,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalCount: total,
		HasMore:    page.HasMore(total),
	}
}

// ToConflictCurrent converts the stored row carried by a version conflict
// into its response shape.
func ToConflictCurrent(current any) any {
	switch v := current.(type) {
	case *models.Task:
		return ToTaskDTO(*v)
	case *models.Submission:
		return ToSubmissionDTO(*v)
	case *models.Settings:
		return ToSettingsDTO(*v)
	default:
		return v
	}
}
