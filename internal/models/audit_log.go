package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	EntityTask         = "task"
	EntityTaskTemplate = "task_template"
	EntitySubmission   = "submission"
	EntityUser         = "user"
	EntitySetting      = "setting"
)

const (
	AuditActionCreate        = "create"
	AuditActionUpdate        = "update"
	AuditActionDelete        = "delete"
	AuditActionSubmit        = "submit"
	AuditActionOverride      = "override"
	AuditActionReject        = "reject"
	AuditActionAutoArchive   = "auto_archive"
	AuditActionManualArchive = "manual_archive"
	AuditActionDeactivate    = "deactivate"
)

// AuditLog rows are append-only; nothing updates or deletes them.
type AuditLog struct {
	ID          uint64            `gorm:"primarykey" json:"id"`
	EntityType  string            `gorm:"type:varchar(32);not null;index:idx_audit_entity,priority:1" json:"entity_type"`
	EntityID    *string           `gorm:"type:varchar(64);index:idx_audit_entity,priority:2" json:"entity_id"`
	Action      string            `gorm:"type:varchar(32);not null" json:"action"`
	PerformedBy uint64            `gorm:"not null" json:"performed_by"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	CreatedAt   time.Time         `gorm:"<-:create;index" json:"created_at"`
}
