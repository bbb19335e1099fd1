package models

import (
	"time"
)

// TaskTemplate is a reusable task definition without a due date or
// department. Tasks created from it copy its fields.
type TaskTemplate struct {
	ID                  uint64       `gorm:"primarykey" json:"id"`
	Name                string       `gorm:"type:varchar(100);not null" json:"name"`
	Title               string       `gorm:"type:varchar(200);not null" json:"title"`
	Description         string       `gorm:"type:text;not null" json:"description"`
	Type                TaskType     `gorm:"type:varchar(20);not null" json:"type"`
	Priority            TaskPriority `gorm:"type:varchar(20);not null" json:"priority"`
	DefaultPoints       int          `gorm:"not null" json:"default_points"`
	AllowLateSubmission bool         `gorm:"not null;default:false" json:"allow_late_submission"`
	CreatorID           uint64       `gorm:"not null;index:idx_task_templates_creator,priority:1" json:"created_by"`
	CreatedAt           time.Time    `gorm:"index:idx_task_templates_creator,priority:2" json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}
