package models

import (
	"time"
)

type TaskType string

const (
	TaskTypePrimary   TaskType = "primary"
	TaskTypeSecondary TaskType = "secondary"
)

func (t TaskType) IsValid() bool {
	return t == TaskTypePrimary || t == TaskTypeSecondary
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) IsValid() bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}

type Task struct {
	ID                  uint64       `gorm:"primarykey" json:"id"`
	Title               string       `gorm:"type:varchar(200);not null" json:"title"`
	Description         string       `gorm:"type:text;not null" json:"description"`
	Type                TaskType     `gorm:"type:varchar(20);not null" json:"type"`
	Priority            TaskPriority `gorm:"type:varchar(20);not null" json:"priority"`
	DefaultPoints       int          `gorm:"not null" json:"default_points"`
	DueAt               time.Time    `gorm:"not null;index:idx_tasks_due_department_archived,priority:1" json:"due_at_utc"`
	DepartmentID        uint64       `gorm:"not null;index:idx_tasks_due_department_archived,priority:2;index:idx_tasks_department_archived,priority:1" json:"department_id"`
	Archived            bool         `gorm:"not null;default:false;index:idx_tasks_due_department_archived,priority:3;index:idx_tasks_department_archived,priority:2" json:"is_archived"`
	ArchivedAt          *time.Time   `json:"archived_at"`
	AllowLateSubmission bool         `gorm:"not null;default:false" json:"allow_late_submission"`
	CreatorID           uint64       `gorm:"not null" json:"created_by"`
	Version             int64        `gorm:"column:row_version;not null;default:0" json:"row_version"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`

	// Relations
	Department  Department   `gorm:"foreignKey:DepartmentID" json:"-"`
	Submissions []Submission `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"-"`
}

// AcceptsSubmissions reports whether staff may still report against the task.
func (t *Task) AcceptsSubmissions() bool {
	return !t.Archived || t.AllowLateSubmission
}
