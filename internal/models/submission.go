package models

import (
	"time"
)

type SubmissionStatus string

const (
	SubmissionStatusNotStarted SubmissionStatus = "not_started"
	SubmissionStatusPartial    SubmissionStatus = "partial"
	SubmissionStatusCompleted  SubmissionStatus = "completed"
	SubmissionStatusRejected   SubmissionStatus = "rejected"
)

// Submission is a user's reported status for a task. There is at most one
// row per (task, user); resubmissions update it in place.
type Submission struct {
	ID               uint64           `gorm:"primarykey" json:"id"`
	TaskID           uint64           `gorm:"not null;uniqueIndex:idx_submissions_task_user,priority:1" json:"task_id"`
	UserID           uint64           `gorm:"not null;uniqueIndex:idx_submissions_task_user,priority:2;index" json:"user_id"`
	Status           SubmissionStatus `gorm:"type:varchar(20);not null" json:"status"`
	PointsAwarded    int              `gorm:"not null;default:0" json:"points_awarded"`
	NotStartedReason *string          `gorm:"type:varchar(200)" json:"not_started_reason"`
	EvidenceURL      *string          `gorm:"type:text" json:"evidence_url"`
	RejectionReason  *string          `gorm:"type:varchar(500)" json:"rejection_reason,omitempty"`
	RejectedBy       *uint64          `json:"rejected_by,omitempty"`
	RejectedAt       *time.Time       `json:"rejected_at,omitempty"`
	CreatorID        uint64           `gorm:"not null" json:"created_by"`
	Version          int64            `gorm:"column:row_version;not null;default:0" json:"row_version"`
	CreatedAt        time.Time        `gorm:"<-:create" json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}
