package dto

import (
	"time"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

// SubmitRequest is the body of POST /api/tasks/:id/submit
type SubmitRequest struct {
	Status           models.SubmissionStatus `json:"status" binding:"required"`
	NotStartedReason *string                 `json:"not_started_reason"`
	EvidenceURL      *string                 `json:"evidence_url"`
}

// OverrideRequest is the body of POST /api/submissions/:id/override
type OverrideRequest struct {
	PointsAwarded *int   `json:"points_awarded"`
	Reason        string `json:"reason"`
	RowVersion    *int64 `json:"row_version"`
}

// RejectRequest is the body of POST /api/submissions/:id/reject
type RejectRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

// SubmissionDTO represents a submission in API responses
type SubmissionDTO struct {
	ID               uint64                  `json:"id"`
	TaskID           uint64                  `json:"task_id"`
	UserID           uint64                  `json:"user_id"`
	User             *UserSummaryDTO         `json:"user,omitempty"`
	Task             *TaskSummaryDTO         `json:"task,omitempty"`
	Status           models.SubmissionStatus `json:"status"`
	PointsAwarded    int                     `json:"points_awarded"`
	NotStartedReason *string                 `json:"not_started_reason"`
	EvidenceURL      *string                 `json:"evidence_url"`
	RejectionReason  *string                 `json:"rejection_reason,omitempty"`
	RejectedBy       *uint64                 `json:"rejected_by,omitempty"`
	RejectedAt       *time.Time              `json:"rejected_at,omitempty"`
	CreatedBy        uint64                  `json:"created_by"`
	RowVersion       int64                   `json:"row_version"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// TaskSummaryDTO is the short form of a task embedded in submission feeds
type TaskSummaryDTO struct {
	ID             uint64 `json:"id"`
	Title          string `json:"title"`
	DepartmentID   uint64 `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
}

// SubmitResponse is the stored submission with the submitter's overview
type SubmitResponse struct {
	Submission SubmissionDTO `json:"submission"`
	Overview   *OverviewDTO  `json:"overview"`
}

// SubmissionListResponse wraps a list of submissions
type SubmissionListResponse struct {
	Submissions []SubmissionDTO `json:"submissions"`
}

// ToSubmissionDTO converts a Submission model to SubmissionDTO
func ToSubmissionDTO(submission models.Submission) SubmissionDTO {
	dto := SubmissionDTO{
		ID:               submission.ID,
		TaskID:           submission.TaskID,
		UserID:           submission.UserID,
		Status:           submission.Status,
		PointsAwarded:    submission.PointsAwarded,
		NotStartedReason: submission.NotStartedReason,
		EvidenceURL:      submission.EvidenceURL,
		RejectionReason:  submission.RejectionReason,
		RejectedBy:       submission.RejectedBy,
		RejectedAt:       submission.RejectedAt,
		CreatedBy:        submission.CreatorID,
		RowVersion:       submission.Version,
		CreatedAt:        submission.CreatedAt,
		UpdatedAt:        submission.UpdatedAt,
	}

	// Include user if preloaded
	if submission.User.ID != 0 {
		user := ToUserSummaryDTO(submission.User)
		dto.User = &user
	}

	// Include task if preloaded
	if submission.Task.ID != 0 {
		dto.Task = &TaskSummaryDTO{
			ID:             submission.Task.ID,
			Title:          submission.Task.Title,
			DepartmentID:   submission.Task.DepartmentID,
			DepartmentName: submission.Task.Department.Name,
		}
	}

	return dto
}

// ToSubmissionDTOs converts a slice of submissions
func ToSubmissionDTOs(submissions []models.Submission) []SubmissionDTO {
	items := make([]SubmissionDTO, len(submissions))
	for i, s := range submissions {
		items[i] = ToSubmissionDTO(s)
	}
	return items
}

// ToSubmitResponse converts the result of a submission
func ToSubmitResponse(result *services.SubmitResult) SubmitResponse {
	resp := SubmitResponse{Submission: ToSubmissionDTO(*result.Submission)}
	if result.Overview != nil {
		overview := ToOverviewDTO(*result.Overview)
		resp.Overview = &overview
	}
	return resp
}
