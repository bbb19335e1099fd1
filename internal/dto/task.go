package dto

import (
	"time"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/services"
	"github.com/yukikurage/hospital-task-points/internal/utils"
)

// CreateTaskRequest is the body of POST /api/admin/tasks
type CreateTaskRequest struct {
	Title               string              `json:"title" binding:"required"`
	Description         string              `json:"description" binding:"required"`
	Type                models.TaskType     `json:"type" binding:"required"`
	Priority            models.TaskPriority `json:"priority" binding:"required"`
	DefaultPoints       int                 `json:"default_points" binding:"required"`
	DueAt               time.Time           `json:"due_at_utc" binding:"required"`
	DepartmentID        uint64              `json:"department_id" binding:"required"`
	AllowLateSubmission bool                `json:"allow_late_submission"`
}

// BulkCreateTasksRequest is the body of POST /api/admin/tasks/bulk
type BulkCreateTasksRequest struct {
	Tasks []CreateTaskRequest `json:"tasks" binding:"required,dive"`
}

// UpdateTaskRequest is the body of PATCH /api/admin/tasks/:id. Absent fields
// are left unchanged.
type UpdateTaskRequest struct {
	Title               *string              `json:"title"`
	Description         *string              `json:"description"`
	Type                *models.TaskType     `json:"type"`
	Priority            *models.TaskPriority `json:"priority"`
	DefaultPoints       *int                 `json:"default_points"`
	DueAt               *time.Time           `json:"due_at_utc"`
	DepartmentID        *uint64              `json:"department_id"`
	AllowLateSubmission *bool                `json:"allow_late_submission"`
	RowVersion          *int64               `json:"row_version"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                  uint64              `json:"id"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Type                models.TaskType     `json:"type"`
	Priority            models.TaskPriority `json:"priority"`
	DefaultPoints       int                 `json:"default_points"`
	DueAt               time.Time           `json:"due_at_utc"`
	DepartmentID        uint64              `json:"department_id"`
	IsArchived          bool                `json:"is_archived"`
	ArchivedAt          *time.Time          `json:"archived_at"`
	AllowLateSubmission bool                `json:"allow_late_submission"`
	CreatedBy           uint64              `json:"created_by"`
	RowVersion          int64               `json:"row_version"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
	HasMore    bool      `json:"has_more"`
}

// TaskDetailResponse is a task with all of its submissions
type TaskDetailResponse struct {
	Task        TaskDTO         `json:"task"`
	Submissions []SubmissionDTO `json:"submissions"`
}

// StaffTaskDTO is a task as seen by a staff member
type StaffTaskDTO struct {
	TaskDTO
	MySubmission *SubmissionDTO `json:"my_submission"`
}

// Conversion functions

// ToCreateTaskInput converts a request into service input
func (r CreateTaskRequest) ToCreateTaskInput(creatorID uint64) services.CreateTaskInput {
	return services.CreateTaskInput{
		Title:               r.Title,
		Description:         r.Description,
		Type:                r.Type,
		Priority:            r.Priority,
		DefaultPoints:       r.DefaultPoints,
		DueAt:               r.DueAt,
		DepartmentID:        r.DepartmentID,
		AllowLateSubmission: r.AllowLateSubmission,
		CreatorID:           creatorID,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:                  task.ID,
		Title:               task.Title,
		Description:         task.Description,
		Type:                task.Type,
		Priority:            task.Priority,
		DefaultPoints:       task.DefaultPoints,
		DueAt:               task.DueAt,
		DepartmentID:        task.DepartmentID,
		IsArchived:          task.Archived,
		ArchivedAt:          task.ArchivedAt,
		AllowLateSubmission: task.AllowLateSubmission,
		CreatedBy:           task.CreatorID,
		RowVersion:          task.Version,
		CreatedAt:           task.CreatedAt,
		UpdatedAt:           task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}

// ToTaskListResponse converts a page of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page utils.PaginationParams, totalCount int64) TaskListResponse {
	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Page:       page.Page,
		Limit:      page.Limit,
		TotalCount: totalCount,
		TotalPages: page.TotalPages(totalCount),
		HasMore:    page.HasMore(totalCount),
	}
}

// ToTaskDetailResponse converts a task and its submissions
func ToTaskDetailResponse(task models.Task, submissions []models.Submission) TaskDetailResponse {
	return TaskDetailResponse{
		Task:        ToTaskDTO(task),
		Submissions: ToSubmissionDTOs(submissions),
	}
}

// ToStaffTaskDTOs converts the staff task view
func ToStaffTaskDTOs(items []services.StaffTask) []StaffTaskDTO {
	result := make([]StaffTaskDTO, len(items))
	for i, item := range items {
		result[i] = StaffTaskDTO{TaskDTO: ToTaskDTO(item.Task)}
		if item.Submission != nil {
			submission := ToSubmissionDTO(*item.Submission)
			result[i].MySubmission = &submission
		}
	}
	return result
}
