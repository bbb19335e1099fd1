package dto

import (
	"time"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

// CreateTemplateRequest is the body of POST /api/admin/templates
type CreateTemplateRequest struct {
	Name                string              `json:"name" binding:"required"`
	Title               string              `json:"title" binding:"required"`
	Description         string              `json:"description" binding:"required"`
	Type                models.TaskType     `json:"type" binding:"required"`
	Priority            models.TaskPriority `json:"priority" binding:"required"`
	DefaultPoints       int                 `json:"default_points" binding:"required"`
	AllowLateSubmission bool                `json:"allow_late_submission"`
}

// InstantiateTemplateRequest is the body of POST /api/admin/templates/:id/tasks
type InstantiateTemplateRequest struct {
	DueAt        time.Time `json:"due_at_utc" binding:"required"`
	DepartmentID uint64    `json:"department_id" binding:"required"`
}

// TemplateDTO represents a task template in API responses
type TemplateDTO struct {
	ID                  uint64              `json:"id"`
	Name                string              `json:"name"`
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Type                models.TaskType     `json:"type"`
	Priority            models.TaskPriority `json:"priority"`
	DefaultPoints       int                 `json:"default_points"`
	AllowLateSubmission bool                `json:"allow_late_submission"`
	CreatedBy           uint64              `json:"created_by"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ToCreateTemplateInput converts a request into service input
func (r CreateTemplateRequest) ToCreateTemplateInput(creatorID uint64) services.CreateTemplateInput {
	return services.CreateTemplateInput{
		Name:                r.Name,
		Title:               r.Title,
		Description:         r.Description,
		Type:                r.Type,
		Priority:            r.Priority,
		DefaultPoints:       r.DefaultPoints,
		AllowLateSubmission: r.AllowLateSubmission,
		CreatorID:           creatorID,
	}
}

// ToTemplateDTO converts a TaskTemplate model to TemplateDTO
func ToTemplateDTO(template models.TaskTemplate) TemplateDTO {
	return TemplateDTO{
		ID:                  template.ID,
		Name:                template.Name,
		Title:               template.Title,
		Description:         template.Description,
		Type:                template.Type,
		Priority:            template.Priority,
		DefaultPoints:       template.DefaultPoints,
		AllowLateSubmission: template.AllowLateSubmission,
		CreatedBy:           template.CreatorID,
		CreatedAt:           template.CreatedAt,
		UpdatedAt:           template.UpdatedAt,
	}
}

// ToTemplateDTOs converts a slice of templates
func ToTemplateDTOs(templates []models.TaskTemplate) []TemplateDTO {
	items := make([]TemplateDTO, len(templates))
	for i, t := range templates {
		items[i] = ToTemplateDTO(t)
	}
	return items
}
