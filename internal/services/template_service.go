package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"gorm.io/gorm"
)

// TemplateService manages reusable task definitions
type TemplateService struct {
	store repository.Store
	audit *AuditService
	tasks *TaskService
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(store repository.Store, audit *AuditService, tasks *TaskService) *TemplateService {
	return &TemplateService{
		store: store,
		audit: audit,
		tasks: tasks,
	}
}

// CreateTemplateInput represents input for creating a template
type CreateTemplateInput struct {
	Name                string
	Title               string
	Description         string
	Type                models.TaskType
	Priority            models.TaskPriority
	DefaultPoints       int
	AllowLateSubmission bool
	CreatorID           uint64
}

// InstantiateTemplateInput carries the fields a template does not fix
type InstantiateTemplateInput struct {
	TemplateID   uint64
	ActorID      uint64
	DueAt        time.Time
	DepartmentID uint64
}

// CreateTemplate validates and stores a template
func (s *TemplateService) CreateTemplate(ctx context.Context, input CreateTemplateInput) (*models.TaskTemplate, error) {
	name := strings.TrimSpace(input.Name)
	if err := checkLength("name", name, constants.MaxTemplateNameLength); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if err := checkLength("title", title, constants.MaxTaskTitleLength); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if err := checkLength("description", description, constants.MaxTaskDescriptionLength); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, invalid("type", "must be primary or secondary")
	}
	if !input.Priority.IsValid() {
		return nil, invalid("priority", "must be low, medium or high")
	}
	if input.DefaultPoints < 1 {
		return nil, invalid("default_points", "must be at least 1")
	}

	template := &models.TaskTemplate{
		Name:                name,
		Title:               title,
		Description:         description,
		Type:                input.Type,
		Priority:            input.Priority,
		DefaultPoints:       input.DefaultPoints,
		AllowLateSubmission: input.AllowLateSubmission,
		CreatorID:           input.CreatorID,
	}
	if err := s.store.TaskTemplates().Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.audit.Record(ctx, models.EntityTaskTemplate, EntityID(template.ID), models.AuditActionCreate, input.CreatorID, map[string]any{
		"name":  template.Name,
		"title": template.Title,
	})

	return template, nil
}

// ListTemplates returns every template, newest first
func (s *TemplateService) ListTemplates(ctx context.Context) ([]models.TaskTemplate, error) {
	templates, err := s.store.TaskTemplates().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// GetTemplate returns a template by ID
func (s *TemplateService) GetTemplate(ctx context.Context, id uint64) (*models.TaskTemplate, error) {
	template, err := s.store.TaskTemplates().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to find template: %w", err)
	}
	return template, nil
}

// DeleteTemplate removes a template. Tasks already created from it are kept.
func (s *TemplateService) DeleteTemplate(ctx context.Context, id, actorID uint64) error {
	template, err := s.GetTemplate(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.TaskTemplates().Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTemplateNotFound
		}
		return fmt.Errorf("failed to delete template: %w", err)
	}

	s.audit.Record(ctx, models.EntityTaskTemplate, EntityID(id), models.AuditActionDelete, actorID, map[string]any{
		"name": template.Name,
	})

	return nil
}

// Instantiate creates a task from a template with the given due date and
// department.
func (s *TemplateService) Instantiate(ctx context.Context, input InstantiateTemplateInput) (*models.Task, error) {
	template, err := s.GetTemplate(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}

	return s.tasks.CreateTask(ctx, CreateTaskInput{
		Title:               template.Title,
		Description:         template.Description,
		Type:                template.Type,
		Priority:            template.Priority,
		DefaultPoints:       template.DefaultPoints,
		DueAt:               input.DueAt,
		DepartmentID:        input.DepartmentID,
		AllowLateSubmission: template.AllowLateSubmission,
		CreatorID:           input.ActorID,
	})
}
