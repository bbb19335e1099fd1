package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"github.com/yukikurage/hospital-task-points/internal/utils"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	store repository.Store
	audit *AuditService
}

// NewTaskService creates a new TaskService
func NewTaskService(store repository.Store, audit *AuditService) *TaskService {
	return &TaskService{
		store: store,
		audit: audit,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title               string
	Description         string
	Type                models.TaskType
	Priority            models.TaskPriority
	DefaultPoints       int
	DueAt               time.Time
	DepartmentID        uint64
	AllowLateSubmission bool
	CreatorID           uint64
}

// UpdateTaskInput represents a partial task update. RowVersion is required.
type UpdateTaskInput struct {
	TaskID              uint64
	ActorID             uint64
	Title               *string
	Description         *string
	Type                *models.TaskType
	Priority            *models.TaskPriority
	DefaultPoints       *int
	DueAt               *time.Time
	DepartmentID        *uint64
	AllowLateSubmission *bool
	RowVersion          *int64
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	DepartmentID *uint64
	Archived     *bool
	Pagination   utils.PaginationParams
}

// StaffTask is an active task together with the caller's own submission.
type StaffTask struct {
	Task       models.Task
	Submission *models.Submission
}

// CreateTask validates and stores a task
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	task, err := s.buildTask("", input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, input.DepartmentID); err != nil {
		return nil, err
	}

	if err := s.store.Tasks().Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.audit.Record(ctx, models.EntityTask, EntityID(task.ID), models.AuditActionCreate, input.CreatorID, map[string]any{
		"title":          task.Title,
		"department_id":  task.DepartmentID,
		"default_points": task.DefaultPoints,
		"due_at_utc":     task.DueAt,
	})

	return task, nil
}

// CreateTasksBulk stores up to MaxBulkTasks tasks in one transaction. A
// single audit entry without an entity id covers the whole batch.
func (s *TaskService) CreateTasksBulk(ctx context.Context, actorID uint64, inputs []CreateTaskInput) ([]models.Task, error) {
	if len(inputs) == 0 {
		return nil, invalid("tasks", "at least one task is required")
	}
	if len(inputs) > constants.MaxBulkTasks {
		return nil, invalid("tasks", fmt.Sprintf("at most %d tasks per request", constants.MaxBulkTasks))
	}

	tasks := make([]models.Task, 0, len(inputs))
	departments := make(map[uint64]struct{})
	for i, input := range inputs {
		input.CreatorID = actorID
		task, err := s.buildTask(fmt.Sprintf("tasks[%d].", i), input)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
		departments[input.DepartmentID] = struct{}{}
	}
	for id := range departments {
		if err := s.ensureDepartment(ctx, id); err != nil {
			return nil, err
		}
	}

	if err := s.store.Transaction(ctx, func(tx repository.Store) error {
		return tx.Tasks().CreateBatch(ctx, tasks)
	}); err != nil {
		return nil, fmt.Errorf("failed to create tasks: %w", err)
	}

	ids := make([]uint64, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	s.audit.Record(ctx, models.EntityTask, nil, models.AuditActionCreate, actorID, map[string]any{
		"bulk":     true,
		"count":    len(tasks),
		"task_ids": ids,
	})

	return tasks, nil
}

// ListTasks returns tasks matching the filters with the total count
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	tasks, total, err := s.store.Tasks().List(ctx, repository.TaskFilter{
		DepartmentID: input.DepartmentID,
		Archived:     input.Archived,
		Pagination:   input.Pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// GetTask returns a task and its submissions
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, []models.Submission, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	submissions, err := s.store.Submissions().ListByTask(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	return task, submissions, nil
}

// UpdateTask applies a partial update through the version guard and records
// the before and after state.
func (s *TaskService) UpdateTask(ctx context.Context, input UpdateTaskInput) (*models.Task, error) {
	if input.RowVersion == nil {
		return nil, invalid("row_version", "is required")
	}

	before, err := s.findTask(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	if before.Version != *input.RowVersion {
		return nil, &ConflictError{Entity: "task", Current: before}
	}

	updates := make(map[string]any)
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := checkLength("title", title, constants.MaxTaskTitleLength); err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if err := checkLength("description", description, constants.MaxTaskDescriptionLength); err != nil {
			return nil, err
		}
		updates["description"] = description
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, invalid("type", "must be primary or secondary")
		}
		updates["type"] = *input.Type
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, invalid("priority", "must be low, medium or high")
		}
		updates["priority"] = *input.Priority
	}
	if input.DefaultPoints != nil {
		if *input.DefaultPoints < 1 {
			return nil, invalid("default_points", "must be at least 1")
		}
		updates["default_points"] = *input.DefaultPoints
	}
	if input.DueAt != nil {
		if input.DueAt.IsZero() {
			return nil, invalid("due_at_utc", "is required")
		}
		updates["due_at"] = input.DueAt.UTC()
	}
	if input.DepartmentID != nil {
		if err := s.ensureDepartment(ctx, *input.DepartmentID); err != nil {
			return nil, err
		}
		updates["department_id"] = *input.DepartmentID
	}
	if input.AllowLateSubmission != nil {
		updates["allow_late_submission"] = *input.AllowLateSubmission
	}

	if err := s.store.Tasks().UpdateVersioned(ctx, input.TaskID, *input.RowVersion, updates); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrTaskNotFound
		case errors.Is(err, repository.ErrVersionConflict):
			current, findErr := s.findTask(ctx, input.TaskID)
			if findErr != nil {
				return nil, findErr
			}
			return nil, &ConflictError{Entity: "task", Current: current}
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	after, err := s.findTask(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.EntityTask, EntityID(after.ID), models.AuditActionUpdate, input.ActorID, map[string]any{
		"before": before,
		"after":  after,
	})

	return after, nil
}

// ArchiveTask archives a task by hand
func (s *TaskService) ArchiveTask(ctx context.Context, taskID, actorID uint64) (*models.Task, error) {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Archived {
		return nil, ErrTaskAlreadyArchived
	}

	now := time.Now().UTC()
	archived, err := s.store.Tasks().Archive(ctx, taskID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to archive task: %w", err)
	}
	if !archived {
		return nil, ErrTaskAlreadyArchived
	}

	task, err = s.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.EntityTask, EntityID(task.ID), models.AuditActionManualArchive, actorID, map[string]any{
		"archived_at": now,
		"due_at_utc":  task.DueAt,
	})

	return task, nil
}

// DeleteTaskPermanently removes a task and all of its submissions
func (s *TaskService) DeleteTaskPermanently(ctx context.Context, taskID, actorID uint64) error {
	task, err := s.findTask(ctx, taskID)
	if err != nil {
		return err
	}

	submissions, err := s.store.Submissions().ListByTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to list submissions: %w", err)
	}

	if err := s.store.Tasks().DeletePermanently(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.audit.Record(ctx, models.EntityTask, EntityID(taskID), models.AuditActionDelete, actorID, map[string]any{
		"permanent":           true,
		"title":               task.Title,
		"department_id":       task.DepartmentID,
		"submissions_deleted": len(submissions),
	})

	return nil
}

// ListTasksForStaff returns the active tasks of the user's department, each
// with the user's own submission if there is one.
func (s *TaskService) ListTasksForStaff(ctx context.Context, userID uint64) ([]StaffTask, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	archived := false
	tasks, _, err := s.store.Tasks().List(ctx, repository.TaskFilter{
		DepartmentID: &user.DepartmentID,
		Archived:     &archived,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	submissions, err := s.store.Submissions().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	byTask := make(map[uint64]*models.Submission, len(submissions))
	for i := range submissions {
		byTask[submissions[i].TaskID] = &submissions[i]
	}

	result := make([]StaffTask, len(tasks))
	for i, t := range tasks {
		result[i] = StaffTask{Task: t, Submission: byTask[t.ID]}
	}

	return result, nil
}

func (s *TaskService) findTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.store.Tasks().FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) ensureDepartment(ctx context.Context, departmentID uint64) error {
	if _, err := s.store.Departments().FindByID(ctx, departmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return fmt.Errorf("failed to find department: %w", err)
	}
	return nil
}

// buildTask validates input and returns the task to insert. prefix is
// prepended to field names in validation errors.
func (s *TaskService) buildTask(prefix string, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if err := checkLength(prefix+"title", title, constants.MaxTaskTitleLength); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if err := checkLength(prefix+"description", description, constants.MaxTaskDescriptionLength); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, invalid(prefix+"type", "must be primary or secondary")
	}
	if !input.Priority.IsValid() {
		return nil, invalid(prefix+"priority", "must be low, medium or high")
	}
	if input.DefaultPoints < 1 {
		return nil, invalid(prefix+"default_points", "must be at least 1")
	}
	if input.DueAt.IsZero() {
		return nil, invalid(prefix+"due_at_utc", "is required")
	}
	if input.DepartmentID == 0 {
		return nil, invalid(prefix+"department_id", "is required")
	}

	return &models.Task{
		Title:               title,
		Description:         description,
		Type:                input.Type,
		Priority:            input.Priority,
		DefaultPoints:       input.DefaultPoints,
		DueAt:               input.DueAt.UTC(),
		DepartmentID:        input.DepartmentID,
		AllowLateSubmission: input.AllowLateSubmission,
		CreatorID:           input.CreatorID,
	}, nil
}

func checkLength(field, value string, max int) error {
	if value == "" {
		return invalid(field, "is required")
	}
	if utf8.RuneCountInString(value) > max {
		return invalid(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return nil
}
