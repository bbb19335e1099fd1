package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/utils"
)

// ErrVersionConflict is returned when a versioned update finds the row at a
// different row_version than the caller read.
var ErrVersionConflict = errors.New("repository: row version conflict")

// Store groups the repositories that share one database handle, so a
// service can run several of them inside a single transaction.
type Store interface {
	Tasks() TaskRepository
	TaskTemplates() TaskTemplateRepository
	Submissions() SubmissionRepository
	Settings() SettingsRepository
	Users() UserRepository
	Departments() DepartmentRepository
	AuditLogs() AuditLogRepository

	// Transaction runs fn with a Store bound to one database transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// CreateBatch creates several tasks
	CreateBatch(ctx context.Context, tasks []models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error)

	// UpdateVersioned applies updates if the task is still at expectedVersion
	UpdateVersioned(ctx context.Context, id uint64, expectedVersion int64, updates map[string]any) error

	// Archive flips archived from false to true. It reports false when the
	// task was already archived.
	Archive(ctx context.Context, id uint64, at time.Time) (bool, error)

	// FindOverdue returns unarchived tasks due before now with id > afterID, ordered by id
	FindOverdue(ctx context.Context, now time.Time, afterID uint64, limit int) ([]models.Task, error)

	// SumActivePoints sums default_points of unarchived tasks in a department
	SumActivePoints(ctx context.Context, departmentID uint64) (int, error)

	// DeletePermanently removes a task and its submissions
	DeletePermanently(ctx context.Context, id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	DepartmentID *uint64
	Archived     *bool
	Pagination   utils.PaginationParams
}

// SubmissionRepository defines the interface for submission data access
type SubmissionRepository interface {
	// Create inserts a new submission row
	Create(ctx context.Context, submission *models.Submission) error

	// FindByID finds a submission by ID
	FindByID(ctx context.Context, id uint64) (*models.Submission, error)

	// FindByTaskAndUser finds the live submission of a user for a task
	FindByTaskAndUser(ctx context.Context, taskID, userID uint64) (*models.Submission, error)

	// UpdateVersioned applies updates if the submission is still at expectedVersion
	UpdateVersioned(ctx context.Context, id uint64, expectedVersion int64, updates map[string]any) error

	// ListByTask lists submissions for a task, newest first
	ListByTask(ctx context.Context, taskID uint64) ([]models.Submission, error)

	// ListByUser lists submissions of a user, newest first
	ListByUser(ctx context.Context, userID uint64) ([]models.Submission, error)

	// ListByUsers lists submissions of several users
	ListByUsers(ctx context.Context, userIDs []uint64) ([]models.Submission, error)

	// SumPointsByUser sums points_awarded over all of a user's submissions
	SumPointsByUser(ctx context.Context, userID uint64) (int, error)

	// ListRecent lists the newest submissions across all users with their
	// user, task and task department loaded
	ListRecent(ctx context.Context, limit int) ([]models.Submission, error)
}

// TaskTemplateRepository defines the interface for task template data access
type TaskTemplateRepository interface {
	// Create creates a new template
	Create(ctx context.Context, template *models.TaskTemplate) error

	// FindByID finds a template by ID
	FindByID(ctx context.Context, id uint64) (*models.TaskTemplate, error)

	// List lists every template, newest first
	List(ctx context.Context) ([]models.TaskTemplate, error)

	// Delete removes a template
	Delete(ctx context.Context, id uint64) error
}

// SettingsRepository defines the interface for the settings singleton
type SettingsRepository interface {
	// Get returns the settings row, creating it with defaults if absent
	Get(ctx context.Context) (*models.Settings, error)

	// UpdateVersioned applies updates if settings are still at expectedVersion
	UpdateVersioned(ctx context.Context, expectedVersion int64, updates map[string]any) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ListByDepartment lists active users of a department
	ListByDepartment(ctx context.Context, departmentID uint64, role *models.Role) ([]models.User, error)

	// List lists users matching the filter, newest first
	List(ctx context.Context, filter UserFilter) ([]models.User, error)

	// Update applies updates to a user
	Update(ctx context.Context, id uint64, updates map[string]any) error

	// DeletePermanently removes a user and all of their submissions and
	// reports how many submissions were removed
	DeletePermanently(ctx context.Context, id uint64) (int64, error)

	// AdjustReceivedPoints adds delta to the running total, floored at zero
	AdjustReceivedPoints(ctx context.Context, userID uint64, delta int) error

	// LeaderboardByDepartment aggregates running totals per department
	LeaderboardByDepartment(ctx context.Context) ([]DepartmentTotals, error)
}

// UserFilter holds filtering options for listing users
type UserFilter struct {
	DepartmentID *uint64
	Role         *models.Role
	IsActive     *bool
}

// DepartmentTotals is one row of the running-total leaderboard
type DepartmentTotals struct {
	DepartmentID   uint64
	DepartmentName string
	TotalReceived  int
	UserCount      int
}

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	// Create creates a new department
	Create(ctx context.Context, department *models.Department) error

	// FindByID finds a department by ID
	FindByID(ctx context.Context, id uint64) (*models.Department, error)

	// List lists all departments ordered by name
	List(ctx context.Context) ([]models.Department, error)
}

// AuditLogRepository defines the interface for the append-only audit log
type AuditLogRepository interface {
	// Append inserts a new entry
	Append(ctx context.Context, entry *models.AuditLog) error

	// List queries entries newest first
	List(ctx context.Context, filter AuditFilter) ([]models.AuditLog, int64, error)
}

// AuditFilter holds filtering options for listing audit entries
type AuditFilter struct {
	EntityType string
	EntityID   string
	From       *time.Time
	To         *time.Time
	Pagination utils.PaginationParams
}
