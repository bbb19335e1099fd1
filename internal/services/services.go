package services

import (
	"time"

	"github.com/yukikurage/hospital-task-points/internal/repository"
)

// Services bundles every service built on one Store.
type Services struct {
	Audit      *AuditService
	Auth       *AuthService
	Department *DepartmentService
	Settings   *SettingsService
	Overview   *OverviewService
	Task       *TaskService
	Template   *TemplateService
	Submission *SubmissionService
	User       *UserService
}

// New wires all services on top of store.
func New(store repository.Store, txTimeout time.Duration) *Services {
	audit := NewAuditService(store)
	settings := NewSettingsService(store, audit)
	overview := NewOverviewService(store, settings)
	auth := NewAuthService(store, audit)
	tasks := NewTaskService(store, audit)

	return &Services{
		Audit:      audit,
		Auth:       auth,
		Department: NewDepartmentService(store),
		Settings:   settings,
		Overview:   overview,
		Task:       tasks,
		Template:   NewTemplateService(store, audit, tasks),
		Submission: NewSubmissionService(store, audit, overview, txTimeout),
		User:       NewUserService(store, audit, auth),
	}
}
