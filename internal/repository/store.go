package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore is a GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a new Store on top of db
func NewStore(db *gorm.DB) Store {
	return &GormStore{db: db}
}

func (s *GormStore) Tasks() TaskRepository {
	return NewTaskRepository(s.db)
}

func (s *GormStore) TaskTemplates() TaskTemplateRepository {
	return NewTaskTemplateRepository(s.db)
}

func (s *GormStore) Submissions() SubmissionRepository {
	return NewSubmissionRepository(s.db)
}

func (s *GormStore) Settings() SettingsRepository {
	return NewSettingsRepository(s.db)
}

func (s *GormStore) Users() UserRepository {
	return NewUserRepository(s.db)
}

func (s *GormStore) Departments() DepartmentRepository {
	return NewDepartmentRepository(s.db)
}

func (s *GormStore) AuditLogs() AuditLogRepository {
	return NewAuditLogRepository(s.db)
}

// Transaction runs fn inside a database transaction
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
