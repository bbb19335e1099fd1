package database

import (
	"fmt"

	"github.com/yukikurage/hospital-task-points/internal/logger"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every persisted model in migration order.
func Models() []any {
	return []any{
		&models.Department{},
		&models.User{},
		&models.Task{},
		&models.TaskTemplate{},
		&models.Submission{},
		&models.Settings{},
		&models.AuditLog{},
	}
}

// Migrate creates or updates the schema and makes sure the indexes the
// query paths rely on are present.
func Migrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := EnsureIndexes(db); err != nil {
		return err
	}
	logger.Info("Database migrations completed")
	return nil
}

// EnsureIndexes creates any index declared on the models that is missing
// from the database, e.g. on schemas migrated by an older build.
func EnsureIndexes(db *gorm.DB) error {
	indexes := []struct {
		model any
		name  string
	}{
		// Submissions: one live row per (task, user)
		{&models.Submission{}, "idx_submissions_task_user"},

		// Tasks: overdue sweep and department overview
		{&models.Task{}, "idx_tasks_due_department_archived"},
		{&models.Task{}, "idx_tasks_department_archived"},

		// Users: staff list by department
		{&models.User{}, "idx_users_department_role"},

		// Templates: newest first per creator
		{&models.TaskTemplate{}, "idx_task_templates_creator"},

		// Audit log: entity history
		{&models.AuditLog{}, "idx_audit_entity"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		if err := migrator.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		logger.Info("Created index", zap.String("index", idx.name))
	}

	return nil
}
