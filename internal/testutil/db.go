// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/hospital-task-points/internal/database"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to t. A single
// connection is used so every goroutine of the test sees the same data.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        database.NowUTC,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	return db
}

// CreateDepartment inserts a department.
func CreateDepartment(t *testing.T, db *gorm.DB, name string) *models.Department {
	t.Helper()

	department := &models.Department{Name: name}
	require.NoError(t, db.Create(department).Error)
	return department
}

// CreateUser inserts an active user with the given role.
func CreateUser(t *testing.T, db *gorm.DB, email string, role models.Role, departmentID uint64) *models.User {
	t.Helper()

	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		DepartmentID: departmentID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// TaskOption customizes a task created by CreateTask.
type TaskOption func(*models.Task)

// CreateTask inserts a primary, medium-priority task due tomorrow.
func CreateTask(t *testing.T, db *gorm.DB, title string, defaultPoints int, departmentID, creatorID uint64, opts ...TaskOption) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:         title,
		Description:   "Test Description",
		Type:          models.TaskTypePrimary,
		Priority:      models.TaskPriorityMedium,
		DefaultPoints: defaultPoints,
		DueAt:         time.Now().UTC().Add(24 * time.Hour),
		DepartmentID:  departmentID,
		CreatorID:     creatorID,
	}
	for _, opt := range opts {
		opt(task)
	}
	require.NoError(t, db.Create(task).Error)
	return task
}
