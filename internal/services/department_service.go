package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"gorm.io/gorm"
)

// DepartmentService manages hospital departments.
type DepartmentService struct {
	store repository.Store
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(store repository.Store) *DepartmentService {
	return &DepartmentService{store: store}
}

// ListDepartments returns all departments ordered by name
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	departments, err := s.store.Departments().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// CreateDepartment adds a department with a unique name
func (s *DepartmentService) CreateDepartment(ctx context.Context, name string) (*models.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	if len(name) > 255 {
		return nil, invalid("name", "must be at most 255 characters")
	}

	department := &models.Department{Name: name}
	if err := s.store.Departments().Create(ctx, department); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDepartmentExists
		}
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return department, nil
}
