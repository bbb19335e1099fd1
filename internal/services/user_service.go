package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService lets the CEO manage accounts of every department
type UserService struct {
	store repository.Store
	audit *AuditService
	auth  *AuthService
}

// NewUserService creates a new UserService
func NewUserService(store repository.Store, audit *AuditService, auth *AuthService) *UserService {
	return &UserService{
		store: store,
		audit: audit,
		auth:  auth,
	}
}

// CreateUserInput represents an account created on someone's behalf
type CreateUserInput struct {
	Name         string
	Email        string
	Password     string
	Role         models.Role
	DepartmentID uint64
	ActorID      uint64
}

// UpdateUserInput represents a partial account update
type UpdateUserInput struct {
	UserID       uint64
	ActorID      uint64
	Name         *string
	Role         *models.Role
	DepartmentID *uint64
	IsActive     *bool
	Password     *string
}

// ListUsersInput represents filters for listing users
type ListUsersInput struct {
	DepartmentID *uint64
	Role         *models.Role
	IsActive     *bool
}

// ListUsers returns every user matching the filters, newest first
func (s *UserService) ListUsers(ctx context.Context, input ListUsersInput) ([]models.User, error) {
	if input.Role != nil && !input.Role.IsValid() {
		return nil, invalid("role", "is not a known role")
	}
	users, err := s.store.Users().List(ctx, repository.UserFilter{
		DepartmentID: input.DepartmentID,
		Role:         input.Role,
		IsActive:     input.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	return s.auth.GetUser(ctx, id)
}

// CreateUser creates an account with any role
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if input.Role == "" {
		return nil, invalid("role", "is required")
	}
	return s.auth.createAccount(ctx, RegisterInput{
		Name:         input.Name,
		Email:        input.Email,
		Password:     input.Password,
		DepartmentID: input.DepartmentID,
	}, input.Role, input.ActorID)
}

// UpdateUser applies a partial update and records the before and after
// state. Callers cannot change their own role or deactivate themselves.
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*models.User, error) {
	before, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, invalid("name", "is required")
		}
		updates["name"] = name
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, invalid("role", "is not a known role")
		}
		if input.UserID == input.ActorID && *input.Role != before.Role {
			return nil, ErrSelfAction
		}
		updates["role"] = *input.Role
	}
	if input.DepartmentID != nil {
		if _, err := s.store.Departments().FindByID(ctx, *input.DepartmentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDepartmentNotFound
			}
			return nil, fmt.Errorf("failed to find department: %w", err)
		}
		updates["department_id"] = *input.DepartmentID
	}
	if input.IsActive != nil {
		if input.UserID == input.ActorID && !*input.IsActive {
			return nil, ErrSelfAction
		}
		updates["is_active"] = *input.IsActive
	}
	if input.Password != nil {
		if len(*input.Password) < constants.MinPasswordLength {
			return nil, invalid("password", fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength))
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, ErrFailedToHashPassword
		}
		updates["password_hash"] = string(hashed)
	}

	if err := s.store.Users().Update(ctx, input.UserID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	after, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"before": userSnapshot(before),
		"after":  userSnapshot(after),
	}
	if input.Password != nil {
		metadata["password_changed"] = true
	}
	s.audit.Record(ctx, models.EntityUser, EntityID(after.ID), models.AuditActionUpdate, input.ActorID, metadata)

	return after, nil
}

// DeactivateUser marks a user inactive. Their submissions and points stay.
func (s *UserService) DeactivateUser(ctx context.Context, id, actorID uint64) (*models.User, error) {
	if id == actorID {
		return nil, ErrSelfAction
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.store.Users().Update(ctx, id, map[string]any{"is_active": false}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}
	user.IsActive = false

	s.audit.Record(ctx, models.EntityUser, EntityID(id), models.AuditActionDeactivate, actorID, map[string]any{
		"user": userSnapshot(user),
	})

	return user, nil
}

// DeleteUserPermanently removes a user together with all of their
// submissions in one transaction.
func (s *UserService) DeleteUserPermanently(ctx context.Context, id, actorID uint64) error {
	if id == actorID {
		return ErrSelfAction
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	removed, err := s.store.Users().DeletePermanently(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.audit.Record(ctx, models.EntityUser, EntityID(id), models.AuditActionDelete, actorID, map[string]any{
		"permanent":           true,
		"user":                userSnapshot(user),
		"submissions_deleted": removed,
	})

	return nil
}

func userSnapshot(user *models.User) map[string]any {
	return map[string]any{
		"name":            user.Name,
		"email":           user.Email,
		"role":            user.Role,
		"department_id":   user.DepartmentID,
		"is_active":       user.IsActive,
		"received_points": user.ReceivedPoints,
	}
}
