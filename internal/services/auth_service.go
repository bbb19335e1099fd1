package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrFailedToHashPassword = errors.New("failed to hash password")

// AuthService handles authentication related business logic.
type AuthService struct {
	store repository.Store
	audit *AuditService
}

// NewAuthService creates a new AuthService.
func NewAuthService(store repository.Store, audit *AuditService) *AuthService {
	return &AuthService{
		store: store,
		audit: audit,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	DepartmentID uint64
}

// Register creates a staff user in an existing department.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.createAccount(ctx, input, models.RoleStaff, 0)
}

// createAccount validates input and stores a user with role. The audit
// entry is attributed to actorID, or to the new user when actorID is 0.
func (s *AuthService) createAccount(ctx context.Context, input RegisterInput, role models.Role, actorID uint64) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, invalid("email", "must be a valid email address")
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", constants.MinPasswordLength))
	}
	if !role.IsValid() {
		return nil, invalid("role", "is not a known role")
	}
	if _, err := s.store.Departments().FindByID(ctx, input.DepartmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}

	if _, err := s.store.Users().FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		DepartmentID: input.DepartmentID,
		IsActive:     true,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if actorID == 0 {
		actorID = user.ID
	}
	s.audit.Record(ctx, models.EntityUser, EntityID(user.ID), models.AuditActionCreate, actorID, map[string]any{
		"email":         user.Email,
		"role":          user.Role,
		"department_id": user.DepartmentID,
	})

	return s.GetUser(ctx, user.ID)
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.store.Users().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
