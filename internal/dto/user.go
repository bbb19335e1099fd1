package dto

import (
	"time"

	"github.com/yukikurage/hospital-task-points/internal/models"
)

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// UserSummaryDTO is the short form of a user embedded in other resources
type UserSummaryDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID             uint64         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Role           models.Role    `json:"role"`
	DepartmentID   uint64         `json:"department_id"`
	Department     *DepartmentDTO `json:"department,omitempty"`
	IsActive       bool           `json:"is_active"`
	ReceivedPoints int            `json:"received_points"`
	CreatedAt      time.Time      `json:"created_at"`
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	DepartmentID uint64 `json:"department_id" binding:"required"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is the body of POST /api/ceo/users
type CreateUserRequest struct {
	Name         string      `json:"name" binding:"required"`
	Email        string      `json:"email" binding:"required"`
	Password     string      `json:"password" binding:"required"`
	Role         models.Role `json:"role" binding:"required"`
	DepartmentID uint64      `json:"department_id" binding:"required"`
}

// UpdateUserRequest is the body of PATCH /api/ceo/users/:id. Absent fields
// are left unchanged.
type UpdateUserRequest struct {
	Name         *string      `json:"name"`
	Role         *models.Role `json:"role"`
	DepartmentID *uint64      `json:"department_id"`
	IsActive     *bool        `json:"is_active"`
	Password     *string      `json:"password"`
}

// CreateDepartmentRequest is the body of POST /api/departments
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// ToDepartmentDTO converts a Department model to DepartmentDTO
func ToDepartmentDTO(department models.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:   department.ID,
		Name: department.Name,
	}
}

// ToDepartmentDTOs converts a slice of departments
func ToDepartmentDTOs(departments []models.Department) []DepartmentDTO {
	items := make([]DepartmentDTO, len(departments))
	for i, d := range departments {
		items[i] = ToDepartmentDTO(d)
	}
	return items
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	dto := UserDTO{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		DepartmentID:   user.DepartmentID,
		IsActive:       user.IsActive,
		ReceivedPoints: user.ReceivedPoints,
		CreatedAt:      user.CreatedAt,
	}

	// Include department if preloaded
	if user.Department.ID != 0 {
		department := ToDepartmentDTO(user.Department)
		dto.Department = &department
	}

	return dto
}

// ToUserSummaryDTO converts a User model to UserSummaryDTO
func ToUserSummaryDTO(user models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	items := make([]UserDTO, len(users))
	for i, u := range users {
		items[i] = ToUserDTO(u)
	}
	return items
}
