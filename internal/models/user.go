package models

import (
	"time"
)

type Role string

const (
	RoleReception     Role = "reception"
	RoleStaff         Role = "staff"
	RoleAdministrator Role = "administrator"
	RoleCEO           Role = "ceo"
	RoleManager       Role = "manager"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleReception, RoleStaff, RoleAdministrator, RoleCEO, RoleManager:
		return true
	}
	return false
}

// IsAdmin reports whether r may manage tasks and submissions.
func (r Role) IsAdmin() bool {
	return r == RoleAdministrator || r == RoleCEO || r == RoleManager
}

type User struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role           Role      `gorm:"type:varchar(20);not null;default:'reception'" json:"role"`
	DepartmentID   uint64    `gorm:"not null;index:idx_users_department_role" json:"department_id"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	ReceivedPoints int       `gorm:"not null;default:0" json:"received_points"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Department  Department   `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Submissions []Submission `gorm:"foreignKey:UserID" json:"-"`
}
