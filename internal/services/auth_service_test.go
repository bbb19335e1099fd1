package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hospital-task-points/internal/models"
)

type AuthServiceTestSuite struct {
	serviceSuite
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) register(email string) *models.User {
	user, err := s.svc.Auth.Register(s.ctx, RegisterInput{
		Name:         "Jordan",
		Email:        email,
		Password:     "password123",
		DepartmentID: s.department.ID,
	})
	s.Require().NoError(err)
	return user
}

func (s *AuthServiceTestSuite) TestRegister() {
	user := s.register("  Jordan@Example.com ")

	s.Equal("jordan@example.com", user.Email)
	s.Equal(models.RoleStaff, user.Role)
	s.True(user.IsActive)
	s.NotEqual("password123", user.PasswordHash)
	s.Equal("Pharmacy", user.Department.Name)

	entries := s.auditEntries(models.EntityUser, *EntityID(user.ID))
	s.Require().Len(entries, 1)
	s.Equal(models.AuditActionCreate, entries[0].Action)
}

func (s *AuthServiceTestSuite) TestRegister_Errors() {
	s.register("jordan@example.com")

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
		field   string
	}{
		{"blank name", RegisterInput{Name: " ", Email: "a@example.com", Password: "password123", DepartmentID: s.department.ID}, nil, "name"},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "password123", DepartmentID: s.department.ID}, nil, "email"},
		{"short password", RegisterInput{Name: "A", Email: "a@example.com", Password: "short", DepartmentID: s.department.ID}, nil, "password"},
		{"unknown department", RegisterInput{Name: "A", Email: "a@example.com", Password: "password123", DepartmentID: 9999}, ErrDepartmentNotFound, ""},
		{"email taken", RegisterInput{Name: "A", Email: "JORDAN@example.com", Password: "password123", DepartmentID: s.department.ID}, ErrEmailTaken, ""},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.svc.Auth.Register(s.ctx, tt.input)

			if tt.wantErr != nil {
				s.ErrorIs(err, tt.wantErr)
				return
			}
			var validationErr *ValidationError
			s.Require().True(errors.As(err, &validationErr), "got %v", err)
			s.Equal(tt.field, validationErr.Field)
		})
	}
}

func (s *AuthServiceTestSuite) TestLogin() {
	registered := s.register("jordan@example.com")

	user, err := s.svc.Auth.Login(s.ctx, LoginInput{Email: "Jordan@example.com", Password: "password123"})
	s.Require().NoError(err)
	s.Equal(registered.ID, user.ID)

	_, err = s.svc.Auth.Login(s.ctx, LoginInput{Email: "jordan@example.com", Password: "wrongpassword"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.svc.Auth.Login(s.ctx, LoginInput{Email: "nobody@example.com", Password: "password123"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestLogin_InactiveUser() {
	user := s.register("jordan@example.com")
	s.Require().NoError(s.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

	_, err := s.svc.Auth.Login(s.ctx, LoginInput{Email: "jordan@example.com", Password: "password123"})
	s.ErrorIs(err, ErrInactiveUser)
}

func (s *AuthServiceTestSuite) TestGetUser() {
	user, err := s.svc.Auth.GetUser(s.ctx, s.staff.ID)
	s.Require().NoError(err)
	s.Equal(s.staff.Email, user.Email)

	_, err = s.svc.Auth.GetUser(s.ctx, 9999)
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *AuthServiceTestSuite) TestDepartments() {
	created, err := s.svc.Department.CreateDepartment(s.ctx, "  Cardiology ")
	s.Require().NoError(err)
	s.Equal("Cardiology", created.Name)

	_, err = s.svc.Department.CreateDepartment(s.ctx, "Cardiology")
	s.ErrorIs(err, ErrDepartmentExists)

	_, err = s.svc.Department.CreateDepartment(s.ctx, " ")
	var validationErr *ValidationError
	s.True(errors.As(err, &validationErr))

	departments, err := s.svc.Department.ListDepartments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(departments, 2)
	s.Equal("Cardiology", departments[0].Name)
}
