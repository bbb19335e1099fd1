package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"github.com/yukikurage/hospital-task-points/internal/testutil"
	"gorm.io/gorm"
)

// serviceSuite is embedded by every service test suite. It provides a fresh
// database with one department, an administrator and a staff member.
type serviceSuite struct {
	suite.Suite
	db    *gorm.DB
	store repository.Store
	svc   *Services
	ctx   context.Context

	department *models.Department
	admin      *models.User
	staff      *models.User
}

func (s *serviceSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.store = repository.NewStore(s.db)
	s.svc = New(s.store, 5*time.Second)
	s.ctx = context.Background()

	s.department = testutil.CreateDepartment(s.T(), s.db, "Pharmacy")
	s.admin = testutil.CreateUser(s.T(), s.db, "admin@example.com", models.RoleAdministrator, s.department.ID)
	s.staff = testutil.CreateUser(s.T(), s.db, "staff@example.com", models.RoleStaff, s.department.ID)
}

func (s *serviceSuite) createTask(title string, points int, opts ...testutil.TaskOption) *models.Task {
	return testutil.CreateTask(s.T(), s.db, title, points, s.department.ID, s.admin.ID, opts...)
}

func (s *serviceSuite) receivedPoints(userID uint64) int {
	user, err := s.store.Users().FindByID(s.ctx, userID)
	s.Require().NoError(err)
	return user.ReceivedPoints
}

func (s *serviceSuite) auditEntries(entityType, entityID string) []models.AuditLog {
	entries, _, err := s.store.AuditLogs().List(s.ctx, repository.AuditFilter{EntityType: entityType, EntityID: entityID})
	s.Require().NoError(err)
	return entries
}

// metadataInt reads a number stored in audit metadata, which the JSON
// column hands back as json.Number.
func (s *serviceSuite) metadataInt(v any) int64 {
	num, ok := v.(json.Number)
	s.Require().True(ok, "expected json.Number, got %T", v)
	n, err := num.Int64()
	s.Require().NoError(err)
	return n
}

func strp(v string) *string { return &v }

func intp(v int) *int { return &v }

func int64p(v int64) *int64 { return &v }

func pastDue(t *models.Task) {
	t.DueAt = time.Now().UTC().Add(-time.Hour)
}

func archived(t *models.Task) {
	now := time.Now().UTC()
	t.Archived = true
	t.ArchivedAt = &now
}

func allowLate(t *models.Task) {
	t.AllowLateSubmission = true
}
