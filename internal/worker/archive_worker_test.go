package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"github.com/yukikurage/hospital-task-points/internal/services"
	"github.com/yukikurage/hospital-task-points/internal/testutil"
	"gorm.io/gorm"
)

type ArchiveWorkerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	store  repository.Store
	worker *ArchiveWorker
	ctx    context.Context

	department *models.Department
	admin      *models.User
}

func TestArchiveWorkerTestSuite(t *testing.T) {
	suite.Run(t, new(ArchiveWorkerTestSuite))
}

func (s *ArchiveWorkerTestSuite) SetupTest() {
	s.db = testutil.NewDB(s.T())
	s.store = repository.NewStore(s.db)
	s.worker = NewArchiveWorker(s.store, services.NewAuditService(s.store), time.Minute, 10)
	s.ctx = context.Background()

	s.department = testutil.CreateDepartment(s.T(), s.db, "Pharmacy")
	s.admin = testutil.CreateUser(s.T(), s.db, "admin@example.com", models.RoleAdministrator, s.department.ID)
}

func (s *ArchiveWorkerTestSuite) createTask(title string, due time.Time) *models.Task {
	return testutil.CreateTask(s.T(), s.db, title, 10, s.department.ID, s.admin.ID, func(t *models.Task) {
		t.DueAt = due
	})
}

func (s *ArchiveWorkerTestSuite) autoArchiveEntries() []models.AuditLog {
	entries, _, err := s.store.AuditLogs().List(s.ctx, repository.AuditFilter{EntityType: models.EntityTask})
	s.Require().NoError(err)
	var result []models.AuditLog
	for _, e := range entries {
		if e.Action == models.AuditActionAutoArchive {
			result = append(result, e)
		}
	}
	return result
}

func (s *ArchiveWorkerTestSuite) TestSweep_ArchivesOverdueTasks() {
	now := time.Now().UTC()
	overdue := s.createTask("Overdue", now.Add(-time.Hour))
	upcoming := s.createTask("Upcoming", now.Add(time.Hour))

	archived, err := s.worker.Sweep(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(1, archived)

	task, err := s.store.Tasks().FindByID(s.ctx, overdue.ID)
	s.Require().NoError(err)
	s.True(task.Archived)
	s.Require().NotNil(task.ArchivedAt)

	task, err = s.store.Tasks().FindByID(s.ctx, upcoming.ID)
	s.Require().NoError(err)
	s.False(task.Archived)

	entries := s.autoArchiveEntries()
	s.Require().Len(entries, 1)
	s.Equal(s.admin.ID, entries[0].PerformedBy)
	s.Require().NotNil(entries[0].EntityID)
	s.Equal(*services.EntityID(overdue.ID), *entries[0].EntityID)
}

func (s *ArchiveWorkerTestSuite) TestSweep_IsIdempotent() {
	now := time.Now().UTC()
	s.createTask("Overdue", now.Add(-time.Hour))

	first, err := s.worker.Sweep(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(1, first)

	second, err := s.worker.Sweep(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(0, second)

	s.Len(s.autoArchiveEntries(), 1)
}

func (s *ArchiveWorkerTestSuite) TestSweep_SkipsManuallyArchivedTasks() {
	now := time.Now().UTC()
	s.createTask("Overdue", now.Add(-time.Hour))
	manual := s.createTask("Manual", now.Add(-2*time.Hour))
	ok, err := s.store.Tasks().Archive(s.ctx, manual.ID, now.Add(-time.Minute))
	s.Require().NoError(err)
	s.Require().True(ok)

	archived, err := s.worker.Sweep(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(1, archived)
	s.Len(s.autoArchiveEntries(), 1)
}

func (s *ArchiveWorkerTestSuite) TestSweep_DrainsEveryBatch() {
	now := time.Now().UTC()
	for i := 0; i < 11; i++ {
		s.createTask("Overdue", now.Add(-time.Duration(i+1)*time.Hour))
	}

	archived, err := s.worker.Sweep(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(11, archived)

	remaining, err := s.store.Tasks().FindOverdue(s.ctx, now, 0, 0)
	s.Require().NoError(err)
	s.Empty(remaining)
	s.Len(s.autoArchiveEntries(), 11)
}

func (s *ArchiveWorkerTestSuite) TestSweep_FailedTaskDoesNotBlockOthers() {
	now := time.Now().UTC()
	var tasks []*models.Task
	for i := 0; i < 12; i++ {
		tasks = append(tasks, s.createTask("Overdue", now.Add(-time.Hour)))
	}
	broken := tasks[3]

	store := &failingArchiveStore{Store: s.store, failID: broken.ID}
	w := NewArchiveWorker(store, services.NewAuditService(s.store), time.Minute, 10)

	archived, err := w.Sweep(s.ctx, now)
	s.Require().NoError(err)
	s.Equal(11, archived)

	remaining, err := s.store.Tasks().FindOverdue(s.ctx, now, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(remaining, 1)
	s.Equal(broken.ID, remaining[0].ID)
}

func (s *ArchiveWorkerTestSuite) TestStart_StopsOnCancel() {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.worker.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		s.Fail("worker did not stop after cancel")
	}
}

// failingArchiveStore fails Archive for one task id.
type failingArchiveStore struct {
	repository.Store
	failID uint64
}

func (f *failingArchiveStore) Tasks() repository.TaskRepository {
	return &failingArchiveTasks{TaskRepository: f.Store.Tasks(), failID: f.failID}
}

type failingArchiveTasks struct {
	repository.TaskRepository
	failID uint64
}

func (f *failingArchiveTasks) Archive(ctx context.Context, id uint64, at time.Time) (bool, error) {
	if id == f.failID {
		return false, errors.New("disk I/O error")
	}
	return f.TaskRepository.Archive(ctx, id, at)
}
