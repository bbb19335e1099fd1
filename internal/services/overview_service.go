package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// departmentFanOut bounds concurrent per-department queries in reports.
const departmentFanOut = 4

// Overview is a user's allocated versus received points.
type Overview struct {
	AllocatedPoints int
	ReceivedPoints  int
	Percent         int
	Thresholds      *models.Thresholds
}

// StaffPerformance is one row of the department staff list.
type StaffPerformance struct {
	User            models.User
	Overview        Overview
	CompletedCount  int
	PartialCount    int
	NotStartedCount int
	TotalCount      int
}

// SubmissionBreakdown counts submissions by status.
type SubmissionBreakdown struct {
	Total      int
	Completed  int
	Partial    int
	NotStarted int
}

// DepartmentReport summarizes one department.
type DepartmentReport struct {
	Department      models.Department
	StaffCount      int
	TotalUsers      int
	ActiveTasks     int
	ArchivedTasks   int
	AllocatedPoints int
	ReceivedPoints  int
	CompletionRate  int
	Submissions     SubmissionBreakdown
}

// LeaderboardEntry ranks a department by its users' running totals.
type LeaderboardEntry struct {
	DepartmentID   uint64
	DepartmentName string
	TotalAllocated int
	TotalReceived  int
	UserCount      int
	CompletionRate int
}

// OverviewService aggregates points into dashboards.
type OverviewService struct {
	store    repository.Store
	settings *SettingsService
}

// NewOverviewService creates a new OverviewService
func NewOverviewService(store repository.Store, settings *SettingsService) *OverviewService {
	return &OverviewService{store: store, settings: settings}
}

// Percent returns received/allocated as a rounded percentage, or 0 when
// nothing is allocated.
func Percent(received, allocated int) int {
	if allocated <= 0 {
		return 0
	}
	return int(math.Round(float64(received) / float64(allocated) * 100))
}

// ForUser computes the overview of userID against the active tasks of the
// user's department, with the configured thresholds.
func (s *OverviewService) ForUser(ctx context.Context, userID uint64) (*Overview, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	overview, err := s.compute(ctx, userID, user.DepartmentID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	thresholds := settings.Thresholds
	overview.Thresholds = &thresholds

	return overview, nil
}

// compute sums allocated points over the department's active tasks and
// received points over all of the user's submissions.
func (s *OverviewService) compute(ctx context.Context, userID, departmentID uint64) (*Overview, error) {
	allocated, err := s.store.Tasks().SumActivePoints(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum allocated points: %w", err)
	}

	received, err := s.store.Submissions().SumPointsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum received points: %w", err)
	}

	return &Overview{
		AllocatedPoints: allocated,
		ReceivedPoints:  received,
		Percent:         Percent(received, allocated),
	}, nil
}

// StaffList returns the active users of the actor's department with their
// performance, optionally restricted to one role.
func (s *OverviewService) StaffList(ctx context.Context, actorID uint64, role *models.Role) ([]StaffPerformance, error) {
	actor, err := s.store.Users().FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	users, err := s.store.Users().ListByDepartment(ctx, actor.DepartmentID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}

	allocated, err := s.store.Tasks().SumActivePoints(ctx, actor.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum allocated points: %w", err)
	}

	userIDs := make([]uint64, len(users))
	for i, u := range users {
		userIDs[i] = u.ID
	}
	submissions, err := s.store.Submissions().ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	byUser := make(map[uint64][]models.Submission, len(users))
	for _, sub := range submissions {
		byUser[sub.UserID] = append(byUser[sub.UserID], sub)
	}

	staff := make([]StaffPerformance, 0, len(users))
	for _, u := range users {
		subs := byUser[u.ID]
		breakdown := breakdownOf(subs)

		received := 0
		for _, sub := range subs {
			received += sub.PointsAwarded
		}

		staff = append(staff, StaffPerformance{
			User: u,
			Overview: Overview{
				AllocatedPoints: allocated,
				ReceivedPoints:  received,
				Percent:         Percent(received, allocated),
			},
			CompletedCount:  breakdown.Completed,
			PartialCount:    breakdown.Partial,
			NotStartedCount: breakdown.NotStarted,
			TotalCount:      breakdown.Total,
		})
	}

	return staff, nil
}

// DepartmentReports builds a report for every department. Departments are
// aggregated concurrently; the result keeps department name order.
func (s *OverviewService) DepartmentReports(ctx context.Context) ([]DepartmentReport, error) {
	departments, err := s.store.Departments().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	reports := make([]DepartmentReport, len(departments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(departmentFanOut)
	for i, dept := range departments {
		g.Go(func() error {
			report, err := s.departmentReport(gctx, dept)
			if err != nil {
				return fmt.Errorf("department %d: %w", dept.ID, err)
			}
			reports[i] = *report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// DepartmentReport builds the report of a single department.
func (s *OverviewService) DepartmentReport(ctx context.Context, departmentID uint64) (*DepartmentReport, error) {
	dept, err := s.store.Departments().FindByID(ctx, departmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}
	return s.departmentReport(ctx, *dept)
}

func (s *OverviewService) departmentReport(ctx context.Context, dept models.Department) (*DepartmentReport, error) {
	users, err := s.store.Users().ListByDepartment(ctx, dept.ID, nil)
	if err != nil {
		return nil, err
	}

	deptID := dept.ID
	tasks, _, err := s.store.Tasks().List(ctx, repository.TaskFilter{DepartmentID: &deptID})
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, len(users))
	report := &DepartmentReport{Department: dept, TotalUsers: len(users)}
	for i, u := range users {
		userIDs[i] = u.ID
		if !u.Role.IsAdmin() {
			report.StaffCount++
		}
	}

	for _, t := range tasks {
		if t.Archived {
			report.ArchivedTasks++
			continue
		}
		report.ActiveTasks++
		report.AllocatedPoints += t.DefaultPoints
	}

	submissions, err := s.store.Submissions().ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	for _, sub := range submissions {
		report.ReceivedPoints += sub.PointsAwarded
	}
	report.Submissions = breakdownOf(submissions)
	report.CompletionRate = Percent(report.ReceivedPoints, report.AllocatedPoints)

	return report, nil
}

// Leaderboard ranks departments by the running totals of their active users,
// highest completion rate first. A department's allocation is its active
// task points times its user count.
func (s *OverviewService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	totals, err := s.store.Users().LeaderboardByDepartment(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate running totals: %w", err)
	}

	entries := make([]LeaderboardEntry, len(totals))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(departmentFanOut)
	for i, row := range totals {
		g.Go(func() error {
			active, err := s.store.Tasks().SumActivePoints(gctx, row.DepartmentID)
			if err != nil {
				return fmt.Errorf("department %d: %w", row.DepartmentID, err)
			}
			allocated := active * row.UserCount
			entries[i] = LeaderboardEntry{
				DepartmentID:   row.DepartmentID,
				DepartmentName: row.DepartmentName,
				TotalAllocated: allocated,
				TotalReceived:  row.TotalReceived,
				UserCount:      row.UserCount,
				CompletionRate: Percent(row.TotalReceived, allocated),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CompletionRate != entries[j].CompletionRate {
			return entries[i].CompletionRate > entries[j].CompletionRate
		}
		return entries[i].DepartmentName < entries[j].DepartmentName
	})

	return entries, nil
}

func breakdownOf(submissions []models.Submission) SubmissionBreakdown {
	b := SubmissionBreakdown{Total: len(submissions)}
	for _, sub := range submissions {
		switch sub.Status {
		case models.SubmissionStatusCompleted:
			b.Completed++
		case models.SubmissionStatusPartial:
			b.Partial++
		case models.SubmissionStatusNotStarted:
			b.NotStarted++
		}
	}
	return b
}
