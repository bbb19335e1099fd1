package dto

import (
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

// OverviewDTO is a user's allocated versus received points
type OverviewDTO struct {
	AllocatedPoints int                `json:"allocated_points"`
	ReceivedPoints  int                `json:"received_points"`
	Percent         int                `json:"percent"`
	Thresholds      *models.Thresholds `json:"thresholds,omitempty"`
}

// PerformanceDTO is the performance block of a staff list row
type PerformanceDTO struct {
	AllocatedPoints  int `json:"allocated_points"`
	ReceivedPoints   int `json:"received_points"`
	Percent          int `json:"percent"`
	CompletedCount   int `json:"completed_count"`
	PartialCount     int `json:"partial_count"`
	NotStartedCount  int `json:"not_started_count"`
	TotalSubmissions int `json:"total_submissions"`
}

// StaffDTO is one row of the staff list
type StaffDTO struct {
	UserDTO
	Performance PerformanceDTO `json:"performance"`
}

// SubmissionBreakdownDTO counts submissions by status
type SubmissionBreakdownDTO struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Partial    int `json:"partial"`
	NotStarted int `json:"not_started"`
}

// DepartmentReportDTO summarizes one department
type DepartmentReportDTO struct {
	ID                   uint64                 `json:"id"`
	Name                 string                 `json:"name"`
	StaffCount           int                    `json:"staff_count"`
	TotalUsers           int                    `json:"total_users"`
	ActiveTasks          int                    `json:"active_tasks"`
	ArchivedTasks        int                    `json:"archived_tasks"`
	TotalTasks           int                    `json:"total_tasks"`
	TotalAllocatedPoints int                    `json:"total_allocated_points"`
	TotalReceivedPoints  int                    `json:"total_received_points"`
	CompletionRate       int                    `json:"completion_rate"`
	Submissions          SubmissionBreakdownDTO `json:"submissions"`
}

// LeaderboardEntryDTO is one department on the leaderboard
type LeaderboardEntryDTO struct {
	DepartmentID   uint64 `json:"department_id"`
	DepartmentName string `json:"department_name"`
	TotalAllocated int    `json:"total_allocated"`
	TotalReceived  int    `json:"total_received"`
	UserCount      int    `json:"user_count"`
	CompletionRate int    `json:"completion_rate"`
}

// ToOverviewDTO converts an overview
func ToOverviewDTO(o services.Overview) OverviewDTO {
	return OverviewDTO{
		AllocatedPoints: o.AllocatedPoints,
		ReceivedPoints:  o.ReceivedPoints,
		Percent:         o.Percent,
		Thresholds:      o.Thresholds,
	}
}

// ToStaffDTOs converts the staff list
func ToStaffDTOs(staff []services.StaffPerformance) []StaffDTO {
	items := make([]StaffDTO, len(staff))
	for i, s := range staff {
		items[i] = StaffDTO{
			UserDTO: ToUserDTO(s.User),
			Performance: PerformanceDTO{
				AllocatedPoints:  s.Overview.AllocatedPoints,
				ReceivedPoints:   s.Overview.ReceivedPoints,
				Percent:          s.Overview.Percent,
				CompletedCount:   s.CompletedCount,
				PartialCount:     s.PartialCount,
				NotStartedCount:  s.NotStartedCount,
				TotalSubmissions: s.TotalCount,
			},
		}
	}
	return items
}

// ToDepartmentReportDTO converts a department report
func ToDepartmentReportDTO(r services.DepartmentReport) DepartmentReportDTO {
	return DepartmentReportDTO{
		ID:                   r.Department.ID,
		Name:                 r.Department.Name,
		StaffCount:           r.StaffCount,
		TotalUsers:           r.TotalUsers,
		ActiveTasks:          r.ActiveTasks,
		ArchivedTasks:        r.ArchivedTasks,
		TotalTasks:           r.ActiveTasks + r.ArchivedTasks,
		TotalAllocatedPoints: r.AllocatedPoints,
		TotalReceivedPoints:  r.ReceivedPoints,
		CompletionRate:       r.CompletionRate,
		Submissions: SubmissionBreakdownDTO{
			Total:      r.Submissions.Total,
			Completed:  r.Submissions.Completed,
			Partial:    r.Submissions.Partial,
			NotStarted: r.Submissions.NotStarted,
		},
	}
}

// ToDepartmentReportDTOs converts a slice of department reports
func ToDepartmentReportDTOs(reports []services.DepartmentReport) []DepartmentReportDTO {
	items := make([]DepartmentReportDTO, len(reports))
	for i, r := range reports {
		items[i] = ToDepartmentReportDTO(r)
	}
	return items
}

// ToLeaderboardDTOs converts the leaderboard
func ToLeaderboardDTOs(entries []services.LeaderboardEntry) []LeaderboardEntryDTO {
	items := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		items[i] = LeaderboardEntryDTO{
			DepartmentID:   e.DepartmentID,
			DepartmentName: e.DepartmentName,
			TotalAllocated: e.TotalAllocated,
			TotalReceived:  e.TotalReceived,
			UserCount:      e.UserCount,
			CompletionRate: e.CompletionRate,
		}
	}
	return items
}
