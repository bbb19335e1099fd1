package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/hospital-task-points/internal/dto"
	apierrors "github.com/yukikurage/hospital-task-points/internal/errors"
	"github.com/yukikurage/hospital-task-points/internal/middleware"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

// OverviewHandler serves points dashboards.
type OverviewHandler struct {
	overviewService *services.OverviewService
}

// NewOverviewHandler creates a new OverviewHandler.
func NewOverviewHandler(overviewService *services.OverviewService) *OverviewHandler {
	return &OverviewHandler{overviewService: overviewService}
}

// GetUserOverview returns a user's points overview. Non-admin callers may
// only read their own.
func (h *OverviewHandler) GetUserOverview(c *gin.Context) {
	callerID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if role, _ := middleware.GetUserRole(c); userID != callerID && !role.IsAdmin() {
		apierrors.Forbidden(c, "")
		return
	}

	overview, err := h.overviewService.ForUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOverviewDTO(*overview))
}

// ListStaff returns the caller's department staff with performance
func (h *OverviewHandler) ListStaff(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var role *models.Role
	if r := c.Query("role"); r != "" {
		filter := models.Role(r)
		if !filter.IsValid() {
			apierrors.BadRequest(c, "Invalid role")
			return
		}
		role = &filter
	}

	staff, err := h.overviewService.StaffList(c.Request.Context(), userID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"staff": dto.ToStaffDTOs(staff)})
}

// ListDepartmentReports returns a report for every department
func (h *OverviewHandler) ListDepartmentReports(c *gin.Context) {
	reports, err := h.overviewService.DepartmentReports(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"departments": dto.ToDepartmentReportDTOs(reports)})
}

// GetDepartmentReport returns the report of one department
func (h *OverviewHandler) GetDepartmentReport(c *gin.Context) {
	departmentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	report, err := h.overviewService.DepartmentReport(c.Request.Context(), departmentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"department": dto.ToDepartmentReportDTO(*report)})
}

// Leaderboard ranks departments by running totals
func (h *OverviewHandler) Leaderboard(c *gin.Context) {
	entries, err := h.overviewService.Leaderboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": dto.ToLeaderboardDTOs(entries)})
}
