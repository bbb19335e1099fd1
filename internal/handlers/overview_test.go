package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hospital-task-points/internal/dto"
	apierrors "github.com/yukikurage/hospital-task-points/internal/errors"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

type OverviewHandlerTestSuite struct {
	handlerSuite
}

func TestOverviewHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(OverviewHandlerTestSuite))
}

func (s *OverviewHandlerTestSuite) SetupTest() {
	s.handlerSuite.SetupTest()

	task := s.createTask("Register check", 10)
	_, err := s.svc.Submission.Submit(s.ctx, services.SubmitInput{
		TaskID: task.ID,
		UserID: s.staff.ID,
		Status: models.SubmissionStatusCompleted,
	})
	s.Require().NoError(err)
}

func (s *OverviewHandlerTestSuite) TestUserOverview_Self() {
	w := s.request(http.MethodGet, fmt.Sprintf("/api/users/%d/overview", s.staff.ID), nil, s.login(s.staff))

	s.Require().Equal(http.StatusOK, w.Code)
	var response dto.OverviewDTO
	s.decode(w, &response)
	s.Equal(10, response.AllocatedPoints)
	s.Equal(10, response.ReceivedPoints)
	s.Equal(100, response.Percent)
	s.Require().NotNil(response.Thresholds)
}

func (s *OverviewHandlerTestSuite) TestUserOverview_OtherUser() {
	w := s.request(http.MethodGet, fmt.Sprintf("/api/users/%d/overview", s.admin.ID), nil, s.login(s.staff))
	s.assertError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)

	w = s.request(http.MethodGet, fmt.Sprintf("/api/users/%d/overview", s.staff.ID), nil, s.login(s.admin))
	s.Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodGet, "/api/users/9999/overview", nil, s.login(s.admin))
	s.assertError(w, http.StatusNotFound, apierrors.ErrCodeUserNotFound)
}

func (s *OverviewHandlerTestSuite) TestListStaff() {
	cookies := s.login(s.admin)

	w := s.request(http.MethodGet, "/api/admin/staff?role=staff", nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var response struct {
		Staff []dto.StaffDTO `json:"staff"`
	}
	s.decode(w, &response)
	s.Require().Len(response.Staff, 1)
	s.Equal(s.staff.ID, response.Staff[0].ID)
	s.Equal(100, response.Staff[0].Performance.Percent)

	w = s.request(http.MethodGet, "/api/admin/staff?role=janitor", nil, cookies)
	s.assertError(w, http.StatusBadRequest, apierrors.ErrCodeValidation)
}

func (s *OverviewHandlerTestSuite) TestDepartmentReports() {
	cookies := s.login(s.admin)

	w := s.request(http.MethodGet, "/api/admin/reports/departments", nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)
	var list struct {
		Departments []dto.DepartmentReportDTO `json:"departments"`
	}
	s.decode(w, &list)
	s.Require().Len(list.Departments, 1)
	s.Equal(100, list.Departments[0].CompletionRate)

	w = s.request(http.MethodGet, fmt.Sprintf("/api/admin/reports/departments/%d", s.department.ID), nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodGet, "/api/admin/reports/departments/9999", nil, cookies)
	s.assertError(w, http.StatusNotFound, apierrors.ErrCodeDepartmentNotFound)
}

func (s *OverviewHandlerTestSuite) TestLeaderboard() {
	w := s.request(http.MethodGet, "/api/leaderboard/departments", nil, s.login(s.staff))

	s.Require().Equal(http.StatusOK, w.Code)
	var response struct {
		Leaderboard []dto.LeaderboardEntryDTO `json:"leaderboard"`
	}
	s.decode(w, &response)
	s.Require().Len(response.Leaderboard, 1)
	s.Equal("Pharmacy", response.Leaderboard[0].DepartmentName)
	s.Equal(2, response.Leaderboard[0].UserCount)
	s.Equal(50, response.Leaderboard[0].CompletionRate)
}

func (s *OverviewHandlerTestSuite) TestAuditLog() {
	cookies := s.login(s.admin)

	w := s.request(http.MethodGet, "/api/admin/audit?entity_type=submission", nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var response dto.AuditListResponse
	s.decode(w, &response)
	s.Require().Len(response.Logs, 1)
	s.Equal(models.AuditActionSubmit, response.Logs[0].Action)
	s.Equal(int64(1), response.TotalCount)

	from := time.Now().UTC().Format(time.RFC3339)
	to := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	w = s.request(http.MethodGet, "/api/admin/audit?from="+from+"&to="+to, nil, cookies)
	s.assertError(w, http.StatusBadRequest, apierrors.ErrCodeValidation)

	w = s.request(http.MethodGet, "/api/admin/audit", nil, s.login(s.staff))
	s.assertError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)
}
