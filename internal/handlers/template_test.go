package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hospital-task-points/internal/dto"
	apierrors "github.com/yukikurage/hospital-task-points/internal/errors"
)

type TemplateHandlerTestSuite struct {
	handlerSuite
}

func TestTemplateHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateHandlerTestSuite))
}

func (s *TemplateHandlerTestSuite) templateBody(name string) map[string]any {
	return map[string]any{
		"name":           name,
		"title":          "Check crash cart",
		"description":    "Seals and expiry dates",
		"type":           "primary",
		"priority":       "high",
		"default_points": 12,
	}
}

func (s *TemplateHandlerTestSuite) createTemplate(name string) dto.TemplateDTO {
	w := s.request(http.MethodPost, "/api/admin/templates", s.templateBody(name), s.login(s.admin))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var response struct {
		Template dto.TemplateDTO `json:"template"`
	}
	s.decode(w, &response)
	return response.Template
}

func (s *TemplateHandlerTestSuite) TestCreateAndList() {
	created := s.createTemplate("Weekly cart")
	s.Equal("Weekly cart", created.Name)
	s.Equal(s.admin.ID, created.CreatedBy)

	w := s.request(http.MethodGet, "/api/admin/templates", nil, s.login(s.admin))
	s.Require().Equal(http.StatusOK, w.Code)
	var response struct {
		Templates []dto.TemplateDTO `json:"templates"`
	}
	s.decode(w, &response)
	s.Require().Len(response.Templates, 1)
	s.Equal(created.ID, response.Templates[0].ID)
}

func (s *TemplateHandlerTestSuite) TestCreate_Validation() {
	body := s.templateBody("Cart")
	body["priority"] = "urgent"

	w := s.request(http.MethodPost, "/api/admin/templates", body, s.login(s.admin))
	s.assertError(w, http.StatusBadRequest, apierrors.ErrCodeValidation)

	w = s.request(http.MethodPost, "/api/admin/templates", map[string]any{"name": "Cart"}, s.login(s.admin))
	s.assertError(w, http.StatusBadRequest, apierrors.ErrCodeValidation)
}

func (s *TemplateHandlerTestSuite) TestStaffForbidden() {
	w := s.request(http.MethodGet, "/api/admin/templates", nil, s.login(s.staff))
	s.assertError(w, http.StatusForbidden, apierrors.ErrCodeInsufficientPermissions)
}

func (s *TemplateHandlerTestSuite) TestGetAndDelete() {
	created := s.createTemplate("Cart")
	cookies := s.login(s.admin)
	path := fmt.Sprintf("/api/admin/templates/%d", created.ID)

	w := s.request(http.MethodGet, path, nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.request(http.MethodDelete, path, nil, cookies)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = s.request(http.MethodGet, path, nil, cookies)
	s.assertError(w, http.StatusNotFound, apierrors.ErrCodeTemplateNotFound)
	w = s.request(http.MethodDelete, path, nil, cookies)
	s.assertError(w, http.StatusNotFound, apierrors.ErrCodeTemplateNotFound)
}

func (s *TemplateHandlerTestSuite) TestInstantiate() {
	created := s.createTemplate("Cart")
	due := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)

	w := s.request(http.MethodPost, fmt.Sprintf("/api/admin/templates/%d/tasks", created.ID), map[string]any{
		"due_at_utc":    due,
		"department_id": s.department.ID,
	}, s.login(s.admin))

	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var response struct {
		Task dto.TaskDTO `json:"task"`
	}
	s.decode(w, &response)
	s.Equal("Check crash cart", response.Task.Title)
	s.Equal(12, response.Task.DefaultPoints)
	s.True(due.Equal(response.Task.DueAt))

	w = s.request(http.MethodPost, fmt.Sprintf("/api/admin/templates/%d/tasks", created.ID), map[string]any{
		"due_at_utc":    due,
		"department_id": 9999,
	}, s.login(s.admin))
	s.assertError(w, http.StatusNotFound, apierrors.ErrCodeDepartmentNotFound)
}
