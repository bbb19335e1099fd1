package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hospital-task-points/internal/models"
)

type TemplateServiceTestSuite struct {
	serviceSuite
}

func TestTemplateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateServiceTestSuite))
}

func (s *TemplateServiceTestSuite) validInput(name string) CreateTemplateInput {
	return CreateTemplateInput{
		Name:          name,
		Title:         "Check crash cart",
		Description:   "Verify seals and expiry dates",
		Type:          models.TaskTypePrimary,
		Priority:      models.TaskPriorityHigh,
		DefaultPoints: 15,
		CreatorID:     s.admin.ID,
	}
}

func (s *TemplateServiceTestSuite) TestCreateTemplate() {
	template, err := s.svc.Template.CreateTemplate(s.ctx, s.validInput("  Weekly cart check  "))
	s.Require().NoError(err)

	s.NotZero(template.ID)
	s.Equal("Weekly cart check", template.Name)
	s.Equal(15, template.DefaultPoints)
	s.Equal(s.admin.ID, template.CreatorID)

	entries := s.auditEntries(models.EntityTaskTemplate, *EntityID(template.ID))
	s.Require().Len(entries, 1)
	s.Equal(models.AuditActionCreate, entries[0].Action)
	s.Equal("Weekly cart check", entries[0].Metadata["name"])
}

func (s *TemplateServiceTestSuite) TestCreateTemplate_Validation() {
	tests := []struct {
		name   string
		modify func(*CreateTemplateInput)
		field  string
	}{
		{"missing name", func(in *CreateTemplateInput) { in.Name = " " }, "name"},
		{"long name", func(in *CreateTemplateInput) { in.Name = strings.Repeat("n", 101) }, "name"},
		{"missing title", func(in *CreateTemplateInput) { in.Title = "" }, "title"},
		{"missing description", func(in *CreateTemplateInput) { in.Description = "" }, "description"},
		{"bad type", func(in *CreateTemplateInput) { in.Type = "tertiary" }, "type"},
		{"bad priority", func(in *CreateTemplateInput) { in.Priority = "urgent" }, "priority"},
		{"zero points", func(in *CreateTemplateInput) { in.DefaultPoints = 0 }, "default_points"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			input := s.validInput("Template")
			tt.modify(&input)

			_, err := s.svc.Template.CreateTemplate(s.ctx, input)

			var validationErr *ValidationError
			s.Require().ErrorAs(err, &validationErr)
			s.Equal(tt.field, validationErr.Field)
		})
	}
}

func (s *TemplateServiceTestSuite) TestListTemplates_NewestFirst() {
	first, err := s.svc.Template.CreateTemplate(s.ctx, s.validInput("First"))
	s.Require().NoError(err)
	second, err := s.svc.Template.CreateTemplate(s.ctx, s.validInput("Second"))
	s.Require().NoError(err)

	templates, err := s.svc.Template.ListTemplates(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(templates, 2)
	s.Equal(second.ID, templates[0].ID)
	s.Equal(first.ID, templates[1].ID)
}

func (s *TemplateServiceTestSuite) TestGetTemplate_NotFound() {
	_, err := s.svc.Template.GetTemplate(s.ctx, 9999)
	s.ErrorIs(err, ErrTemplateNotFound)
}

func (s *TemplateServiceTestSuite) TestDeleteTemplate_KeepsCreatedTasks() {
	template, err := s.svc.Template.CreateTemplate(s.ctx, s.validInput("Cart"))
	s.Require().NoError(err)
	task, err := s.svc.Template.Instantiate(s.ctx, InstantiateTemplateInput{
		TemplateID:   template.ID,
		ActorID:      s.admin.ID,
		DueAt:        time.Now().Add(48 * time.Hour),
		DepartmentID: s.department.ID,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Template.DeleteTemplate(s.ctx, template.ID, s.admin.ID))

	_, err = s.svc.Template.GetTemplate(s.ctx, template.ID)
	s.ErrorIs(err, ErrTemplateNotFound)
	_, _, err = s.svc.Task.GetTask(s.ctx, task.ID)
	s.NoError(err)

	entries := s.auditEntries(models.EntityTaskTemplate, *EntityID(template.ID))
	s.Require().Len(entries, 2)
	s.Equal(models.AuditActionDelete, entries[0].Action)

	s.ErrorIs(s.svc.Template.DeleteTemplate(s.ctx, template.ID, s.admin.ID), ErrTemplateNotFound)
}

func (s *TemplateServiceTestSuite) TestInstantiate_CopiesTemplateFields() {
	input := s.validInput("Cart")
	input.AllowLateSubmission = true
	template, err := s.svc.Template.CreateTemplate(s.ctx, input)
	s.Require().NoError(err)
	due := time.Now().Add(72 * time.Hour)

	task, err := s.svc.Template.Instantiate(s.ctx, InstantiateTemplateInput{
		TemplateID:   template.ID,
		ActorID:      s.staff.ID,
		DueAt:        due,
		DepartmentID: s.department.ID,
	})
	s.Require().NoError(err)

	s.Equal(template.Title, task.Title)
	s.Equal(template.Description, task.Description)
	s.Equal(models.TaskPriorityHigh, task.Priority)
	s.Equal(15, task.DefaultPoints)
	s.True(task.AllowLateSubmission)
	s.Equal(s.department.ID, task.DepartmentID)
	s.Equal(s.staff.ID, task.CreatorID)
	s.WithinDuration(due, task.DueAt, time.Second)
}

func (s *TemplateServiceTestSuite) TestInstantiate_Errors() {
	template, err := s.svc.Template.CreateTemplate(s.ctx, s.validInput("Cart"))
	s.Require().NoError(err)

	_, err = s.svc.Template.Instantiate(s.ctx, InstantiateTemplateInput{TemplateID: 9999, DueAt: time.Now(), DepartmentID: s.department.ID})
	s.ErrorIs(err, ErrTemplateNotFound)

	_, err = s.svc.Template.Instantiate(s.ctx, InstantiateTemplateInput{TemplateID: template.ID, DueAt: time.Now(), DepartmentID: 9999})
	s.ErrorIs(err, ErrDepartmentNotFound)

	_, err = s.svc.Template.Instantiate(s.ctx, InstantiateTemplateInput{TemplateID: template.ID, DepartmentID: s.department.ID})
	var validationErr *ValidationError
	s.Require().ErrorAs(err, &validationErr)
	s.Equal("due_at_utc", validationErr.Field)
}
