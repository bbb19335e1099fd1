package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
)

type SettingsServiceTestSuite struct {
	serviceSuite
}

func TestSettingsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsServiceTestSuite))
}

func (s *SettingsServiceTestSuite) TestGet_ReturnsDefaults() {
	settings, err := s.svc.Settings.Get(s.ctx)
	s.Require().NoError(err)

	s.Equal(models.RoundingMethodHalfUp, settings.RoundingPolicy.Method)
	s.Equal(0.5, settings.RoundingPolicy.PartialRatio)
	s.Equal(models.Thresholds{Red: 33, Orange: 66, Green: 100}, settings.Thresholds)
	s.Equal(models.ScoringModeAbsolute, settings.ScoringMode)
	s.Equal(int64(0), settings.Version)
}

func (s *SettingsServiceTestSuite) TestUpdate_AppliesPartialChange() {
	mode := models.ScoringModePercentage

	updated, err := s.svc.Settings.Update(s.ctx, UpdateSettingsInput{
		PartialRatio: floatp(0.25),
		Orange:       intp(70),
		ScoringMode:  &mode,
		RowVersion:   int64p(0),
		ActorID:      s.admin.ID,
	})
	s.Require().NoError(err)

	s.Equal(0.25, updated.RoundingPolicy.PartialRatio)
	s.Equal(models.RoundingMethodHalfUp, updated.RoundingPolicy.Method)
	s.Equal(models.Thresholds{Red: 33, Orange: 70, Green: 100}, updated.Thresholds)
	s.Equal(models.ScoringModePercentage, updated.ScoringMode)
	s.Equal(int64(1), updated.Version)

	entries := s.auditEntries(models.EntitySetting, constants.SettingsKey)
	s.Require().Len(entries, 1)
	s.Equal(models.AuditActionUpdate, entries[0].Action)
	s.Equal(s.admin.ID, entries[0].PerformedBy)
	s.Contains(entries[0].Metadata, "before")
	s.Contains(entries[0].Metadata, "after")
}

func (s *SettingsServiceTestSuite) TestUpdate_StaleVersionReturnsCurrent() {
	_, err := s.svc.Settings.Update(s.ctx, UpdateSettingsInput{PartialRatio: floatp(0.4), RowVersion: int64p(0), ActorID: s.admin.ID})
	s.Require().NoError(err)

	_, err = s.svc.Settings.Update(s.ctx, UpdateSettingsInput{PartialRatio: floatp(0.9), RowVersion: int64p(0), ActorID: s.admin.ID})

	s.ErrorIs(err, repository.ErrVersionConflict)
	var conflictErr *ConflictError
	s.Require().True(errors.As(err, &conflictErr))
	current := conflictErr.Current.(*models.Settings)
	s.Equal(int64(1), current.Version)
	s.Equal(0.4, current.RoundingPolicy.PartialRatio)
}

func (s *SettingsServiceTestSuite) TestUpdate_ValidationErrors() {
	unknownMode := models.ScoringMode("relative")

	tests := []struct {
		name  string
		input UpdateSettingsInput
		field string
	}{
		{"missing row version", UpdateSettingsInput{PartialRatio: floatp(0.5)}, "row_version"},
		{"unsupported rounding method", UpdateSettingsInput{RoundingMethod: strp("floor"), RowVersion: int64p(0)}, "rounding_policy.method"},
		{"ratio above one", UpdateSettingsInput{PartialRatio: floatp(1.5), RowVersion: int64p(0)}, "rounding_policy.partial_ratio"},
		{"negative ratio", UpdateSettingsInput{PartialRatio: floatp(-0.1), RowVersion: int64p(0)}, "rounding_policy.partial_ratio"},
		{"threshold out of range", UpdateSettingsInput{Green: intp(120), RowVersion: int64p(0)}, "thresholds.green"},
		{"thresholds out of order", UpdateSettingsInput{Red: intp(70), RowVersion: int64p(0)}, "thresholds"},
		{"equal thresholds", UpdateSettingsInput{Orange: intp(100), RowVersion: int64p(0)}, "thresholds"},
		{"unknown scoring mode", UpdateSettingsInput{ScoringMode: &unknownMode, RowVersion: int64p(0)}, "scoring_mode"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.input.ActorID = s.admin.ID

			_, err := s.svc.Settings.Update(s.ctx, tt.input)

			var validationErr *ValidationError
			s.Require().True(errors.As(err, &validationErr), "got %v", err)
			s.Equal(tt.field, validationErr.Field)
		})
	}

	settings, err := s.svc.Settings.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), settings.Version)
	s.Empty(s.auditEntries(models.EntitySetting, constants.SettingsKey))
}
