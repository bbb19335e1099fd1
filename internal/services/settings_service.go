package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/hospital-task-points/internal/constants"
	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/repository"
	"gorm.io/gorm"
)

// SettingsService reads and updates the site settings singleton.
type SettingsService struct {
	store repository.Store
	audit *AuditService
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(store repository.Store, audit *AuditService) *SettingsService {
	return &SettingsService{store: store, audit: audit}
}

// UpdateSettingsInput holds a partial settings update. Nil fields are left
// unchanged. RowVersion is the version the caller last read.
type UpdateSettingsInput struct {
	RoundingMethod *string
	PartialRatio   *float64
	Red            *int
	Orange         *int
	Green          *int
	ScoringMode    *models.ScoringMode
	RowVersion     *int64
	ActorID        uint64
}

// Get returns the settings, creating the default row on first read.
func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := s.store.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Update applies input through the version guard and records an audit entry
// with the before and after state.
func (s *SettingsService) Update(ctx context.Context, input UpdateSettingsInput) (*models.Settings, error) {
	if input.RowVersion == nil {
		return nil, invalid("row_version", "is required")
	}

	before, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	after := *before
	updates := make(map[string]any)

	if input.RoundingMethod != nil {
		if *input.RoundingMethod != models.RoundingMethodHalfUp {
			return nil, invalid("rounding_policy.method", fmt.Sprintf("must be %q", models.RoundingMethodHalfUp))
		}
		after.RoundingPolicy.Method = *input.RoundingMethod
		updates["rounding_method"] = *input.RoundingMethod
	}
	if input.PartialRatio != nil {
		if *input.PartialRatio < 0 || *input.PartialRatio > 1 {
			return nil, invalid("rounding_policy.partial_ratio", "must be between 0 and 1")
		}
		after.RoundingPolicy.PartialRatio = *input.PartialRatio
		updates["partial_ratio"] = *input.PartialRatio
	}

	for _, t := range []struct {
		field  string
		column string
		value  *int
		target *int
	}{
		{"thresholds.red", "threshold_red", input.Red, &after.Thresholds.Red},
		{"thresholds.orange", "threshold_orange", input.Orange, &after.Thresholds.Orange},
		{"thresholds.green", "threshold_green", input.Green, &after.Thresholds.Green},
	} {
		if t.value == nil {
			continue
		}
		if *t.value < 0 || *t.value > 100 {
			return nil, invalid(t.field, "must be between 0 and 100")
		}
		*t.target = *t.value
		updates[t.column] = *t.value
	}
	if after.Thresholds.Red >= after.Thresholds.Orange || after.Thresholds.Orange >= after.Thresholds.Green {
		return nil, invalid("thresholds", "must satisfy red < orange < green")
	}

	if input.ScoringMode != nil {
		switch *input.ScoringMode {
		case models.ScoringModeAbsolute, models.ScoringModePercentage:
		default:
			return nil, invalid("scoring_mode", "must be absolute or percentage")
		}
		after.ScoringMode = *input.ScoringMode
		updates["scoring_mode"] = *input.ScoringMode
	}

	if err := s.store.Settings().UpdateVersioned(ctx, *input.RowVersion, updates); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) || errors.Is(err, gorm.ErrRecordNotFound) {
			current, getErr := s.Get(ctx)
			if getErr != nil {
				return nil, getErr
			}
			return nil, &ConflictError{Entity: "settings", Current: current}
		}
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	updated, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, models.EntitySetting, strPtr(constants.SettingsKey), models.AuditActionUpdate, input.ActorID, map[string]any{
		"before": before,
		"after":  updated,
	})

	return updated, nil
}

func strPtr(s string) *string {
	return &s
}
