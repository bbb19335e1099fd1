package dto

import (
	"time"

	"github.com/yukikurage/hospital-task-points/internal/models"
	"github.com/yukikurage/hospital-task-points/internal/services"
)

// RoundingPolicyRequest is the optional rounding block of a settings update
type RoundingPolicyRequest struct {
	Method       *string  `json:"method"`
	PartialRatio *float64 `json:"partial_ratio"`
}

// ThresholdsRequest is the optional thresholds block of a settings update
type ThresholdsRequest struct {
	Red    *int `json:"red"`
	Orange *int `json:"orange"`
	Green  *int `json:"green"`
}

// UpdateSettingsRequest is the body of PATCH /api/settings
type UpdateSettingsRequest struct {
	RoundingPolicy *RoundingPolicyRequest `json:"rounding_policy"`
	Thresholds     *ThresholdsRequest     `json:"thresholds"`
	ScoringMode    *models.ScoringMode    `json:"scoring_mode"`
	RowVersion     *int64                 `json:"row_version"`
}

// SettingsDTO represents the settings singleton in API responses
type SettingsDTO struct {
	ID             string                `json:"id"`
	RoundingPolicy models.RoundingPolicy `json:"rounding_policy"`
	Thresholds     models.Thresholds     `json:"thresholds"`
	ScoringMode    models.ScoringMode    `json:"scoring_mode"`
	RowVersion     int64                 `json:"row_version"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// SettingsResponse wraps the settings
type SettingsResponse struct {
	Settings SettingsDTO `json:"settings"`
}

// ToUpdateSettingsInput converts a request into service input
func (r UpdateSettingsRequest) ToUpdateSettingsInput(actorID uint64) services.UpdateSettingsInput {
	input := services.UpdateSettingsInput{
		ScoringMode: r.ScoringMode,
		RowVersion:  r.RowVersion,
		ActorID:     actorID,
	}
	if r.RoundingPolicy != nil {
		input.RoundingMethod = r.RoundingPolicy.Method
		input.PartialRatio = r.RoundingPolicy.PartialRatio
	}
	if r.Thresholds != nil {
		input.Red = r.Thresholds.Red
		input.Orange = r.Thresholds.Orange
		input.Green = r.Thresholds.Green
	}
	return input
}

// ToSettingsDTO converts the Settings model
func ToSettingsDTO(settings models.Settings) SettingsDTO {
	return SettingsDTO{
		ID:             settings.ID,
		RoundingPolicy: settings.RoundingPolicy,
		Thresholds:     settings.Thresholds,
		ScoringMode:    settings.ScoringMode,
		RowVersion:     settings.Version,
		UpdatedAt:      settings.UpdatedAt,
	}
}
