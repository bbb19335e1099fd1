package models

import (
	"time"

	"github.com/yukikurage/hospital-task-points/internal/constants"
)

const RoundingMethodHalfUp = "half_up"

type ScoringMode string

const (
	ScoringModeAbsolute   ScoringMode = "absolute"
	ScoringModePercentage ScoringMode = "percentage"
)

type RoundingPolicy struct {
	Method       string  `gorm:"column:rounding_method;type:varchar(32);not null;default:'half_up'" json:"method"`
	PartialRatio float64 `gorm:"column:partial_ratio;not null;default:0.5" json:"partial_ratio"`
}

type Thresholds struct {
	Red    int `gorm:"column:threshold_red;not null;default:33" json:"red"`
	Orange int `gorm:"column:threshold_orange;not null;default:66" json:"orange"`
	Green  int `gorm:"column:threshold_green;not null;default:100" json:"green"`
}

// Settings is the single site-wide configuration row.
type Settings struct {
	ID             string         `gorm:"primarykey;type:varchar(32)" json:"id"`
	RoundingPolicy RoundingPolicy `gorm:"embedded" json:"rounding_policy"`
	Thresholds     Thresholds     `gorm:"embedded" json:"thresholds"`
	ScoringMode    ScoringMode    `gorm:"type:varchar(20);not null;default:'absolute'" json:"scoring_mode"`
	Version        int64          `gorm:"column:row_version;not null;default:0" json:"row_version"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// DefaultSettings returns the row created when none exists yet.
func DefaultSettings() Settings {
	return Settings{
		ID: constants.SettingsKey,
		RoundingPolicy: RoundingPolicy{
			Method:       RoundingMethodHalfUp,
			PartialRatio: 0.5,
		},
		Thresholds: Thresholds{
			Red:    33,
			Orange: 66,
			Green:  100,
		},
		ScoringMode: ScoringModeAbsolute,
	}
}
