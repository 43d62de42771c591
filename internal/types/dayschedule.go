package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DaySchedule is one generated day for a plan, keyed by (study_plan_id,
// day_index). Regeneration upserts the same key; the composed sessions,
// breaks and targets are stored as JSON exactly as composed.
type DaySchedule struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudyPlanID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_day_plan_index" json:"study_plan_id"`
	StudyPlan    *StudyPlan     `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudyPlanID;references:ID" json:"-"`
	DayIndex     int            `gorm:"column:day_index;not null;uniqueIndex:idx_day_plan_index" json:"day_index"`
	Focus        string         `gorm:"column:focus" json:"focus"`
	Sessions     datatypes.JSON `gorm:"column:sessions;type:jsonb;not null" json:"sessions"`
	Breaks       datatypes.JSON `gorm:"column:breaks;type:jsonb;not null" json:"breaks"`
	DailyTargets datatypes.JSON `gorm:"column:daily_targets;type:jsonb;not null" json:"daily_targets"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:jsonb;not null" json:"metadata"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (DaySchedule) TableName() string { return "day_schedule" }
