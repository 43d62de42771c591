package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type WeekSchedule struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudyPlanID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_week_plan_index" json:"study_plan_id"`
	StudyPlan      *StudyPlan     `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudyPlanID;references:ID" json:"-"`
	WeekIndex      int            `gorm:"column:week_index;not null;uniqueIndex:idx_week_plan_index" json:"week_index"`
	Focus          string         `gorm:"column:focus" json:"focus"`
	Days           datatypes.JSON `gorm:"column:days;type:jsonb;not null" json:"days"`
	WeeklyTargets  datatypes.JSON `gorm:"column:weekly_targets;type:jsonb;not null" json:"weekly_targets"`
	WeeklyTests    datatypes.JSON `gorm:"column:weekly_tests;type:jsonb;not null" json:"weekly_tests"`
	BreaksTemplate datatypes.JSON `gorm:"column:breaks_template;type:jsonb;not null" json:"breaks_template"`
	Metadata       datatypes.JSON `gorm:"column:metadata;type:jsonb;not null" json:"metadata"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
}

func (WeekSchedule) TableName() string { return "week_schedule" }
