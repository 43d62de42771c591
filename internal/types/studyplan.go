package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudyPlan is the canonical exam-preparation configuration a user owns.
// Subjects, optional subjects and study styles are stored as JSON arrays
// of strings; schedule composition reads them through plan normalization.
type StudyPlan struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User               *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ExamName           string         `gorm:"column:exam_name;not null" json:"exam_name"`
	Duration           string         `gorm:"column:duration" json:"duration"`
	DailyHours         int            `gorm:"column:daily_hours;not null" json:"daily_hours"`
	Subjects           datatypes.JSON `gorm:"column:subjects;type:jsonb;not null" json:"subjects"`
	OptionalSubjects   datatypes.JSON `gorm:"column:optional_subjects;type:jsonb" json:"optional_subjects"`
	StudyStyles        datatypes.JSON `gorm:"column:study_styles;type:jsonb" json:"study_styles"`
	PreferredStartTime string         `gorm:"column:preferred_start_time" json:"preferred_start_time"`
	AttemptCount       int            `gorm:"column:attempt_count;not null;default:1" json:"attempt_count"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudyPlan) TableName() string { return "study_plan" }
