package services

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/kodywagner/prepflow-backend/internal/types"
)

func TestNormalizePlan(t *testing.T) {
	row := &types.StudyPlan{
		ID:                 uuid.New(),
		UserID:             uuid.New(),
		ExamName:           "Final Exam",
		Duration:           "2 months",
		DailyHours:         6,
		Subjects:           datatypes.JSON([]byte(`["Math"," Science ",""]`)),
		OptionalSubjects:   datatypes.JSON([]byte(`not json`)),
		StudyStyles:        nil,
		PreferredStartTime: "08:00",
		AttemptCount:       2,
	}

	p := NormalizePlan(row)
	if p == nil {
		t.Fatal("expected non-nil plan")
	}
	if len(p.Subjects) != 2 || p.Subjects[1] != "Science" {
		t.Fatalf("subjects not cleaned: %v", p.Subjects)
	}
	if len(p.OptionalSubjects) != 0 {
		t.Fatalf("bad JSON should decode to empty, got %v", p.OptionalSubjects)
	}
	if len(p.StudyStyles) != 0 {
		t.Fatalf("nil column should decode to empty, got %v", p.StudyStyles)
	}
	if p.DurationDays != 60 {
		t.Fatalf("duration days = %d, want 60", p.DurationDays)
	}
	if p.TotalWeeks() != 9 {
		t.Fatalf("total weeks = %d, want 9", p.TotalWeeks())
	}
}

func TestNormalizePlan_NilRow(t *testing.T) {
	if NormalizePlan(nil) != nil {
		t.Fatal("expected nil for nil row")
	}
}
