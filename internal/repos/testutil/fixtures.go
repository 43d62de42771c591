package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kodywagner/prepflow-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStudyPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.StudyPlan {
	tb.Helper()
	p := &types.StudyPlan{
		ID:                 uuid.New(),
		UserID:             userID,
		ExamName:           "Final Exam",
		Duration:           "2 months",
		DailyHours:         6,
		Subjects:           datatypes.JSON([]byte(`["Math","Science"]`)),
		OptionalSubjects:   datatypes.JSON([]byte(`[]`)),
		StudyStyles:        datatypes.JSON([]byte(`["visual"]`)),
		PreferredStartTime: "09:00",
		AttemptCount:       1,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed study plan: %v", err)
	}
	return p
}
