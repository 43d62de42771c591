package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/kodywagner/prepflow-backend/internal/repos/testutil"
	"github.com/kodywagner/prepflow-backend/internal/types"
)

func seedWeekSchedule(planID uuid.UUID, weekIndex int, focus string) *types.WeekSchedule {
	now := time.Now()
	return &types.WeekSchedule{
		ID:             uuid.New(),
		StudyPlanID:    planID,
		WeekIndex:      weekIndex,
		Focus:          focus,
		Days:           datatypes.JSON([]byte(`[]`)),
		WeeklyTargets:  datatypes.JSON([]byte(`[]`)),
		WeeklyTests:    datatypes.JSON([]byte(`[]`)),
		BreaksTemplate: datatypes.JSON([]byte(`{}`)),
		Metadata:       datatypes.JSON([]byte(`{}`)),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestWeekScheduleRepo_UpsertSupersedes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "week@example.com")
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	repo := NewWeekScheduleRepo(tx, log)

	if _, err := repo.Upsert(ctx, tx, seedWeekSchedule(plan.ID, 2, "first")); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, tx, seedWeekSchedule(plan.ID, 2, "second")); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := repo.GetByPlanAndWeek(ctx, tx, plan.ID, 2)
	if err != nil {
		t.Fatalf("GetByPlanAndWeek: %v", err)
	}
	if got == nil || got.Focus != "second" {
		t.Fatalf("regeneration did not supersede: %+v", got)
	}

	all, err := repo.GetByPlanIDs(ctx, tx, []uuid.UUID{plan.ID})
	if err != nil {
		t.Fatalf("GetByPlanIDs: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one row per (plan, week), got %d", len(all))
	}
}

func TestWeekScheduleRepo_FullDeleteByPlanIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "week2@example.com")
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	repo := NewWeekScheduleRepo(tx, log)

	if _, err := repo.Upsert(ctx, tx, seedWeekSchedule(plan.ID, 1, "f")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := repo.FullDeleteByPlanIDs(ctx, tx, []uuid.UUID{plan.ID}); err != nil {
		t.Fatalf("FullDeleteByPlanIDs: %v", err)
	}

	got, err := repo.GetByPlanAndWeek(ctx, tx, plan.ID, 1)
	if err != nil {
		t.Fatalf("GetByPlanAndWeek: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}
