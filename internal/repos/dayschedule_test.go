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

func seedDaySchedule(planID uuid.UUID, dayIndex int, focus string) *types.DaySchedule {
	now := time.Now()
	return &types.DaySchedule{
		ID:           uuid.New(),
		StudyPlanID:  planID,
		DayIndex:     dayIndex,
		Focus:        focus,
		Sessions:     datatypes.JSON([]byte(`[]`)),
		Breaks:       datatypes.JSON([]byte(`[]`)),
		DailyTargets: datatypes.JSON([]byte(`[]`)),
		Metadata:     datatypes.JSON([]byte(`{}`)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestDayScheduleRepo_UpsertRoundTrip(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "day@example.com")
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	repo := NewDayScheduleRepo(tx, log)

	if _, err := repo.Upsert(ctx, tx, seedDaySchedule(plan.ID, 1, "Day 1: Math")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetByPlanAndDay(ctx, tx, plan.ID, 1)
	if err != nil {
		t.Fatalf("GetByPlanAndDay: %v", err)
	}
	if got == nil || got.Focus != "Day 1: Math" {
		t.Fatalf("unexpected schedule: %+v", got)
	}
}

func TestDayScheduleRepo_UpsertSupersedes(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "day2@example.com")
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	repo := NewDayScheduleRepo(tx, log)

	if _, err := repo.Upsert(ctx, tx, seedDaySchedule(plan.ID, 3, "first pass")); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if _, err := repo.Upsert(ctx, tx, seedDaySchedule(plan.ID, 3, "second pass")); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	all, err := repo.GetByPlanIDs(ctx, tx, []uuid.UUID{plan.ID})
	if err != nil {
		t.Fatalf("GetByPlanIDs: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one row per (plan, day), got %d", len(all))
	}
	if all[0].Focus != "second pass" {
		t.Fatalf("regeneration did not supersede: %q", all[0].Focus)
	}
}

func TestDayScheduleRepo_GetMissingReturnsNil(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "day3@example.com")
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	repo := NewDayScheduleRepo(tx, log)

	got, err := repo.GetByPlanAndDay(ctx, tx, plan.ID, 42)
	if err != nil {
		t.Fatalf("GetByPlanAndDay: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing day, got %+v", got)
	}
}

func TestDayScheduleRepo_OrderedByDayIndex(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "day4@example.com")
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	repo := NewDayScheduleRepo(tx, log)

	for _, idx := range []int{3, 1, 2} {
		if _, err := repo.Upsert(ctx, tx, seedDaySchedule(plan.ID, idx, "d")); err != nil {
			t.Fatalf("Upsert day %d: %v", idx, err)
		}
	}

	all, err := repo.GetByPlanIDs(ctx, tx, []uuid.UUID{plan.ID})
	if err != nil {
		t.Fatalf("GetByPlanIDs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(all))
	}
	for i, want := range []int{1, 2, 3} {
		if all[i].DayIndex != want {
			t.Fatalf("row %d has day index %d, want %d", i, all[i].DayIndex, want)
		}
	}
}
