package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/kodywagner/prepflow-backend/internal/repos/testutil"
)

func TestStudyPlanRepo_CreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "plans@example.com")
	repo := NewStudyPlanRepo(tx, log)

	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{plan.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].ExamName != "Final Exam" {
		t.Fatalf("unexpected result: %+v", got)
	}

	byUser, err := repo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
	if err != nil {
		t.Fatalf("GetByUserIDs: %v", err)
	}
	if len(byUser) != 1 {
		t.Fatalf("expected 1 plan for user, got %d", len(byUser))
	}
}

func TestStudyPlanRepo_UpdateFields(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "update@example.com")
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	repo := NewStudyPlanRepo(tx, log)

	err := repo.UpdateFields(ctx, tx, plan.ID, map[string]any{
		"exam_name":   "Board Exam",
		"daily_hours": 8,
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{plan.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if got[0].ExamName != "Board Exam" || got[0].DailyHours != 8 {
		t.Fatalf("update not applied: %+v", got[0])
	}
}

func TestStudyPlanRepo_SoftDeleteHidesPlan(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	user := testutil.SeedUser(t, ctx, tx, "delete@example.com")
	plan := testutil.SeedStudyPlan(t, ctx, tx, user.ID)
	repo := NewStudyPlanRepo(tx, log)

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{plan.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}

	got, err := repo.GetByIDs(ctx, tx, []uuid.UUID{plan.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("soft-deleted plan still visible: %+v", got)
	}
}
