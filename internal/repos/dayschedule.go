package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/types"
)

type DayScheduleRepo interface {
  // Upsert writes one generated day keyed by (study_plan_id, day_index);
  // regenerating a day replaces the stored content in place.
  Upsert(ctx context.Context, tx *gorm.DB, schedule *types.DaySchedule) (*types.DaySchedule, error)
  GetByPlanAndDay(ctx context.Context, tx *gorm.DB, planID uuid.UUID, dayIndex int) (*types.DaySchedule, error)
  GetByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) ([]*types.DaySchedule, error)
  FullDeleteByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) error
}

type dayScheduleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDayScheduleRepo(db *gorm.DB, baseLog *logger.Logger) DayScheduleRepo {
  return &dayScheduleRepo{db: db, log: baseLog.With("repo", "DayScheduleRepo")}
}

func (r *dayScheduleRepo) Upsert(ctx context.Context, tx *gorm.DB, schedule *types.DaySchedule) (*types.DaySchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "study_plan_id"}, {Name: "day_index"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "focus", "sessions", "breaks", "daily_targets", "metadata", "updated_at",
      }),
    }).
    Create(schedule).Error; err != nil {
    return nil, err
  }
  return schedule, nil
}

func (r *dayScheduleRepo) GetByPlanAndDay(ctx context.Context, tx *gorm.DB, planID uuid.UUID, dayIndex int) (*types.DaySchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.DaySchedule
  if err := transaction.WithContext(ctx).
    Where("study_plan_id = ? AND day_index = ?", planID, dayIndex).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *dayScheduleRepo) GetByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) ([]*types.DaySchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.DaySchedule
  if len(planIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("study_plan_id IN ?", planIDs).
    Order("day_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *dayScheduleRepo) FullDeleteByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(planIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("study_plan_id IN ?", planIDs).
    Delete(&types.DaySchedule{}).Error
}
