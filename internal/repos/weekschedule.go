package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/gorm/clause"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/types"
)

type WeekScheduleRepo interface {
  Upsert(ctx context.Context, tx *gorm.DB, schedule *types.WeekSchedule) (*types.WeekSchedule, error)
  GetByPlanAndWeek(ctx context.Context, tx *gorm.DB, planID uuid.UUID, weekIndex int) (*types.WeekSchedule, error)
  GetByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) ([]*types.WeekSchedule, error)
  FullDeleteByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) error
}

type weekScheduleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWeekScheduleRepo(db *gorm.DB, baseLog *logger.Logger) WeekScheduleRepo {
  return &weekScheduleRepo{db: db, log: baseLog.With("repo", "WeekScheduleRepo")}
}

func (r *weekScheduleRepo) Upsert(ctx context.Context, tx *gorm.DB, schedule *types.WeekSchedule) (*types.WeekSchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Clauses(clause.OnConflict{
      Columns: []clause.Column{{Name: "study_plan_id"}, {Name: "week_index"}},
      DoUpdates: clause.AssignmentColumns([]string{
        "focus", "days", "weekly_targets", "weekly_tests", "breaks_template", "metadata", "updated_at",
      }),
    }).
    Create(schedule).Error; err != nil {
    return nil, err
  }
  return schedule, nil
}

func (r *weekScheduleRepo) GetByPlanAndWeek(ctx context.Context, tx *gorm.DB, planID uuid.UUID, weekIndex int) (*types.WeekSchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.WeekSchedule
  if err := transaction.WithContext(ctx).
    Where("study_plan_id = ? AND week_index = ?", planID, weekIndex).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (r *weekScheduleRepo) GetByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) ([]*types.WeekSchedule, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.WeekSchedule
  if len(planIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("study_plan_id IN ?", planIDs).
    Order("week_index ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *weekScheduleRepo) FullDeleteByPlanIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(planIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("study_plan_id IN ?", planIDs).
    Delete(&types.WeekSchedule{}).Error
}
