package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/types"
)

type StudyPlanRepo interface {
  Create(ctx context.Context, tx *gorm.DB, plans []*types.StudyPlan) ([]*types.StudyPlan, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) ([]*types.StudyPlan, error)
  GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.StudyPlan, error)
  UpdateFields(ctx context.Context, tx *gorm.DB, planID uuid.UUID, fields map[string]any) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) error
}

type studyPlanRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
  return &studyPlanRepo{db: db, log: baseLog.With("repo", "StudyPlanRepo")}
}

func (r *studyPlanRepo) Create(ctx context.Context, tx *gorm.DB, plans []*types.StudyPlan) ([]*types.StudyPlan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(plans) == 0 {
    return []*types.StudyPlan{}, nil
  }
  if err := transaction.WithContext(ctx).Create(&plans).Error; err != nil {
    return nil, err
  }
  return plans, nil
}

func (r *studyPlanRepo) GetByIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) ([]*types.StudyPlan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.StudyPlan
  if len(planIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", planIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *studyPlanRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.StudyPlan, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.StudyPlan
  if len(userIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("user_id IN ?", userIDs).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *studyPlanRepo) UpdateFields(ctx context.Context, tx *gorm.DB, planID uuid.UUID, fields map[string]any) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(fields) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Model(&types.StudyPlan{}).
    Where("id = ?", planID).
    Updates(fields).Error
}

func (r *studyPlanRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, planIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(planIDs) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).
    Where("id IN ?", planIDs).
    Delete(&types.StudyPlan{}).Error
}
