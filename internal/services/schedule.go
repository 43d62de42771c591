package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/repos"
  "github.com/kodywagner/prepflow-backend/internal/requestdata"
  "github.com/kodywagner/prepflow-backend/internal/sse"
  "github.com/kodywagner/prepflow-backend/internal/types"
)

// ScheduleService generates and serves day and week schedules for a
// plan. Generation composes fresh content and upserts it, so repeating a
// request regenerates the stored row. Persistence errors propagate
// unchanged; content-generation failures never surface here because the
// composers already absorbed them into fallbacks.
type ScheduleService interface {
  GenerateDay(ctx context.Context, planID uuid.UUID, dayIndex int) (*types.DaySchedule, error)
  GenerateWeek(ctx context.Context, planID uuid.UUID, weekIndex int) (*types.WeekSchedule, error)
  GetDay(ctx context.Context, planID uuid.UUID, dayIndex int) (*types.DaySchedule, error)
  GetWeek(ctx context.Context, planID uuid.UUID, weekIndex int) (*types.WeekSchedule, error)
  ListDays(ctx context.Context, planID uuid.UUID) ([]*types.DaySchedule, error)
  ListWeeks(ctx context.Context, planID uuid.UUID) ([]*types.WeekSchedule, error)
}

var (
  ErrPlanNotFound     = fmt.Errorf("study plan not found")
  ErrScheduleNotFound = fmt.Errorf("schedule not found")
)

type scheduleService struct {
  db           *gorm.DB
  log          *logger.Logger
  planRepo     repos.StudyPlanRepo
  dayRepo      repos.DayScheduleRepo
  weekRepo     repos.WeekScheduleRepo
  dayComposer  DayComposer
  weekComposer WeekComposer
  notifier     Notifier
}

func NewScheduleService(
  db *gorm.DB,
  baseLog *logger.Logger,
  planRepo repos.StudyPlanRepo,
  dayRepo repos.DayScheduleRepo,
  weekRepo repos.WeekScheduleRepo,
  dayComposer DayComposer,
  weekComposer WeekComposer,
  notifier Notifier,
) ScheduleService {
  return &scheduleService{
    db:           db,
    log:          baseLog.With("service", "ScheduleService"),
    planRepo:     planRepo,
    dayRepo:      dayRepo,
    weekRepo:     weekRepo,
    dayComposer:  dayComposer,
    weekComposer: weekComposer,
    notifier:     notifier,
  }
}

// loadOwnedPlan fetches the plan and checks it belongs to the
// authenticated user from the request context.
func (s *scheduleService) loadOwnedPlan(ctx context.Context, planID uuid.UUID) (*types.StudyPlan, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return nil, fmt.Errorf("missing request data in context")
  }

  plans, err := s.planRepo.GetByIDs(ctx, nil, []uuid.UUID{planID})
  if err != nil {
    return nil, err
  }
  if len(plans) == 0 || plans[0].UserID != rd.UserID {
    return nil, ErrPlanNotFound
  }
  return plans[0], nil
}

func (s *scheduleService) GenerateDay(ctx context.Context, planID uuid.UUID, dayIndex int) (*types.DaySchedule, error) {
  row, err := s.loadOwnedPlan(ctx, planID)
  if err != nil {
    return nil, err
  }
  plan := NormalizePlan(row)

  dayPlan, err := s.dayComposer.ComposeDay(ctx, plan, dayIndex, plan.DurationDays)
  if err != nil {
    s.notifyFailed(ctx, plan.UserID, planID, "day", dayIndex, err)
    return nil, err
  }

  now := time.Now()
  schedule := &types.DaySchedule{
    ID:           uuid.New(),
    StudyPlanID:  planID,
    DayIndex:     dayIndex,
    Focus:        dayPlan.Focus,
    Sessions:     mustJSON(dayPlan.Sessions),
    Breaks:       mustJSON(dayPlan.Breaks),
    DailyTargets: mustJSON(dayPlan.DailyTargets),
    Metadata:     mustJSON(dayPlan.Metadata),
    CreatedAt:    now,
    UpdatedAt:    now,
  }
  if _, err := s.dayRepo.Upsert(ctx, nil, schedule); err != nil {
    s.notifyFailed(ctx, plan.UserID, planID, "day", dayIndex, err)
    return nil, err
  }

  s.notifier.Notify(ctx, plan.UserID, sse.SSEEventDayScheduleReady, map[string]any{
    "study_plan_id": planID,
    "day_index":     dayIndex,
    "source":        dayPlan.Metadata.Source,
  })
  return schedule, nil
}

func (s *scheduleService) GenerateWeek(ctx context.Context, planID uuid.UUID, weekIndex int) (*types.WeekSchedule, error) {
  row, err := s.loadOwnedPlan(ctx, planID)
  if err != nil {
    return nil, err
  }
  plan := NormalizePlan(row)

  weekPlan, err := s.weekComposer.ComposeWeek(ctx, plan, weekIndex, plan.TotalWeeks())
  if err != nil {
    s.notifyFailed(ctx, plan.UserID, planID, "week", weekIndex, err)
    return nil, err
  }

  now := time.Now()
  schedule := &types.WeekSchedule{
    ID:             uuid.New(),
    StudyPlanID:    planID,
    WeekIndex:      weekIndex,
    Focus:          weekPlan.Focus,
    Days:           mustJSON(weekPlan.Days),
    WeeklyTargets:  mustJSON(weekPlan.WeeklyTargets),
    WeeklyTests:    mustJSON(weekPlan.WeeklyTests),
    BreaksTemplate: mustJSON(weekPlan.BreaksTemplate),
    Metadata:       mustJSON(weekPlan.Metadata),
    CreatedAt:      now,
    UpdatedAt:      now,
  }
  if _, err := s.weekRepo.Upsert(ctx, nil, schedule); err != nil {
    s.notifyFailed(ctx, plan.UserID, planID, "week", weekIndex, err)
    return nil, err
  }

  s.notifier.Notify(ctx, plan.UserID, sse.SSEEventWeekScheduleReady, map[string]any{
    "study_plan_id": planID,
    "week_index":    weekIndex,
    "source":        weekPlan.Metadata.Source,
  })
  return schedule, nil
}

func (s *scheduleService) GetDay(ctx context.Context, planID uuid.UUID, dayIndex int) (*types.DaySchedule, error) {
  if _, err := s.loadOwnedPlan(ctx, planID); err != nil {
    return nil, err
  }
  schedule, err := s.dayRepo.GetByPlanAndDay(ctx, nil, planID, dayIndex)
  if err != nil {
    return nil, err
  }
  if schedule == nil {
    return nil, ErrScheduleNotFound
  }
  return schedule, nil
}

func (s *scheduleService) GetWeek(ctx context.Context, planID uuid.UUID, weekIndex int) (*types.WeekSchedule, error) {
  if _, err := s.loadOwnedPlan(ctx, planID); err != nil {
    return nil, err
  }
  schedule, err := s.weekRepo.GetByPlanAndWeek(ctx, nil, planID, weekIndex)
  if err != nil {
    return nil, err
  }
  if schedule == nil {
    return nil, ErrScheduleNotFound
  }
  return schedule, nil
}

func (s *scheduleService) ListDays(ctx context.Context, planID uuid.UUID) ([]*types.DaySchedule, error) {
  if _, err := s.loadOwnedPlan(ctx, planID); err != nil {
    return nil, err
  }
  return s.dayRepo.GetByPlanIDs(ctx, nil, []uuid.UUID{planID})
}

func (s *scheduleService) ListWeeks(ctx context.Context, planID uuid.UUID) ([]*types.WeekSchedule, error) {
  if _, err := s.loadOwnedPlan(ctx, planID); err != nil {
    return nil, err
  }
  return s.weekRepo.GetByPlanIDs(ctx, nil, []uuid.UUID{planID})
}

func (s *scheduleService) notifyFailed(ctx context.Context, userID, planID uuid.UUID, granularity string, index int, cause error) {
  s.log.Error("Schedule generation failed", "plan_id", planID, "granularity", granularity, "index", index, "error", cause)
  s.notifier.Notify(ctx, userID, sse.SSEEventScheduleGenerationFailed, map[string]any{
    "study_plan_id": planID,
    "granularity":   granularity,
    "index":         index,
    "error":         cause.Error(),
  })
}
