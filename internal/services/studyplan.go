package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/repos"
  "github.com/kodywagner/prepflow-backend/internal/requestdata"
  "github.com/kodywagner/prepflow-backend/internal/sse"
  "github.com/kodywagner/prepflow-backend/internal/ssedata"
  "github.com/kodywagner/prepflow-backend/internal/types"
)

type CreateStudyPlanInput struct {
  ExamName           string   `json:"exam_name"`
  Duration           string   `json:"duration"`
  DailyHours         int      `json:"daily_hours"`
  Subjects           []string `json:"subjects"`
  OptionalSubjects   []string `json:"optional_subjects"`
  StudyStyles        []string `json:"study_styles"`
  PreferredStartTime string   `json:"preferred_start_time"`
  AttemptCount       int      `json:"attempt_count"`
}

type UpdateStudyPlanInput struct {
  ExamName           *string   `json:"exam_name,omitempty"`
  Duration           *string   `json:"duration,omitempty"`
  DailyHours         *int      `json:"daily_hours,omitempty"`
  Subjects           *[]string `json:"subjects,omitempty"`
  OptionalSubjects   *[]string `json:"optional_subjects,omitempty"`
  StudyStyles        *[]string `json:"study_styles,omitempty"`
  PreferredStartTime *string   `json:"preferred_start_time,omitempty"`
  AttemptCount       *int      `json:"attempt_count,omitempty"`
}

type StudyPlanService interface {
  CreatePlan(ctx context.Context, input *CreateStudyPlanInput) (*types.StudyPlan, error)
  GetPlan(ctx context.Context, planID uuid.UUID) (*types.StudyPlan, error)
  ListPlans(ctx context.Context) ([]*types.StudyPlan, error)
  UpdatePlan(ctx context.Context, planID uuid.UUID, input *UpdateStudyPlanInput) (*types.StudyPlan, error)
  DeletePlan(ctx context.Context, planID uuid.UUID) error
}

type studyPlanService struct {
  db       *gorm.DB
  log      *logger.Logger
  planRepo repos.StudyPlanRepo
  dayRepo  repos.DayScheduleRepo
  weekRepo repos.WeekScheduleRepo
}

func NewStudyPlanService(
  db *gorm.DB,
  baseLog *logger.Logger,
  planRepo repos.StudyPlanRepo,
  dayRepo repos.DayScheduleRepo,
  weekRepo repos.WeekScheduleRepo,
) StudyPlanService {
  return &studyPlanService{
    db:       db,
    log:      baseLog.With("service", "StudyPlanService"),
    planRepo: planRepo,
    dayRepo:  dayRepo,
    weekRepo: weekRepo,
  }
}

func validatePlanInput(examName string, dailyHours int, subjects []string) error {
  if strings.TrimSpace(examName) == "" {
    return fmt.Errorf("%w: exam name is required", ErrInvalidInput)
  }
  if dailyHours < 1 || dailyHours > 16 {
    return fmt.Errorf("%w: daily hours must be between 1 and 16", ErrInvalidInput)
  }
  cleaned := 0
  for _, s := range subjects {
    if strings.TrimSpace(s) != "" {
      cleaned++
    }
  }
  if cleaned == 0 {
    return fmt.Errorf("%w: at least one subject is required", ErrInvalidInput)
  }
  return nil
}

func requireUser(ctx context.Context) (uuid.UUID, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil || rd.UserID == uuid.Nil {
    return uuid.Nil, fmt.Errorf("missing request data in context")
  }
  return rd.UserID, nil
}

func (s *studyPlanService) CreatePlan(ctx context.Context, input *CreateStudyPlanInput) (*types.StudyPlan, error) {
  userID, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }
  if input == nil {
    return nil, fmt.Errorf("%w: missing body", ErrInvalidInput)
  }
  if err := validatePlanInput(input.ExamName, input.DailyHours, input.Subjects); err != nil {
    return nil, err
  }

  attempts := input.AttemptCount
  if attempts < 1 {
    attempts = 1
  }

  now := time.Now()
  plan := &types.StudyPlan{
    ID:                 uuid.New(),
    UserID:             userID,
    ExamName:           strings.TrimSpace(input.ExamName),
    Duration:           strings.TrimSpace(input.Duration),
    DailyHours:         input.DailyHours,
    Subjects:           mustJSON(cleanList(input.Subjects)),
    OptionalSubjects:   mustJSON(cleanList(input.OptionalSubjects)),
    StudyStyles:        mustJSON(cleanList(input.StudyStyles)),
    PreferredStartTime: strings.TrimSpace(input.PreferredStartTime),
    AttemptCount:       attempts,
    CreatedAt:          now,
    UpdatedAt:          now,
  }

  if _, err := s.planRepo.Create(ctx, nil, []*types.StudyPlan{plan}); err != nil {
    return nil, err
  }

  if ssd := ssedata.GetSSEData(ctx); ssd != nil {
    ssd.AppendMessage(sse.SSEMessage{
      Channel: UserChannel(userID),
      Event:   sse.SSEEventStudyPlanCreated,
      Data:    map[string]any{"study_plan_id": plan.ID},
    })
  }

  return plan, nil
}

func (s *studyPlanService) GetPlan(ctx context.Context, planID uuid.UUID) (*types.StudyPlan, error) {
  userID, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }
  plans, err := s.planRepo.GetByIDs(ctx, nil, []uuid.UUID{planID})
  if err != nil {
    return nil, err
  }
  if len(plans) == 0 || plans[0].UserID != userID {
    return nil, ErrPlanNotFound
  }
  return plans[0], nil
}

func (s *studyPlanService) ListPlans(ctx context.Context) ([]*types.StudyPlan, error) {
  userID, err := requireUser(ctx)
  if err != nil {
    return nil, err
  }
  return s.planRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
}

func (s *studyPlanService) UpdatePlan(ctx context.Context, planID uuid.UUID, input *UpdateStudyPlanInput) (*types.StudyPlan, error) {
  plan, err := s.GetPlan(ctx, planID)
  if err != nil {
    return nil, err
  }
  if input == nil {
    return plan, nil
  }

  fields := map[string]any{}
  if input.ExamName != nil {
    if strings.TrimSpace(*input.ExamName) == "" {
      return nil, fmt.Errorf("%w: exam name cannot be empty", ErrInvalidInput)
    }
    fields["exam_name"] = strings.TrimSpace(*input.ExamName)
  }
  if input.Duration != nil {
    fields["duration"] = strings.TrimSpace(*input.Duration)
  }
  if input.DailyHours != nil {
    if *input.DailyHours < 1 || *input.DailyHours > 16 {
      return nil, fmt.Errorf("%w: daily hours must be between 1 and 16", ErrInvalidInput)
    }
    fields["daily_hours"] = *input.DailyHours
  }
  if input.Subjects != nil {
    cleaned := cleanList(*input.Subjects)
    if len(cleaned) == 0 {
      return nil, fmt.Errorf("%w: at least one subject is required", ErrInvalidInput)
    }
    fields["subjects"] = mustJSON(cleaned)
  }
  if input.OptionalSubjects != nil {
    fields["optional_subjects"] = mustJSON(cleanList(*input.OptionalSubjects))
  }
  if input.StudyStyles != nil {
    fields["study_styles"] = mustJSON(cleanList(*input.StudyStyles))
  }
  if input.PreferredStartTime != nil {
    fields["preferred_start_time"] = strings.TrimSpace(*input.PreferredStartTime)
  }
  if input.AttemptCount != nil {
    if *input.AttemptCount < 1 {
      return nil, fmt.Errorf("%w: attempt count must be positive", ErrInvalidInput)
    }
    fields["attempt_count"] = *input.AttemptCount
  }
  if len(fields) == 0 {
    return plan, nil
  }
  fields["updated_at"] = time.Now()

  if err := s.planRepo.UpdateFields(ctx, nil, planID, fields); err != nil {
    return nil, err
  }

  plans, err := s.planRepo.GetByIDs(ctx, nil, []uuid.UUID{planID})
  if err != nil {
    return nil, err
  }
  if len(plans) == 0 {
    return nil, ErrPlanNotFound
  }
  return plans[0], nil
}

// DeletePlan soft-deletes the plan and hard-deletes its generated
// schedules in one transaction; regenerating after a delete starts clean.
func (s *studyPlanService) DeletePlan(ctx context.Context, planID uuid.UUID) error {
  plan, err := s.GetPlan(ctx, planID)
  if err != nil {
    return err
  }

  err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.dayRepo.FullDeleteByPlanIDs(ctx, tx, []uuid.UUID{planID}); err != nil {
      return err
    }
    if err := s.weekRepo.FullDeleteByPlanIDs(ctx, tx, []uuid.UUID{planID}); err != nil {
      return err
    }
    return s.planRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{planID})
  })
  if err != nil {
    return err
  }

  if ssd := ssedata.GetSSEData(ctx); ssd != nil {
    ssd.AppendMessage(sse.SSEMessage{
      Channel: UserChannel(plan.UserID),
      Event:   sse.SSEEventStudyPlanDeleted,
      Data:    map[string]any{"study_plan_id": planID},
    })
  }
  return nil
}

func cleanList(in []string) []string {
  out := make([]string, 0, len(in))
  for _, s := range in {
    if t := strings.TrimSpace(s); t != "" {
      out = append(out, t)
    }
  }
  return out
}
