package services

import (
  "context"
  "fmt"

  "golang.org/x/sync/errgroup"

  "github.com/kodywagner/prepflow-backend/internal/logger"
)

// DayComposer assembles a full DayPlan for one study day: sequential
// sessions with round-robin subjects, inter-session breaks, and daily
// targets. Breaks and targets are independent of each other and run
// concurrently once the session layout is fixed.
type DayComposer interface {
  ComposeDay(ctx context.Context, plan *NormalizedPlan, dayIndex, totalDays int) (*DayPlan, error)
}

type dayComposer struct {
  log     *logger.Logger
  content ContentService
}

func NewDayComposer(baseLog *logger.Logger, content ContentService) DayComposer {
  return &dayComposer{
    log:     baseLog.With("service", "DayComposer"),
    content: content,
  }
}

func (dc *dayComposer) ComposeDay(ctx context.Context, plan *NormalizedPlan, dayIndex, totalDays int) (*DayPlan, error) {
  if plan == nil {
    return nil, fmt.Errorf("%w: plan is nil", ErrInvalidInput)
  }
  if dayIndex < 1 || dayIndex > totalDays {
    return nil, fmt.Errorf("%w: day index %d out of range 1..%d", ErrInvalidInput, dayIndex, totalDays)
  }
  if len(plan.Subjects) == 0 {
    return nil, fmt.Errorf("%w: plan has no subjects", ErrInvalidInput)
  }
  if plan.DailyHours <= 0 {
    return nil, fmt.Errorf("%w: daily hours must be positive", ErrInvalidInput)
  }

  sessionCount := SessionsPerDay(plan.DailyHours)
  if sessionCount == 0 {
    return nil, fmt.Errorf("%w: %d daily hours is too few for one session", ErrInvalidInput, plan.DailyHours)
  }
  avgMinutes := AverageSessionMinutes(plan.DailyHours, sessionCount)

  // Sessions are laid out strictly in order: each session starts where
  // the previous one ended, using the realized duration of the topics
  // the model actually returned.
  source := GenSourceModel
  clock := StartMinutes(plan.PreferredStartTime)
  sessions := make([]Session, 0, sessionCount)
  spans := make([]SessionSpan, 0, sessionCount)
  for i := 0; i < sessionCount; i++ {
    subject := plan.Subjects[i%len(plan.Subjects)]

    topicsRes := dc.content.TopicsFor(ctx, plan, subject, dayIndex)
    if topicsRes.Source == GenSourceFallback {
      source = GenSourceFallback
    }

    duration := realizedMinutes(topicsRes.Topics, avgMinutes)
    sessions = append(sessions, Session{
      StartTime:       FormatClock(clock),
      Subject:         subject,
      Topics:          topicsRes.Topics,
      Type:            SessionTypeStudy,
      Duration:        FormatDurationMinutes(duration),
      RecommendedPace: dc.content.PaceFor(topicsRes.Topics),
    })
    spans = append(spans, SessionSpan{StartMinutes: clock, DurationMinutes: duration})
    clock += duration
  }

  var breaks []Break
  var targetsRes TargetsResult
  g, gctx := errgroup.WithContext(ctx)
  g.Go(func() error {
    breaks = LayoutBreaks(spans)
    return nil
  })
  g.Go(func() error {
    targetsRes = dc.content.DailyTargetsFor(gctx, plan, dayIndex)
    return nil
  })
  if err := g.Wait(); err != nil {
    return nil, err
  }
  if targetsRes.Source == GenSourceFallback {
    source = GenSourceFallback
  }

  return &DayPlan{
    DayIndex:     dayIndex,
    Focus:        fmt.Sprintf("Day %d: %s", dayIndex, sessions[0].Subject),
    Sessions:     sessions,
    Breaks:       breaks,
    DailyTargets: targetsRes.Targets,
    Metadata: DayMetadata{
      CurrentDay: dayIndex,
      TotalDays:  totalDays,
      Progress:   float64(dayIndex) / float64(totalDays) * 100,
      DailyHours: plan.DailyHours,
      Status:     "generated",
      Source:     string(source),
    },
  }, nil
}

// realizedMinutes sums the topic durations for a session; topics that
// carry no duration each contribute an even share of the session average.
func realizedMinutes(topics []Topic, avgMinutes int) int {
  if len(topics) == 0 {
    return avgMinutes
  }
  share := avgMinutes / len(topics)
  total := 0
  for _, t := range topics {
    if t.DurationMinutes > 0 {
      total += t.DurationMinutes
    } else {
      total += share
    }
  }
  if total <= 0 {
    return avgMinutes
  }
  return total
}
