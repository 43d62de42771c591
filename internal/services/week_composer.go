package services

import (
  "context"
  "fmt"
  "time"

  "github.com/kodywagner/prepflow-backend/internal/logger"
)

// WeekComposer assembles a WeekPlan: week-level focus and targets from
// the content service, a deterministic seven-day outline, and a fixed
// breaks template. Weeks are coarse by design; per-session detail lives
// in the day composer.
type WeekComposer interface {
  ComposeWeek(ctx context.Context, plan *NormalizedPlan, weekIndex, totalWeeks int) (*WeekPlan, error)
}

type weekComposer struct {
  log     *logger.Logger
  content ContentService

  now func() time.Time
}

func NewWeekComposer(baseLog *logger.Logger, content ContentService) WeekComposer {
  return &weekComposer{
    log:     baseLog.With("service", "WeekComposer"),
    content: content,
    now:     time.Now,
  }
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (wc *weekComposer) ComposeWeek(ctx context.Context, plan *NormalizedPlan, weekIndex, totalWeeks int) (*WeekPlan, error) {
  if plan == nil {
    return nil, fmt.Errorf("%w: plan is nil", ErrInvalidInput)
  }
  if weekIndex < 1 || weekIndex > totalWeeks {
    return nil, fmt.Errorf("%w: week index %d out of range 1..%d", ErrInvalidInput, weekIndex, totalWeeks)
  }
  if len(plan.Subjects) == 0 {
    return nil, fmt.Errorf("%w: plan has no subjects", ErrInvalidInput)
  }
  if plan.DailyHours <= 0 {
    return nil, fmt.Errorf("%w: daily hours must be positive", ErrInvalidInput)
  }

  content := wc.content.WeekContentFor(ctx, plan, weekIndex, totalWeeks)

  days := make([]DayOutline, 0, len(weekdays))
  for i, weekday := range weekdays {
    subject := plan.Subjects[i%len(plan.Subjects)]
    days = append(days, DayOutline{
      Weekday: weekday,
      Subject: subject,
      Focus:   fmt.Sprintf("%s: %s", weekday, subject),
      Hours:   plan.DailyHours,
    })
  }

  start := wc.now().AddDate(0, 0, (weekIndex-1)*7)
  end := start.AddDate(0, 0, 6)

  return &WeekPlan{
    WeekIndex:     weekIndex,
    TotalWeeks:    totalWeeks,
    Focus:         content.Focus,
    Days:          days,
    WeeklyTargets: content.WeeklyTargets,
    WeeklyTests:   content.WeeklyTests,
    BreaksTemplate: BreaksTemplate{
      Daily: []Break{
        {StartTime: "11:00 AM", Duration: FormatDurationMinutes(15), Kind: BreakKindShort},
        {StartTime: "1:00 PM", Duration: FormatDurationMinutes(45), Kind: BreakKindLunch},
      },
      Weekend: []Break{
        {StartTime: "3:00 PM", Duration: FormatDurationMinutes(60), Kind: BreakKindLong},
        {StartTime: "5:00 PM", Duration: FormatDurationMinutes(120), Kind: BreakKindRecreation},
      },
    },
    Metadata: WeekMetadata{
      CurrentWeek:    weekIndex,
      TotalWeeks:     totalWeeks,
      WeekProgress:   float64(weekIndex) / float64(totalWeeks) * 100,
      WeeklyHours:    plan.DailyHours * 7,
      StartDate:      start.Format("2006-01-02"),
      EndDate:        end.Format("2006-01-02"),
      Status:         "generated",
      IsRevisionWeek: weekIndex%4 == 0,
      WeekArchetype:  weekArchetype(weekIndex, totalWeeks),
      Source:         string(content.Source),
    },
  }, nil
}

// weekArchetype picks the character of a week. The checks are ordered:
// the first and last weeks override the cyclical rules, every fourth
// week is revision, remaining even weeks lean practice.
func weekArchetype(weekIndex, totalWeeks int) string {
  switch {
  case weekIndex == 1:
    return WeekArchetypeFoundation
  case weekIndex == totalWeeks:
    return WeekArchetypeFinalRevision
  case weekIndex%4 == 0:
    return WeekArchetypeRevision
  case weekIndex%2 == 0:
    return WeekArchetypePractice
  default:
    return WeekArchetypeCoreConcepts
  }
}
