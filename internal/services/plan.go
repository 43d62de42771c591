package services

import (
  "encoding/json"
  "strconv"
  "strings"

  "github.com/google/uuid"

  "github.com/kodywagner/prepflow-backend/internal/types"
)

type TopicKind string

const (
  TopicKindNew      TopicKind = "NEW"
  TopicKindRevision TopicKind = "REVISION"
  TopicKindPractice TopicKind = "PRACTICE"
)

type BreakKind string

const (
  BreakKindShort      BreakKind = "SHORT"
  BreakKindLunch      BreakKind = "LUNCH"
  BreakKindLong       BreakKind = "LONG"
  BreakKindRecreation BreakKind = "RECREATION"
)

const SessionTypeStudy = "STUDY"

type Topic struct {
  Name            string    `json:"name"`
  Kind            TopicKind `json:"type"`
  Difficulty      int       `json:"difficulty"`
  DurationMinutes int       `json:"duration_minutes,omitempty"`
  Prerequisites   []string  `json:"prerequisites,omitempty"`
  Resources       []string  `json:"resources,omitempty"`
}

type Session struct {
  StartTime       string  `json:"start_time"`
  Subject         string  `json:"subject"`
  Topics          []Topic `json:"topics"`
  Type            string  `json:"type"`
  Duration        string  `json:"duration"`
  RecommendedPace string  `json:"recommended_pace"`
}

type Break struct {
  StartTime string    `json:"start_time"`
  Duration  string    `json:"duration"`
  Kind      BreakKind `json:"type"`
}

type DayMetadata struct {
  CurrentDay int     `json:"current_day"`
  TotalDays  int     `json:"total_days"`
  Progress   float64 `json:"progress"`
  DailyHours int     `json:"daily_hours"`
  Status     string  `json:"status"`
  Source     string  `json:"source"`
}

// DayPlan is the composed value for one day, storage-agnostic; the
// persistence layer wraps it into a DaySchedule row.
type DayPlan struct {
  DayIndex     int         `json:"day_index"`
  Focus        string      `json:"focus"`
  Sessions     []Session   `json:"sessions"`
  Breaks       []Break     `json:"breaks"`
  DailyTargets []string    `json:"daily_targets"`
  Metadata     DayMetadata `json:"metadata"`
}

const (
  WeekArchetypeFoundation    = "FOUNDATION"
  WeekArchetypeFinalRevision = "FINAL_REVISION"
  WeekArchetypeRevision      = "REVISION"
  WeekArchetypePractice      = "PRACTICE"
  WeekArchetypeCoreConcepts  = "CORE_CONCEPTS"
)

type DayOutline struct {
  Weekday string `json:"weekday"`
  Subject string `json:"subject"`
  Focus   string `json:"focus"`
  Hours   int    `json:"hours"`
}

type BreaksTemplate struct {
  Daily   []Break `json:"daily"`
  Weekend []Break `json:"weekend"`
}

type WeekMetadata struct {
  CurrentWeek    int     `json:"current_week"`
  TotalWeeks     int     `json:"total_weeks"`
  WeekProgress   float64 `json:"week_progress"`
  WeeklyHours    int     `json:"weekly_hours"`
  StartDate      string  `json:"start_date"`
  EndDate        string  `json:"end_date"`
  Status         string  `json:"status"`
  IsRevisionWeek bool    `json:"is_revision_week"`
  WeekArchetype  string  `json:"week_archetype"`
  Source         string  `json:"source"`
}

type WeekPlan struct {
  WeekIndex      int            `json:"week_index"`
  TotalWeeks     int            `json:"total_weeks"`
  Focus          string         `json:"focus"`
  Days           []DayOutline   `json:"days"`
  WeeklyTargets  []string       `json:"weekly_targets"`
  WeeklyTests    []string       `json:"weekly_tests"`
  BreaksTemplate BreaksTemplate `json:"breaks_template"`
  Metadata       WeekMetadata   `json:"metadata"`
}

// NormalizedPlan is the composition input decoded from a StudyPlan row.
// Decoding is tolerant (bad JSON columns become empty slices); the
// composers do the fail-fast validation so bad input is surfaced at the
// operation that needs the field.
type NormalizedPlan struct {
  ID                 uuid.UUID
  UserID             uuid.UUID
  ExamName           string
  Subjects           []string
  OptionalSubjects   []string
  StudyStyles        []string
  DailyHours         int
  PreferredStartTime string
  AttemptCount       int
  DurationDays       int
}

func (p *NormalizedPlan) TotalWeeks() int {
  if p.DurationDays <= 0 {
    return 1
  }
  return (p.DurationDays + 6) / 7
}

func NormalizePlan(row *types.StudyPlan) *NormalizedPlan {
  if row == nil {
    return nil
  }
  return &NormalizedPlan{
    ID:                 row.ID,
    UserID:             row.UserID,
    ExamName:           row.ExamName,
    Subjects:           decodeStringList(row.Subjects),
    OptionalSubjects:   decodeStringList(row.OptionalSubjects),
    StudyStyles:        decodeStringList(row.StudyStyles),
    DailyHours:         row.DailyHours,
    PreferredStartTime: row.PreferredStartTime,
    AttemptCount:       row.AttemptCount,
    DurationDays:       ParseDurationDays(row.Duration),
  }
}

func decodeStringList(raw []byte) []string {
  if len(raw) == 0 {
    return []string{}
  }
  var out []string
  if err := json.Unmarshal(raw, &out); err != nil {
    return []string{}
  }
  cleaned := make([]string, 0, len(out))
  for _, s := range out {
    if t := strings.TrimSpace(s); t != "" {
      cleaned = append(cleaned, t)
    }
  }
  return cleaned
}

// ParseDurationDays turns a free-text duration ("3 months", "6 weeks",
// "45 days") into a day count. Unrecognized text defaults to 30 days; a
// bare number is read as days.
func ParseDurationDays(text string) int {
  const defaultDays = 30

  fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
  if len(fields) == 0 {
    return defaultDays
  }

  n := 0
  unit := ""
  for i, f := range fields {
    v, err := strconv.Atoi(strings.TrimSpace(f))
    if err != nil || v <= 0 {
      continue
    }
    n = v
    if i+1 < len(fields) {
      unit = fields[i+1]
    }
    break
  }
  if n == 0 {
    return defaultDays
  }

  switch {
  case strings.HasPrefix(unit, "month"):
    return n * 30
  case strings.HasPrefix(unit, "week"):
    return n * 7
  default:
    return n
  }
}
