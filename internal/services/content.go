package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/kodywagner/prepflow-backend/internal/logger"
  "github.com/kodywagner/prepflow-backend/internal/repos"
  "github.com/kodywagner/prepflow-backend/internal/types"
)

// GenSource tags where a generated value came from, so the
// recoverable-failure policy is visible in data instead of implicit in
// control flow: "model" is real output, "fallback" is the deterministic
// substitute.
type GenSource string

const (
  GenSourceModel    GenSource = "model"
  GenSourceFallback GenSource = "fallback"
)

type TopicsResult struct {
  Topics []Topic
  Source GenSource
}

type TargetsResult struct {
  Targets []string
  Source  GenSource
}

type WeekContent struct {
  Focus         string
  WeeklyTargets []string
  WeeklyTests   []string
  Source        GenSource
}

// ContentService mediates every call to the text-generation collaborator.
// No method returns an error: transport, parse and schema failures all
// degrade to deterministic fallbacks, and every attempt is written to the
// AI call log.
type ContentService interface {
  TopicsFor(ctx context.Context, plan *NormalizedPlan, subject string, dayIndex int) TopicsResult
  DailyTargetsFor(ctx context.Context, plan *NormalizedPlan, dayIndex int) TargetsResult
  WeekContentFor(ctx context.Context, plan *NormalizedPlan, weekIndex, totalWeeks int) WeekContent
  PaceFor(topics []Topic) string
}

type contentService struct {
  db          *gorm.DB
  log         *logger.Logger
  ai          TextGenClient
  callLogRepo repos.AICallLogRepo
}

// NewContentService accepts a nil TextGenClient; every request then takes
// the fallback path, which keeps plan delivery working without the
// external API.
func NewContentService(db *gorm.DB, baseLog *logger.Logger, ai TextGenClient, callLogRepo repos.AICallLogRepo) ContentService {
  return &contentService{
    db:          db,
    log:         baseLog.With("service", "ContentService"),
    ai:          ai,
    callLogRepo: callLogRepo,
  }
}

func (cs *contentService) TopicsFor(ctx context.Context, plan *NormalizedPlan, subject string, dayIndex int) TopicsResult {
  fallback := TopicsResult{
    Topics: []Topic{{Name: subject + " Basics", Kind: TopicKindNew, Difficulty: 1}},
    Source: GenSourceFallback,
  }
  if cs.ai == nil || plan == nil {
    return fallback
  }

  schema := map[string]any{
    "type": "object",
    "properties": map[string]any{
      "topics": map[string]any{
        "type": "array",
        "items": map[string]any{
          "type": "object",
          "properties": map[string]any{
            "name":       map[string]any{"type": "string"},
            "type":       map[string]any{"type": "string", "enum": []string{"NEW", "REVISION", "PRACTICE"}},
            "difficulty": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
          },
          "required":             []string{"name", "type", "difficulty"},
          "additionalProperties": false,
        },
      },
    },
    "required":             []string{"topics"},
    "additionalProperties": false,
  }

  prompt := fmt.Sprintf(
    "Exam: %s\nSubject: %s\nStudy day: %d of %d\nStudy styles: %s\n\nList 2-4 focused study topics for this session, ordered by priority.",
    plan.ExamName, subject, dayIndex, plan.DurationDays, strings.Join(plan.StudyStyles, ", "),
  )

  start := time.Now()
  obj, err := cs.ai.GenerateJSON(ctx,
    "You plan exam preparation. You return focused, concrete study topics for a single session.",
    prompt,
    "session_topics",
    schema,
  )
  if err != nil {
    cs.recordCall(ctx, plan, "session_topics", prompt, "", false, err.Error(), time.Since(start))
    cs.log.Error("TopicsFor generation failed, using fallback", "error", err, "subject", subject, "day", dayIndex)
    return fallback
  }

  raw, _ := obj["topics"].([]any)
  topics := make([]Topic, 0, len(raw))
  for _, item := range raw {
    m, ok := item.(map[string]any)
    if !ok {
      continue
    }
    name := strings.TrimSpace(fmt.Sprint(m["name"]))
    if name == "" || name == "<nil>" {
      continue
    }
    topics = append(topics, Topic{
      Name:       name,
      Kind:       topicKindFromAny(m["type"]),
      Difficulty: clampDifficulty(intFromAny(m["difficulty"], 3)),
    })
  }
  if len(topics) == 0 {
    cs.recordCall(ctx, plan, "session_topics", prompt, fmt.Sprint(obj), false, "empty topics array", time.Since(start))
    return fallback
  }

  cs.recordCall(ctx, plan, "session_topics", prompt, mustJSONString(topics), true, "", time.Since(start))
  return TopicsResult{Topics: topics, Source: GenSourceModel}
}

func (cs *contentService) DailyTargetsFor(ctx context.Context, plan *NormalizedPlan, dayIndex int) TargetsResult {
  first := "core"
  if plan != nil && len(plan.Subjects) > 0 {
    first = plan.Subjects[0]
  }
  fallback := TargetsResult{
    Targets: []string{fmt.Sprintf("Study %s concepts", first)},
    Source:  GenSourceFallback,
  }
  if cs.ai == nil || plan == nil {
    return fallback
  }

  prompt := fmt.Sprintf(
    "Exam: %s\nSubjects: %s\nStudy day: %d of %d\nDaily hours: %d\n\nGive 3-5 achievable targets for this study day as a JSON array of strings.",
    plan.ExamName, strings.Join(plan.Subjects, ", "), dayIndex, plan.DurationDays, plan.DailyHours,
  )

  start := time.Now()
  text, err := cs.ai.GenerateText(ctx,
    "You set realistic daily study targets. Keep each target short and actionable.",
    prompt,
    0.7,
  )
  if err != nil || strings.TrimSpace(text) == "" {
    errMsg := "empty response"
    if err != nil {
      errMsg = err.Error()
    }
    cs.recordCall(ctx, plan, "daily_targets", prompt, "", false, errMsg, time.Since(start))
    cs.log.Error("DailyTargetsFor generation failed, using fallback", "error", errMsg, "day", dayIndex)
    return fallback
  }

  targets := parseTargets(text)
  if len(targets) == 0 {
    cs.recordCall(ctx, plan, "daily_targets", prompt, text, false, "no parseable targets", time.Since(start))
    return fallback
  }

  cs.recordCall(ctx, plan, "daily_targets", prompt, text, true, "", time.Since(start))
  return TargetsResult{Targets: targets, Source: GenSourceModel}
}

func (cs *contentService) WeekContentFor(ctx context.Context, plan *NormalizedPlan, weekIndex, totalWeeks int) WeekContent {
  first := "core"
  if plan != nil && len(plan.Subjects) > 0 {
    first = plan.Subjects[0]
  }
  fallback := WeekContent{
    Focus:         fmt.Sprintf("Week %d Core Studies", weekIndex),
    WeeklyTargets: []string{fmt.Sprintf("Master %s", first)},
    WeeklyTests:   []string{},
    Source:        GenSourceFallback,
  }
  if cs.ai == nil || plan == nil {
    return fallback
  }

  schema := map[string]any{
    "type": "object",
    "properties": map[string]any{
      "focus":          map[string]any{"type": "string"},
      "weekly_targets": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
      "weekly_tests":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
    },
    "required":             []string{"focus", "weekly_targets", "weekly_tests"},
    "additionalProperties": false,
  }

  prompt := fmt.Sprintf(
    "Exam: %s\nSubjects: %s\nWeek: %d of %d\nDaily hours: %d\n\nReturn the week's focus, 3-5 weekly targets, and 1-2 self-assessments.",
    plan.ExamName, strings.Join(plan.Subjects, ", "), weekIndex, totalWeeks, plan.DailyHours,
  )

  start := time.Now()
  obj, err := cs.ai.GenerateJSON(ctx,
    "You plan exam preparation at week granularity: one clear focus, concrete targets, light assessment.",
    prompt,
    "week_content",
    schema,
  )
  if err != nil {
    cs.recordCall(ctx, plan, "week_content", prompt, "", false, err.Error(), time.Since(start))
    cs.log.Error("WeekContentFor generation failed, using fallback", "error", err, "week", weekIndex)
    return fallback
  }

  focus := strings.TrimSpace(fmt.Sprint(obj["focus"]))
  targets := toStringSlice(obj["weekly_targets"])
  if focus == "" || focus == "<nil>" || len(targets) == 0 {
    cs.recordCall(ctx, plan, "week_content", prompt, fmt.Sprint(obj), false, "missing focus or targets", time.Since(start))
    return fallback
  }

  cs.recordCall(ctx, plan, "week_content", prompt, mustJSONString(obj), true, "", time.Since(start))
  return WeekContent{
    Focus:         focus,
    WeeklyTargets: targets,
    WeeklyTests:   toStringSlice(obj["weekly_tests"]),
    Source:        GenSourceModel,
  }
}

// PaceFor is the deterministic pace heuristic: average topic difficulty
// (3 when a topic carries none) maps to a pacing recommendation.
func (cs *contentService) PaceFor(topics []Topic) string {
  if len(topics) == 0 {
    return "Maintain steady pace"
  }
  sum := 0
  for _, t := range topics {
    d := t.Difficulty
    if d == 0 {
      d = 3
    }
    sum += d
  }
  avg := float64(sum) / float64(len(topics))
  switch {
  case avg >= 4:
    return "Take extra time"
  case avg >= 3:
    return "Maintain steady pace"
  default:
    return "Proceed quickly"
  }
}

func (cs *contentService) recordCall(ctx context.Context, plan *NormalizedPlan, callType, prompt, response string, success bool, errMsg string, latency time.Duration) {
  if cs.callLogRepo == nil {
    return
  }
  model := ""
  if cs.ai != nil {
    model = cs.ai.Model()
  }
  now := time.Now()
  row := &types.AICallLog{
    ID:        uuid.New(),
    CallType:  callType,
    Model:     model,
    Prompt:    prompt,
    Response:  response,
    Success:   success,
    Error:     errMsg,
    LatencyMS: latency.Milliseconds(),
    CreatedAt: now,
    UpdatedAt: now,
  }
  if plan != nil {
    planID := plan.ID
    userID := plan.UserID
    row.StudyPlanID = &planID
    row.UserID = &userID
  }
  if _, err := cs.callLogRepo.Create(ctx, nil, []*types.AICallLog{row}); err != nil {
    cs.log.Warn("Failed to record AI call", "error", err, "call_type", callType)
  }
}

// parseTargets tries a strict JSON string-array parse first, then falls
// back to splitting the response into non-empty trimmed lines, capped at
// five with list markers stripped.
func parseTargets(text string) []string {
  trimmed := strings.TrimSpace(text)

  var arr []string
  if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
    out := make([]string, 0, len(arr))
    for _, s := range arr {
      if t := strings.TrimSpace(s); t != "" {
        out = append(out, t)
      }
    }
    if len(out) > 5 {
      out = out[:5]
    }
    return out
  }

  lines := strings.Split(trimmed, "\n")
  out := make([]string, 0, len(lines))
  for _, line := range lines {
    t := strings.TrimSpace(line)
    t = strings.TrimLeft(t, "-*• \t")
    t = strings.TrimSpace(strings.TrimLeft(t, "0123456789.)"))
    if t == "" {
      continue
    }
    out = append(out, t)
    if len(out) == 5 {
      break
    }
  }
  return out
}

func topicKindFromAny(v any) TopicKind {
  switch strings.ToUpper(strings.TrimSpace(fmt.Sprint(v))) {
  case "REVISION":
    return TopicKindRevision
  case "PRACTICE":
    return TopicKindPractice
  default:
    return TopicKindNew
  }
}

func clampDifficulty(d int) int {
  if d < 1 {
    return 1
  }
  if d > 5 {
    return 5
  }
  return d
}

func mustJSON(v any) []byte {
  b, _ := json.Marshal(v)
  return b
}

func mustJSONString(v any) string {
  return string(mustJSON(v))
}

func toStringSlice(v any) []string {
  if v == nil {
    return []string{}
  }
  a, ok := v.([]any)
  if !ok {
    if ss, ok2 := v.([]string); ok2 {
      return ss
    }
    return []string{}
  }
  out := make([]string, 0, len(a))
  for _, x := range a {
    s := strings.TrimSpace(fmt.Sprint(x))
    if s != "" {
      out = append(out, s)
    }
  }
  return out
}

func intFromAny(v any, def int) int {
  switch t := v.(type) {
  case int:
    return t
  case float64:
    return int(t)
  case json.Number:
    i, _ := t.Int64()
    return int(i)
  default:
    return def
  }
}
