package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kodywagner/prepflow-backend/internal/logger"
)

type fakeTextGen struct {
	jsonResult map[string]any
	jsonErr    error
	textResult string
	textErr    error

	jsonCalls int
	textCalls int
}

func (f *fakeTextGen) GenerateJSON(_ context.Context, _, _, _ string, _ map[string]any) (map[string]any, error) {
	f.jsonCalls++
	return f.jsonResult, f.jsonErr
}

func (f *fakeTextGen) GenerateText(_ context.Context, _, _ string, _ float64) (string, error) {
	f.textCalls++
	return f.textResult, f.textErr
}

func (f *fakeTextGen) Model() string { return "fake-model" }

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func testPlan() *NormalizedPlan {
	return &NormalizedPlan{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		ExamName:     "Final Exam",
		Subjects:     []string{"Math", "Science"},
		StudyStyles:  []string{"visual"},
		DailyHours:   6,
		DurationDays: 60,
	}
}

func newTestContent(t *testing.T, ai TextGenClient) ContentService {
	t.Helper()
	return NewContentService(nil, testLogger(t), ai, nil)
}

func TestTopicsFor_ModelSuccess(t *testing.T) {
	ai := &fakeTextGen{jsonResult: map[string]any{
		"topics": []any{
			map[string]any{"name": "Algebra", "type": "NEW", "difficulty": float64(4)},
			map[string]any{"name": "Geometry review", "type": "REVISION", "difficulty": float64(9)},
		},
	}}
	cs := newTestContent(t, ai)

	res := cs.TopicsFor(context.Background(), testPlan(), "Math", 1)
	if res.Source != GenSourceModel {
		t.Fatalf("expected model source, got %q", res.Source)
	}
	if len(res.Topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(res.Topics))
	}
	if res.Topics[0].Name != "Algebra" || res.Topics[0].Kind != TopicKindNew {
		t.Fatalf("unexpected first topic: %+v", res.Topics[0])
	}
	if res.Topics[1].Difficulty != 5 {
		t.Fatalf("expected difficulty clamped to 5, got %d", res.Topics[1].Difficulty)
	}
}

func TestTopicsFor_FailureFallsBack(t *testing.T) {
	ai := &fakeTextGen{jsonErr: errors.New("boom")}
	cs := newTestContent(t, ai)

	res := cs.TopicsFor(context.Background(), testPlan(), "Math", 1)
	if res.Source != GenSourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
	if len(res.Topics) != 1 {
		t.Fatalf("expected single fallback topic, got %d", len(res.Topics))
	}
	got := res.Topics[0]
	if got.Name != "Math Basics" || got.Kind != TopicKindNew || got.Difficulty != 1 {
		t.Fatalf("unexpected fallback topic: %+v", got)
	}
}

func TestTopicsFor_EmptyListFallsBack(t *testing.T) {
	ai := &fakeTextGen{jsonResult: map[string]any{"topics": []any{}}}
	cs := newTestContent(t, ai)

	res := cs.TopicsFor(context.Background(), testPlan(), "Science", 2)
	if res.Source != GenSourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
	if res.Topics[0].Name != "Science Basics" {
		t.Fatalf("unexpected fallback topic name: %q", res.Topics[0].Name)
	}
}

func TestTopicsFor_NilClientFallsBack(t *testing.T) {
	cs := newTestContent(t, nil)

	res := cs.TopicsFor(context.Background(), testPlan(), "Math", 1)
	if res.Source != GenSourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
}

func TestDailyTargetsFor_JSONArray(t *testing.T) {
	ai := &fakeTextGen{textResult: `["Finish chapter 3", "Solve 20 problems"]`}
	cs := newTestContent(t, ai)

	res := cs.DailyTargetsFor(context.Background(), testPlan(), 1)
	if res.Source != GenSourceModel {
		t.Fatalf("expected model source, got %q", res.Source)
	}
	if len(res.Targets) != 2 || res.Targets[0] != "Finish chapter 3" {
		t.Fatalf("unexpected targets: %v", res.Targets)
	}
}

func TestDailyTargetsFor_LineSplit(t *testing.T) {
	ai := &fakeTextGen{textResult: "- Finish chapter 3\n* Solve 20 problems\n1. Review notes\n\n"}
	cs := newTestContent(t, ai)

	res := cs.DailyTargetsFor(context.Background(), testPlan(), 1)
	if res.Source != GenSourceModel {
		t.Fatalf("expected model source, got %q", res.Source)
	}
	want := []string{"Finish chapter 3", "Solve 20 problems", "Review notes"}
	if len(res.Targets) != len(want) {
		t.Fatalf("expected %d targets, got %v", len(want), res.Targets)
	}
	for i := range want {
		if res.Targets[i] != want[i] {
			t.Fatalf("target %d = %q, want %q", i, res.Targets[i], want[i])
		}
	}
}

func TestDailyTargetsFor_CapsAtFive(t *testing.T) {
	ai := &fakeTextGen{textResult: "a\nb\nc\nd\ne\nf\ng"}
	cs := newTestContent(t, ai)

	res := cs.DailyTargetsFor(context.Background(), testPlan(), 1)
	if len(res.Targets) != 5 {
		t.Fatalf("expected 5 targets, got %d", len(res.Targets))
	}
}

func TestDailyTargetsFor_FailureFallsBack(t *testing.T) {
	ai := &fakeTextGen{textErr: errors.New("boom")}
	cs := newTestContent(t, ai)

	res := cs.DailyTargetsFor(context.Background(), testPlan(), 1)
	if res.Source != GenSourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
	if len(res.Targets) != 1 || res.Targets[0] != "Study Math concepts" {
		t.Fatalf("unexpected fallback targets: %v", res.Targets)
	}
}

func TestDailyTargetsFor_NoSubjectsUsesCore(t *testing.T) {
	ai := &fakeTextGen{textErr: errors.New("boom")}
	cs := newTestContent(t, ai)

	plan := testPlan()
	plan.Subjects = nil
	res := cs.DailyTargetsFor(context.Background(), plan, 1)
	if res.Targets[0] != "Study core concepts" {
		t.Fatalf("unexpected fallback target: %q", res.Targets[0])
	}
}

func TestWeekContentFor_ModelSuccess(t *testing.T) {
	ai := &fakeTextGen{jsonResult: map[string]any{
		"focus":          "Mechanics deep dive",
		"weekly_targets": []any{"Master kinematics", "Finish problem set"},
		"weekly_tests":   []any{"Friday mock test"},
	}}
	cs := newTestContent(t, ai)

	res := cs.WeekContentFor(context.Background(), testPlan(), 2, 8)
	if res.Source != GenSourceModel {
		t.Fatalf("expected model source, got %q", res.Source)
	}
	if res.Focus != "Mechanics deep dive" {
		t.Fatalf("unexpected focus: %q", res.Focus)
	}
	if len(res.WeeklyTargets) != 2 || len(res.WeeklyTests) != 1 {
		t.Fatalf("unexpected targets/tests: %v / %v", res.WeeklyTargets, res.WeeklyTests)
	}
}

func TestWeekContentFor_FailureFallsBack(t *testing.T) {
	ai := &fakeTextGen{jsonErr: errors.New("boom")}
	cs := newTestContent(t, ai)

	res := cs.WeekContentFor(context.Background(), testPlan(), 3, 8)
	if res.Source != GenSourceFallback {
		t.Fatalf("expected fallback source, got %q", res.Source)
	}
	if res.Focus != "Week 3 Core Studies" {
		t.Fatalf("unexpected fallback focus: %q", res.Focus)
	}
	if len(res.WeeklyTargets) != 1 || res.WeeklyTargets[0] != "Master Math" {
		t.Fatalf("unexpected fallback targets: %v", res.WeeklyTargets)
	}
	if len(res.WeeklyTests) != 0 {
		t.Fatalf("expected empty fallback tests, got %v", res.WeeklyTests)
	}
}

func TestPaceFor(t *testing.T) {
	tests := []struct {
		name   string
		topics []Topic
		want   string
	}{
		{"empty defaults steady", nil, "Maintain steady pace"},
		{"hard topics slow down", []Topic{{Difficulty: 4}, {Difficulty: 5}}, "Take extra time"},
		{"medium topics steady", []Topic{{Difficulty: 3}, {Difficulty: 3}}, "Maintain steady pace"},
		{"easy topics speed up", []Topic{{Difficulty: 1}, {Difficulty: 2}}, "Proceed quickly"},
		{"missing difficulty counts as three", []Topic{{}, {}}, "Maintain steady pace"},
	}
	cs := newTestContent(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cs.PaceFor(tt.topics); got != tt.want {
				t.Fatalf("PaceFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTargets_StripsListMarkers(t *testing.T) {
	got := parseTargets("1. First thing\n2) Second thing\n- Third")
	if len(got) != 3 {
		t.Fatalf("expected 3 targets, got %v", got)
	}
	if got[0] != "First thing" {
		t.Fatalf("unexpected first target: %q", got[0])
	}
}
