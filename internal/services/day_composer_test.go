package services

import (
	"context"
	"errors"
	"testing"
)

type fakeContent struct {
	topics  map[string][]Topic
	targets []string
	source  GenSource
}

func (f *fakeContent) TopicsFor(_ context.Context, _ *NormalizedPlan, subject string, _ int) TopicsResult {
	if ts, ok := f.topics[subject]; ok {
		return TopicsResult{Topics: ts, Source: f.source}
	}
	return TopicsResult{
		Topics: []Topic{{Name: subject + " Basics", Kind: TopicKindNew, Difficulty: 1}},
		Source: GenSourceFallback,
	}
}

func (f *fakeContent) DailyTargetsFor(_ context.Context, _ *NormalizedPlan, _ int) TargetsResult {
	if f.targets == nil {
		return TargetsResult{Targets: []string{"Study Math concepts"}, Source: GenSourceFallback}
	}
	return TargetsResult{Targets: f.targets, Source: f.source}
}

func (f *fakeContent) WeekContentFor(_ context.Context, _ *NormalizedPlan, weekIndex, _ int) WeekContent {
	return WeekContent{
		Focus:         "Week focus",
		WeeklyTargets: []string{"Master Math"},
		WeeklyTests:   []string{},
		Source:        f.source,
	}
}

func (f *fakeContent) PaceFor(topics []Topic) string {
	return "Maintain steady pace"
}

func TestComposeDay_RoundRobinAndLayout(t *testing.T) {
	content := &fakeContent{
		source:  GenSourceModel,
		targets: []string{"Finish chapter 3"},
		topics: map[string][]Topic{
			"Math":    {{Name: "Algebra", Kind: TopicKindNew, Difficulty: 3}},
			"Science": {{Name: "Mechanics", Kind: TopicKindNew, Difficulty: 3}},
		},
	}
	dc := NewDayComposer(testLogger(t), content)

	plan := testPlan() // 2 subjects, 6 daily hours
	plan.PreferredStartTime = "09:00"
	day, err := dc.ComposeDay(context.Background(), plan, 1, plan.DurationDays)
	if err != nil {
		t.Fatalf("ComposeDay: %v", err)
	}

	if len(day.Sessions) != 3 {
		t.Fatalf("expected 3 sessions for 6 daily hours, got %d", len(day.Sessions))
	}
	wantSubjects := []string{"Math", "Science", "Math"}
	for i, want := range wantSubjects {
		if day.Sessions[i].Subject != want {
			t.Fatalf("session %d subject = %q, want %q", i, day.Sessions[i].Subject, want)
		}
	}

	// Topics carry no explicit duration, so each session runs the
	// 2-hour average and starts where the previous one ended.
	wantStarts := []string{"9:00 AM", "11:00 AM", "1:00 PM"}
	for i, want := range wantStarts {
		if day.Sessions[i].StartTime != want {
			t.Fatalf("session %d start = %q, want %q", i, day.Sessions[i].StartTime, want)
		}
	}

	if len(day.Breaks) != 2 {
		t.Fatalf("expected 2 breaks, got %d", len(day.Breaks))
	}
	if day.Breaks[0].Kind != BreakKindLunch {
		t.Fatalf("expected first break to be lunch, got %q", day.Breaks[0].Kind)
	}

	if day.Focus != "Day 1: Math" {
		t.Fatalf("unexpected focus: %q", day.Focus)
	}
	if day.Metadata.Source != string(GenSourceModel) {
		t.Fatalf("expected model source, got %q", day.Metadata.Source)
	}
	if day.Metadata.TotalDays != 60 || day.Metadata.CurrentDay != 1 {
		t.Fatalf("unexpected metadata: %+v", day.Metadata)
	}
}

func TestComposeDay_RealizedDurationsShiftStarts(t *testing.T) {
	content := &fakeContent{
		source:  GenSourceModel,
		targets: []string{"t"},
		topics: map[string][]Topic{
			"Math":    {{Name: "Algebra", DurationMinutes: 90}, {Name: "Calculus", DurationMinutes: 60}},
			"Science": {{Name: "Mechanics", DurationMinutes: 120}},
		},
	}
	dc := NewDayComposer(testLogger(t), content)

	plan := testPlan()
	plan.PreferredStartTime = "09:00"
	day, err := dc.ComposeDay(context.Background(), plan, 2, plan.DurationDays)
	if err != nil {
		t.Fatalf("ComposeDay: %v", err)
	}

	// Math runs 150m, so Science starts at 11:30 and the second Math
	// session at 13:30.
	if day.Sessions[0].Duration != "2h 30m" {
		t.Fatalf("session 0 duration = %q, want 2h 30m", day.Sessions[0].Duration)
	}
	if day.Sessions[1].StartTime != "11:30 AM" {
		t.Fatalf("session 1 start = %q, want 11:30 AM", day.Sessions[1].StartTime)
	}
	if day.Sessions[2].StartTime != "1:30 PM" {
		t.Fatalf("session 2 start = %q, want 1:30 PM", day.Sessions[2].StartTime)
	}
	// Break after session 0 sits at its realized end.
	if day.Breaks[0].StartTime != "11:30 AM" {
		t.Fatalf("break 0 start = %q, want 11:30 AM", day.Breaks[0].StartTime)
	}
}

func TestComposeDay_FallbackTaintsSource(t *testing.T) {
	// No topics configured: every subject takes the fallback path.
	content := &fakeContent{source: GenSourceModel, targets: []string{"t"}}
	dc := NewDayComposer(testLogger(t), content)

	day, err := dc.ComposeDay(context.Background(), testPlan(), 1, 60)
	if err != nil {
		t.Fatalf("ComposeDay: %v", err)
	}
	if day.Metadata.Source != string(GenSourceFallback) {
		t.Fatalf("expected fallback source, got %q", day.Metadata.Source)
	}
}

func TestComposeDay_InvalidInput(t *testing.T) {
	content := &fakeContent{source: GenSourceModel}
	dc := NewDayComposer(testLogger(t), content)
	ctx := context.Background()

	tests := []struct {
		name string
		plan *NormalizedPlan
		day  int
	}{
		{"nil plan", nil, 1},
		{"day below range", testPlan(), 0},
		{"day above range", testPlan(), 61},
		{"no subjects", func() *NormalizedPlan { p := testPlan(); p.Subjects = nil; return p }(), 1},
		{"zero daily hours", func() *NormalizedPlan { p := testPlan(); p.DailyHours = 0; return p }(), 1},
		{"one hour too few for a session", func() *NormalizedPlan { p := testPlan(); p.DailyHours = 1; return p }(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dc.ComposeDay(ctx, tt.plan, tt.day, 60)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
