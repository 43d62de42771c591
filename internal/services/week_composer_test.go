package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestWeekComposer(t *testing.T, content ContentService) *weekComposer {
	t.Helper()
	wc := NewWeekComposer(testLogger(t), content).(*weekComposer)
	wc.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	}
	return wc
}

func TestComposeWeek_Basics(t *testing.T) {
	content := &fakeContent{source: GenSourceModel}
	wc := newTestWeekComposer(t, content)

	week, err := wc.ComposeWeek(context.Background(), testPlan(), 5, 20)
	if err != nil {
		t.Fatalf("ComposeWeek: %v", err)
	}

	if week.Focus != "Week focus" {
		t.Fatalf("unexpected focus: %q", week.Focus)
	}
	if len(week.Days) != 7 {
		t.Fatalf("expected 7 day outlines, got %d", len(week.Days))
	}
	if week.Days[0].Weekday != "Monday" || week.Days[0].Subject != "Math" {
		t.Fatalf("unexpected first day: %+v", week.Days[0])
	}
	if week.Days[1].Subject != "Science" || week.Days[2].Subject != "Math" {
		t.Fatalf("expected round-robin subjects, got %+v", week.Days[:3])
	}

	md := week.Metadata
	if md.WeekProgress != 25 {
		t.Fatalf("week progress = %v, want 25", md.WeekProgress)
	}
	if md.IsRevisionWeek {
		t.Fatalf("week 5 should not be a revision week")
	}
	if md.WeekArchetype != WeekArchetypeCoreConcepts {
		t.Fatalf("week 5 archetype = %q, want %q", md.WeekArchetype, WeekArchetypeCoreConcepts)
	}
	if md.WeeklyHours != 42 {
		t.Fatalf("weekly hours = %d, want 42", md.WeeklyHours)
	}
}

func TestComposeWeek_DateMath(t *testing.T) {
	content := &fakeContent{source: GenSourceModel}
	wc := newTestWeekComposer(t, content)

	week, err := wc.ComposeWeek(context.Background(), testPlan(), 3, 8)
	if err != nil {
		t.Fatalf("ComposeWeek: %v", err)
	}
	// Week 3 starts 14 days after the injected now.
	if week.Metadata.StartDate != "2026-03-16" {
		t.Fatalf("start date = %q, want 2026-03-16", week.Metadata.StartDate)
	}
	if week.Metadata.EndDate != "2026-03-22" {
		t.Fatalf("end date = %q, want 2026-03-22", week.Metadata.EndDate)
	}
}

func TestWeekArchetype_Precedence(t *testing.T) {
	tests := []struct {
		week, total int
		want        string
	}{
		{1, 10, WeekArchetypeFoundation},
		{10, 10, WeekArchetypeFinalRevision},
		{4, 10, WeekArchetypeRevision}, // %4 wins over even
		{8, 10, WeekArchetypeRevision},
		{6, 10, WeekArchetypePractice}, // even, not %4
		{5, 10, WeekArchetypeCoreConcepts},
		{4, 4, WeekArchetypeFinalRevision}, // last week wins over %4
		{1, 1, WeekArchetypeFoundation},    // first week wins over last
	}
	for _, tt := range tests {
		if got := weekArchetype(tt.week, tt.total); got != tt.want {
			t.Fatalf("weekArchetype(%d, %d) = %q, want %q", tt.week, tt.total, got, tt.want)
		}
	}
}

func TestComposeWeek_RevisionWeekFlag(t *testing.T) {
	content := &fakeContent{source: GenSourceModel}
	wc := newTestWeekComposer(t, content)

	week, err := wc.ComposeWeek(context.Background(), testPlan(), 4, 10)
	if err != nil {
		t.Fatalf("ComposeWeek: %v", err)
	}
	if !week.Metadata.IsRevisionWeek {
		t.Fatalf("week 4 should be a revision week")
	}
	if week.Metadata.WeekArchetype != WeekArchetypeRevision {
		t.Fatalf("week 4 archetype = %q, want %q", week.Metadata.WeekArchetype, WeekArchetypeRevision)
	}
}

func TestComposeWeek_BreaksTemplate(t *testing.T) {
	content := &fakeContent{source: GenSourceModel}
	wc := newTestWeekComposer(t, content)

	week, err := wc.ComposeWeek(context.Background(), testPlan(), 2, 8)
	if err != nil {
		t.Fatalf("ComposeWeek: %v", err)
	}
	bt := week.BreaksTemplate
	if len(bt.Daily) != 2 || len(bt.Weekend) != 2 {
		t.Fatalf("unexpected template shape: %+v", bt)
	}
	if bt.Daily[1].Kind != BreakKindLunch || bt.Daily[1].Duration != "45m" {
		t.Fatalf("unexpected daily lunch: %+v", bt.Daily[1])
	}
	if bt.Weekend[1].Kind != BreakKindRecreation || bt.Weekend[1].Duration != "2h" {
		t.Fatalf("unexpected weekend recreation: %+v", bt.Weekend[1])
	}
}

func TestComposeWeek_InvalidInput(t *testing.T) {
	content := &fakeContent{source: GenSourceModel}
	wc := newTestWeekComposer(t, content)
	ctx := context.Background()

	tests := []struct {
		name  string
		plan  *NormalizedPlan
		week  int
		total int
	}{
		{"nil plan", nil, 1, 8},
		{"week below range", testPlan(), 0, 8},
		{"week above range", testPlan(), 9, 8},
		{"no subjects", func() *NormalizedPlan { p := testPlan(); p.Subjects = nil; return p }(), 1, 8},
		{"zero daily hours", func() *NormalizedPlan { p := testPlan(); p.DailyHours = 0; return p }(), 1, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := wc.ComposeWeek(ctx, tt.plan, tt.week, tt.total)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestComposeWeek_FallbackSourcePropagates(t *testing.T) {
	content := &fakeContent{source: GenSourceFallback}
	wc := newTestWeekComposer(t, content)

	week, err := wc.ComposeWeek(context.Background(), testPlan(), 2, 8)
	if err != nil {
		t.Fatalf("ComposeWeek: %v", err)
	}
	if week.Metadata.Source != string(GenSourceFallback) {
		t.Fatalf("expected fallback source, got %q", week.Metadata.Source)
	}
}
