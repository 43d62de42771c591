package services

import (
  "fmt"
  "time"
)

// Timetable math is pure and clock-based: session and break positions are
// tracked as minutes since midnight, formatted to 12-hour strings at the
// edges. Sessions are laid out strictly sequentially because each start
// time depends on the realized duration of everything before it.

const defaultStartMinutes = 9 * 60 // 09:00

// StartMinutes parses a preferred "HH:MM" start time into minutes since
// midnight, defaulting to 09:00 on missing or malformed input.
func StartMinutes(preferred string) int {
  if preferred == "" {
    return defaultStartMinutes
  }
  t, err := time.Parse("15:04", preferred)
  if err != nil {
    return defaultStartMinutes
  }
  return t.Hour()*60 + t.Minute()
}

// ComputeStartTime formats a preferred "HH:MM" time as a 12-hour clock
// string. It never fails; anything unparseable yields "9:00 AM".
func ComputeStartTime(preferred string) string {
  if preferred == "" {
    return "9:00 AM"
  }
  t, err := time.Parse("15:04", preferred)
  if err != nil {
    return "9:00 AM"
  }
  return t.Format("3:04 PM")
}

// FormatClock renders minutes since midnight as a 12-hour clock string.
func FormatClock(minutes int) string {
  minutes = ((minutes % (24 * 60)) + 24*60) % (24 * 60)
  t := time.Date(2000, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC)
  return t.Format("3:04 PM")
}

// FormatDurationMinutes renders a minute count as "2h", "1h 30m" or "45m".
func FormatDurationMinutes(minutes int) string {
  if minutes < 0 {
    minutes = 0
  }
  h := minutes / 60
  m := minutes % 60
  switch {
  case h > 0 && m > 0:
    return fmt.Sprintf("%dh %dm", h, m)
  case h > 0:
    return fmt.Sprintf("%dh", h)
  default:
    return fmt.Sprintf("%dm", m)
  }
}

// SessionsPerDay is the number of study sessions a day holds: one per two
// daily hours, rounded down. Zero means the day cannot be scheduled.
func SessionsPerDay(dailyHours int) int {
  if dailyHours < 0 {
    return 0
  }
  return dailyHours / 2
}

// AverageSessionMinutes spreads the daily hours evenly across sessions.
func AverageSessionMinutes(dailyHours, sessionCount int) int {
  if sessionCount <= 0 {
    return 0
  }
  return dailyHours * 60 / sessionCount
}

// SessionSpan is the timing skeleton of one laid-out session.
type SessionSpan struct {
  StartMinutes    int
  DurationMinutes int
}

func (s SessionSpan) EndMinutes() int { return s.StartMinutes + s.DurationMinutes }

// LayoutBreaks produces the n-1 inter-session breaks for n sessions. The
// break following session floor(n/2)-1 is the 45-minute lunch; every
// other gap gets a 15-minute short break. Each break starts at its
// preceding session's actual end time.
func LayoutBreaks(spans []SessionSpan) []Break {
  n := len(spans)
  if n < 2 {
    return []Break{}
  }

  lunchIdx := n/2 - 1
  breaks := make([]Break, 0, n-1)
  for i := 0; i < n-1; i++ {
    kind := BreakKindShort
    minutes := 15
    if i == lunchIdx {
      kind = BreakKindLunch
      minutes = 45
    }
    breaks = append(breaks, Break{
      StartTime: FormatClock(spans[i].EndMinutes()),
      Duration:  FormatDurationMinutes(minutes),
      Kind:      kind,
    })
  }
  return breaks
}
