package habit

import "time"

// Stats is the mutable gamification state carried on the user row.
type Stats struct {
	TotalPoints        int
	CurrentStreak      int
	LongestStreak      int
	Level              int
	LastCompletionDate *time.Time
}

// ApplyCompletion folds one completed habit log for calendar day `day`
// into the stats and returns the XP awarded. A stored streak that is
// already dead (last completion more than one day back) is rolled over to
// 0 first, so a comeback after a gap pays the base rate regardless of
// whether any read path happened to reset it earlier. The multiplier is
// then read from the streak as it stands before the day's increment, so
// completing at a 6-day streak pays the sub-7 rate even though the streak
// becomes 7. Points never decrease here; unchecking a habit goes through
// nothing.
func ApplyCompletion(s Stats, day time.Time) (Stats, int) {
	s = RollOver(s, day)
	xp := CompletionXP(s.CurrentStreak)
	s.TotalPoints += xp
	s = advanceStreak(s, day)
	s.Level = Level(s.TotalPoints)
	return s, xp
}

// AddPoints credits a flat award (focus sessions, badge rewards) without
// touching the streak.
func AddPoints(s Stats, points int) Stats {
	if points <= 0 {
		return s
	}
	s.TotalPoints += points
	s.Level = Level(s.TotalPoints)
	return s
}

// RollOver applies the daily-boundary rule for a user who has logged
// nothing: if more than one full calendar day has passed since the last
// completion, the streak resets to 0. Run once per user per day (a read
// path is enough; the check is idempotent).
func RollOver(s Stats, today time.Time) Stats {
	if s.LastCompletionDate == nil {
		s.CurrentStreak = 0
		return s
	}
	if DaysBetween(*s.LastCompletionDate, today) > 1 {
		s.CurrentStreak = 0
	}
	return s
}

func advanceStreak(s Stats, day time.Time) Stats {
	switch {
	case s.LastCompletionDate == nil:
		s.CurrentStreak = 1
	case SameDay(*s.LastCompletionDate, day):
		// Already counted today; additional completions don't stack.
	case DaysBetween(*s.LastCompletionDate, day) == 1:
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	d := DateOnly(day)
	s.LastCompletionDate = &d
	return s
}

// DateOnly truncates to a date-only value in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether two instants fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b))
}

// DaysBetween is the whole-day distance from a to b (negative when b is
// earlier).
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
