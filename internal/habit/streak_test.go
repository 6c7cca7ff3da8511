package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyCompletionBelowMultiplierThreshold(t *testing.T) {
	yesterday := date(2024, time.March, 4)
	s := Stats{TotalPoints: 500, CurrentStreak: 6, LongestStreak: 6, LastCompletionDate: &yesterday}

	s, xp := ApplyCompletion(s, date(2024, time.March, 5))

	// Streak 6 pays the sub-7 rate even though the streak becomes 7.
	assert.Equal(t, 10, xp)
	assert.Equal(t, 510, s.TotalPoints)
	assert.Equal(t, 7, s.CurrentStreak)
	assert.Equal(t, 7, s.LongestStreak)
}

func TestApplyCompletionAtSevenDayStreak(t *testing.T) {
	yesterday := date(2024, time.March, 4)
	s := Stats{CurrentStreak: 7, LongestStreak: 7, LastCompletionDate: &yesterday}

	s, xp := ApplyCompletion(s, date(2024, time.March, 5))

	assert.Equal(t, 15, xp)
	assert.Equal(t, 8, s.CurrentStreak)
}

func TestSameDayCompletionsDoNotStackStreak(t *testing.T) {
	today := date(2024, time.March, 5)
	s := Stats{CurrentStreak: 4, LongestStreak: 4, LastCompletionDate: &today}

	s, xp := ApplyCompletion(s, today)

	// Points still accrue, the streak does not.
	assert.Equal(t, 13, xp)
	assert.Equal(t, 4, s.CurrentStreak)
}

func TestStreakResetsAfterGap(t *testing.T) {
	lastWeek := date(2024, time.March, 1)
	s := Stats{CurrentStreak: 12, LongestStreak: 12, LastCompletionDate: &lastWeek}

	s, xp := ApplyCompletion(s, date(2024, time.March, 5))

	// The stored 12-day streak died with the gap, so the comeback
	// completion pays the base rate, not the 14-day multiplier.
	assert.Equal(t, 10, xp)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 12, s.LongestStreak, "longest streak is a high-water mark")
}

func TestBrokenStreakPricesAtBaseRateWithoutPriorReset(t *testing.T) {
	// No read path has rolled the streak over; ApplyCompletion must not
	// trust the stale stored value when pricing.
	weekAgo := date(2024, time.February, 27)
	for _, stale := range []int{3, 7, 12, 30} {
		s := Stats{CurrentStreak: stale, LongestStreak: stale, LastCompletionDate: &weekAgo}
		_, xp := ApplyCompletion(s, date(2024, time.March, 5))
		assert.Equal(t, 10, xp, "stale streak %d", stale)
	}
}

func TestFirstEverCompletion(t *testing.T) {
	s, xp := ApplyCompletion(Stats{}, date(2024, time.March, 5))
	assert.Equal(t, 10, xp)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
	assert.NotNil(t, s.LastCompletionDate)
}

func TestApplyCompletionRecomputesLevel(t *testing.T) {
	s := Stats{TotalPoints: 95}
	s, _ = ApplyCompletion(s, date(2024, time.March, 5))
	assert.Equal(t, 105, s.TotalPoints)
	assert.Equal(t, 2, s.Level)
}

func TestAddPoints(t *testing.T) {
	s := AddPoints(Stats{TotalPoints: 90}, 25)
	assert.Equal(t, 115, s.TotalPoints)
	assert.Equal(t, 2, s.Level)

	// Points are monotonic: zero and negative awards are ignored.
	s = AddPoints(s, 0)
	s = AddPoints(s, -50)
	assert.Equal(t, 115, s.TotalPoints)
}

func TestRollOver(t *testing.T) {
	yesterday := date(2024, time.March, 4)
	today := date(2024, time.March, 5)

	s := RollOver(Stats{CurrentStreak: 5, LastCompletionDate: &yesterday}, today)
	assert.Equal(t, 5, s.CurrentStreak, "yesterday's completion keeps the streak alive")

	twoDaysAgo := date(2024, time.March, 3)
	s = RollOver(Stats{CurrentStreak: 5, LastCompletionDate: &twoDaysAgo}, today)
	assert.Equal(t, 0, s.CurrentStreak)

	s = RollOver(Stats{CurrentStreak: 3}, today)
	assert.Equal(t, 0, s.CurrentStreak, "no recorded completion means no streak")
}

func TestDayHelpers(t *testing.T) {
	a := time.Date(2024, time.March, 5, 23, 50, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 6, 0, 10, 0, 0, time.UTC)
	assert.False(t, SameDay(a, b))
	assert.Equal(t, 1, DaysBetween(a, b))
	assert.Equal(t, -1, DaysBetween(b, a))
	assert.True(t, SameDay(a, a.Add(5*time.Minute)))
}
