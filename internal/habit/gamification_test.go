package habit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"habitoid/internal/models"
)

func TestXPMultiplierBoundaries(t *testing.T) {
	cases := map[int]float64{
		0: 1.0, 2: 1.0, 3: 1.25, 6: 1.25, 7: 1.5, 13: 1.5,
		14: 1.75, 29: 1.75, 30: 2.0, 100: 2.0,
	}
	for streak, want := range cases {
		assert.Equal(t, want, XPMultiplier(streak), "streak %d", streak)
	}
}

func TestCompletionXP(t *testing.T) {
	assert.Equal(t, 10, CompletionXP(0))
	assert.Equal(t, 10, CompletionXP(2))
	assert.Equal(t, 13, CompletionXP(3)) // round(12.5)
	assert.Equal(t, 15, CompletionXP(7))
	assert.Equal(t, 18, CompletionXP(14)) // round(17.5)
	assert.Equal(t, 20, CompletionXP(30))
}

func TestFocusPoints(t *testing.T) {
	assert.Equal(t, 25, FocusPoints(models.SessionFocus, 25, true))
	assert.Equal(t, 50, FocusPoints(models.SessionFocus, 50, true))
	assert.Equal(t, 0, FocusPoints(models.SessionFocus, 25, false))
	assert.Equal(t, 0, FocusPoints(models.SessionShortBreak, 5, true))
	assert.Equal(t, 0, FocusPoints(models.SessionLongBreak, 15, true))
	assert.Equal(t, 0, FocusPoints(models.SessionFocus, -10, true))
}

func TestLevelThresholds(t *testing.T) {
	// 100 to reach level 2, +110 for 3 (210 total), +121 for 4 (331).
	assert.Equal(t, 1, Level(0))
	assert.Equal(t, 1, Level(99))
	assert.Equal(t, 2, Level(100))
	assert.Equal(t, 2, Level(209))
	assert.Equal(t, 3, Level(210))
	assert.Equal(t, 3, Level(330))
	assert.Equal(t, 4, Level(331))
}

func TestLevelMonotonic(t *testing.T) {
	prev := Level(0)
	for p := 1; p <= 5000; p++ {
		cur := Level(p)
		assert.GreaterOrEqual(t, cur, prev, "points %d", p)
		prev = cur
	}
}

func TestLevelProgress(t *testing.T) {
	current, needed, percent := LevelProgress(0)
	assert.Equal(t, 0, current)
	assert.Equal(t, 100, needed)
	assert.Equal(t, 0, percent)

	current, needed, percent = LevelProgress(150)
	assert.Equal(t, 50, current)
	assert.Equal(t, 110, needed)
	assert.Equal(t, 45, percent)
}

func TestEvolutionLadder(t *testing.T) {
	assert.Equal(t, "Baby Slash", EvolutionFor(0).Name)
	assert.Equal(t, "Baby Slash", EvolutionFor(499).Name)
	assert.Equal(t, "Spark Slash", EvolutionFor(500).Name)
	assert.Equal(t, "Thunder Slash", EvolutionFor(10000).Name)
	assert.Equal(t, "Thunder Slash", EvolutionFor(999999).Name)
}

func TestNextEvolutionProgress(t *testing.T) {
	next, progress := NextEvolution(250)
	assert.NotNil(t, next)
	assert.Equal(t, "Spark Slash", next.Name)
	assert.Equal(t, 50, progress)

	next, progress = NextEvolution(500)
	assert.Equal(t, "Bolt Slash", next.Name)
	assert.Equal(t, 0, progress)

	// Top of the ladder: no next tier.
	next, progress = NextEvolution(20000)
	assert.Nil(t, next)
	assert.Equal(t, 100, progress)
}

func TestBadgeProgress(t *testing.T) {
	streakBadge := models.Badge{ID: "streak_7", Type: "streak", Requirement: 7}

	assert.Equal(t, 100.0, BadgeProgress(streakBadge, Counters{Streak: 7}))
	assert.True(t, BadgeUnlocked(streakBadge, Counters{Streak: 7}))

	got := BadgeProgress(streakBadge, Counters{Streak: 6})
	assert.InDelta(t, 85.7, got, 0.1)
	assert.False(t, BadgeUnlocked(streakBadge, Counters{Streak: 6}))

	// Progress clamps at 100 even far past the requirement.
	assert.Equal(t, 100.0, BadgeProgress(streakBadge, Counters{Streak: 400}))
}

func TestBadgeProgressByType(t *testing.T) {
	c := Counters{Streak: 5, ActiveHabits: 2, Completions: 50, FocusMinutes: 30, TotalPoints: 250}
	assert.Equal(t, 40.0, BadgeProgress(models.Badge{Type: "habit_count", Requirement: 5}, c))
	assert.Equal(t, 50.0, BadgeProgress(models.Badge{Type: "completions", Requirement: 100}, c))
	assert.Equal(t, 50.0, BadgeProgress(models.Badge{Type: "focus", Requirement: 60}, c))
	assert.Equal(t, 50.0, BadgeProgress(models.Badge{Type: "points", Requirement: 500}, c))

	// Unknown types and degenerate requirements degrade to 0%, never error.
	assert.Equal(t, 0.0, BadgeProgress(models.Badge{Type: "special", Requirement: 1}, c))
	assert.Equal(t, 0.0, BadgeProgress(models.Badge{Type: "streak", Requirement: 0}, c))
}

func TestBadgeCatalogWellFormed(t *testing.T) {
	seen := make(map[string]bool)
	for _, b := range BadgeCatalog {
		assert.False(t, seen[b.ID], "duplicate badge id %s", b.ID)
		seen[b.ID] = true
		assert.Greater(t, b.Requirement, 0, "badge %s", b.ID)
		assert.Greater(t, b.Points, 0, "badge %s", b.ID)
	}
}
