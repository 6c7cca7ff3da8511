package insight

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"habitoid/internal/habit"
)

func TestFallbackBranches(t *testing.T) {
	low := Fallback(habit.WeeklySummary{CompletionRate: 40, CurrentStreak: 2, FocusSessions: 3})
	assert.Contains(t, low.Insights, "40%")
	assert.Contains(t, low.Recommendations, "reducing the number of habits")
	assert.Contains(t, low.MotivationalTip, "takes time and patience")

	high := Fallback(habit.WeeklySummary{CompletionRate: 85, CurrentStreak: 12, FocusSessions: 10})
	assert.Contains(t, high.Recommendations, "Great consistency")
	assert.Contains(t, high.MotivationalTip, "12-day streak")
}

func TestFallbackDeterministic(t *testing.T) {
	s := habit.WeeklySummary{CompletionRate: 70, CurrentStreak: 7}
	assert.Equal(t, Fallback(s), Fallback(s))
}

func TestGeneratorWithoutKeyUsesFallback(t *testing.T) {
	g := New("")
	s := habit.WeeklySummary{CompletionRate: 50, CurrentStreak: 1, FocusSessions: 2}
	assert.Equal(t, Fallback(s), g.Weekly(context.Background(), s))
}

func TestPromptIncludesWeekData(t *testing.T) {
	p := prompt(habit.WeeklySummary{
		HabitsCompleted: 9, TotalHabits: 21, CompletionRate: 43, CurrentStreak: 4,
		FocusSessions: 5, FocusMinutes: 125, ActiveCategories: []string{"health", "work"},
		MissedDays: 2,
	})
	assert.Contains(t, p, "9 out of 21")
	assert.Contains(t, p, "2h 5m")
	assert.Contains(t, p, "health, work")
	assert.True(t, strings.Contains(p, `"motivationalTip"`))
}
