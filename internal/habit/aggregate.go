package habit

import (
	"sort"
	"time"

	"habitoid/internal/models"
)

// DateKey formats a date the way logs store it.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DailyCounts folds logs into date -> number of completed entries that
// day. Incomplete entries contribute nothing. Deterministic and
// side-effect free; run it twice, get the same map.
func DailyCounts(logs []models.HabitLog) map[string]int {
	counts := make(map[string]int)
	for _, l := range logs {
		if l.Completed {
			counts[DateKey(l.Date)]++
		}
	}
	return counts
}

// HeatmapLevel buckets a day's completion count into the contribution
// grid's five intensity levels.
func HeatmapLevel(count int) int {
	switch {
	case count >= 8:
		return 4
	case count >= 5:
		return 3
	case count >= 3:
		return 2
	case count >= 1:
		return 1
	default:
		return 0
	}
}

// WeekdayRate is one weekday's completion performance.
type WeekdayRate struct {
	Day       time.Weekday `json:"day"`
	Completed int          `json:"completed"`
	Total     int          `json:"total"`
	Rate      float64      `json:"rate"`
}

// WeekdayRates computes per-weekday completed/total rates, indexed
// Sunday..Saturday. A weekday with no events has rate 0.
func WeekdayRates(logs []models.HabitLog) [7]WeekdayRate {
	var rates [7]WeekdayRate
	for i := range rates {
		rates[i].Day = time.Weekday(i)
	}
	for _, l := range logs {
		wd := l.Date.Weekday()
		rates[wd].Total++
		if l.Completed {
			rates[wd].Completed++
		}
	}
	for i := range rates {
		if rates[i].Total > 0 {
			rates[i].Rate = float64(rates[i].Completed) / float64(rates[i].Total)
		}
	}
	return rates
}

// BestDay is the weekday with the highest completion rate, ties going to
// the earliest in Sunday..Saturday order.
func BestDay(rates [7]WeekdayRate) time.Weekday {
	best := 0
	for i := 1; i < len(rates); i++ {
		if rates[i].Rate > rates[best].Rate {
			best = i
		}
	}
	return time.Weekday(best)
}

// NeedsWorkDay is the lowest-rate weekday among those with at least one
// event. Returns false when no weekday has any events.
func NeedsWorkDay(rates [7]WeekdayRate) (time.Weekday, bool) {
	worst := -1
	for i := range rates {
		if rates[i].Total == 0 {
			continue
		}
		if worst == -1 || rates[i].Rate < rates[worst].Rate {
			worst = i
		}
	}
	if worst == -1 {
		return time.Sunday, false
	}
	return time.Weekday(worst), true
}

// CategoryRate is one habit category's completion performance.
type CategoryRate struct {
	Category  string  `json:"category"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Rate      float64 `json:"rate"`
}

// CategoryRates groups logs by the owning habit's category (unknown habit
// ids fall into "other") and sorts descending by rate, stable on
// first-encountered order.
func CategoryRates(logs []models.HabitLog, categoryOf map[string]string) []CategoryRate {
	byCat := make(map[string]*CategoryRate)
	var order []string
	for _, l := range logs {
		cat, ok := categoryOf[l.HabitID]
		if !ok || cat == "" {
			cat = "other"
		}
		cr, ok := byCat[cat]
		if !ok {
			cr = &CategoryRate{Category: cat}
			byCat[cat] = cr
			order = append(order, cat)
		}
		cr.Total++
		if l.Completed {
			cr.Completed++
		}
	}
	out := make([]CategoryRate, 0, len(order))
	for _, cat := range order {
		cr := byCat[cat]
		if cr.Total > 0 {
			cr.Rate = float64(cr.Completed) / float64(cr.Total)
		}
		out = append(out, *cr)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	return out
}

// OverallRate is completed/total across the scoped logs, 0 when empty.
func OverallRate(logs []models.HabitLog) float64 {
	if len(logs) == 0 {
		return 0
	}
	completed := 0
	for _, l := range logs {
		if l.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(logs))
}

// WeeklySummary is the bundle handed to the insight generator.
type WeeklySummary struct {
	HabitsCompleted  int      `json:"habits_completed"`
	TotalHabits      int      `json:"total_habits"`
	CompletionRate   int      `json:"completion_rate"`
	CurrentStreak    int      `json:"current_streak"`
	FocusSessions    int      `json:"focus_sessions"`
	FocusMinutes     int      `json:"focus_minutes"`
	ActiveCategories []string `json:"active_categories"`
	MissedDays       int      `json:"missed_days"`
}

// SummarizeWeek folds one week of logs and focus sessions into the insight
// input. Total slots are habits x 7; missed days are the days of the week
// with no completion at all. The caller supplies the streak.
func SummarizeWeek(logs []models.HabitLog, habits []models.Habit, sessions []models.FocusSession, currentStreak int) WeeklySummary {
	s := WeeklySummary{
		TotalHabits:   len(habits) * 7,
		CurrentStreak: currentStreak,
	}

	completedDates := make(map[string]bool)
	for _, l := range logs {
		if l.Completed {
			s.HabitsCompleted++
			completedDates[DateKey(l.Date)] = true
		}
	}
	if len(habits) > 0 {
		s.CompletionRate = int(float64(s.HabitsCompleted)/float64(s.TotalHabits)*100 + 0.5)
	}
	s.MissedDays = 7 - len(completedDates)
	if s.MissedDays < 0 {
		s.MissedDays = 0
	}

	for _, fs := range sessions {
		if !fs.Completed {
			continue
		}
		s.FocusSessions++
		if fs.SessionType == models.SessionFocus {
			s.FocusMinutes += fs.Duration
		}
	}

	seen := make(map[string]bool)
	for _, h := range habits {
		if !seen[h.Category] {
			seen[h.Category] = true
			s.ActiveCategories = append(s.ActiveCategories, h.Category)
		}
	}
	return s
}
