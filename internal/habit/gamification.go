package habit

import (
	"math"

	"habitoid/internal/models"
)

// BaseCompletionPoints is the reward for one habit completion before the
// streak multiplier is applied.
const BaseCompletionPoints = 10

// XPMultiplier returns the streak-dependent scalar applied to base rewards.
func XPMultiplier(streak int) float64 {
	switch {
	case streak >= 30:
		return 2.0
	case streak >= 14:
		return 1.75
	case streak >= 7:
		return 1.5
	case streak >= 3:
		return 1.25
	default:
		return 1.0
	}
}

// CompletionXP is the points awarded for a habit completion at the given
// streak, rounded to the nearest integer.
func CompletionXP(streak int) int {
	return int(math.Round(BaseCompletionPoints * XPMultiplier(streak)))
}

// FocusPoints is the award for a logged focus session: completed focus-type
// sessions earn their duration in minutes, breaks and abandoned sessions
// earn nothing.
func FocusPoints(sessionType string, duration int, completed bool) int {
	if !completed || sessionType != models.SessionFocus || duration < 0 {
		return 0
	}
	return duration
}

// Level derives the user's level from cumulative points. The first level-up
// costs 100 points and each subsequent step costs 10% more, floored.
func Level(totalPoints int) int {
	level := 1
	pointsNeeded := 0
	increment := 100

	for pointsNeeded <= totalPoints {
		pointsNeeded += increment
		if pointsNeeded <= totalPoints {
			level++
			increment = increment * 11 / 10
		}
	}
	return level
}

// LevelProgress reports how far into the current level the user is:
// points earned within the level, the level's full size, and the rounded
// percentage.
func LevelProgress(totalPoints int) (current, needed, percent int) {
	pointsNeeded := 0
	previous := 0
	increment := 100

	for pointsNeeded <= totalPoints {
		previous = pointsNeeded
		pointsNeeded += increment
		if pointsNeeded <= totalPoints {
			increment = increment * 11 / 10
		}
	}

	current = totalPoints - previous
	needed = pointsNeeded - previous
	percent = int(math.Round(float64(current) / float64(needed) * 100))
	return current, needed, percent
}

// Evolution is one tier of the companion character's point ladder.
type Evolution struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	MinPoints   int    `json:"min_points"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var Evolutions = []Evolution{
	{Level: 1, Name: "Baby Slash", MinPoints: 0, Icon: "⚡", Description: "A tiny spark of potential"},
	{Level: 2, Name: "Spark Slash", MinPoints: 500, Icon: "✨", Description: "Growing brighter every day"},
	{Level: 3, Name: "Bolt Slash", MinPoints: 2000, Icon: "🌟", Description: "A force to be reckoned with"},
	{Level: 4, Name: "Storm Slash", MinPoints: 5000, Icon: "⭐", Description: "Radiating unstoppable energy"},
	{Level: 5, Name: "Thunder Slash", MinPoints: 10000, Icon: "👑", Description: "The ultimate habit master"},
}

// EvolutionFor returns the highest tier the point total qualifies for.
func EvolutionFor(totalPoints int) Evolution {
	for i := len(Evolutions) - 1; i >= 0; i-- {
		if totalPoints >= Evolutions[i].MinPoints {
			return Evolutions[i]
		}
	}
	return Evolutions[0]
}

// NextEvolution returns the tier after the current one and the clamped
// percentage progress toward it. At the top of the ladder next is nil and
// progress is 100.
func NextEvolution(totalPoints int) (next *Evolution, progress int) {
	current := EvolutionFor(totalPoints)
	for i := range Evolutions {
		if Evolutions[i].Level == current.Level && i+1 < len(Evolutions) {
			n := Evolutions[i+1]
			span := n.MinPoints - current.MinPoints
			progress = int(math.Round(float64(totalPoints-current.MinPoints) / float64(span) * 100))
			if progress > 100 {
				progress = 100
			}
			if progress < 0 {
				progress = 0
			}
			return &n, progress
		}
	}
	return nil, 100
}

// Counters are the lifetime totals badge progress is measured against.
type Counters struct {
	Streak       int
	ActiveHabits int
	Completions  int
	FocusMinutes int
	TotalPoints  int
}

// BadgeProgress computes percentage progress toward a badge, clamped to
// [0,100]. Unknown badge types and zero requirements yield 0 rather than
// erroring.
func BadgeProgress(badge models.Badge, c Counters) float64 {
	if badge.Requirement <= 0 {
		return 0
	}
	var counter int
	switch badge.Type {
	case "streak":
		counter = c.Streak
	case "habit_count":
		counter = c.ActiveHabits
	case "completions":
		counter = c.Completions
	case "focus":
		counter = c.FocusMinutes
	case "points":
		counter = c.TotalPoints
	default:
		return 0
	}
	ratio := float64(counter) / float64(badge.Requirement)
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}
	return ratio * 100
}

// BadgeUnlocked reports whether progress has reached the requirement.
func BadgeUnlocked(badge models.Badge, c Counters) bool {
	return BadgeProgress(badge, c) >= 100
}
