package habit

import "habitoid/internal/models"

// BadgeCatalog is the static badge set. Seeded into the badges table by
// `habitoid seed`; progress is computed against it in memory.
var BadgeCatalog = []models.Badge{
	{ID: "streak_3", Name: "Getting Started", Description: "Maintain a 3-day streak", Icon: "🔥", Type: "streak", Requirement: 3, Points: 50},
	{ID: "streak_7", Name: "Week Warrior", Description: "Maintain a 7-day streak", Icon: "⚡", Type: "streak", Requirement: 7, Points: 100},
	{ID: "streak_14", Name: "Fortnight Fighter", Description: "Maintain a 14-day streak", Icon: "💪", Type: "streak", Requirement: 14, Points: 200},
	{ID: "streak_30", Name: "Monthly Master", Description: "Maintain a 30-day streak", Icon: "🏆", Type: "streak", Requirement: 30, Points: 500},
	{ID: "streak_100", Name: "Century Legend", Description: "Maintain a 100-day streak", Icon: "👑", Type: "streak", Requirement: 100, Points: 1000},

	{ID: "habits_1", Name: "First Step", Description: "Create your first habit", Icon: "🌱", Type: "habit_count", Requirement: 1, Points: 25},
	{ID: "habits_5", Name: "Habit Builder", Description: "Create 5 habits", Icon: "🏗️", Type: "habit_count", Requirement: 5, Points: 75},
	{ID: "habits_10", Name: "Habit Collector", Description: "Create 10 habits", Icon: "📚", Type: "habit_count", Requirement: 10, Points: 150},

	{ID: "completions_10", Name: "Warmed Up", Description: "Complete 10 habits total", Icon: "✅", Type: "completions", Requirement: 10, Points: 50},
	{ID: "completions_50", Name: "Getting Consistent", Description: "Complete 50 habits total", Icon: "🎯", Type: "completions", Requirement: 50, Points: 150},
	{ID: "completions_100", Name: "Century Club", Description: "Complete 100 habits total", Icon: "💯", Type: "completions", Requirement: 100, Points: 300},
	{ID: "completions_500", Name: "Half Millennium", Description: "Complete 500 habits total", Icon: "🌟", Type: "completions", Requirement: 500, Points: 750},
	{ID: "completions_1000", Name: "Habit Master", Description: "Complete 1000 habits total", Icon: "🏅", Type: "completions", Requirement: 1000, Points: 1500},

	{ID: "focus_60", Name: "Focused Mind", Description: "Complete 60 minutes of focus time", Icon: "🧠", Type: "focus", Requirement: 60, Points: 75},
	{ID: "focus_300", Name: "Deep Worker", Description: "Complete 5 hours of focus time", Icon: "⏰", Type: "focus", Requirement: 300, Points: 200},
	{ID: "focus_1000", Name: "Focus Champion", Description: "Complete 16+ hours of focus time", Icon: "🎖️", Type: "focus", Requirement: 1000, Points: 500},

	{ID: "points_100", Name: "Point Starter", Description: "Earn 100 points", Icon: "💎", Type: "points", Requirement: 100, Points: 25},
	{ID: "points_500", Name: "Rising Star", Description: "Earn 500 points", Icon: "⭐", Type: "points", Requirement: 500, Points: 50},
	{ID: "points_1000", Name: "Achiever", Description: "Earn 1000 points", Icon: "🌠", Type: "points", Requirement: 1000, Points: 100},
	{ID: "points_5000", Name: "Elite Status", Description: "Earn 5000 points", Icon: "🎊", Type: "points", Requirement: 5000, Points: 250},
}

// Category carries the display defaults applied when a habit is created
// without an explicit color or icon.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var Categories = []Category{
	{ID: "health", Label: "Health & Fitness", Icon: "🏃", Color: "#10b981"},
	{ID: "work", Label: "Work & Career", Icon: "💼", Color: "#6366f1"},
	{ID: "learning", Label: "Learning & Growth", Icon: "📚", Color: "#f59e0b"},
	{ID: "mindfulness", Label: "Mindfulness", Icon: "🧘", Color: "#8b5cf6"},
	{ID: "social", Label: "Social & Relationships", Icon: "👥", Color: "#ec4899"},
	{ID: "finance", Label: "Finance", Icon: "💰", Color: "#22c55e"},
	{ID: "creativity", Label: "Creativity", Icon: "🎨", Color: "#f43f5e"},
	{ID: "other", Label: "Other", Icon: "📌", Color: "#50A65C"},
}

// CategoryByID resolves a category id, falling back to "other".
func CategoryByID(id string) Category {
	for _, c := range Categories {
		if c.ID == id {
			return c
		}
	}
	return Categories[len(Categories)-1]
}
