package models

import "time"

type User struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	Email              *string    `json:"email"`
	PasswordHash       string     `json:"-"`
	FirstName          *string    `json:"first_name"`
	LastName           *string    `json:"last_name"`
	ProfileImageURL    *string    `json:"profile_image_url"`
	Level              int        `json:"level"`
	TotalPoints        int        `json:"total_points"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	LastCompletionDate *time.Time `json:"last_completion_date"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type Habit struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	Category        string    `json:"category"`
	Color           string    `json:"color"`
	Icon            string    `json:"icon"`
	Frequency       string    `json:"frequency"`
	FrequencyConfig *string   `json:"frequency_config"`
	TargetValue     int       `json:"target_value"`
	Unit            string    `json:"unit"`
	ReminderTime    *string   `json:"reminder_time"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HabitLog is one calendar day's record for one habit. Date is date-only;
// (HabitID, Date) is unique and later writes for the same day overwrite.
type HabitLog struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	Completed bool      `json:"completed"`
	Value     int       `json:"value"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type FocusSession struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	HabitID     *string   `json:"habit_id"`
	Duration    int       `json:"duration"`
	SessionType string    `json:"session_type"`
	Completed   bool      `json:"completed"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	SessionFocus      = "focus"
	SessionShortBreak = "short_break"
	SessionLongBreak  = "long_break"
)

type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Type        string `json:"type"`
	Requirement int    `json:"requirement"`
	Points      int    `json:"points"`
}

type UserBadge struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BadgeID    string    `json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

type Insight struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	WeekStart       time.Time `json:"week_start"`
	Insights        string    `json:"insights"`
	Recommendations string    `json:"recommendations"`
	MotivationalTip string    `json:"motivational_tip"`
	CreatedAt       time.Time `json:"created_at"`
}

type MoodLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"`
	Mood      int       `json:"mood"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Activity struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ActionType string    `json:"action_type"`
	ActionData *string   `json:"action_data"`
	CreatedAt  time.Time `json:"created_at"`
}

// PublicProfile is the subset of User exposed to other users.
type PublicProfile struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	FirstName       *string `json:"first_name"`
	ProfileImageURL *string `json:"profile_image_url"`
	Level           int     `json:"level"`
	TotalPoints     int     `json:"total_points"`
	CurrentStreak   int     `json:"current_streak"`
	LongestStreak   int     `json:"longest_streak"`
}
