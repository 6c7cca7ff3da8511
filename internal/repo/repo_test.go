package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestRepo(t *testing.T) (*Repo, func()) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()
	schema := fmt.Sprintf("test_%d", time.Now().UnixNano())
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", schema))
		return err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err = pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA %s", schema))
	if err != nil {
		pool.Close()
		t.Fatalf("create schema: %v", err)
	}
	if err := createTestTables(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("create tables: %v", err)
	}
	repo := New(pool)
	return repo, func() {
		_, _ = pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA %s CASCADE", schema))
		pool.Close()
	}
}

func createTestTables(ctx context.Context, pool *pgxpool.Pool) error {
	queries := []string{
		`CREATE TABLE users (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), username text UNIQUE, email text, password_hash text, first_name text, last_name text, profile_image_url text, level int DEFAULT 1, total_points int DEFAULT 0, current_streak int DEFAULT 0, longest_streak int DEFAULT 0, last_completion_date date, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE sessions (token text PRIMARY KEY, user_id uuid, expires_at timestamptz, created_at timestamptz DEFAULT now())`,
		`CREATE TABLE password_reset_tokens (token text PRIMARY KEY, user_id uuid, expires_at timestamptz, created_at timestamptz DEFAULT now())`,
		`CREATE TABLE habits (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid, name text, description text, category text DEFAULT 'other', color text DEFAULT '#6366f1', icon text DEFAULT 'star', frequency text DEFAULT 'daily', frequency_config text, target_value int DEFAULT 1, unit text DEFAULT 'times', reminder_time text, is_active boolean DEFAULT true, created_at timestamptz DEFAULT now(), updated_at timestamptz DEFAULT now())`,
		`CREATE TABLE habit_logs (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), habit_id uuid, user_id uuid, date date NOT NULL, completed boolean DEFAULT false, value int DEFAULT 1, notes text, created_at timestamptz DEFAULT now(), UNIQUE (habit_id, date))`,
		`CREATE TABLE focus_sessions (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid, habit_id uuid, duration int, session_type text DEFAULT 'focus', completed boolean DEFAULT false, date date NOT NULL, created_at timestamptz DEFAULT now())`,
		`CREATE TABLE badges (id text PRIMARY KEY, name text, description text, icon text, type text, requirement int, points int)`,
		`CREATE TABLE user_badges (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid, badge_id text, unlocked_at timestamptz DEFAULT now(), UNIQUE (user_id, badge_id))`,
		`CREATE TABLE insights (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid, week_start date, insights text, recommendations text, motivational_tip text, created_at timestamptz DEFAULT now(), UNIQUE (user_id, week_start))`,
		`CREATE TABLE mood_logs (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid, date date, mood int, notes text, created_at timestamptz DEFAULT now(), UNIQUE (user_id, date))`,
		`CREATE TABLE friendships (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid, friend_id uuid, status text DEFAULT 'pending', created_at timestamptz DEFAULT now())`,
		`CREATE TABLE activity_logs (id uuid PRIMARY KEY DEFAULT gen_random_uuid(), user_id uuid, action_type text, action_data text, created_at timestamptz DEFAULT now())`,
	}
	for _, query := range queries {
		if _, err := pool.Exec(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

func createTestUser(t *testing.T, repo *Repo, username string) string {
	t.Helper()
	userID, err := repo.CreateUser(context.Background(), username, nil, "x")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	return userID
}

func createTestHabit(t *testing.T, repo *Repo, userID string) string {
	t.Helper()
	h, err := repo.CreateHabit(context.Background(), userID, HabitParams{
		Name: "Read", Category: "learning", Color: "#6366f1", Icon: "book",
		Frequency: "daily", TargetValue: 1, Unit: "times",
	})
	if err != nil {
		t.Fatalf("habit: %v", err)
	}
	return h.ID
}

func TestLogHabitAwardsOnce(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, repo, "alice")
	habitID := createTestHabit(t, repo, userID)
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	res, err := repo.LogHabit(ctx, userID, LogHabitParams{HabitID: habitID, Date: day, Completed: true, Value: 1})
	if err != nil {
		t.Fatalf("first log: %v", err)
	}
	if res.XP != 10 || res.Stats.TotalPoints != 10 || res.Stats.CurrentStreak != 1 {
		t.Fatalf("first log: xp=%d points=%d streak=%d", res.XP, res.Stats.TotalPoints, res.Stats.CurrentStreak)
	}

	// Re-logging the same completed day rewrites the row but pays nothing.
	res, err = repo.LogHabit(ctx, userID, LogHabitParams{HabitID: habitID, Date: day, Completed: true, Value: 3})
	if err != nil {
		t.Fatalf("second log: %v", err)
	}
	if res.XP != 0 || res.Stats.TotalPoints != 10 {
		t.Fatalf("second log should be noop: xp=%d points=%d", res.XP, res.Stats.TotalPoints)
	}
	if res.Log.Value != 3 {
		t.Fatalf("expected value rewritten to 3, got %d", res.Log.Value)
	}

	var count int
	if err := repo.Pool.QueryRow(ctx, `SELECT count(*) FROM habit_logs WHERE habit_id=$1`, habitID).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single log row, got %d", count)
	}
}

func TestLogHabitUncheckDeductsNothing(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, repo, "bob")
	habitID := createTestHabit(t, repo, userID)
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	if _, err := repo.LogHabit(ctx, userID, LogHabitParams{HabitID: habitID, Date: day, Completed: true, Value: 1}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	res, err := repo.LogHabit(ctx, userID, LogHabitParams{HabitID: habitID, Date: day, Completed: false, Value: 1})
	if err != nil {
		t.Fatalf("uncheck: %v", err)
	}
	if res.XP != 0 || res.Stats.TotalPoints != 10 {
		t.Fatalf("uncheck must not deduct: xp=%d points=%d", res.XP, res.Stats.TotalPoints)
	}
}

func TestLogHabitStreakAcrossDays(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, repo, "carol")
	habitID := createTestHabit(t, repo, userID)
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		if _, err := repo.LogHabit(ctx, userID, LogHabitParams{HabitID: habitID, Date: day.AddDate(0, 0, i), Completed: true, Value: 1}); err != nil {
			t.Fatalf("day %d: %v", i, err)
		}
	}

	u, err := repo.GetUser(ctx, userID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.CurrentStreak != 3 || u.LongestStreak != 3 {
		t.Fatalf("expected streak 3/3, got %d/%d", u.CurrentStreak, u.LongestStreak)
	}
	// Day 3 completes at streak 2, below the first multiplier step.
	if u.TotalPoints != 30 {
		t.Fatalf("expected 30 points, got %d", u.TotalPoints)
	}
}

func TestLogHabitAfterGapPaysBaseRate(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, repo, "hana")
	habitID := createTestHabit(t, repo, userID)

	// A stored 12-day streak whose last completion is a week old. No read
	// path has reset it; the completion itself must not pay its multiplier.
	lastWeek := time.Date(2024, time.February, 27, 0, 0, 0, 0, time.UTC)
	if _, err := repo.Pool.Exec(ctx, `UPDATE users SET current_streak=12, longest_streak=12,
		last_completion_date=$1 WHERE id=$2`, lastWeek, userID); err != nil {
		t.Fatalf("seed stats: %v", err)
	}

	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	res, err := repo.LogHabit(ctx, userID, LogHabitParams{HabitID: habitID, Date: day, Completed: true, Value: 1})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if res.XP != 10 {
		t.Fatalf("broken streak should pay base rate 10, got %d", res.XP)
	}
	if res.StreakBefore != 0 {
		t.Fatalf("expected pricing streak 0, got %d", res.StreakBefore)
	}
	if res.Stats.CurrentStreak != 1 || res.Stats.LongestStreak != 12 {
		t.Fatalf("expected streak 1 with longest 12, got %d/%d", res.Stats.CurrentStreak, res.Stats.LongestStreak)
	}
}

func TestLogHabitUnknownHabit(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, repo, "dave")
	_, err := repo.LogHabit(ctx, userID, LogHabitParams{
		HabitID: "00000000-0000-0000-0000-000000000000",
		Date:    time.Now(), Completed: true, Value: 1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteHabitIsSoft(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, repo, "erin")
	habitID := createTestHabit(t, repo, userID)
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if _, err := repo.LogHabit(ctx, userID, LogHabitParams{HabitID: habitID, Date: day, Completed: true, Value: 1}); err != nil {
		t.Fatalf("log: %v", err)
	}

	if err := repo.DeleteHabit(ctx, habitID, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetHabit(ctx, habitID, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected hidden habit, got %v", err)
	}
	if err := repo.DeleteHabit(ctx, habitID, userID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete should be ErrNotFound, got %v", err)
	}

	// History survives the soft delete.
	logs, err := repo.ListUserLogsOn(ctx, userID, day)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected log to survive, got %d", len(logs))
	}
}

func TestUnlockBadgeOnce(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, repo, "frank")
	if _, err := repo.Pool.Exec(ctx, `INSERT INTO badges (id, name, type, requirement, points) VALUES ('streak_3', 'On Fire', 'streak', 3, 25)`); err != nil {
		t.Fatalf("badge: %v", err)
	}

	unlocked, err := repo.UnlockBadge(ctx, userID, "streak_3")
	if err != nil || !unlocked {
		t.Fatalf("first unlock: unlocked=%v err=%v", unlocked, err)
	}
	unlocked, err = repo.UnlockBadge(ctx, userID, "streak_3")
	if err != nil || unlocked {
		t.Fatalf("second unlock should be noop: unlocked=%v err=%v", unlocked, err)
	}
}

func TestFriendRequestLifecycle(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	alice := createTestUser(t, repo, "alice2")
	bob := createTestUser(t, repo, "bob2")

	if err := repo.CreateFriendRequest(ctx, alice, alice); !errors.Is(err, ErrSelfFriend) {
		t.Fatalf("expected ErrSelfFriend, got %v", err)
	}
	if err := repo.CreateFriendRequest(ctx, alice, bob); err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := repo.CreateFriendRequest(ctx, bob, alice); !errors.Is(err, ErrAlreadyFriend) {
		t.Fatalf("reverse request should collide, got %v", err)
	}

	requests, err := repo.ListFriendRequests(ctx, bob)
	if err != nil || len(requests) != 1 {
		t.Fatalf("requests: %v (%d)", err, len(requests))
	}
	if err := repo.AcceptFriendRequest(ctx, bob, requests[0].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	friends, err := repo.ListFriends(ctx, alice)
	if err != nil || len(friends) != 1 || friends[0].Username != "bob2" {
		t.Fatalf("friends of alice: %v %+v", err, friends)
	}
}

func TestSessionExpiry(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, repo, "gina")
	if err := repo.CreateSession(ctx, userID, "fresh", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("session: %v", err)
	}
	if err := repo.CreateSession(ctx, userID, "stale", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("session: %v", err)
	}

	got, err := repo.GetSessionUser(ctx, "fresh")
	if err != nil || got != userID {
		t.Fatalf("fresh session: %v", err)
	}
	if _, err := repo.GetSessionUser(ctx, "stale"); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := repo.GetSessionUser(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
