package repo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"habitoid/internal/habit"
	"habitoid/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already exists")
	ErrTokenExpired  = errors.New("token expired")
	ErrSelfFriend    = errors.New("cannot befriend yourself")
	ErrAlreadyFriend = errors.New("friendship already exists")
)

type Repo struct {
	Pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{Pool: pool}
}

// ---- users ----

func (r *Repo) CreateUser(ctx context.Context, username string, email *string, passwordHash string) (string, error) {
	var id string
	err := r.Pool.QueryRow(ctx, `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
		username, email, passwordHash).Scan(&id)
	return id, err
}

const userColumns = `id, username, email, password_hash, first_name, last_name, profile_image_url,
	level, total_points, current_streak, longest_streak, last_completion_date, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.ProfileImageURL, &u.Level, &u.TotalPoints, &u.CurrentStreak, &u.LongestStreak,
		&u.LastCompletionDate, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) GetUser(ctx context.Context, id string) (*models.User, error) {
	return scanUser(r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
}

func (r *Repo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username=$1`, username))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

func (r *Repo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	cmd, err := r.Pool.Exec(ctx, `UPDATE users SET password_hash=$1, updated_at=now() WHERE id=$2`, passwordHash, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) GetPublicProfile(ctx context.Context, userID string) (*models.PublicProfile, error) {
	var p models.PublicProfile
	err := r.Pool.QueryRow(ctx, `SELECT id, username, first_name, profile_image_url, level, total_points,
		current_streak, longest_streak FROM users WHERE id=$1`, userID).
		Scan(&p.ID, &p.Username, &p.FirstName, &p.ProfileImageURL, &p.Level, &p.TotalPoints,
			&p.CurrentStreak, &p.LongestStreak)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) Leaderboard(ctx context.Context, limit int) ([]models.PublicProfile, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, username, first_name, profile_image_url, level, total_points,
		current_streak, longest_streak FROM users ORDER BY total_points DESC, current_streak DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.PublicProfile
	for rows.Next() {
		var p models.PublicProfile
		if err := rows.Scan(&p.ID, &p.Username, &p.FirstName, &p.ProfileImageURL, &p.Level,
			&p.TotalPoints, &p.CurrentStreak, &p.LongestStreak); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddPoints credits a flat award (focus sessions, badge unlocks) and
// recomputes the stored level. Streak fields are untouched.
func (r *Repo) AddPoints(ctx context.Context, userID string, points int) (habit.Stats, error) {
	var s habit.Stats
	err := r.Pool.QueryRow(ctx, `UPDATE users SET total_points = total_points + $1, updated_at=now()
		WHERE id=$2 RETURNING total_points, current_streak, longest_streak, last_completion_date`,
		points, userID).Scan(&s.TotalPoints, &s.CurrentStreak, &s.LongestStreak, &s.LastCompletionDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, ErrNotFound
	}
	if err != nil {
		return s, err
	}
	s.Level = habit.Level(s.TotalPoints)
	_, err = r.Pool.Exec(ctx, `UPDATE users SET level=$1 WHERE id=$2`, s.Level, userID)
	return s, err
}

// ResetStaleStreak applies the daily-boundary rule: a streak dies once a
// full calendar day passes with no completion. Idempotent; called from
// read paths.
func (r *Repo) ResetStaleStreak(ctx context.Context, userID string, today time.Time) error {
	_, err := r.Pool.Exec(ctx, `UPDATE users SET current_streak=0, updated_at=now()
		WHERE id=$1 AND current_streak > 0
		AND (last_completion_date IS NULL OR last_completion_date < $2::date - 1)`,
		userID, habit.DateOnly(today))
	return err
}

// ---- sessions / password reset ----

func (r *Repo) CreateSession(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO sessions (user_id, token, expires_at) VALUES ($1, $2, $3)`,
		userID, token, expiresAt)
	return err
}

func (r *Repo) GetSessionUser(ctx context.Context, token string) (string, error) {
	var userID string
	var expiresAt time.Time
	err := r.Pool.QueryRow(ctx, `SELECT user_id, expires_at FROM sessions WHERE token=$1`, token).
		Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if time.Now().After(expiresAt) {
		return "", ErrTokenExpired
	}
	return userID, nil
}

func (r *Repo) DeleteSession(ctx context.Context, token string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM sessions WHERE token=$1`, token)
	return err
}

func (r *Repo) CreatePasswordResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id=$1`, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO password_reset_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *Repo) ConsumePasswordResetToken(ctx context.Context, token string) (string, error) {
	var userID string
	var expiresAt time.Time
	err := r.Pool.QueryRow(ctx, `DELETE FROM password_reset_tokens WHERE token=$1 RETURNING user_id, expires_at`, token).
		Scan(&userID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if time.Now().After(expiresAt) {
		return "", ErrTokenExpired
	}
	return userID, nil
}

// ---- habits ----

const habitColumns = `id, user_id, name, description, category, color, icon, frequency, frequency_config,
	target_value, unit, reminder_time, is_active, created_at, updated_at`

func scanHabit(row pgx.Row) (*models.Habit, error) {
	var h models.Habit
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Description, &h.Category, &h.Color, &h.Icon,
		&h.Frequency, &h.FrequencyConfig, &h.TargetValue, &h.Unit, &h.ReminderTime, &h.IsActive,
		&h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

type HabitParams struct {
	Name            string
	Description     *string
	Category        string
	Color           string
	Icon            string
	Frequency       string
	FrequencyConfig *string
	TargetValue     int
	Unit            string
	ReminderTime    *string
}

func (r *Repo) CreateHabit(ctx context.Context, userID string, p HabitParams) (*models.Habit, error) {
	return scanHabit(r.Pool.QueryRow(ctx, `INSERT INTO habits
		(user_id, name, description, category, color, icon, frequency, frequency_config, target_value, unit, reminder_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING `+habitColumns,
		userID, p.Name, p.Description, p.Category, p.Color, p.Icon, p.Frequency, p.FrequencyConfig,
		p.TargetValue, p.Unit, p.ReminderTime))
}

func (r *Repo) GetHabit(ctx context.Context, id, userID string) (*models.Habit, error) {
	return scanHabit(r.Pool.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits
		WHERE id=$1 AND user_id=$2 AND is_active`, id, userID))
}

func (r *Repo) ListHabits(ctx context.Context, userID string) ([]models.Habit, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+habitColumns+` FROM habits
		WHERE user_id=$1 AND is_active ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *h)
	}
	return out, rows.Err()
}

func (r *Repo) UpdateHabit(ctx context.Context, id, userID string, p HabitParams) (*models.Habit, error) {
	h, err := scanHabit(r.Pool.QueryRow(ctx, `UPDATE habits SET name=$1, description=$2, category=$3,
		color=$4, icon=$5, frequency=$6, frequency_config=$7, target_value=$8, unit=$9, reminder_time=$10,
		updated_at=now()
		WHERE id=$11 AND user_id=$12 AND is_active
		RETURNING `+habitColumns,
		p.Name, p.Description, p.Category, p.Color, p.Icon, p.Frequency, p.FrequencyConfig,
		p.TargetValue, p.Unit, p.ReminderTime, id, userID))
	if err != nil {
		return nil, err
	}
	return h, nil
}

// DeleteHabit is a soft delete: the flag flips, the logs stay.
func (r *Repo) DeleteHabit(ctx context.Context, id, userID string) error {
	cmd, err := r.Pool.Exec(ctx, `UPDATE habits SET is_active=false, updated_at=now()
		WHERE id=$1 AND user_id=$2 AND is_active`, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CountActiveHabits(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM habits WHERE user_id=$1 AND is_active`, userID).Scan(&n)
	return n, err
}

// ---- habit logs ----

const logColumns = `id, habit_id, user_id, date, completed, value, notes, created_at`

func scanLog(row pgx.Row) (*models.HabitLog, error) {
	var l models.HabitLog
	err := row.Scan(&l.ID, &l.HabitID, &l.UserID, &l.Date, &l.Completed, &l.Value, &l.Notes, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

type LogHabitParams struct {
	HabitID   string
	Date      time.Time
	Completed bool
	Value     int
	Notes     *string
}

// LogResult is what a completion upsert produced: the written log, the XP
// credited (0 when nothing new was completed), the streak the award was
// priced at and the user's stats after.
type LogResult struct {
	Log          models.HabitLog
	XP           int
	StreakBefore int
	Stats        habit.Stats
}

// LogHabit upserts the (habit, date) completion record and, when the day's
// entry transitions to completed, awards XP and advances the streak. All
// of it runs in one transaction so a crash can't award points without a
// log or vice versa. Re-logging an already-completed day rewrites
// value/notes but pays nothing; unchecking deducts nothing.
func (r *Repo) LogHabit(ctx context.Context, userID string, p LogHabitParams) (*LogResult, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var habitID string
	err = tx.QueryRow(ctx, `SELECT id FROM habits WHERE id=$1 AND user_id=$2 AND is_active`,
		p.HabitID, userID).Scan(&habitID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	day := habit.DateOnly(p.Date)

	var wasCompleted bool
	err = tx.QueryRow(ctx, `SELECT completed FROM habit_logs WHERE habit_id=$1 AND date=$2`,
		p.HabitID, day).Scan(&wasCompleted)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	logRow, err := scanLog(tx.QueryRow(ctx, `INSERT INTO habit_logs (habit_id, user_id, date, completed, value, notes)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (habit_id, date) DO UPDATE SET completed=EXCLUDED.completed, value=EXCLUDED.value, notes=EXCLUDED.notes
		RETURNING `+logColumns,
		p.HabitID, userID, day, p.Completed, p.Value, p.Notes))
	if err != nil {
		return nil, err
	}

	res := &LogResult{Log: *logRow}

	err = tx.QueryRow(ctx, `SELECT total_points, current_streak, longest_streak, last_completion_date
		FROM users WHERE id=$1 FOR UPDATE`, userID).
		Scan(&res.Stats.TotalPoints, &res.Stats.CurrentStreak, &res.Stats.LongestStreak, &res.Stats.LastCompletionDate)
	if err != nil {
		return nil, err
	}
	res.Stats.Level = habit.Level(res.Stats.TotalPoints)

	if p.Completed && !wasCompleted {
		// Roll over a dead streak before pricing so the reported
		// multiplier matches what ApplyCompletion pays.
		res.Stats = habit.RollOver(res.Stats, day)
		res.StreakBefore = res.Stats.CurrentStreak
		res.Stats, res.XP = habit.ApplyCompletion(res.Stats, day)
		if _, err := tx.Exec(ctx, `UPDATE users SET total_points=$1, current_streak=$2, longest_streak=$3,
			last_completion_date=$4, level=$5, updated_at=now() WHERE id=$6`,
			res.Stats.TotalPoints, res.Stats.CurrentStreak, res.Stats.LongestStreak,
			res.Stats.LastCompletionDate, res.Stats.Level, userID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO activity_logs (user_id, action_type, action_data)
			VALUES ($1, 'habit_complete', $2)`, userID, `{"habit_id":"`+p.HabitID+`"}`); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// RevertCompletion is the symmetric un-complete: it flips the day's log
// back to incomplete without deducting points. Kept unreached by the
// router; documented design option.
func (r *Repo) RevertCompletion(ctx context.Context, userID, habitID string, date time.Time) error {
	cmd, err := r.Pool.Exec(ctx, `UPDATE habit_logs SET completed=false
		WHERE habit_id=$1 AND user_id=$2 AND date=$3`, habitID, userID, habit.DateOnly(date))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) listLogs(ctx context.Context, query string, args ...any) ([]models.HabitLog, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.HabitLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *Repo) ListHabitLogs(ctx context.Context, habitID, userID string, from, to time.Time) ([]models.HabitLog, error) {
	return r.listLogs(ctx, `SELECT `+logColumns+` FROM habit_logs
		WHERE habit_id=$1 AND user_id=$2 AND date >= $3 AND date <= $4 ORDER BY date DESC`,
		habitID, userID, habit.DateOnly(from), habit.DateOnly(to))
}

func (r *Repo) ListUserLogsOn(ctx context.Context, userID string, date time.Time) ([]models.HabitLog, error) {
	return r.listLogs(ctx, `SELECT `+logColumns+` FROM habit_logs WHERE user_id=$1 AND date=$2`,
		userID, habit.DateOnly(date))
}

func (r *Repo) ListUserLogsRange(ctx context.Context, userID string, from, to time.Time) ([]models.HabitLog, error) {
	return r.listLogs(ctx, `SELECT `+logColumns+` FROM habit_logs
		WHERE user_id=$1 AND date >= $2 AND date <= $3 ORDER BY date DESC`,
		userID, habit.DateOnly(from), habit.DateOnly(to))
}

func (r *Repo) ListCompletedLogs(ctx context.Context, userID string, from, to time.Time) ([]models.HabitLog, error) {
	return r.listLogs(ctx, `SELECT `+logColumns+` FROM habit_logs
		WHERE user_id=$1 AND completed AND date >= $2 AND date <= $3 ORDER BY date DESC`,
		userID, habit.DateOnly(from), habit.DateOnly(to))
}

func (r *Repo) CountCompletions(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM habit_logs WHERE user_id=$1 AND completed`, userID).Scan(&n)
	return n, err
}

// ---- focus sessions ----

type FocusParams struct {
	HabitID     *string
	Duration    int
	SessionType string
	Completed   bool
	Date        time.Time
}

func (r *Repo) CreateFocusSession(ctx context.Context, userID string, p FocusParams) (*models.FocusSession, error) {
	var fs models.FocusSession
	err := r.Pool.QueryRow(ctx, `INSERT INTO focus_sessions (user_id, habit_id, duration, session_type, completed, date)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, user_id, habit_id, duration, session_type, completed, date, created_at`,
		userID, p.HabitID, p.Duration, p.SessionType, p.Completed, habit.DateOnly(p.Date)).
		Scan(&fs.ID, &fs.UserID, &fs.HabitID, &fs.Duration, &fs.SessionType, &fs.Completed, &fs.Date, &fs.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &fs, nil
}

func (r *Repo) ListFocusSessions(ctx context.Context, userID string, from, to time.Time) ([]models.FocusSession, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, user_id, habit_id, duration, session_type, completed, date, created_at
		FROM focus_sessions WHERE user_id=$1 AND date >= $2 AND date <= $3 ORDER BY created_at DESC`,
		userID, habit.DateOnly(from), habit.DateOnly(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.FocusSession
	for rows.Next() {
		var fs models.FocusSession
		if err := rows.Scan(&fs.ID, &fs.UserID, &fs.HabitID, &fs.Duration, &fs.SessionType,
			&fs.Completed, &fs.Date, &fs.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}

func (r *Repo) SumFocusMinutes(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.Pool.QueryRow(ctx, `SELECT COALESCE(sum(duration), 0) FROM focus_sessions
		WHERE user_id=$1 AND completed AND session_type='focus'`, userID).Scan(&n)
	return n, err
}

// ---- badges ----

func (r *Repo) UpsertBadge(ctx context.Context, b models.Badge) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO badges (id, name, description, icon, type, requirement, points)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, description=EXCLUDED.description,
			icon=EXCLUDED.icon, type=EXCLUDED.type, requirement=EXCLUDED.requirement, points=EXCLUDED.points`,
		b.ID, b.Name, b.Description, b.Icon, b.Type, b.Requirement, b.Points)
	return err
}

func (r *Repo) ListBadges(ctx context.Context) ([]models.Badge, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, name, description, icon, type, requirement, points FROM badges`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.Type, &b.Requirement, &b.Points); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) ListUserBadges(ctx context.Context, userID string) ([]models.UserBadge, error) {
	rows, err := r.Pool.Query(ctx, `SELECT id, user_id, badge_id, unlocked_at FROM user_badges
		WHERE user_id=$1 ORDER BY unlocked_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.UserBadge
	for rows.Next() {
		var ub models.UserBadge
		if err := rows.Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.UnlockedAt); err != nil {
			return nil, err
		}
		out = append(out, ub)
	}
	return out, rows.Err()
}

// UnlockBadge records a one-time unlock. Returns false when the user
// already holds the badge.
func (r *Repo) UnlockBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	cmd, err := r.Pool.Exec(ctx, `INSERT INTO user_badges (user_id, badge_id)
		VALUES ($1, $2) ON CONFLICT (user_id, badge_id) DO NOTHING`, userID, badgeID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// ---- insights ----

func (r *Repo) GetInsight(ctx context.Context, userID string, weekStart time.Time) (*models.Insight, error) {
	var in models.Insight
	err := r.Pool.QueryRow(ctx, `SELECT id, user_id, week_start, insights, recommendations, motivational_tip, created_at
		FROM insights WHERE user_id=$1 AND week_start=$2`, userID, habit.DateOnly(weekStart)).
		Scan(&in.ID, &in.UserID, &in.WeekStart, &in.Insights, &in.Recommendations, &in.MotivationalTip, &in.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// SaveInsight upserts on (user, week); regeneration overwrites.
func (r *Repo) SaveInsight(ctx context.Context, userID string, weekStart time.Time, insights, recommendations, tip string) (*models.Insight, error) {
	var in models.Insight
	err := r.Pool.QueryRow(ctx, `INSERT INTO insights (user_id, week_start, insights, recommendations, motivational_tip)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id, week_start) DO UPDATE SET insights=EXCLUDED.insights,
			recommendations=EXCLUDED.recommendations, motivational_tip=EXCLUDED.motivational_tip, created_at=now()
		RETURNING id, user_id, week_start, insights, recommendations, motivational_tip, created_at`,
		userID, habit.DateOnly(weekStart), insights, recommendations, tip).
		Scan(&in.ID, &in.UserID, &in.WeekStart, &in.Insights, &in.Recommendations, &in.MotivationalTip, &in.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// ---- mood ----

func (r *Repo) LogMood(ctx context.Context, userID string, date time.Time, mood int, notes *string) (*models.MoodLog, error) {
	var m models.MoodLog
	err := r.Pool.QueryRow(ctx, `INSERT INTO mood_logs (user_id, date, mood, notes)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, date) DO UPDATE SET mood=EXCLUDED.mood, notes=EXCLUDED.notes
		RETURNING id, user_id, date, mood, notes, created_at`,
		userID, habit.DateOnly(date), mood, notes).
		Scan(&m.ID, &m.UserID, &m.Date, &m.Mood, &m.Notes, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) GetMoodOn(ctx context.Context, userID string, date time.Time) (*models.MoodLog, error) {
	var m models.MoodLog
	err := r.Pool.QueryRow(ctx, `SELECT id, user_id, date, mood, notes, created_at FROM mood_logs
		WHERE user_id=$1 AND date=$2`, userID, habit.DateOnly(date)).
		Scan(&m.ID, &m.UserID, &m.Date, &m.Mood, &m.Notes, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ---- friendships / activity ----

func (r *Repo) CreateFriendRequest(ctx context.Context, userID, friendID string) error {
	if userID == friendID {
		return ErrSelfFriend
	}
	var exists bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM friendships
		WHERE (user_id=$1 AND friend_id=$2) OR (user_id=$2 AND friend_id=$1))`, userID, friendID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyFriend
	}
	_, err = r.Pool.Exec(ctx, `INSERT INTO friendships (user_id, friend_id, status) VALUES ($1, $2, 'pending')`,
		userID, friendID)
	return err
}

func (r *Repo) ListFriends(ctx context.Context, userID string) ([]models.PublicProfile, error) {
	rows, err := r.Pool.Query(ctx, `SELECT u.id, u.username, u.first_name, u.profile_image_url, u.level,
		u.total_points, u.current_streak, u.longest_streak
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.user_id=$1 THEN f.friend_id ELSE f.user_id END
		WHERE (f.user_id=$1 OR f.friend_id=$1) AND f.status='accepted'`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.PublicProfile
	for rows.Next() {
		var p models.PublicProfile
		if err := rows.Scan(&p.ID, &p.Username, &p.FirstName, &p.ProfileImageURL, &p.Level,
			&p.TotalPoints, &p.CurrentStreak, &p.LongestStreak); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FriendRequest is an incoming pending request joined with the requester.
type FriendRequest struct {
	ID        string               `json:"id"`
	CreatedAt time.Time            `json:"created_at"`
	Requester models.PublicProfile `json:"requester"`
}

func (r *Repo) ListFriendRequests(ctx context.Context, userID string) ([]FriendRequest, error) {
	rows, err := r.Pool.Query(ctx, `SELECT f.id, f.created_at, u.id, u.username, u.first_name,
		u.profile_image_url, u.level, u.total_points, u.current_streak, u.longest_streak
		FROM friendships f JOIN users u ON u.id = f.user_id
		WHERE f.friend_id=$1 AND f.status='pending' ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FriendRequest
	for rows.Next() {
		var fr FriendRequest
		if err := rows.Scan(&fr.ID, &fr.CreatedAt, &fr.Requester.ID, &fr.Requester.Username,
			&fr.Requester.FirstName, &fr.Requester.ProfileImageURL, &fr.Requester.Level,
			&fr.Requester.TotalPoints, &fr.Requester.CurrentStreak, &fr.Requester.LongestStreak); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

func (r *Repo) AcceptFriendRequest(ctx context.Context, userID, requestID string) error {
	cmd, err := r.Pool.Exec(ctx, `UPDATE friendships SET status='accepted'
		WHERE id=$1 AND friend_id=$2 AND status='pending'`, requestID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) RejectFriendRequest(ctx context.Context, userID, requestID string) error {
	cmd, err := r.Pool.Exec(ctx, `DELETE FROM friendships WHERE id=$1 AND friend_id=$2 AND status='pending'`,
		requestID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) RemoveFriend(ctx context.Context, userID, friendID string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM friendships
		WHERE (user_id=$1 AND friend_id=$2) OR (user_id=$2 AND friend_id=$1)`, userID, friendID)
	return err
}

func (r *Repo) InsertActivity(ctx context.Context, userID, actionType string, actionData *string) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO activity_logs (user_id, action_type, action_data)
		VALUES ($1, $2, $3)`, userID, actionType, actionData)
	return err
}

// ActivityEntry is a feed row joined with its author.
type ActivityEntry struct {
	models.Activity
	Username  string  `json:"username"`
	FirstName *string `json:"first_name"`
}

// ListActivityFeed returns the newest activities of the user and their
// accepted friends.
func (r *Repo) ListActivityFeed(ctx context.Context, userID string, limit int) ([]ActivityEntry, error) {
	rows, err := r.Pool.Query(ctx, `SELECT a.id, a.user_id, a.action_type, a.action_data, a.created_at,
		u.username, u.first_name
		FROM activity_logs a JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1 OR a.user_id IN (
			SELECT CASE WHEN f.user_id=$1 THEN f.friend_id ELSE f.user_id END
			FROM friendships f WHERE (f.user_id=$1 OR f.friend_id=$1) AND f.status='accepted')
		ORDER BY a.created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActionType, &e.ActionData, &e.CreatedAt,
			&e.Username, &e.FirstName); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
