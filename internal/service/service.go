package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"habitoid/internal/auth"
	"habitoid/internal/habit"
	"habitoid/internal/insight"
	"habitoid/internal/mailer"
	"habitoid/internal/models"
	"habitoid/internal/repo"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	Repo       *repo.Repo
	Auth       *auth.Manager
	Insights   *insight.Generator
	Mailer     mailer.Mailer
	AppBaseURL string
	TokenTTL   time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
}

func New(r *repo.Repo, authManager *auth.Manager, gen *insight.Generator, m mailer.Mailer, appBaseURL string) *Service {
	return &Service{
		Repo:       r,
		Auth:       authManager,
		Insights:   gen,
		Mailer:     m,
		AppBaseURL: appBaseURL,
		TokenTTL:   time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
		ResetTTL:   time.Hour,
	}
}

// ---- auth ----

func (s *Service) Register(ctx context.Context, username string, email *string, password string) (*models.User, error) {
	hash, err := s.Auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	userID, err := s.Repo.CreateUser(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}
	return s.Repo.GetUser(ctx, userID)
}

func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, string, error) {
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, "", "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", "", err
	}
	if err := s.Auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}
	accessToken, err := s.Auth.GenerateToken(user.ID, s.TokenTTL)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := randomToken()
	if err != nil {
		return nil, "", "", err
	}
	if err := s.Repo.CreateSession(ctx, user.ID, refreshToken, time.Now().Add(s.RefreshTTL)); err != nil {
		return nil, "", "", err
	}
	return user, accessToken, refreshToken, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	userID, err := s.Repo.GetSessionUser(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return s.Auth.GenerateToken(userID, s.TokenTTL)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.DeleteSession(ctx, refreshToken)
}

// ForgotPassword never reveals whether the address exists: unknown emails
// are a silent no-op.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	token := uuid.NewString()
	if err := s.Repo.CreatePasswordResetToken(ctx, user.ID, token, time.Now().Add(s.ResetTTL)); err != nil {
		return err
	}
	link := fmt.Sprintf("%s/reset-password?token=%s", s.AppBaseURL, token)
	if err := s.Mailer.SendPasswordReset(email, link); err != nil {
		log.Printf("service: reset mail to %s failed: %v", email, err)
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.Repo.ConsumePasswordResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := s.Auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, userID, hash)
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ---- habit completion and rewards ----

// LogOutcome is what a completion call returns to the client: the stored
// log, the XP earned with the multiplier it was priced at, the user's
// updated stats and any badges the completion unlocked.
type LogOutcome struct {
	Log        models.HabitLog `json:"log"`
	XPEarned   int             `json:"xp_earned"`
	Multiplier float64         `json:"multiplier"`
	Stats      habit.Stats     `json:"stats"`
	NewBadges  []models.Badge  `json:"new_badges"`
}

func (s *Service) LogHabit(ctx context.Context, userID string, p repo.LogHabitParams) (*LogOutcome, error) {
	res, err := s.Repo.LogHabit(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	out := &LogOutcome{
		Log:        res.Log,
		XPEarned:   res.XP,
		Multiplier: 1.0,
		Stats:      res.Stats,
	}
	if res.XP > 0 {
		out.Multiplier = habit.XPMultiplier(res.StreakBefore)
		newBadges, err := s.CheckBadges(ctx, userID)
		if err != nil {
			log.Printf("service: badge check for %s failed: %v", userID, err)
		} else if len(newBadges) > 0 {
			out.NewBadges = newBadges
			// Badge bonuses changed the totals; report the fresh numbers.
			user, err := s.Repo.GetUser(ctx, userID)
			if err == nil {
				out.Stats = habit.Stats{
					TotalPoints:        user.TotalPoints,
					CurrentStreak:      user.CurrentStreak,
					LongestStreak:      user.LongestStreak,
					Level:              user.Level,
					LastCompletionDate: user.LastCompletionDate,
				}
			}
		}
	}
	return out, nil
}

// FocusOutcome pairs the stored session with the points it paid.
type FocusOutcome struct {
	Session models.FocusSession `json:"session"`
	Points  int                 `json:"points"`
	Stats   *habit.Stats        `json:"stats,omitempty"`
}

// RecordFocusSession stores a pomodoro-style session and credits one point
// per minute for completed focus work. Breaks and abandoned sessions store
// fine but pay nothing.
func (s *Service) RecordFocusSession(ctx context.Context, userID string, p repo.FocusParams) (*FocusOutcome, error) {
	session, err := s.Repo.CreateFocusSession(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	out := &FocusOutcome{Session: *session}
	points := habit.FocusPoints(p.SessionType, p.Duration, p.Completed)
	if points > 0 {
		stats, err := s.Repo.AddPoints(ctx, userID, points)
		if err != nil {
			return nil, err
		}
		out.Points = points
		out.Stats = &stats
		if err := s.Repo.InsertActivity(ctx, userID, "focus_complete", nil); err != nil {
			log.Printf("service: activity insert failed: %v", err)
		}
		if _, err := s.CheckBadges(ctx, userID); err != nil {
			log.Printf("service: badge check for %s failed: %v", userID, err)
		}
	}
	return out, nil
}

// CheckBadges sweeps the catalog against the user's current counters and
// unlocks anything newly earned, crediting each badge's point bonus.
func (s *Service) CheckBadges(ctx context.Context, userID string) ([]models.Badge, error) {
	counters, err := s.counters(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.Repo.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	var unlocked []models.Badge
	for _, b := range badges {
		if !habit.BadgeUnlocked(b, counters) {
			continue
		}
		fresh, err := s.Repo.UnlockBadge(ctx, userID, b.ID)
		if err != nil {
			return nil, err
		}
		if !fresh {
			continue
		}
		unlocked = append(unlocked, b)
		if b.Points > 0 {
			if _, err := s.Repo.AddPoints(ctx, userID, b.Points); err != nil {
				return nil, err
			}
		}
		data := fmt.Sprintf(`{"badge_id":%q}`, b.ID)
		if err := s.Repo.InsertActivity(ctx, userID, "badge_unlock", &data); err != nil {
			log.Printf("service: activity insert failed: %v", err)
		}
	}
	return unlocked, nil
}

func (s *Service) counters(ctx context.Context, userID string) (habit.Counters, error) {
	var c habit.Counters
	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return c, err
	}
	c.Streak = user.CurrentStreak
	c.TotalPoints = user.TotalPoints
	if c.ActiveHabits, err = s.Repo.CountActiveHabits(ctx, userID); err != nil {
		return c, err
	}
	if c.Completions, err = s.Repo.CountCompletions(ctx, userID); err != nil {
		return c, err
	}
	if c.FocusMinutes, err = s.Repo.SumFocusMinutes(ctx, userID); err != nil {
		return c, err
	}
	return c, nil
}

// BadgeStatus decorates a catalog badge with the caller's progress.
type BadgeStatus struct {
	models.Badge
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	Progress   float64    `json:"progress"`
}

func (s *Service) BadgeStatuses(ctx context.Context, userID string) ([]BadgeStatus, error) {
	counters, err := s.counters(ctx, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.Repo.ListBadges(ctx)
	if err != nil {
		return nil, err
	}
	owned, err := s.Repo.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlockedAt := make(map[string]time.Time, len(owned))
	for _, ub := range owned {
		unlockedAt[ub.BadgeID] = ub.UnlockedAt
	}
	out := make([]BadgeStatus, 0, len(badges))
	for _, b := range badges {
		st := BadgeStatus{Badge: b, Progress: habit.BadgeProgress(b, counters)}
		if at, ok := unlockedAt[b.ID]; ok {
			st.Unlocked = true
			st.UnlockedAt = &at
			st.Progress = 100
		}
		out = append(out, st)
	}
	return out, nil
}

// ---- weekly summaries, insights, reports ----

// WeekData bundles everything a week's insight or report is computed from.
type WeekData struct {
	WeekStart time.Time
	Summary   habit.WeeklySummary
}

// SummarizeWeek collects logs, habits and focus sessions for the seven days
// starting at weekStart and reduces them to a summary.
func (s *Service) SummarizeWeek(ctx context.Context, userID string, weekStart time.Time) (*WeekData, error) {
	start := habit.DateOnly(weekStart)
	end := start.AddDate(0, 0, 6)

	user, err := s.Repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.Repo.ListUserLogsRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	habits, err := s.Repo.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.Repo.ListFocusSessions(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return &WeekData{
		WeekStart: start,
		Summary:   habit.SummarizeWeek(logs, habits, sessions, user.CurrentStreak),
	}, nil
}

// GenerateInsight computes the week's summary, produces the coaching text
// and stores it, replacing any earlier write-up for the same week.
func (s *Service) GenerateInsight(ctx context.Context, userID string, weekStart time.Time) (*models.Insight, error) {
	data, err := s.SummarizeWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	gen := s.Insights.Weekly(ctx, data.Summary)
	return s.Repo.SaveInsight(ctx, userID, data.WeekStart, gen.Insights, gen.Recommendations, gen.MotivationalTip)
}

// WeeklyReport is the computed report payload: raw numbers plus the stored
// insight text when one exists for the week.
type WeeklyReport struct {
	WeekStart time.Time           `json:"week_start"`
	Summary   habit.WeeklySummary `json:"summary"`
	Insight   *models.Insight     `json:"insight,omitempty"`
}

func (s *Service) WeeklyReport(ctx context.Context, userID string, weekStart time.Time) (*WeeklyReport, error) {
	data, err := s.SummarizeWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, err
	}
	report := &WeeklyReport{WeekStart: data.WeekStart, Summary: data.Summary}
	in, err := s.Repo.GetInsight(ctx, userID, data.WeekStart)
	if err == nil {
		report.Insight = in
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	return report, nil
}

// ---- due habits ----

// DueHabit pairs a habit with today's completion state.
type DueHabit struct {
	models.Habit
	CompletedToday bool `json:"completed_today"`
}

// DueHabits filters the user's active habits down to those scheduled on the
// given day, annotated with whether they're already done.
func (s *Service) DueHabits(ctx context.Context, userID string, day time.Time) ([]DueHabit, error) {
	if err := s.Repo.ResetStaleStreak(ctx, userID, day); err != nil {
		return nil, err
	}
	habits, err := s.Repo.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}
	logs, err := s.Repo.ListUserLogsOn(ctx, userID, day)
	if err != nil {
		return nil, err
	}
	done := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.Completed {
			done[l.HabitID] = true
		}
	}
	out := make([]DueHabit, 0, len(habits))
	for _, h := range habits {
		policy := habit.ParsePolicy(h.Frequency, h.FrequencyConfig)
		if policy.Kind == habit.KindUnrecognized {
			log.Printf("service: habit %s has unrecognized frequency %q", h.ID, h.Frequency)
		}
		if !policy.DueOn(day) {
			continue
		}
		out = append(out, DueHabit{Habit: h, CompletedToday: done[h.ID]})
	}
	return out, nil
}
