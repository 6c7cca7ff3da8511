package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"habitoid/internal/auth"
	"habitoid/internal/habit"
	"habitoid/internal/repo"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

const dateLayout = "2006-01-02"

type registerRequest struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
	Password string  `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type habitRequest struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Category        string  `json:"category"`
	Color           string  `json:"color"`
	Icon            string  `json:"icon"`
	Frequency       string  `json:"frequency"`
	FrequencyConfig *string `json:"frequency_config"`
	TargetValue     int     `json:"target_value"`
	Unit            string  `json:"unit"`
	ReminderTime    *string `json:"reminder_time"`
}

type logRequest struct {
	Date      string  `json:"date"`
	Completed bool    `json:"completed"`
	Value     int     `json:"value"`
	Notes     *string `json:"notes"`
}

type focusRequest struct {
	HabitID     *string `json:"habit_id"`
	Duration    int     `json:"duration"`
	SessionType string  `json:"session_type"`
	Completed   bool    `json:"completed"`
	Date        string  `json:"date"`
}

type moodRequest struct {
	Date  string  `json:"date"`
	Mood  int     `json:"mood"`
	Notes *string `json:"notes"`
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- auth ----

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Username and a password of at least 8 characters required")
		return
	}
	user, err := a.Service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "REGISTRATION_FAILED", "Could not create account")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, accessToken, refreshToken, err := a.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	accessToken, err := a.Service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_REFRESH", "Invalid or expired refresh token")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: accessToken})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	_ = a.Service.Logout(r.Context(), req.RefreshToken)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Email required")
		return
	}
	if err := a.Service.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not process request")
		return
	}
	// Always ok, whether or not the address exists.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Token == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Token and a password of at least 8 characters required")
		return
	}
	if err := a.Service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_TOKEN", "Invalid or expired reset token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Repo.ResetStaleStreak(r.Context(), userID, time.Now().UTC()); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load user")
		return
	}
	user, err := a.Repo.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ---- habits ----

func (a *API) handleListHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	habits, err := a.Repo.ListHabits(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list habits")
		return
	}
	writeJSON(w, http.StatusOK, habits)
}

func habitParams(req habitRequest) repo.HabitParams {
	if req.Category == "" {
		req.Category = "other"
	}
	cat := habit.CategoryByID(req.Category)
	if req.Color == "" {
		req.Color = cat.Color
	}
	if req.Icon == "" {
		req.Icon = cat.Icon
	}
	if req.Frequency == "" {
		req.Frequency = habit.FrequencyDaily
	}
	if req.TargetValue <= 0 {
		req.TargetValue = 1
	}
	if req.Unit == "" {
		req.Unit = "times"
	}
	return repo.HabitParams{
		Name:            req.Name,
		Description:     req.Description,
		Category:        cat.ID,
		Color:           req.Color,
		Icon:            req.Icon,
		Frequency:       req.Frequency,
		FrequencyConfig: req.FrequencyConfig,
		TargetValue:     req.TargetValue,
		Unit:            req.Unit,
		ReminderTime:    req.ReminderTime,
	}
}

func (a *API) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req habitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Name required")
		return
	}
	h, err := a.Repo.CreateHabit(r.Context(), userID, habitParams(req))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create habit")
		return
	}
	writeJSON(w, http.StatusCreated, h)
}

func (a *API) handleUpdateHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	existing, err := a.Repo.GetHabit(r.Context(), id, userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Habit not found")
		return
	}
	// PATCH semantics: absent fields keep their stored values.
	req := habitRequest{
		Name:            existing.Name,
		Description:     existing.Description,
		Category:        existing.Category,
		Color:           existing.Color,
		Icon:            existing.Icon,
		Frequency:       existing.Frequency,
		FrequencyConfig: existing.FrequencyConfig,
		TargetValue:     existing.TargetValue,
		Unit:            existing.Unit,
		ReminderTime:    existing.ReminderTime,
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Name required")
		return
	}
	h, err := a.Repo.UpdateHabit(r.Context(), id, userID, habitParams(req))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Habit not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update habit")
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (a *API) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Repo.DeleteHabit(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Habit not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete habit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleDueHabits(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	day, ok := queryDate(w, r, "date", time.Now().UTC())
	if !ok {
		return
	}
	due, err := a.Service.DueHabits(r.Context(), userID, day)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list due habits")
		return
	}
	writeJSON(w, http.StatusOK, due)
}

func (a *API) handleLogHabit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req logRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	day := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date")
			return
		}
		day = parsed
	}
	if req.Value <= 0 {
		req.Value = 1
	}
	outcome, err := a.Service.LogHabit(r.Context(), userID, repo.LogHabitParams{
		HabitID:   chi.URLParam(r, "id"),
		Date:      day,
		Completed: req.Completed,
		Value:     req.Value,
		Notes:     req.Notes,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Habit not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log habit")
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (a *API) handleListHabitLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from, ok := queryDate(w, r, "from", now.AddDate(0, 0, -30))
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to", now)
	if !ok {
		return
	}
	logs, err := a.Repo.ListHabitLogs(r.Context(), chi.URLParam(r, "id"), userID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (a *API) handleTodayLogs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	logs, err := a.Repo.ListUserLogsOn(r.Context(), userID, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list logs")
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

type contributionCell struct {
	Count int `json:"count"`
	Level int `json:"level"`
}

func (a *API) handleContribution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from, ok := queryDate(w, r, "from", now.AddDate(-1, 0, -6))
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to", now)
	if !ok {
		return
	}
	logs, err := a.Repo.ListCompletedLogs(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load contribution data")
		return
	}
	cells := make(map[string]contributionCell)
	for date, count := range habit.DailyCounts(logs) {
		cells[date] = contributionCell{Count: count, Level: habit.HeatmapLevel(count)}
	}
	writeJSON(w, http.StatusOK, cells)
}

// ---- focus ----

func (a *API) handleCreateFocusSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req focusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Duration <= 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Duration must be positive")
		return
	}
	switch req.SessionType {
	case "":
		req.SessionType = "focus"
	case "focus", "short_break", "long_break":
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown session type")
		return
	}
	day := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date")
			return
		}
		day = parsed
	}
	outcome, err := a.Service.RecordFocusSession(r.Context(), userID, repo.FocusParams{
		HabitID:     req.HabitID,
		Duration:    req.Duration,
		SessionType: req.SessionType,
		Completed:   req.Completed,
		Date:        day,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record session")
		return
	}
	writeJSON(w, http.StatusCreated, outcome)
}

func (a *API) handleTodayFocusSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	today := time.Now().UTC()
	sessions, err := a.Repo.ListFocusSessions(r.Context(), userID, today, today)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// ---- gamification ----

func (a *API) handleListBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	statuses, err := a.Service.BadgeStatuses(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list badges")
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (a *API) handleUserBadges(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	owned, err := a.Repo.ListUserBadges(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list badges")
		return
	}
	writeJSON(w, http.StatusOK, owned)
}

func (a *API) handleEvolution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	user, err := a.Repo.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	next, progress := habit.NextEvolution(user.TotalPoints)
	current, needed, percent := habit.LevelProgress(user.TotalPoints)
	writeJSON(w, http.StatusOK, map[string]any{
		"evolution":      habit.EvolutionFor(user.TotalPoints),
		"next_evolution": next,
		"progress":       progress,
		"level":          habit.Level(user.TotalPoints),
		"level_progress": map[string]int{"current": current, "needed": needed, "percent": percent},
		"total_points":   user.TotalPoints,
	})
}

// ---- analytics ----

func (a *API) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	from, ok := queryDate(w, r, "from", now.AddDate(0, 0, -30))
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to", now)
	if !ok {
		return
	}
	logs, err := a.Repo.ListUserLogsRange(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load analytics")
		return
	}
	habits, err := a.Repo.ListHabits(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load analytics")
		return
	}
	categoryOf := make(map[string]string, len(habits))
	for _, h := range habits {
		categoryOf[h.ID] = h.Category
	}
	rates := habit.WeekdayRates(logs)
	payload := map[string]any{
		"weekday_rates":  rates,
		"best_day":       habit.BestDay(rates).String(),
		"category_rates": habit.CategoryRates(logs, categoryOf),
		"overall_rate":   habit.OverallRate(logs),
	}
	if worst, found := habit.NeedsWorkDay(rates); found {
		payload["needs_work_day"] = worst.String()
	}
	writeJSON(w, http.StatusOK, payload)
}

// ---- insights and reports ----

func (a *API) handleGenerateInsight(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		WeekStart string `json:"week_start"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	weekStart, err := time.Parse(dateLayout, req.WeekStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid week_start")
		return
	}
	in, err := a.Service.GenerateInsight(r.Context(), userID, weekStart)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate insight")
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (a *API) handleGetInsight(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	weekStart, err := time.Parse(dateLayout, chi.URLParam(r, "weekStart"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid week start")
		return
	}
	in, err := a.Repo.GetInsight(r.Context(), userID, weekStart)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "No insight for that week")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load insight")
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (a *API) handleWeeklyReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	weekStart, err := time.Parse(dateLayout, chi.URLParam(r, "weekStart"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid week start")
		return
	}
	report, err := a.Service.WeeklyReport(r.Context(), userID, weekStart)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ---- mood ----

func (a *API) handleLogMood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req moodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Mood < 1 || req.Mood > 3 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Mood must be between 1 and 3")
		return
	}
	day := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date")
			return
		}
		day = parsed
	}
	m, err := a.Repo.LogMood(r.Context(), userID, day, req.Mood, req.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log mood")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (a *API) handleTodayMood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	m, err := a.Repo.GetMoodOn(r.Context(), userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "No mood logged today")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load mood")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// ---- social ----

func (a *API) handleListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	friends, err := a.Repo.ListFriends(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list friends")
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

func (a *API) handleAddFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Username required")
		return
	}
	friend, err := a.Repo.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	if err := a.Repo.CreateFriendRequest(r.Context(), userID, friend.ID); err != nil {
		switch {
		case errors.Is(err, repo.ErrSelfFriend):
			writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "You can't add yourself")
		case errors.Is(err, repo.ErrAlreadyFriend):
			writeError(w, http.StatusBadRequest, "ALREADY_FRIENDS", "Friendship or request already exists")
		default:
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send request")
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (a *API) handleFriendRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	requests, err := a.Repo.ListFriendRequests(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list requests")
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (a *API) handleAcceptFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Repo.AcceptFriendRequest(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Request not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to accept request")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleRejectFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Repo.RejectFriendRequest(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Request not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to reject request")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if err := a.Repo.RemoveFriend(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove friend")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleActivityFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	feed, err := a.Repo.ListActivityFeed(r.Context(), userID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load activity")
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (a *API) handlePublicProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	profile, err := a.Repo.GetPublicProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *API) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	top, err := a.Repo.Leaderboard(r.Context(), 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, top)
}

// ---- helpers ----

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing user")
		return "", false
	}
	return userID, true
}

func queryDate(w http.ResponseWriter, r *http.Request, key string, fallback time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, true
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+key+" date")
		return time.Time{}, false
	}
	return parsed, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid payload")
		return false
	}
	return true
}
