package http

import (
	"net/http"
	"time"

	"habitoid/internal/auth"
	"habitoid/internal/repo"
	"habitoid/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type API struct {
	Repo    *repo.Repo
	Service *service.Service
	Auth    *auth.Manager
	Origins []string
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(loggingMiddleware)
	r.Use(a.corsMiddleware)

	r.Get("/health", a.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
		r.Post("/refresh", a.handleRefresh)
		r.Post("/logout", a.handleLogout)
		r.Post("/forgot-password", a.handleForgotPassword)
		r.Post("/reset-password", a.handleResetPassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.authMiddleware)
		r.Get("/me", a.handleMe)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", a.handleListHabits)
			r.Post("/", a.handleCreateHabit)
			r.Get("/due", a.handleDueHabits)
			r.Patch("/{id}", a.handleUpdateHabit)
			r.Delete("/{id}", a.handleDeleteHabit)
			r.Post("/{id}/log", a.handleLogHabit)
			r.Get("/{id}/logs", a.handleListHabitLogs)
		})
		r.Get("/habit-logs/today", a.handleTodayLogs)
		r.Get("/habit-logs/contribution", a.handleContribution)

		r.Post("/focus", a.handleCreateFocusSession)
		r.Get("/focus/today", a.handleTodayFocusSessions)

		r.Get("/badges", a.handleListBadges)
		r.Get("/user-badges", a.handleUserBadges)
		r.Get("/evolution", a.handleEvolution)

		r.Get("/analytics", a.handleAnalytics)

		r.Post("/insights/generate", a.handleGenerateInsight)
		r.Get("/insights/{weekStart}", a.handleGetInsight)
		r.Get("/reports/weekly/{weekStart}", a.handleWeeklyReport)

		r.Post("/mood", a.handleLogMood)
		r.Get("/mood/today", a.handleTodayMood)

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", a.handleListFriends)
			r.Post("/add", a.handleAddFriend)
			r.Get("/requests", a.handleFriendRequests)
			r.Post("/accept/{id}", a.handleAcceptFriend)
			r.Post("/reject/{id}", a.handleRejectFriend)
			r.Delete("/{id}", a.handleRemoveFriend)
		})
		r.Get("/activity", a.handleActivityFeed)
		r.Get("/users/{id}", a.handlePublicProfile)
		r.Get("/leaderboard", a.handleLeaderboard)
	})

	return r
}
