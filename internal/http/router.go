package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"pulse/internal/domain/comment"
	"pulse/internal/domain/feed"
	"pulse/internal/domain/notification"
	"pulse/internal/domain/poll"
	"pulse/internal/domain/user"
	jwtpkg "pulse/internal/platform/jwt"
	"pulse/internal/realtime"
	"pulse/internal/worker"
)

type Handler struct {
	userSvc         *user.Service
	pollSvc         *poll.Service
	commentSvc      *comment.Service
	feedSvc         *feed.Service
	notificationSvc *notification.Service
	jwtMgr          *jwtpkg.Manager
	engagementCh    chan<- worker.EngagementEvent
	hub             *realtime.Hub
	db              *sql.DB
}

func NewRouter(
	userSvc *user.Service,
	pollSvc *poll.Service,
	commentSvc *comment.Service,
	feedSvc *feed.Service,
	notificationSvc *notification.Service,
	jwtMgr *jwtpkg.Manager,
	engagementCh chan<- worker.EngagementEvent,
	hub *realtime.Hub,
	db *sql.DB,
) http.Handler {
	h := &Handler{
		userSvc:         userSvc,
		pollSvc:         pollSvc,
		commentSvc:      commentSvc,
		feedSvc:         feedSvc,
		notificationSvc: notificationSvc,
		jwtMgr:          jwtMgr,
		engagementCh:    engagementCh,
		hub:             hub,
		db:              db,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	if hub != nil {
		r.Get("/ws", hub.ServeWS)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.handleRegister)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(jwtMgr))

			r.Post("/polls", h.handleCreatePoll)
			r.Get("/polls/trending", h.handleTrending)
			r.Get("/polls/feed", h.handleFeed)
			r.Get("/polls/{id}", h.handleGetPoll)
			r.Post("/polls/{id}/report", h.handleReportPoll)

			r.Group(func(r chi.Router) {
				r.Use(RateLimitEngagement(rate.Every(time.Minute/30), 5))
				r.Post("/polls/{id}/vote", h.handleVote)
				r.Post("/polls/{id}/like", h.handleLikePoll)
				r.Post("/comments/{id}/like", h.handleLikeComment)
			})

			r.Post("/polls/{id}/comments", h.handleAddComment)
			r.Get("/polls/{id}/comments", h.handleListComments)
			r.Get("/polls/{id}/comments/thread", h.handleCommentThread)
			r.Post("/comments/{id}/report", h.handleReportComment)

			r.Get("/feeds/personalized", h.handlePersonalizedFeed)
			r.Get("/feeds/location", h.handleLocationFeed)
			r.Get("/feeds/sponsored", h.handleSponsoredFeed)
			r.Get("/feeds/explore", h.handleExploreFeed)
			r.Get("/search/suggest", h.handleSuggest)

			r.Get("/notifications", h.handleListNotifications)
			r.Patch("/notifications/{id}/read", h.handleMarkNotificationRead)

			r.Get("/users/me", h.handleMe)
			r.Put("/users/me/interests", h.handleSetInterests)
			r.Post("/users/{id}/follow", h.handleToggleFollow)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole("admin"))
				r.Get("/admin/polls/reported", h.handleReportedPolls)
				r.Delete("/admin/polls/{id}", h.handleDeletePoll)
				r.Get("/admin/comments/reported", h.handleReportedComments)
				r.Delete("/admin/comments/{id}", h.handleDeleteComment)
				r.Get("/admin/users", h.handleListUsers)
				r.Patch("/admin/users/{id}/ban", h.handleToggleBan)
			})
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
