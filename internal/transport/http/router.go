package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"threadline/internal/handler"
	"threadline/internal/httputil"
	"threadline/internal/metrics"
	authmw "threadline/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	UserHandler     *handler.UserHandler
	ActivityHandler *handler.ActivityHandler
	ThreadHandler   *handler.ThreadHandler
	MediaHandler    *handler.MediaHandler
	DeviceHandler   *handler.DeviceHandler
	JWTSecret       string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	// Public profile and thread pages with optional authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.OptionalAuthMiddleware(cfg.JWTSecret))

		r.Get("/users/{id}", cfg.UserHandler.GetUser)
		r.Get("/users/{id}/threads", cfg.UserHandler.GetUserThreads)
		r.Get("/threads", cfg.ThreadHandler.List)
		r.Get("/threads/{id}", cfg.ThreadHandler.Get)
	})

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		r.Get("/me", cfg.UserHandler.Me)
		r.Get("/users", cfg.UserHandler.ListUsers)

		// Onboarding and profile edits share one upsert
		r.Put("/profile", cfg.UserHandler.UpdateProfile)
		r.Get("/profile/edit", cfg.UserHandler.GetProfileEdit)

		r.Get("/activity", cfg.ActivityHandler.GetActivity)
		r.Get("/activity/unread", cfg.ActivityHandler.GetUnread)

		r.Post("/threads", cfg.ThreadHandler.Create)
		r.Post("/threads/{id}/replies", cfg.ThreadHandler.Reply)

		r.Post("/media/avatar", cfg.MediaHandler.UploadAvatar)

		r.Post("/devices", cfg.DeviceHandler.Register)
		r.Delete("/devices", cfg.DeviceHandler.Remove)
	})

	return r
}
