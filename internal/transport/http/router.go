package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/judicial-monitor/internal/config"
	"github.com/judicial-monitor/internal/domain"
	"github.com/judicial-monitor/internal/pkg/logger"
	"github.com/judicial-monitor/internal/transport/http/handler"
	appmiddleware "github.com/judicial-monitor/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Router is the application HTTP handler. Close releases the rate limiter's janitor.
type Router struct {
	http.Handler
	limiter *appmiddleware.RateLimiter
}

func (r *Router) Close() { r.limiter.Close() }

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) *Router {
	log := deps.Log
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 10 requests/second per client, burst of 20.
	rl := appmiddleware.NewRateLimiter(rate.Limit(10), 20)
	authMw := appmiddleware.Auth(deps.Verifier)

	healthH := handler.NewHealthHandler()
	notifH := handler.NewNotificationHandler(deps.Notifications)
	favH := handler.NewFavoriteHandler(deps.Favorites)
	snapH := handler.NewSnapshotHandler(deps.Snapshots)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(rl.Limit)
			r.Use(authMw)

			r.Get("/notifications", notifH.List)
			r.Get("/notifications/unread", notifH.ListUnread)
			r.Put("/notifications/read-all", notifH.MarkAllAsRead)
			r.Put("/notifications/{id}/read", notifH.MarkAsRead)

			r.Get("/favorites", favH.List)
			r.Post("/favorites", favH.Add)
			r.Delete("/favorites/{caseNumber}", favH.Remove)

			r.Get("/processes/{caseNumber}/snapshot", snapH.Get)

			if deps.Trigger != nil {
				monH := handler.NewMonitoringHandler(deps.Trigger)
				r.Group(func(r chi.Router) {
					r.Use(appmiddleware.RequireRole(domain.RoleAdmin))
					r.Post("/admin/monitoring/run", monH.Run)
				})
			}
		})
	})

	return &Router{Handler: r, limiter: rl}
}
