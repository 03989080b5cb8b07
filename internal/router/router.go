// router/router.go
package router

import (
	"net/http"

	"transfer-service/internal/cache"
	"transfer-service/internal/config"
	"transfer-service/internal/handler"
	"transfer-service/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func Setup(
	r *chi.Mux,
	cfg config.AppConfig,
	transferH *handler.TransferHandler,
	adminH *handler.AdminHandler,
	wsH *handler.WSHandler,
	auth *middleware.AuthMiddleware,
	c *cache.Cache,
) http.Handler {
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", handler.Health)

	r.Route("/user", func(r chi.Router) {
		// The websocket endpoint authenticates at handshake so it can
		// refuse before upgrading.
		r.Get("/ws", wsH.HandleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.With(middleware.RateLimiter(c, cfg.RateLimit, cfg.RateWindow, cfg.RateBlockWindow, "transfer_rate")).
				Post("/transfers", transferH.CreateTransfer)
			r.Get("/transfers", transferH.ListTransfers)
			r.Get("/transfers/{id}", transferH.GetTransfer)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(auth.RequireRole("admin"))
		r.Post("/transfers/{id}/review", adminH.ReviewTransfer)
		r.Get("/ws/stats", adminH.ConnectionStats)
	})

	return r
}
