package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pressline/counter-api/internal/config"
	"github.com/pressline/counter-api/internal/enum"
	"github.com/pressline/counter-api/internal/handler"
	"github.com/pressline/counter-api/internal/middleware"
	"github.com/pressline/counter-api/internal/ws"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Wizard       *handler.WizardHandler
	Orders       *handler.OrderHandler
	Customers    *handler.CustomerHandler
	Garments     *handler.GarmentHandler
	Transactions *handler.TransactionHandler
	Reports      *handler.ReportHandler
}

// New builds the HTTP router. Everything except /health, /auth/login and the
// websocket upgrade sits behind token authentication; reports are admin only.
func New(cfg *config.Config, logger *slog.Logger, hub *ws.Hub, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", h.Auth.RegisterRoutes)

	// The browser's WebSocket API cannot set headers, so the upgrade
	// authenticates via a token query parameter instead.
	r.Get("/ws/orders", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(cfg.JWTSecret))

		r.Route("/intake", h.Wizard.RegisterRoutes)
		r.Route("/orders", func(r chi.Router) {
			h.Orders.RegisterRoutes(r)
			h.Transactions.RegisterOrderRoutes(r)
		})
		r.Route("/customers", h.Customers.RegisterRoutes)
		r.Route("/garments", h.Garments.RegisterRoutes)
		r.Route("/transactions", h.Transactions.RegisterRoutes)

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequireRole(enum.RoleAdmin))
			h.Reports.RegisterRoutes(r)
		})
	})

	return r
}
