package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/auth"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/configs"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/api-gateway/internal/port"
)

// NewServer wires the gateway router: public auth routes, authenticated
// proxies to the internal services and the health probe.
func NewServer(cfg *configs.Config, authClient *auth.Client, baseLogger port.LoggerPort) *http.Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMiddleware := NewAuthMiddleware(authClient)

	const internalApiPrefix = "/api/v1"

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public routes: registration, login, refresh, validate.
	r.Group(func(r chi.Router) {
		r.Mount("/auth", CreateProxy(cfg.AuthServiceURL, internalApiPrefix))
	})

	// Everything else requires a valid access token.
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Mount("/tasks", CreateProxy(cfg.TasksServiceURL, internalApiPrefix))

		// The more specific streaming route is mounted before the plain one.
		r.Mount("/notifications/subscribe", CreateSSEProxy(cfg.NotificationsServiceURL, internalApiPrefix))
		r.Mount("/notifications", CreateProxy(cfg.NotificationsServiceURL, internalApiPrefix))
	})

	return &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
}
