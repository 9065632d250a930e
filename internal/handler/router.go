package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	"github.com/suar-net/usage-pricing-be/internal/metrics"
	"github.com/suar-net/usage-pricing-be/internal/service"
)

type RouterDeps struct {
	AuthService  service.IAuthService
	UsageService service.IUsageService
	DB           Pinger
	Metrics      *metrics.Metrics
	Logger       logrus.FieldLogger
}

// SetupRouter creates the main Chi router for the application.
func SetupRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(deps.Metrics.Middleware)

	// Any origin, method and header is accepted. Origins are echoed back
	// rather than answered with "*" so that credentialed requests still work.
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool { return true },
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	authHandler := NewAuthHandler(deps.AuthService, deps.Metrics, deps.Logger)
	eventHandler := NewEventHandler(deps.UsageService, deps.Metrics, deps.Logger)
	healthHandler := NewHealthHandler(deps.DB, deps.Logger)
	authMiddleware := NewAuthMiddleware(deps.AuthService, deps.Logger)

	r.Post("/login", authHandler.Login)
	r.Get("/health", healthHandler.Check)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		r.Post("/event", eventHandler.Create)
		r.Get("/events", eventHandler.List)
	})

	return r
}
