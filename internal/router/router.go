package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/yuqiannemo/WanderMind/app/logger"
	appMiddleware "github.com/yuqiannemo/WanderMind/app/middleware"
	_ "github.com/yuqiannemo/WanderMind/docs"
	"github.com/yuqiannemo/WanderMind/internal/api"
	"github.com/yuqiannemo/WanderMind/internal/api/auth"
	"github.com/yuqiannemo/WanderMind/internal/api/itinerary"
	"github.com/yuqiannemo/WanderMind/internal/api/plans"
	"github.com/yuqiannemo/WanderMind/internal/api/session"
)

// Config contains dependencies needed for the router setup
type Config struct {
	SessionHandler   *session.SessionHandler
	ItineraryHandler *itinerary.ItineraryHandler
	AuthHandler      *auth.AuthHandler
	PlanHandler      *plans.PlanHandler
	// AuthenticateMiddleware guards the account and plan routes.
	AuthenticateMiddleware func(http.Handler) http.Handler

	AllowedOrigins      []string
	AIRequestsPerMinute int
	RequestTimeout      time.Duration
	Logger              *slog.Logger
}

// SetupRouter builds the application router with the server-wide middleware
// stack already applied.
func SetupRouter(cfg *Config) chi.Router {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5, "application/json"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSONResponse(w, r, http.StatusOK, map[string]string{"message": "WanderMind API is running"})
	})
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(r chi.Router) {
		r.Post("/init", cfg.SessionHandler.Init)

		// model-backed routes share one per-IP budget per endpoint
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.ModelRateLimit(cfg.Logger, cfg.AIRequestsPerMinute))
			r.Post("/recommend", cfg.ItineraryHandler.Recommend)
			r.Post("/route", cfg.ItineraryHandler.Route)
			r.Post("/refine", cfg.ItineraryHandler.Refine)
		})

		r.Post("/auth/signup", cfg.AuthHandler.Signup)
		r.Post("/auth/login", cfg.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/auth/me", cfg.AuthHandler.Me)
			r.Put("/auth/preferences", cfg.AuthHandler.UpdatePreferences)

			r.Post("/plans/save", cfg.PlanHandler.Save)
			r.Get("/plans", cfg.PlanHandler.List)
			r.Get("/plans/{id}", cfg.PlanHandler.Get)
			r.Delete("/plans/{id}", cfg.PlanHandler.Delete)
		})
	})

	return r
}
