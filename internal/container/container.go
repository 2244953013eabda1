package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/yuqiannemo/WanderMind/app/db"
	"github.com/yuqiannemo/WanderMind/config"
	"github.com/yuqiannemo/WanderMind/internal/api/auth"
	generativeAI "github.com/yuqiannemo/WanderMind/internal/api/generative_ai"
	"github.com/yuqiannemo/WanderMind/internal/api/geocode"
	"github.com/yuqiannemo/WanderMind/internal/api/itinerary"
	"github.com/yuqiannemo/WanderMind/internal/api/plans"
	"github.com/yuqiannemo/WanderMind/internal/api/session"
	"github.com/yuqiannemo/WanderMind/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Pool   *pgxpool.Pool
	SQLite *sql.DB

	Sessions         *session.MemoryStore
	AuthService      *auth.AuthServiceImpl
	SessionHandler   *session.SessionHandler
	ItineraryHandler *itinerary.ItineraryHandler
	AuthHandler      *auth.AuthHandler
	PlanHandler      *plans.PlanHandler
}

type options struct {
	generator   itinerary.ContentGenerator
	geocoder    geocode.Geocoder
	geocoderSet bool
}

// Option overrides a dependency the container would otherwise build itself.
type Option func(*options)

// WithGenerator replaces the Gemini client.
func WithGenerator(g itinerary.ContentGenerator) Option {
	return func(o *options) { o.generator = g }
}

// WithGeocoder replaces the Nominatim client. A nil geocoder means offline mode.
func WithGeocoder(g geocode.Geocoder) Option {
	return func(o *options) {
		o.geocoder = g
		o.geocoderSet = true
	}
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("jwt.secretKey must be set")
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg, Logger: logger}

	userRepo, planRepo, err := c.repositories(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	generator := o.generator
	if generator == nil {
		client, err := generativeAI.NewAIClient(ctx, cfg.LLM, logger)
		switch {
		case errors.Is(err, generativeAI.ErrNotConfigured):
			logger.Warn("No model API key configured, model-backed routes will answer 502")
			generator = generativeAI.Disabled{}
		case err != nil:
			c.Close()
			return nil, fmt.Errorf("initializing model client: %w", err)
		default:
			generator = client
		}
	}

	geocoder := o.geocoder
	if !o.geocoderSet && cfg.Geocoding.Enabled {
		geocoder = geocode.NewNominatimClient(cfg.Geocoding, logger)
	}
	locator := geocode.NewLocator(geocoder, cfg.Geocoding.Concurrency, cfg.Geocoding.Budget, logger)

	c.Sessions = session.NewMemoryStore()
	sessionService := session.NewSessionService(c.Sessions, locator, logger)
	c.SessionHandler = session.NewSessionHandler(sessionService, logger)

	itineraryService := itinerary.NewItineraryService(sessionService, generator, locator, logger)
	c.ItineraryHandler = itinerary.NewItineraryHandler(itineraryService, logger)

	c.AuthService = auth.NewAuthService(userRepo, cfg.JWT, logger)
	c.AuthHandler = auth.NewAuthHandler(c.AuthService, logger)

	planService := plans.NewPlanService(planRepo, sessionService, logger)
	c.PlanHandler = plans.NewPlanHandler(planService, logger)

	logger.Info("Container initialized",
		slog.String("driver", driverName(cfg)),
		slog.Bool("geocoding", geocoder != nil))
	return c, nil
}

func (c *Container) repositories(ctx context.Context) (auth.UserRepo, plans.PlanRepo, error) {
	switch driverName(c.Config) {
	case config.DriverMemory:
		return auth.NewMemoryUserRepo(), plans.NewMemoryPlanRepo(), nil

	case config.DriverPostgres:
		dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
		if err != nil {
			return nil, nil, fmt.Errorf("generating database config: %w", err)
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, c.Logger); err != nil {
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		c.Pool = pool
		if !database.WaitForDB(ctx, pool, c.Logger) {
			return nil, nil, errors.New("database not ready")
		}
		return auth.NewPostgresUserRepo(pool, c.Logger), plans.NewPostgresPlanRepo(pool, c.Logger), nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, c.Config.Repositories.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		c.SQLite = db
		return auth.NewSQLiteUserRepo(db, c.Logger), plans.NewSQLitePlanRepo(db, c.Logger), nil

	default:
		return nil, nil, fmt.Errorf("unknown repository driver %q", c.Config.Repositories.Driver)
	}
}

// RouterConfig hands the container's handlers and settings to the router.
func (c *Container) RouterConfig() *router.Config {
	return &router.Config{
		SessionHandler:         c.SessionHandler,
		ItineraryHandler:       c.ItineraryHandler,
		AuthHandler:            c.AuthHandler,
		PlanHandler:            c.PlanHandler,
		AuthenticateMiddleware: auth.Authenticate(c.Logger, c.AuthService),
		AllowedOrigins:         c.Config.CORS.AllowedOrigins,
		AIRequestsPerMinute:    c.Config.RateLimit.AIRequestsPerMinute,
		RequestTimeout:         c.Config.Server.Timeout,
		Logger:                 c.Logger,
	}
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
		c.Logger.Info("Database connection pool closed")
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			c.Logger.Error("Failed to close sqlite database", slog.Any("error", err))
		}
	}
}

func driverName(cfg *config.Config) string {
	if cfg.Repositories.Driver == "" {
		return config.DriverMemory
	}
	return cfg.Repositories.Driver
}
