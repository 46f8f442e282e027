package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cinefuse/cinefuse/internal/cache"
	"github.com/cinefuse/cinefuse/internal/config"
	"github.com/cinefuse/cinefuse/internal/handlers"
	"github.com/cinefuse/cinefuse/internal/ingest"
	"github.com/cinefuse/cinefuse/internal/metrics"
	"github.com/cinefuse/cinefuse/internal/middleware"
	"github.com/cinefuse/cinefuse/internal/recommender"
	"github.com/cinefuse/cinefuse/internal/store"
	"github.com/cinefuse/cinefuse/internal/validation"
	"github.com/cinefuse/cinefuse/pkg/models"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	engine   *recommender.Engine
	handlers *handlers.Handlers
	router   *gin.Engine
	metrics  *metrics.Metrics
	cache    *cache.RedisScoreCache
	pool     interface{ Close() }
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config:  cfg,
		logger:  setupLogger(cfg),
		metrics: metrics.New(),
	}

	catalog, err := ingest.LoadCatalog(&cfg.Data, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	ratings, err := app.loadRatings(catalog)
	if err != nil {
		return nil, err
	}

	scoreCache, err := cache.New(&cfg.Redis, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect score cache: %w", err)
	}
	app.cache = scoreCache

	var opts []recommender.Option
	if scoreCache != nil {
		opts = append(opts, recommender.WithScoreCache(scoreCache))
	}

	engine, err := recommender.NewEngine(
		ratings, catalog.Features, catalog.ItemEncoder,
		&cfg.Algorithms, app.logger, opts...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation engine: %w", err)
	}
	app.engine = engine

	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile request schemas: %w", err)
	}

	app.handlers = handlers.New(engine, catalog, validator, app.metrics, app.logger)
	app.setupRouter()

	return app, nil
}

// loadRatings pulls rating events from whichever source is configured.
// The catalog itself always comes from CSV; PostgreSQL only replaces the
// ratings table.
func (a *App) loadRatings(catalog *ingest.Catalog) ([]models.Rating, error) {
	switch a.config.Data.Source {
	case "postgres":
		pool, err := store.NewPool(context.Background(), &a.config.Database, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.pool = pool

		ratingsStore := store.NewRatingsStore(pool, a.logger)

		maxIdx, err := ratingsStore.MaxItemIndex(context.Background())
		if err != nil {
			return nil, err
		}
		if maxIdx >= catalog.ItemEncoder.Len() {
			return nil, fmt.Errorf("%w: ratings table references item %d, catalog has %d",
				recommender.ErrConfigMismatch, maxIdx, catalog.ItemEncoder.Len())
		}

		return ratingsStore.LoadRatings(context.Background())
	default:
		ratings, _, err := ingest.LoadRatings(&a.config.Data, catalog, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to load ratings: %w", err)
		}
		return ratings, nil
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.WithError(err).Error("Error closing score cache")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(&a.config.Server.CORS))
	router.Use(a.metrics.HTTPMiddleware())

	router.GET("/health", a.handlers.Health.Check)
	router.GET("/metrics", a.metrics.Handler())

	api := router.Group("/api/v1")
	{
		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("/:userId", a.handlers.Recommendation.Get)
			recommendations.POST("/cold-start", a.handlers.Recommendation.ColdStart)
		}
	}

	a.router = router
}
