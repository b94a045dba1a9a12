package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/redis/go-redis/v9"

	"twpulse/internal/config"
	"twpulse/internal/errors"
	"twpulse/internal/infrastructure"
	customMiddleware "twpulse/internal/middleware"
	"twpulse/internal/pipeline"
	"twpulse/internal/services"
	"twpulse/internal/sources"
	handlers "twpulse/internal/transport/http"
	"twpulse/internal/watchlist"
)

const VERSION = "1.0.0"

// BuildTime is set at compile time via -ldflags
var BuildTime = ""

// Application represents the main application container
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	Redis           *redis.Client
	SnapshotService *services.SnapshotService
	CardService     *services.CardService
	HealthService   *services.HealthService

	metricsCollector *infrastructure.SystemMetricsCollector
	bgCancel         context.CancelFunc
}

// NewApplication creates a new application instance with dependency injection
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", VERSION))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the source adapters, the pipeline and the
// services in dependency order.
func (a *Application) initializeServices() error {
	cfg := a.Config

	metrics, err := infrastructure.CreateBusinessMetrics(a.OTelProviders.Meter)
	if err != nil {
		a.Logger.Warn("business metrics unavailable", slog.String("error", err.Error()))
	}

	fetcher := sources.NewFetcher(cfg.Sources.FetchTimeout, cfg.Sources.FetchRPS, cfg.Sources.FetchBurst, metrics, a.Logger)

	days := sources.NewTradingDayLocator(fetcher.Named("index"), cfg.Sources.IndexURL, cfg.Sources.LookbackDays, a.Logger)
	quotes := sources.NewQuoteAdapter(fetcher.Named("quote"), cfg.Sources.QuoteURL, a.Logger)
	foreign := sources.NewForeignFlowAdapter(fetcher.Named("foreign"), cfg.Sources.ForeignURL, a.Logger)
	futures := sources.NewFuturesAdapter(fetcher.Named("futures"), cfg.Sources.FuturesURL, config.FuturesProducts, a.Logger)
	broker := sources.NewBrokerFlowAdapter(fetcher.Named("broker"), cfg.Sources.BrokerURL, config.BrokerTargets, a.Logger)
	ranking := sources.NewRankingAdapter(fetcher.Named("ranking"), cfg.Sources.RankingURL, a.Logger)

	builder := pipeline.NewSnapshotBuilder(config.FixedTickers, days, quotes, foreign, futures, broker, ranking, a.Logger)
	a.SnapshotService = services.NewSnapshotService(builder, cfg.Sources.RefreshPeriod, metrics, a.Logger)

	a.Redis = redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store := watchlist.NewStore(a.Redis, a.Logger)

	merger := pipeline.NewMerger(quotes, foreign, futures, a.Logger)
	a.CardService = services.NewCardService(
		a.SnapshotService,
		merger,
		pipeline.NewSequencer(),
		store,
		config.FixedTickers,
		metrics,
		a.Logger,
	)

	// Stale bound: twice the refresh period leaves room for one failed cycle.
	a.HealthService = services.NewHealthService(VERSION, BuildTime, a.SnapshotService, a.Redis, 2*cfg.Sources.RefreshPeriod, a.Logger)

	collector, err := infrastructure.NewSystemMetricsCollector(a.OTelProviders.Meter, 30*time.Second)
	if err != nil {
		a.Logger.Warn("system metrics collector unavailable", slog.String("error", err.Error()))
	} else {
		a.metricsCollector = collector
	}

	return nil
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	r.Group(func(r chi.Router) {
		otelMiddleware, err := customMiddleware.NewOTelMiddleware(a.OTelProviders)
		if err != nil {
			a.Logger.Error("failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
			r.Use(customMiddleware.BusinessMetricsMiddleware(otelMiddleware.Metrics()))
		}

		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.DefaultSecureHeaders().Handler)

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
				Logger:         a.Logger,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		a.setupAPIRoutes(r)
	})

	// Prometheus endpoint stays outside the middleware group.
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := errors.NewErrorHandler(a.Logger, a.Config.Logging.Development)

	validation := customMiddleware.NewValidationMiddleware(a.Logger, errorHandler)

	// Unmatched routes answer with problem details rather than plain text.
	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))
		r.Use(customMiddleware.ContentTypeValidator("application/json"))
		r.Use(validation.ValidateRequest)

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		cardsHandler := handlers.NewCardsHandler(a.CardService, validation, a.Logger, errorHandler)
		// Card and watchlist access is audited per client.
		r.With(customMiddleware.AuditLog(a.Logger)).Mount("/", cardsHandler.Routes())

		snapshotHandler := handlers.NewSnapshotHandler(a.SnapshotService, a.Logger, errorHandler)
		r.Mount("/snapshot", snapshotHandler.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server and the background refresh loop.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", config.AppName),
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.Duration("refresh_period", a.Config.Sources.RefreshPeriod))

	bgCtx, bgCancel := context.WithCancel(context.Background())
	a.bgCancel = bgCancel

	go a.SnapshotService.Run(bgCtx)

	if a.metricsCollector != nil {
		go a.metricsCollector.Start(bgCtx)
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.bgCancel != nil {
		a.bgCancel()
	}
	if a.metricsCollector != nil {
		a.metricsCollector.Stop()
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.ErrorContext(ctx, "error closing redis client", slog.String("error", err.Error()))
		}
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	infrastructure.CloseLogFile()

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
