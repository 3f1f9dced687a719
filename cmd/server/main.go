package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/opsboard/backend/internal/application/identity"
	notificationapp "github.com/opsboard/backend/internal/application/notification"
	partnerapp "github.com/opsboard/backend/internal/application/partner"
	projectapp "github.com/opsboard/backend/internal/application/project"
	"github.com/opsboard/backend/internal/domain/notification"
	"github.com/opsboard/backend/internal/infrastructure/auth"
	"github.com/opsboard/backend/internal/infrastructure/cache"
	"github.com/opsboard/backend/internal/infrastructure/config"
	"github.com/opsboard/backend/internal/infrastructure/event"
	"github.com/opsboard/backend/internal/infrastructure/logger"
	"github.com/opsboard/backend/internal/infrastructure/persistence"
	"github.com/opsboard/backend/internal/infrastructure/scheduler"
	"github.com/opsboard/backend/internal/infrastructure/storage"
	"github.com/opsboard/backend/internal/infrastructure/telemetry"
	"github.com/opsboard/backend/internal/interfaces/http/handler"
	"github.com/opsboard/backend/internal/interfaces/http/middleware"
	"github.com/opsboard/backend/internal/interfaces/http/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// OTEL log bridge has to exist before the logger so records are teed to it
	var extraCores []zapcore.Core
	var loggerProvider *telemetry.LoggerProvider
	if cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled {
		loggerProvider, err = telemetry.NewLoggerProvider(ctx, cfg.Telemetry, zap.NewNop())
		if err != nil {
			panic("Failed to initialize log exporter: " + err.Error())
		}
		extraCores = append(extraCores, loggerProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, extraCores...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting opsboard backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.App.Location().String()),
		zap.String("version", version),
	)

	// Tracing and OTLP metrics
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
		if loggerProvider != nil {
			if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down logger provider", zap.Error(err))
			}
		}
	}()

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level))

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		tracingCfg := telemetry.DefaultDBTracingConfig()
		tracingCfg.Enabled = true
		tracingCfg.LogFullSQL = cfg.Telemetry.DBLogFullSQL
		tracingCfg.DBName = cfg.Database.DBName
		if err := telemetry.NewDBTracingPlugin(tracingCfg, log).Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	var meter metric.Meter
	if meterProvider.IsEnabled() {
		meter = meterProvider.Meter("opsboard")
		if sqlDB, err := db.DB.DB(); err == nil {
			if _, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
				log.Warn("Failed to register database pool metrics", zap.Error(err))
			}
		}
	}

	// Redis backs the summary cache and the token blacklist
	var redisClient *redis.Client
	var summaryCache notification.SummaryCache = cache.NoopSummaryCache{}
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis", zap.Error(err))
			}
		}()
		summaryCache = cache.NewRedisSummaryCache(redisClient, cfg.Redis.SummaryTTL)
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Info("Redis disabled, using in-memory token blacklist and no summary cache")
	}

	documents := newDocumentStore(ctx, cfg, log)
	publisher := newPublisher(cfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Error closing event publisher", zap.Error(err))
		}
	}()

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	engineerRepo := persistence.NewGormEngineerRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	dailyLogRepo := persistence.NewGormDailyLogRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	loc := cfg.App.Location()

	// Notification derivation
	policy := notification.Policy{
		GracePeriodDays:      cfg.Notification.GracePeriodDays,
		MissingLogWindowDays: cfg.Notification.MissingLogWindowDays,
		SkipWeekends:         cfg.Notification.SkipWeekends,
	}
	notificationService := notificationapp.NewNotificationService(
		notificationapp.Repositories{
			Projects:      projectRepo,
			Logs:          dailyLogRepo,
			Expenses:      expenseRepo,
			Invoices:      invoiceRepo,
			Notifications: notificationRepo,
		},
		notification.NewDeriver(policy),
		summaryCache,
		publisher,
		loc,
		log,
	)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, engineerRepo, log)
	companyService := partnerapp.NewCompanyService(companyRepo)
	engineerService := partnerapp.NewEngineerService(engineerRepo)
	projectService := projectapp.NewProjectService(projectRepo, companyRepo, engineerRepo, loc)
	dailyLogService := projectapp.NewDailyLogService(dailyLogRepo, projectRepo, loc)
	expenseService := projectapp.NewExpenseService(expenseRepo, projectRepo, dailyLogRepo)
	invoiceService := projectapp.NewInvoiceService(invoiceRepo, projectRepo, documents, loc, log)

	// Every write feeding a project's notifications queues a refresh of that project
	projectService.SetRefreshQueue(notificationService)
	dailyLogService.SetRefreshQueue(notificationService)
	expenseService.SetRefreshQueue(notificationService)
	invoiceService.SetRefreshQueue(notificationService)

	// Background refresh workers
	var refreshScheduler *scheduler.Scheduler
	var refreshTrigger *scheduler.IntervalTrigger
	if cfg.Notification.RefreshEnabled {
		refreshScheduler, err = scheduler.NewScheduler(scheduler.ConfigFromNotification(cfg.Notification), notificationService, log)
		if err != nil {
			log.Fatal("Failed to create refresh scheduler", zap.Error(err))
		}
		if err := refreshScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start refresh scheduler", zap.Error(err))
		}
		notificationService.SetScheduler(refreshScheduler)

		refreshTrigger = scheduler.NewIntervalTrigger(scheduler.TriggerConfig{
			Interval:     cfg.Notification.RefreshInterval,
			RunOnStartup: cfg.Notification.RefreshOnStartup,
		}, refreshScheduler, projectRepo, log)
		if err := refreshTrigger.Start(ctx); err != nil {
			log.Fatal("Failed to start refresh trigger", zap.Error(err))
		}
		log.Info("Notification refresh scheduled",
			zap.Duration("interval", cfg.Notification.RefreshInterval),
			zap.Bool("on_startup", cfg.Notification.RefreshOnStartup),
		)
	} else {
		log.Info("Background notification refresh disabled, refreshes run inline")
	}

	// Initialize handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version).
		AddCheck("database", db.Ping)
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	maxUploadSize := cfg.Storage.MaxUploadSize
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Company:      handler.NewCompanyHandler(companyService),
		Engineer:     handler.NewEngineerHandler(engineerService),
		Project:      handler.NewProjectHandler(projectService),
		DailyLog:     handler.NewDailyLogHandler(dailyLogService),
		Expense:      handler.NewExpenseHandler(expenseService),
		Invoice:      handler.NewInvoiceHandler(invoiceService, maxUploadSize),
		Notification: handler.NewNotificationHandler(notificationService),
		System:       systemHandler,
	}

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	// Middleware order: recover first, then request ID so every later log line carries it
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		Meter:     meter,
		SkipPaths: []string{"/health", "/api/v1/health", metricsPath},
	}))

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.HSTSEnabled = cfg.IsProduction()
	engine.Use(middleware.SecureWithConfig(securityCfg))

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsCfg))

	// Multipart uploads get their own limit in the invoice handler
	bodyLimit := cfg.HTTP.MaxBodySize
	if maxUploadSize > bodyLimit {
		bodyLimit = maxUploadSize
	}
	engine.Use(middleware.BodyLimit(bodyLimit))
	if cfg.HTTP.WriteTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))
	}

	// JWT on every API route except login and refresh
	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist
	jwtCfg.Logger = log

	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	defer authLimiter.Stop()

	r := router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	router.RegisterAPI(r, handlers, router.Guards{
		Admin:         middleware.RequireRole("admin"),
		AuthRateLimit: middleware.AuthRateLimit(authLimiter),
	})
	r.Setup()

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.Handler()
	}
	router.RegisterOperational(engine, systemHandler, metricsHandler, metricsPath)

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Stop producing jobs before draining the workers
	if refreshTrigger != nil {
		if err := refreshTrigger.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping refresh trigger", zap.Error(err))
		}
	}
	if refreshScheduler != nil {
		if err := refreshScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping refresh scheduler", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// newDocumentStore picks S3 when storage is enabled. Outside production an
// in-memory store keeps invoice uploads working without a bucket.
func newDocumentStore(ctx context.Context, cfg *config.Config, log *zap.Logger) projectapp.DocumentStore {
	if cfg.Storage.Enabled {
		store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare storage bucket", zap.Error(err), zap.String("bucket", store.Bucket()))
		}
		log.Info("Object storage ready", zap.String("bucket", store.Bucket()))
		return store
	}
	if cfg.IsProduction() {
		log.Warn("Object storage disabled, invoice document uploads are unavailable")
		return nil
	}
	log.Info("Object storage disabled, keeping invoice documents in memory")
	return storage.NewMemoryObjectStorage(cfg.Storage.PublicURL)
}

// newPublisher connects to RabbitMQ when messaging is enabled and falls back to logging events
func newPublisher(cfg *config.Config, log *zap.Logger) event.Publisher {
	if !cfg.Messaging.Enabled {
		return event.NewLogPublisher(log)
	}
	publisher, err := event.NewAMQPPublisher(cfg.Messaging.URL, cfg.Messaging.Exchange, log)
	if err != nil {
		log.Warn("Failed to connect to message broker, logging events instead", zap.Error(err))
		return event.NewLogPublisher(log)
	}
	log.Info("Publishing notification events", zap.String("exchange", cfg.Messaging.Exchange))
	return publisher
}
