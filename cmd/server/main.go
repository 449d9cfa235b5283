package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/fundbilling/backend/internal/application/billing"
	fundapp "github.com/fundbilling/backend/internal/application/fund"
	"github.com/fundbilling/backend/internal/domain/billing"
	"github.com/fundbilling/backend/internal/domain/shared"
	"github.com/fundbilling/backend/internal/infrastructure/cache"
	"github.com/fundbilling/backend/internal/infrastructure/config"
	"github.com/fundbilling/backend/internal/infrastructure/event"
	"github.com/fundbilling/backend/internal/infrastructure/logger"
	"github.com/fundbilling/backend/internal/infrastructure/persistence"
	"github.com/fundbilling/backend/internal/infrastructure/scheduler"
	"github.com/fundbilling/backend/internal/infrastructure/telemetry"
	"github.com/fundbilling/backend/internal/interfaces/http/handler"
	"github.com/fundbilling/backend/internal/interfaces/http/middleware"
	"github.com/fundbilling/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	loggerConfig := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}

	// Bootstrap logger, used until the log exporter is ready
	log, err := logger.New(loggerConfig)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Export logs through OpenTelemetry when enabled
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Warn("Log export disabled", zap.Error(err))
	} else if logProvider.IsEnabled() {
		level, parseErr := zapcore.ParseLevel(cfg.Log.Level)
		if parseErr != nil {
			level = zapcore.InfoLevel
		}
		if exported, newErr := logger.New(loggerConfig, logProvider.ZapCore(level)); newErr == nil {
			log = exported
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Fee Billing API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	profilerConfig := telemetry.DefaultProfilerConfig()
	profilerConfig.Enabled = cfg.Telemetry.ProfilingEnabled
	profilerConfig.ApplicationName = cfg.Telemetry.ServiceName
	if cfg.Telemetry.ProfilingServer != "" {
		profilerConfig.ServerAddress = cfg.Telemetry.ProfilingServer
	}
	profiler, err := telemetry.NewProfiler(profilerConfig, log)
	if err != nil {
		log.Warn("Continuous profiling disabled", zap.Error(err))
	}
	if profiler != nil && cfg.Telemetry.ProfilingEnabled && tracerProvider.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to link spans to profiles", zap.Error(err))
		}
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		dbTracing.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}

	// Initialize repositories
	entityRepo := persistence.NewGormEntityRepository(db.DB)
	investmentRepo := persistence.NewGormInvestmentRepository(db.DB)
	capitalCallRepo := persistence.NewGormCapitalCallRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)

	// Redis backs the investor lock and the exchange rate document
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log.Named("cache")))
	if _, err := cacheFactory.Connect(ctx); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := cacheFactory.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}()

	rateSource, err := cacheFactory.CreateRateSource(cfg.Billing.StaticRates)
	if err != nil {
		log.Fatal("Invalid static exchange rates", zap.Error(err))
	}
	rateCache := cache.NewRateCache(rateSource, cfg.Billing.RateMaxStaleness,
		cache.WithRateCacheLogger(log.Named("rates")),
	)
	if err := rateCache.Refresh(ctx); err != nil {
		// Issuance of non-USD bills fails with RATE_UNAVAILABLE until a refresh succeeds
		log.Warn("Initial exchange rate load failed", zap.Error(err))
	}

	billingMetrics, err := telemetry.NewBillingMetrics(meterProvider.Meter("fee-billing"))
	if err != nil {
		log.Warn("Billing metrics disabled", zap.Error(err))
		billingMetrics = nil
	}
	if err := billingMetrics.ObserveRateCacheAge(rateCache.Age); err != nil {
		log.Warn("Rate cache age gauge disabled", zap.Error(err))
	}

	schedule := billing.FeeSchedule{
		PercentageFee:   cfg.Billing.PercentageFee,
		MembershipFee:   cfg.Billing.MembershipFee,
		WaiverThreshold: cfg.Billing.WaiverThreshold,
		UpfrontYears:    cfg.Billing.UpfrontYears,
		RegimeCutover:   billing.DefaultFeeSchedule().RegimeCutover,
	}
	clock := shared.SystemClock{}

	// Audit payloads are logged for every registered event type
	payloadEncoder := event.NewPayloadEncoder()
	event.RegisterAllEvents(payloadEncoder)

	eventBus := event.NewInMemoryEventBus(log.Named("events"))

	auditHandler := event.NewAuditHandler(payloadEncoder, log.Named("audit"))
	eventBus.Subscribe(auditHandler, auditHandler.EventTypes()...)

	// Issuance and the waiver share one lock per investor
	investorLocker := cacheFactory.CreateInvestorLocker()
	waiverHandler := billingapp.NewMembershipWaiverHandler(billRepo, schedule, investorLocker, eventBus, log.Named("membership_waiver"))
	waiverHandler.SetBillingMetrics(billingMetrics)
	eventBus.Subscribe(waiverHandler, waiverHandler.EventTypes()...)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Initialize services
	calculator := billing.NewFeeCalculator(schedule, investmentRepo, clock)
	converter := billing.NewCurrencyConverter(rateCache)
	issuance := billingapp.NewBillIssuanceOrchestrator(
		entityRepo,
		capitalCallRepo,
		billRepo,
		calculator,
		converter,
		investorLocker,
		eventBus,
		clock,
		billingapp.IssuanceConfig{
			DueDays:           cfg.Billing.BillDueDays,
			LinkRetryAttempts: cfg.Billing.LinkRetryAttempts,
			LinkRetryBackoff:  billingapp.DefaultIssuanceConfig().LinkRetryBackoff,
		},
		log.Named("issuance"),
	)
	issuance.SetBillingMetrics(billingMetrics)

	overdueSweep := billingapp.NewOverdueSweepService(billRepo, clock, log.Named("overdue_sweep"))
	overdueSweep.SetBillingMetrics(billingMetrics)

	billService := billingapp.NewBillService(billRepo)
	entityService := fundapp.NewEntityService(entityRepo)
	investmentService := fundapp.NewInvestmentService(investmentRepo, entityRepo, eventBus, clock, log.Named("investments"))
	capitalCallService := fundapp.NewCapitalCallService(capitalCallRepo, entityRepo, log.Named("capital_calls"))

	// Background schedulers
	sweepConfig := scheduler.DefaultOverdueSweepSchedulerConfig()
	sweepConfig.Enabled = cfg.Scheduler.OverdueSweepEnabled
	if cfg.Scheduler.OverdueSweepInterval > 0 {
		sweepConfig.Interval = cfg.Scheduler.OverdueSweepInterval
	}
	if cfg.Scheduler.OverdueSweepTimeout > 0 {
		sweepConfig.Timeout = cfg.Scheduler.OverdueSweepTimeout
	}
	sweepScheduler := scheduler.NewOverdueSweepScheduler(overdueSweep, log.Named("scheduler"), sweepConfig)

	refreshConfig := scheduler.DefaultRateRefreshSchedulerConfig()
	refreshConfig.Enabled = cfg.Scheduler.RateRefreshEnabled
	if cfg.Billing.RateRefreshInterval > 0 {
		refreshConfig.Interval = cfg.Billing.RateRefreshInterval
	}
	refreshScheduler := scheduler.NewRateRefreshScheduler(rateCache, log.Named("scheduler"), refreshConfig)

	schedulerCtx, stopSchedulers := context.WithCancel(ctx)
	defer stopSchedulers()
	if err := sweepScheduler.Start(schedulerCtx); err != nil {
		log.Error("Failed to start overdue sweep scheduler", zap.Error(err))
	}
	if err := refreshScheduler.Start(schedulerCtx); err != nil {
		log.Error("Failed to start rate refresh scheduler", zap.Error(err))
	}

	// Setup Gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}

	// Middleware chain: request ID first so every later layer can log it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       meterProvider.IsEnabled(),
		Logger:        log,
	}))
	profilingConfig := middleware.DefaultProfilingConfig()
	profilingConfig.Enabled = profiler != nil && cfg.Telemetry.ProfilingEnabled
	engine.Use(middleware.ProfilingWithConfig(profilingConfig))
	engine.Use(middleware.Secure())
	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Close()
		engine.Use(middleware.RateLimit(limiter))
	}
	if cfg.HTTP.WriteTimeout > 0 {
		engine.Use(middleware.Timeout(cfg.HTTP.WriteTimeout))
	}

	// Health check
	systemOpts := []handler.SystemOption{handler.WithDatabase(db)}
	if cacheFactory.Client() != nil {
		systemOpts = append(systemOpts, handler.WithRedis(cacheFactory))
	}
	systemHandler := handler.NewSystemHandler(systemOpts...)
	engine.GET("/health", systemHandler.Health)

	// Register domain routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.IssuanceRoutes(handler.NewCreateBillHandler(issuance))).
		Register(handler.BillRoutes(handler.NewBillHandler(billService, overdueSweep))).
		Register(handler.EntityRoutes(handler.NewEntityHandler(entityService))).
		Register(handler.InvestmentRoutes(handler.NewInvestmentHandler(investmentService))).
		Register(handler.CapitalCallRoutes(handler.NewCapitalCallHandler(capitalCallService))).
		Register(handler.SystemRoutes(systemHandler))
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

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

	stopSchedulers()
	if err := sweepScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping overdue sweep scheduler", zap.Error(err))
	}
	if err := refreshScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping rate refresh scheduler", zap.Error(err))
	}
	if err := billingMetrics.Close(); err != nil {
		log.Warn("Error closing billing metrics", zap.Error(err))
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Warn("Error stopping profiler", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Error shutting down tracer provider", zap.Error(err))
	}
	if logProvider != nil {
		if err := logProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("Error shutting down logger provider", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
