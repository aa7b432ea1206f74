package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	catalogapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/catalog"
	identityapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/identity"
	appnotification "github.com/Tahir-Ryasnov/netology-diplom/internal/application/notification"
	tradeapp "github.com/Tahir-Ryasnov/netology-diplom/internal/application/trade"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/domain/shared"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/auth"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/cache"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/config"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/event"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/feed"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/logger"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/mail"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/migration"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/persistence"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/scheduler"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/infrastructure/telemetry"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/interfaces/http/handler"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/interfaces/http/middleware"
	"github.com/Tahir-Ryasnov/netology-diplom/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}, zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	log.Info("Starting retail backend",
		zap.String("port", cfg.App.Port),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	if cfg.Database.Driver == persistence.DriverPostgres && cfg.Database.AutoMigrate {
		if err := migrateUp(ctx, cfg.Database, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	dbTracing.LogFullSQL = !cfg.App.IsProduction()
	if cfg.Database.Driver == persistence.DriverSQLite {
		dbTracing.DBSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, dbTracing, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	catalogRepo := persistence.NewGormCatalogRepository(db.DB)
	shopRepo := persistence.NewGormShopRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	taskRepo := persistence.NewGormNotificationTaskRepository(db.DB).WithProcessingLease(cfg.Notification.ProcessingLease)
	txScope := persistence.NewGormTransactionScope(db.DB)

	locker := cache.NewLockerFactory(cfg.Redis, cache.WithLogger(log)).CreateLocker()
	defer func() { _ = locker.Close() }()

	// Integration events
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch())
	var kafkaPublisher *event.KafkaPublisher
	if cfg.Kafka.Enabled {
		writer, err := event.NewKafkaWriter(cfg.Kafka)
		if err != nil {
			log.Fatal("Failed to configure Kafka", zap.Error(err))
		}
		kafkaPublisher = event.NewKafkaPublisher(writer, cfg.Kafka.WriteTimeout, log)
		eventBus.Subscribe(kafkaPublisher)
		log.Info("Kafka event publishing enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Notifications
	notificationScheduler := appnotification.NewScheduler(appnotification.Config{
		Delay:      cfg.Notification.Delay,
		MaxRetries: cfg.Notification.MaxRetries,
	}, log)
	sender, err := mail.NewSender(mail.SendGridConfig{
		APIKey:   cfg.SendGrid.APIKey,
		From:     cfg.Notification.FromEmail,
		FromName: cfg.Notification.FromName,
	}, log)
	if err != nil {
		log.Fatal("Failed to configure mail sender", zap.Error(err))
	}

	var processor *scheduler.NotificationProcessor
	if cfg.Notification.Enabled {
		processorCfg := scheduler.DefaultProcessorConfig()
		processorCfg.BatchSize = cfg.Notification.BatchSize
		processorCfg.PollInterval = cfg.Notification.PollInterval
		processorCfg.CleanupRetention = cfg.Notification.CleanupRetention
		processor, err = scheduler.NewNotificationProcessor(taskRepo, sender, processorCfg, log)
		if err != nil {
			log.Fatal("Failed to create notification processor", zap.Error(err))
		}
		if err := processor.Start(ctx); err != nil {
			log.Fatal("Failed to start notification processor", zap.Error(err))
		}
	} else {
		log.Warn("Notification processor disabled, tasks will queue until another instance delivers them")
	}

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)

	catalogService := catalogapp.NewCatalogService(catalogRepo)
	importService := catalogapp.NewImportService(userRepo, catalogRepo, feed.NewHTTPFetcher(cfg.Feed), log)
	importService.SetEventPublisher(eventBus)
	partnerService := catalogapp.NewPartnerService(userRepo, shopRepo)
	partnerService.SetEventPublisher(eventBus)

	cartService := tradeapp.NewCartService(orderRepo, catalogRepo, locker, shared.DefaultLockConfig(), log)
	orderService := tradeapp.NewOrderService(orderRepo, userRepo, txScope, notificationScheduler)
	orderService.SetEventPublisher(eventBus)

	userService := identityapp.NewUserService(userRepo, contactRepo, log)
	contactService := identityapp.NewContactService(contactRepo)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		engine.Use(middleware.RateLimit(limiter))
	}

	router.RegisterAPI(engine, router.Handlers{
		System:  handler.NewSystemHandler(db),
		Catalog: handler.NewCatalogHandler(catalogService),
		Partner: handler.NewPartnerHandler(importService, partnerService, orderService),
		Basket:  handler.NewBasketHandler(cartService),
		Order:   handler.NewOrderHandler(orderService),
		User:    handler.NewUserHandler(userService, contactService),
	}, middleware.JWTAuthMiddleware(jwtService, log))

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if limiter != nil {
		limiter.Stop()
	}
	if processor != nil {
		if err := processor.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping notification processor", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Error closing Kafka writer", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

func migrateUp(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) error {
	sqlDB, err := migration.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	m, err := migration.New(sqlDB, cfg.MigrationsPath, log)
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
