package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	carrierapp "github.com/fulfillbridge/backend/internal/application/carrier"
	catalogapp "github.com/fulfillbridge/backend/internal/application/catalog"
	fulfillmentapp "github.com/fulfillbridge/backend/internal/application/fulfillment"
	inventoryapp "github.com/fulfillbridge/backend/internal/application/inventory"
	setupapp "github.com/fulfillbridge/backend/internal/application/setup"
	"github.com/fulfillbridge/backend/internal/domain/shared"
	"github.com/fulfillbridge/backend/internal/infrastructure/cache"
	"github.com/fulfillbridge/backend/internal/infrastructure/config"
	"github.com/fulfillbridge/backend/internal/infrastructure/external"
	"github.com/fulfillbridge/backend/internal/infrastructure/logger"
	"github.com/fulfillbridge/backend/internal/infrastructure/persistence"
	"github.com/fulfillbridge/backend/internal/infrastructure/platform"
	"github.com/fulfillbridge/backend/internal/infrastructure/telemetry"
	"github.com/fulfillbridge/backend/internal/interfaces/http/handler"
	"github.com/fulfillbridge/backend/internal/interfaces/http/middleware"
	"github.com/fulfillbridge/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		panic("invalid configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting fulfillment bridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.Endpoint,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.App.Env != "production",
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("tracer shutdown failed", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()
	if err := db.DB.Use(otelgorm.NewPlugin()); err != nil {
		log.Fatal("failed to instrument database", zap.Error(err))
	}
	log.Info("database connected")

	setupRepo := persistence.NewGormShopSetupRepository(db.DB)
	productRepo := persistence.NewGormRegisteredProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	adminGateway, err := platform.NewAdminClient(cfg.Platform, log)
	if err != nil {
		log.Fatal("failed to build platform client", zap.Error(err))
	}

	serviceTimeout := time.Duration(cfg.Services.TimeoutSeconds) * time.Second
	decisionClient := external.NewDecisionClient(cfg.Services.DecisionURL, serviceTimeout, log)
	calculationClient := external.NewCalculationClient(cfg.Services.CalculationURL, serviceTimeout, log)
	trackingClient := external.NewTrackingClient(cfg.Services.TrackingURL, serviceTimeout, log)

	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		idempotencyStore = cache.NewIdempotencyStore(cfg.Redis, log)
	} else {
		idempotencyStore = cache.NewInMemoryIdempotencyStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("error closing idempotency store", zap.Error(err))
		}
	}()

	resolver := setupapp.NewResolver(adminGateway, log)
	setupService := setupapp.NewService(setupRepo, resolver, setupapp.ProvisionConfig{
		FulfillmentServiceName: cfg.Provision.FulfillmentServiceName,
		CarrierServiceName:     cfg.Provision.CarrierServiceName,
		WebhookTopic:           cfg.Provision.WebhookTopic,
		CallbackURL:            cfg.Provision.CallbackURL,
		CarrierCallbackURL:     cfg.Provision.CarrierCallbackURL,
	}, log)
	syncService := inventoryapp.NewSyncService(setupRepo, adminGateway, calculationClient, log)
	registrationService := catalogapp.NewRegistrationService(setupRepo, productRepo, adminGateway, syncService, log)
	ingestionService := fulfillmentapp.NewIngestionService(setupRepo, productRepo, orderRepo, decisionClient, log)
	fulfillmentService := fulfillmentapp.NewService(orderRepo, adminGateway, trackingClient, log)
	rateService := carrierapp.NewRateService("USD", log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		otelgin.Middleware(cfg.App.Name),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	session := middleware.Session(middleware.SessionConfig{
		Secret: cfg.Session.Secret,
		Issuer: cfg.Session.Issuer,
	})

	r := router.New(engine, session)
	r.RegisterAPI(
		handler.NewSetupHandler(setupService, log),
		handler.NewProductHandler(registrationService, syncService, log),
		handler.NewOrderHandler(fulfillmentService, log),
	)
	r.RegisterPublic(
		handler.NewWebhookHandler(ingestionService, idempotencyStore, cfg.Webhook.Secret, cfg.Idempotency.TTL, log),
		handler.NewCarrierHandler(rateService, log),
		handler.NewSystemHandler(db.DB),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
