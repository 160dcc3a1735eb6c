package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/adapters/cache"
	"github.com/guiomkt/cheff-guio-sub000/internal/adapters/database"
	"github.com/guiomkt/cheff-guio-sub000/internal/adapters/events"
	"github.com/guiomkt/cheff-guio-sub000/internal/api/handlers"
	"github.com/guiomkt/cheff-guio-sub000/internal/api/routes"
	"github.com/guiomkt/cheff-guio-sub000/internal/application/canvas"
	"github.com/guiomkt/cheff-guio-sub000/internal/application/services"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/providers"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/repositories"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/postgres"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/redis"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/notifications"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/observability"
	"github.com/guiomkt/cheff-guio-sub000/pkg/config"
)

const canvasSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis backs the list cache and the event bus; without it this instance
	// runs standalone.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	redisClient, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; running without cache and realtime events")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient, "cheff")
		eventBus = events.NewRedisEventBus(redisClient)
	}

	var waitingListRepo repositories.WaitingListRepository = database.NewWaitingListAdapter(pgClient)
	if cacheProvider != nil {
		waitingListRepo = database.NewCachedWaitingListAdapter(waitingListRepo, cacheProvider, cfg.Redis.ListCacheTTL)
	}
	tableRepo := database.NewTableAdapter(pgClient)
	areaRepo := database.NewAreaAdapter(pgClient)
	notificationRepo := database.NewNotificationAdapter(sqlx.NewDb(pgClient.DB(), "postgres"))

	var sender *notifications.WhatsAppCloudSender
	if cfg.WhatsApp.WhatsAppEnabled() {
		sender, err = notifications.NewWhatsAppCloudSender(cfg.WhatsApp)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize WhatsApp sender")
		}
	} else {
		log.Warn().Msg("WhatsApp credentials not set; customer messages will only be logged")
	}

	notificationService := services.NewNotificationService(notifications.NewNotifier(sender), notificationRepo)
	tableService := services.NewTableService(tableRepo, areaRepo, eventBus)

	origin := uuid.New().String()
	registry := services.NewWaitingListRegistry(func(restaurantID string) *services.WaitingList {
		engine := services.NewWaitingList(restaurantID, waitingListRepo, tableService, notificationService)
		if eventBus != nil {
			engine.SetEventBus(eventBus, origin)
		}
		return engine
	})

	var syncService *services.WaitingListSyncService
	if eventBus != nil {
		syncService = services.NewWaitingListSyncService(registry, eventBus, origin)
		if err := syncService.Start(); err != nil {
			log.Warn().Err(err).Msg("Failed to start waiting list sync")
			syncService = nil
		}
	}

	sessions := canvas.NewSessionStore()
	go sessions.RunSweeper(ctx, canvasSweepInterval, cfg.Canvas.SessionIdle, func(n int) {
		observability.RecordCanvasSessions(ctx, metrics, -int64(n))
	})

	waitingListHandler := handlers.NewWaitingListHandler(
		func(ctx context.Context, restaurantID string) (handlers.WaitingListEngine, error) {
			return registry.For(ctx, restaurantID)
		},
		metrics,
	)
	tableHandler := handlers.NewTableHandler(tableService, cfg.Canvas.DefaultWidth, cfg.Canvas.DefaultHeight)
	canvasHandler := handlers.NewCanvasHandler(sessions, tableService, metrics, cfg.Canvas.DefaultWidth, cfg.Canvas.DefaultHeight)

	checks := map[string]routes.HealthCheck{"postgres": pgClient.Ping}
	if redisClient != nil {
		checks["redis"] = redisClient.Ping
	}

	router := routes.NewRouter(
		waitingListHandler,
		tableHandler,
		canvasHandler,
		tableService,
		cfg.Server.AllowedOrigins,
		metrics,
		checks,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	registry.WaitNotifications()
	if syncService != nil {
		syncService.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing event bus")
		}
	}

	log.Info().Msg("Server stopped")
}
