package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pizzeria/internal/config"
	"pizzeria/internal/database"
	"pizzeria/internal/handlers"
	"pizzeria/internal/redis"
	"pizzeria/internal/repository"
	"pizzeria/internal/services"
	"pizzeria/pkg/kafka"
	"pizzeria/pkg/logging"
	"pizzeria/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	logger := logging.New()
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Redis only caches history, the service runs without it
	var historyCache services.HistoryCache
	redisClient, err := redis.Initialize(cfg.RedisURL, cfg.HistoryCacheTTL)
	if err != nil {
		logger.Warn("redis unavailable, status history cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		historyCache = redisClient
	}

	var events services.EventPublisher
	if kc := kafka.NewClient(cfg.KafkaBrokers); kc.Enabled() {
		publisher := kafka.NewPublisher(kc.NewWriter(cfg.StatusEventsTopic))
		defer publisher.Close()
		events = publisher
		logger.Info("status events enabled", "topic", cfg.StatusEventsTopic, "brokers", cfg.KafkaBrokers)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	prep := services.PrepTimeConfig{
		Base:     time.Duration(cfg.PrepBaseMinutes) * time.Minute,
		PerPizza: time.Duration(cfg.PrepPerPizzaMinutes) * time.Minute,
		PerItem:  time.Duration(cfg.PrepPerItemMinutes) * time.Minute,
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	historyRepo := repository.NewStatusHistoryRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo)
	settingsService := services.NewSettingsService(settingsRepo)
	statusChanges := services.NewStatusChangeService(services.StatusChangeDeps{
		Orders:       orderRepo,
		History:      services.NewStatusHistory(historyRepo, historyCache, logger),
		Settings:     settingsService,
		Content:      services.NewContentGenerator(cfg.ShopName, cfg.CurrencySymbol),
		Transports:   services.NewTransportFactory(cfg.SMSAPIURL),
		Events:       events,
		Metrics:      m,
		Logger:       logger,
		CountryCode:  cfg.DefaultCountryCode,
		AdminEmail:   cfg.AdminEmail,
		EnforceGraph: cfg.EnforceTransitionGraph,
	})
	orderService := services.NewOrderService(orderRepo, settingsService, statusChanges, cfg.DeliveryFee, prep, logger)
	sweepService := services.NewSweepService(orderRepo, statusChanges, prep, m, logger)

	router := handlers.NewRouter(handlers.RouterDeps{
		Users:         userService,
		Orders:        orderService,
		StatusChanges: statusChanges,
		Sweep:         sweepService,
		Settings:      settingsService,
		Metrics:       m,
		Gatherer:      registry,
	})

	if cfg.SweepInterval > 0 {
		go sweepService.Start(ctx, cfg.SweepInterval)
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}
