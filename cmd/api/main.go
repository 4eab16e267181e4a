package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/barbearia-digital/booking-agent/internal/api/router"
	"github.com/barbearia-digital/booking-agent/internal/appointments"
	"github.com/barbearia-digital/booking-agent/internal/chat"
	appclients "github.com/barbearia-digital/booking-agent/internal/clients"
	appconfig "github.com/barbearia-digital/booking-agent/internal/config"
	"github.com/barbearia-digital/booking-agent/internal/http/handlers"
	httpmiddleware "github.com/barbearia-digital/booking-agent/internal/http/middleware"
	"github.com/barbearia-digital/booking-agent/internal/observability/metrics"
	"github.com/barbearia-digital/booking-agent/internal/schedule"
	"github.com/barbearia-digital/booking-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"barbers", len(cfg.Barbers),
	)

	ctx := context.Background()

	// Storage: postgres when configured, in-memory otherwise.
	var (
		clientsRepo appclients.Repository
		ledger      appointments.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		clientsRepo = appclients.NewPostgresRepository(pool)
		ledger = appointments.NewPostgresRepository(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		clientsRepo = appclients.NewInMemoryRepository()
		ledger = appointments.NewInMemoryRepository()
	}

	// Sessions: redis when configured, in-memory otherwise.
	var sessions chat.SessionStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Error("failed to ping redis", "error", err)
			os.Exit(1)
		}
		sessions = chat.NewRedisSessionStore(client, cfg.SessionTTL)
	} else {
		sessions = chat.NewInMemorySessionStore(cfg.SessionTTL)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	chatMetrics := metrics.NewChatMetrics(registry)

	availability := schedule.New(ledger, cfg.TimeSlots, cfg.DaysAhead, cfg.MaxSlotsShown)
	engine := chat.NewEngine(chat.Config{
		Resolver:      appclients.NewResolver(clientsRepo, logger),
		Clients:       clientsRepo,
		Ledger:        ledger,
		Availability:  availability,
		Sessions:      sessions,
		Barbers:       cfg.Barbers,
		MinNameLength: cfg.MinNameLength,
		Logger:        logger,
		Metrics:       chatMetrics,
	})

	r := router.New(&router.Config{
		Logger:         logger,
		Message:        handlers.NewMessageHandler(engine, logger),
		Clients:        handlers.NewClientsHandler(clientsRepo, ledger, logger),
		Appointments:   handlers.NewAppointmentsHandler(ledger, logger),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimiter:    httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
