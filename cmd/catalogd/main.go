package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"

	"github.com/shelfstack/catalog/pkg/api"
	"github.com/shelfstack/catalog/pkg/auth"
	"github.com/shelfstack/catalog/pkg/config"
	"github.com/shelfstack/catalog/pkg/observability"
	"github.com/shelfstack/catalog/pkg/storage/postgres"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			WithError(err).Fatalf("failed to load configuration")
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	db, err := postgres.Open(cfg.Storage)
	if err != nil {
		logger.WithError(err).Fatalf("failed to connect to postgres")
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.WithError(err).Fatalf("failed to run schema migration")
	}
	logger.Info("database schema ready")

	// Redis is optional. Without it logout is client-side only and tokens
	// remain valid until expiry.
	var redisClient *redis.Client
	var denylist *auth.TokenDenylist
	if cfg.Storage.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.Storage.RedisURL)
		if err != nil {
			logger.WithError(err).Fatalf("invalid redis URL")
		}
		if cfg.Storage.RedisPassword != "" {
			opts.Password = cfg.Storage.RedisPassword
		}
		if cfg.Storage.RedisDB > 0 {
			opts.DB = cfg.Storage.RedisDB
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Fatalf("failed to ping redis")
		}
		denylist = auth.NewTokenDenylist(redisClient)
		logger.Info("token revocation enabled")
	}

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.WithError(err).Fatalf("failed to initialize token service")
	}

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	cacheSize := 0
	if cfg.Storage.CacheEnabled {
		cacheSize = cfg.Storage.CacheSize
	}
	productStore, err := postgres.NewProductStore(db, cacheSize, metrics)
	if err != nil {
		logger.WithError(err).Fatalf("failed to initialize product store")
	}

	server := api.NewServer(api.Config{
		DefaultPageSize:    cfg.API.DefaultPageSize,
		MaxPageSize:        cfg.API.MaxPageSize,
		MaxBodyBytes:       cfg.API.MaxBodyBytes,
		CORSAllowedOrigins: cfg.API.CORSAllowedOrigins,
	}, api.Dependencies{
		Users:    postgres.NewUserStore(db, metrics),
		Products: productStore,
		Hasher:   auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:   tokens,
		Denylist: denylist,
		Health:   observability.NewHealthChecker(db, redisClient),
		Metrics:  metrics,
		Logger:   logger,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", addr).Info("catalog server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatalf("server failed")
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	logger.Info("server stopped")
}
