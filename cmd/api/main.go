package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/feral-file/ff-emoji-insights/internal/adapter"
	"github.com/feral-file/ff-emoji-insights/internal/api/middleware"
	"github.com/feral-file/ff-emoji-insights/internal/api/server"
	"github.com/feral-file/ff-emoji-insights/internal/api/shared/executor"
	"github.com/feral-file/ff-emoji-insights/internal/cache"
	"github.com/feral-file/ff-emoji-insights/internal/config"
	"github.com/feral-file/ff-emoji-insights/internal/dashboard"
	"github.com/feral-file/ff-emoji-insights/internal/logger"
	"github.com/feral-file/ff-emoji-insights/internal/registry"
	"github.com/feral-file/ff-emoji-insights/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadAPIConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize logger with sentry integration
	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "emoji-dashboard-api",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting Emoji Insights API")

	if err := cfg.Validate(); err != nil {
		logger.FatalCtx(ctx, "Invalid configuration", zap.Error(err))
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to connect to database", zap.Error(err), zap.String("host", cfg.Database.Host))
	}

	// Configure connection pool
	if err := store.ConfigureConnectionPool(db, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime, cfg.Database.ConnMaxIdleTime); err != nil {
		logger.FatalCtx(ctx, "Failed to configure connection pool", zap.Error(err))
	}
	logger.InfoCtx(ctx, "Connected to database",
		zap.String("table", cfg.Database.Table),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
		zap.Int("max_idle_conns", cfg.Database.MaxIdleConns),
	)

	// Initialize store with retries and circuit breaker
	dataStore := store.NewResilientStore(store.NewPGStore(db, cfg.Database.Table), store.ResilienceConfig{
		MaxRetries:         cfg.Store.RetryMaxAttempts,
		InitialInterval:    cfg.Store.RetryInitialInterval,
		MaxInterval:        cfg.Store.RetryMaxInterval,
		BreakerMaxFailures: cfg.Store.BreakerMaxFailures,
		BreakerTimeout:     cfg.Store.BreakerTimeout,
	})

	// Initialize adapters
	fs := adapter.NewFileSystem()
	jsonAdapter := adapter.NewJSON()
	clock := adapter.NewClock()

	// Load member directory
	memberLoader := registry.NewMemberDirectoryLoader(fs, jsonAdapter)
	directory, err := memberLoader.Load(cfg.Dashboard.MembersPath)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to load member directory",
			zap.Error(err),
			zap.String("path", cfg.Dashboard.MembersPath))
	}
	logger.InfoCtx(ctx, "Loaded member directory",
		zap.String("path", cfg.Dashboard.MembersPath),
		zap.Int("members", len(directory.Members())))

	// Cached data access
	provider := dashboard.NewProvider(dataStore, cache.New(clock), dashboard.Config{
		EntityScanTTL:          cfg.Cache.EntityScanTTL,
		KnownEntitiesTTL:       cfg.Cache.KnownEntitiesTTL,
		MemberTTL:              cfg.Cache.MemberTTL,
		MemberQueryConcurrency: cfg.Dashboard.MemberQueryConcurrency,
	})

	exec, err := executor.NewExecutor(provider, directory, dataStore, clock, cfg.Dashboard.ZoneList())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create executor", zap.Error(err), zap.Strings("timezones", cfg.Dashboard.Timezones))
	}

	// Create server config
	serverConfig := server.Config{
		Debug:        cfg.Debug,
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		Auth: middleware.AuthConfig{
			APIKeys:      cfg.Auth.APIKeys,
			JWTPublicKey: cfg.Auth.JWTPublicKey,
			JWTAudience:  cfg.Auth.JWTAudience,
		},
		RefreshLimit: middleware.RateLimitConfig{
			PerMinute: cfg.Dashboard.RefreshRatePerMinute,
			Burst:     cfg.Dashboard.RefreshBurst,
		},
	}

	// Create and start server
	srv := server.New(serverConfig, exec)

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	case err := <-errCh:
		logger.ErrorCtx(ctx, err, zap.String("component", "server"))
		cancel()
	}

	// Create shutdown context with timeout (don't use canceled ctx)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	logger.InfoCtx(shutdownCtx, "Shutting down server...")

	// Shutdown server
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.FatalCtx(shutdownCtx, "Server forced to shutdown", zap.Error(err))
	}

	// Use non-context logger for final message since original ctx is canceled
	logger.Info("API server stopped")
}
