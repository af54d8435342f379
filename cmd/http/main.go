package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jatsharma/stackera-project/config"
	httpserver "github.com/jatsharma/stackera-project/internal/adapters/http/server"
	loggeradapter "github.com/jatsharma/stackera-project/internal/adapters/logger"
	"github.com/jatsharma/stackera-project/internal/adapters/metrics"
	priceadapter "github.com/jatsharma/stackera-project/internal/adapters/price"
	"github.com/jatsharma/stackera-project/internal/adapters/snapshot"
	tokensadapter "github.com/jatsharma/stackera-project/internal/adapters/tokens"
	"github.com/jatsharma/stackera-project/internal/adapters/uniswap"
	"github.com/jatsharma/stackera-project/internal/application/listing"
	priceservice "github.com/jatsharma/stackera-project/internal/application/price"
	"github.com/jatsharma/stackera-project/internal/application/ratelimiter"
	"github.com/jatsharma/stackera-project/internal/application/swaps"
	"github.com/jatsharma/stackera-project/internal/application/tokensync"
	domainPrice "github.com/jatsharma/stackera-project/internal/domain/price"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := loggeradapter.NewLogger(cfg.IsDevelopment(), cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting application",
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Database.Driver),
		zap.String("price_cache", cfg.Price.CacheBackend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	client := newUpstreamClient(cfg, m)

	// Token store
	store, err := tokensadapter.Open(ctx, tokensadapter.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		logger.Fatal("Failed to open token store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close token store", zap.Error(err))
		}
	}()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to create schema", zap.Error(err))
	}

	// Price cache
	priceCache, closeCache := newPriceCache(ctx, cfg, logger)
	defer closeCache()

	priceService := priceservice.NewCacheService(priceCache, client, logger.Named("price"))
	priceService.SetMetrics(m)

	listingService := listing.NewService(client, logger.Named("listing"))
	swapsService := swaps.NewService(client, logger.Named("swaps"))

	// Background sync
	job := tokensync.NewJob(client, store, logger.Named("tokensync"))
	job.SetMetrics(m)
	if cfg.Sync.SnapshotPath != "" {
		job.SetSnapshotter(snapshot.NewFileWriter(cfg.Sync.SnapshotPath))
	}
	scheduler := tokensync.NewScheduler(job, cfg.Sync.Interval, cfg.Sync.RunOnStart, logger.Named("scheduler"))
	scheduler.Start(ctx)

	handlerAdapter := httpserver.NewHandlerAdapter(
		listingService,
		swapsService,
		priceService,
		store,
		logger,
	)

	serverConfig := httpserver.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	server := httpserver.NewServer(serverConfig, handlerAdapter, m.Handler(), logger)

	logger.Info("Server configured",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("upstream", cfg.Upstream.URL),
	)

	serverErr := server.StartWithGracefulShutdown(ctx)

	scheduler.Stop()

	if serverErr != nil {
		logger.Error("Server failed", zap.Error(serverErr))
		return
	}
	logger.Info("Application stopped gracefully")
}

func newUpstreamClient(cfg *config.Config, m *metrics.Metrics) *uniswap.Client {
	client := uniswap.NewClient(&http.Client{Timeout: cfg.Upstream.Timeout}, cfg.Upstream.URL, m)
	if cfg.Upstream.RateLimitRPS > 0 {
		client.SetLimiter(ratelimiter.NewRateLimiter(cfg.Upstream.RateLimitRPS, time.Second))
	}
	return client
}

// newPriceCache returns the configured cache and a func releasing its resources.
func newPriceCache(ctx context.Context, cfg *config.Config, logger *loggeradapter.Logger) (domainPrice.Cache, func()) {
	if cfg.Price.CacheBackend != "redis" {
		return priceadapter.NewMemoryCache(cfg.Price.CacheTTL), func() {}
	}

	rdb := priceadapter.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := rdb.Ping(ctx).Err(); err != nil {
		// The service still works without redis: every lookup falls through to the subgraph.
		logger.Warn("Redis unreachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	return priceadapter.NewRedisCache(rdb, cfg.Price.CacheTTL), func() {
		if err := rdb.Close(); err != nil {
			logger.Error("Failed to close redis client", zap.Error(err))
		}
	}
}
