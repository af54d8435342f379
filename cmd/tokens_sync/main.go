// Command tokens_sync runs a single token sync cycle and exits.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jatsharma/stackera-project/config"
	loggeradapter "github.com/jatsharma/stackera-project/internal/adapters/logger"
	"github.com/jatsharma/stackera-project/internal/adapters/snapshot"
	tokensadapter "github.com/jatsharma/stackera-project/internal/adapters/tokens"
	"github.com/jatsharma/stackera-project/internal/adapters/uniswap"
	"github.com/jatsharma/stackera-project/internal/application/ratelimiter"
	"github.com/jatsharma/stackera-project/internal/application/tokensync"
)

func main() {
	initSchema := flag.Bool("init-schema", true, "create the tokens_info table if missing")
	snapshotPath := flag.String("snapshot", "", "write a dump of the fetched batch to this file")
	flag.Parse()

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

	os.Exit(run(cfg, logger, *initSchema, *snapshotPath))
}

func run(cfg *config.Config, logger *loggeradapter.Logger, initSchema bool, snapshotPath string) int {
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := tokensadapter.Open(ctx, tokensadapter.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		logger.Error("Failed to open token store", zap.Error(err))
		return 1
	}
	defer store.Close()

	if initSchema {
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Error("Failed to create schema", zap.Error(err))
			return 1
		}
	}

	client := uniswap.NewClient(&http.Client{Timeout: cfg.Upstream.Timeout}, cfg.Upstream.URL, nil)
	if cfg.Upstream.RateLimitRPS > 0 {
		client.SetLimiter(ratelimiter.NewRateLimiter(cfg.Upstream.RateLimitRPS, time.Second))
	}

	job := tokensync.NewJob(client, store, logger.Named("tokensync"))
	if snapshotPath == "" {
		snapshotPath = cfg.Sync.SnapshotPath
	}
	if snapshotPath != "" {
		job.SetSnapshotter(snapshot.NewFileWriter(snapshotPath))
	}

	scheduler := tokensync.NewScheduler(job, cfg.Sync.Interval, false, logger.Named("scheduler"))
	res, _ := scheduler.Trigger(ctx)
	if !res.OK() {
		logger.Error("Token sync failed", zap.String("run_id", res.RunID), zap.Error(res.Err))
		return 1
	}

	n, err := store.CountTokens(ctx)
	if err != nil {
		logger.Warn("Could not count stored tokens", zap.Error(err))
	}
	logger.Info("Token sync finished",
		zap.String("run_id", res.RunID),
		zap.Int("pages", res.Pages),
		zap.Int("written", res.Written),
		zap.Int("stored", n),
		zap.Duration("duration", res.Duration),
	)
	return 0
}
