package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/vr-inventory/vr-inventory/internal/app"
	jobmetrics "github.com/vr-inventory/vr-inventory/internal/jobs"
	"github.com/vr-inventory/vr-inventory/internal/ledgercache"
	"github.com/vr-inventory/vr-inventory/internal/observability"
	"github.com/vr-inventory/vr-inventory/internal/parties"
	"github.com/vr-inventory/vr-inventory/internal/platform/cache"
	"github.com/vr-inventory/vr-inventory/internal/platform/db"
	"github.com/vr-inventory/vr-inventory/internal/products"
	"github.com/vr-inventory/vr-inventory/internal/recording"
	"github.com/vr-inventory/vr-inventory/internal/shared"
	"github.com/vr-inventory/vr-inventory/internal/view"
	"github.com/vr-inventory/vr-inventory/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: cfg.PGMaxConns})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Redis only backs the ledger cache and job queue, so the app keeps
	// serving straight from Postgres when it is unreachable.
	var ledgerCache *ledgercache.Cache
	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	if err != nil {
		logger.Warn("redis unavailable, ledger cache disabled", slog.Any("error", err))
	} else {
		ledgerCache = ledgercache.New(redisClient, cfg.LedgerCacheTTL, logger)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	jobClient := jobs.NewClient(redisOpts, jobMetrics)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	partyRepo := parties.NewRepository(pool)
	partyService := parties.NewService(partyRepo, ledgerCache, logger)
	productRepo := products.NewRepository(pool)

	deps := recording.ServiceDeps{
		Parties:     partyRepo,
		Store:       recording.NewRepository(pool),
		Idempotency: shared.NewIdempotencyStore(pool),
		Metrics:     metrics,
		Logger:      logger,
	}
	if ledgerCache != nil {
		deps.Cache = ledgerCache
		deps.Jobs = jobClient
	}
	recordingService := recording.NewService(deps)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		PartiesHandler:   parties.NewHandler(logger, partyService, templates),
		RecordingHandler: recording.NewHandler(logger, recordingService, productRepo, templates),
		ProductsHandler:  products.NewHandler(logger, productRepo, templates),
		JobHandler:       jobs.NewHandler(inspector, logger),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", cfg.AppAddr), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
