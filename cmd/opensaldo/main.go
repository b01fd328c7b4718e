package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/opensaldo/opensaldo/internal/app"
	"github.com/opensaldo/opensaldo/internal/ledger"
	"github.com/opensaldo/opensaldo/internal/observability"
	"github.com/opensaldo/opensaldo/internal/overrides"
	overrideshttp "github.com/opensaldo/opensaldo/internal/overrides/http"
	"github.com/opensaldo/opensaldo/internal/platform/cache"
	"github.com/opensaldo/opensaldo/internal/platform/db"
	"github.com/opensaldo/opensaldo/internal/statement"
	statementhttp "github.com/opensaldo/opensaldo/internal/statement/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	var reportCache *statementhttp.ReportCache
	if cfg.RedisAddr != "" {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, report caching disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			reportCache = statementhttp.NewReportCache(redisClient, cfg.ReportCacheTTL, logger)
		}
	}

	metrics := observability.NewMetrics()

	ledgerRepo := ledger.NewRepository(dbpool)
	overridesRepo := overrides.NewRepository(dbpool, logger)
	resolver := overrides.NewResolver(overridesRepo)

	reportService := statement.NewService(ledgerRepo, resolver, logger)

	statementHandler := statementhttp.NewHandler(logger, reportService, reportCache, metrics)
	overridesHandler := overrideshttp.NewHandler(logger, overridesRepo, func(ctx context.Context, entityID int64) {
		if reportCache != nil {
			reportCache.BustEntity(ctx, entityID)
		}
	})

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		StatementHandler: statementHandler,
		OverridesHandler: overridesHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
