package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/accounting/reports"
	"github.com/aums-erp/aums-erp/internal/app"
	"github.com/aums-erp/aums-erp/internal/platform/cache"
	"github.com/aums-erp/aums-erp/internal/platform/db"
	"github.com/aums-erp/aums-erp/jobs"
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	ledgerService := ledger.NewService(ledger.NewRepository(pool), accounts.Default(), logger, cfg.DealerTenantID).
		WithBumper(reportsCache)
	reportsService := reports.NewService(ledgerService, reportsCache, cfg.DealerTenantID)

	integrityJob := jobs.NewLedgerIntegrityJob(ledgerService, logger, nil)
	warmupJob := jobs.NewReportsWarmupJob(reportsService, logger, nil)

	integrityTask, err := jobs.NewLedgerIntegrityTask(jobs.LedgerIntegrityPayload{TenantID: cfg.DealerTenantID})
	if err != nil {
		logger.Error("build integrity task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewReportsWarmupTask(jobs.ReportsWarmupPayload{TenantID: cfg.DealerTenantID})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskLedgerIntegrity, Handler: integrityJob.Handle},
			{Type: jobs.TaskReportsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: integrityTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
