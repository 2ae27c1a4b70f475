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

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/accounting/reports"
	"github.com/aums-erp/aums-erp/internal/app"
	"github.com/aums-erp/aums-erp/internal/billing/creditnotes"
	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/billing/receipts"
	"github.com/aums-erp/aums-erp/internal/inventory"
	"github.com/aums-erp/aums-erp/internal/observability"
	"github.com/aums-erp/aums-erp/internal/platform/cache"
	"github.com/aums-erp/aums-erp/internal/platform/db"
	"github.com/aums-erp/aums-erp/internal/pricing"
	"github.com/aums-erp/aums-erp/internal/sales/bookings"
	"github.com/aums-erp/aums-erp/internal/shared"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, reports served uncached", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	chart := accounts.Default()
	if err := accounts.NewRepository(dbpool).Seed(ctx, chart); err != nil {
		logger.Error("seed chart of accounts", slog.Any("error", err))
		os.Exit(1)
	}

	ledgerService := ledger.NewService(ledger.NewRepository(dbpool), chart, logger, cfg.DealerTenantID).
		WithBumper(reportsCache)
	reportsService := reports.NewService(ledgerService, reportsCache, cfg.DealerTenantID)

	inventoryService := inventory.NewService(inventory.NewRepository(dbpool), logger)
	pricer := pricing.NewDefaultEngine()
	bookingService := bookings.NewService(bookings.NewRepository(dbpool), inventoryService, pricer, logger, cfg.DealerTenantID).
		WithAudit(shared.NewAuditLogger(dbpool))

	invoiceService := invoices.NewService(invoices.NewRepository(dbpool), bookingService, ledgerService, logger, cfg.DealerStateCode, cfg.DealerTenantID)
	receiptService := receipts.NewService(receipts.NewRepository(dbpool), invoiceService, ledgerService, logger, cfg.DealerTenantID)
	creditNoteService := creditnotes.NewService(creditnotes.NewRepository(dbpool), invoiceService, ledgerService, logger, cfg.DealerTenantID)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AccountsHandler:   accounts.NewHandler(logger, chart),
		LedgerHandler:     ledger.NewHandler(logger, ledgerService),
		ReportsHandler:    reports.NewHandler(logger, reportsService),
		InventoryHandler:  inventory.NewHandler(logger, inventoryService),
		BookingsHandler:   bookings.NewHandler(logger, bookingService),
		InvoicesHandler:   invoices.NewHandler(logger, invoiceService),
		ReceiptsHandler:   receipts.NewHandler(logger, receiptService),
		CreditNoteHandler: creditnotes.NewHandler(logger, creditNoteService),
		JobsHandler:       jobs.NewHandler(inspector, logger),
		Metrics:           observability.NewMetrics(),
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
