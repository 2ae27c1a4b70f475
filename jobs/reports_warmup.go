package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aums-erp/aums-erp/internal/accounting/reports"
	jobmetrics "github.com/aums-erp/aums-erp/internal/jobs"
)

// ReportsWarmupJob prebuilds the financial reports into the redis cache
// so the first dashboard hit after an invalidation is served warm.
type ReportsWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReportsWarmupJob wires dependencies for the warmup handler.
func NewReportsWarmupJob(reportsSvc *reports.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportsWarmupJob {
	return &ReportsWarmupJob{Reports: reportsSvc, Logger: logger, Metrics: metrics}
}

// Handle processes report warmup tasks.
func (j *ReportsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("reports warmup: handler not configured")
	}
	var payload ReportsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("tenant_id", payload.TenantID))
	start := time.Now()

	// All-time range, matching the default dashboard query.
	warmCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	if _, err := j.Reports.TrialBalance(warmCtx, nil, nil); err != nil {
		resultErr = err
		logger.Error("warm trial balance", slog.Any("error", err))
		return resultErr
	}
	if _, err := j.Reports.ProfitAndLoss(warmCtx, nil, nil); err != nil {
		resultErr = err
		logger.Error("warm profit and loss", slog.Any("error", err))
		return resultErr
	}
	if _, err := j.Reports.BalanceSheet(warmCtx, nil, nil); err != nil {
		resultErr = err
		logger.Error("warm balance sheet", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed reports warmup", slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *ReportsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReportsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskReportsWarmup))
}
