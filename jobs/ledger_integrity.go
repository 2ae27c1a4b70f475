package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	jobmetrics "github.com/aums-erp/aums-erp/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// LedgerIntegrityJob re-verifies the double-entry invariants over the
// stored ledger: grand debits equal grand credits, every posted code is
// registered in the chart, and suspense accounts net to zero. The
// service enforces all three at posting time; the scan catches storage
// drift behind its back.
type LedgerIntegrityJob struct {
	Ledger  *ledger.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewLedgerIntegrityJob wires dependencies for the integrity handler.
func NewLedgerIntegrityJob(led *ledger.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{Ledger: led, Logger: logger, Metrics: metrics}
}

// Handle processes ledger integrity tasks.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Ledger == nil {
		return errors.New("ledger integrity: handler not configured")
	}
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskLedgerIntegrity)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("tenant_id", payload.TenantID))
	start := time.Now()

	entries, err := j.Ledger.Entries(ctx)
	if err != nil {
		resultErr = err
		logger.Error("load ledger entries", slog.Any("error", err))
		return resultErr
	}

	problems := j.scan(entries, payload.TenantID, logger)
	if problems > 0 {
		j.metrics().AddImbalances(payload.TenantID, problems)
		resultErr = fmt.Errorf("ledger integrity: %d problem(s) found for tenant %s", problems, payload.TenantID)
		return resultErr
	}

	logger.Info("ledger integrity verified",
		slog.Int("entries", len(entries)),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *LedgerIntegrityJob) scan(entries []ledger.Entry, tenantID string, logger *slog.Logger) int {
	chart := j.Ledger.Chart()
	problems := 0
	var grandDebit, grandCredit int64
	suspenseNet := make(map[string]int64)

	for _, e := range entries {
		if tenantID != "" && e.TenantID != tenantID {
			continue
		}
		grandDebit += e.Amount
		grandCredit += e.Amount
		for _, code := range []string{e.DebitCode, e.CreditCode} {
			if _, ok := chart.ByCode(code); !ok {
				problems++
				logger.Error("entry references unregistered account",
					slog.String("entry_id", e.ID.String()),
					slog.String("code", code),
				)
			}
		}
		if acc, ok := chart.ByCode(e.DebitCode); ok && acc.Suspense {
			suspenseNet[e.DebitCode] += e.Amount
		}
		if acc, ok := chart.ByCode(e.CreditCode); ok && acc.Suspense {
			suspenseNet[e.CreditCode] -= e.Amount
		}
		if e.Amount < 0 {
			problems++
			logger.Error("entry carries negative amount",
				slog.String("entry_id", e.ID.String()),
				slog.Int64("amount", e.Amount),
			)
		}
	}

	if grandDebit != grandCredit {
		problems++
		logger.Error("grand totals diverge",
			slog.Int64("debits", grandDebit),
			slog.Int64("credits", grandCredit),
		)
	}
	for code, net := range suspenseNet {
		if net != 0 {
			problems++
			logger.Error("suspense account does not net to zero",
				slog.String("code", code),
				slog.Int64("net", net),
			)
		}
	}
	return problems
}

func (j *LedgerIntegrityJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *LedgerIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskLedgerIntegrity))
	}
	return slog.Default().With(slog.String("job", TaskLedgerIntegrity))
}
