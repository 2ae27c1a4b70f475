package jobs

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/accounting/reports"
	jobmetrics "github.com/aums-erp/aums-erp/internal/jobs"
)

func newTestLedger(t *testing.T) *ledger.Service {
	t.Helper()
	return ledger.NewService(ledger.NewMemoryRepository(), accounts.Default(), slog.Default(), "dealer-001")
}

func postReceipt(t *testing.T, led *ledger.Service, amount int64) {
	t.Helper()
	_, err := led.Post(context.Background(), ledger.PostingInput{
		TransactionType: ledger.TransactionReceipt,
		ReferenceID:     uuid.New(),
		PartyType:       ledger.PartyCustomer,
		PartyID:         "cust-1",
		PartyName:       "Rahul Kumar",
		Description:     "Payment received",
		DebitCode:       accounts.CodeBank,
		CreditCode:      accounts.CodeAccountsReceivable,
		Amount:          amount,
	})
	require.NoError(t, err)
}

func TestLedgerIntegrityJobPassesOnCleanLedger(t *testing.T) {
	led := newTestLedger(t)
	postReceipt(t, led, 40000)
	postReceipt(t, led, 60000)

	job := NewLedgerIntegrityJob(led, slog.Default(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewLedgerIntegrityTask(LedgerIntegrityPayload{TenantID: "dealer-001"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
}

func TestLedgerIntegrityJobIgnoresOtherTenants(t *testing.T) {
	led := newTestLedger(t)
	postReceipt(t, led, 40000)

	job := NewLedgerIntegrityJob(led, slog.Default(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewLedgerIntegrityTask(LedgerIntegrityPayload{TenantID: "dealer-999"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
}

func TestReportsWarmupJobBuildsReports(t *testing.T) {
	led := newTestLedger(t)
	postReceipt(t, led, 25000)

	reportsSvc := reports.NewService(led, nil, "dealer-001")
	job := NewReportsWarmupJob(reportsSvc, slog.Default(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewReportsWarmupTask(ReportsWarmupPayload{TenantID: "dealer-001"})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
}
