package creditnotes

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/billing/receipts"
	"github.com/aums-erp/aums-erp/internal/displayid"
)

type invoiceSource struct {
	repo *invoices.MemoryRepository
}

func (s invoiceSource) Get(ctx context.Context, id uuid.UUID) (invoices.Invoice, error) {
	return s.repo.Get(ctx, id)
}

func newTestService(t *testing.T) (*Service, *invoices.MemoryRepository, *ledger.Service) {
	t.Helper()
	invRepo := invoices.NewMemoryRepository()
	led := ledger.NewService(ledger.NewMemoryRepository(), accounts.Default(), slog.Default(), "dealer-001")
	svc := NewService(NewMemoryRepository(), invoiceSource{repo: invRepo}, led, slog.Default(), "dealer-001")
	return svc, invRepo, led
}

// saveIssuedInvoice stores the on-road invoice the intra-state GST tests
// use elsewhere: 85000 vehicle + 9000 RTO with 18594 peeled-out tax.
func saveIssuedInvoice(t *testing.T, repo *invoices.MemoryRepository) invoices.Invoice {
	t.Helper()
	inv := invoices.Invoice{
		ID:           uuid.New(),
		DisplayID:    "7K2M4P9QA",
		BookingID:    uuid.New(),
		CustomerID:   "cust-1",
		CustomerName: "Rahul Kumar",
		LineItems: []invoices.LineItem{
			{Type: invoices.LineVehicle, Label: "Honda Activa 125", Qty: 1, TaxableValue: 66406, GSTRate: 28, CGSTAmount: 9297, SGSTAmount: 9297, Total: 85000},
			{Type: invoices.LineFee, Label: "RTO Charges", Qty: 1, TaxableValue: 9000, Total: 9000},
		},
		Totals:        invoices.Totals{TaxableTotal: 75406, CGSTTotal: 9297, SGSTTotal: 9297, GrandTotal: 94000},
		Status:        "ISSUED",
		PaymentStatus: invoices.Unpaid,
		AmountDue:     94000,
		TenantID:      "dealer-001",
	}
	require.NoError(t, repo.Save(context.Background(), inv))
	return inv
}

func sumByCode(entries []ledger.Entry) (debits, credits map[string]int64) {
	debits = make(map[string]int64)
	credits = make(map[string]int64)
	for _, e := range entries {
		debits[e.DebitCode] += e.Amount
		credits[e.CreditCode] += e.Amount
	}
	return debits, credits
}

func TestGenerateReversesInvoiceInFull(t *testing.T) {
	ctx := context.Background()
	svc, invRepo, led := newTestService(t)
	inv := saveIssuedInvoice(t, invRepo)

	cn, err := svc.Generate(ctx, inv.ID, "Customer cancelled after delivery")
	require.NoError(t, err)
	require.True(t, displayid.Validate(cn.DisplayID))
	require.Equal(t, StatusIssued, cn.Status)
	require.Equal(t, inv.LineItems, cn.LineItems)
	require.Equal(t, int64(75406), cn.TaxableAmount)
	require.Equal(t, int64(18594), cn.TaxAmount)
	require.Equal(t, int64(94000), cn.TotalAmount)

	legs, err := led.EntriesByReference(ctx, cn.ID)
	require.NoError(t, err)
	require.Len(t, legs, 3)

	debits, credits := sumByCode(legs)
	require.Equal(t, int64(75406), debits[accounts.CodeSalesReturns])
	require.Equal(t, int64(18594), debits[accounts.CodeOutputGST])
	require.Equal(t, int64(94000), debits[accounts.CodeSalesClearing])
	require.Equal(t, int64(94000), credits[accounts.CodeSalesClearing])
	require.Equal(t, int64(94000), credits[accounts.CodeAccountsReceivable])
	// The suspense account nets to zero across the set.
	require.Equal(t, debits[accounts.CodeSalesClearing], credits[accounts.CodeSalesClearing])
}

func TestGenerateIsIdempotentPerInvoice(t *testing.T) {
	ctx := context.Background()
	svc, invRepo, led := newTestService(t)
	inv := saveIssuedInvoice(t, invRepo)

	first, err := svc.Generate(ctx, inv.ID, "reason one")
	require.NoError(t, err)
	second, err := svc.Generate(ctx, inv.ID, "reason two")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "reason one", second.Reason)

	entries, err := led.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
}

func TestGenerateUnknownInvoice(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Generate(context.Background(), uuid.New(), "whatever")
	require.ErrorIs(t, err, invoices.ErrInvoiceNotFound)
}

func TestGenerateSkipsTaxLegWhenNoTax(t *testing.T) {
	ctx := context.Background()
	svc, invRepo, led := newTestService(t)
	inv := invoices.Invoice{
		ID:         uuid.New(),
		DisplayID:  "ZZTESTID1",
		BookingID:  uuid.New(),
		CustomerID: "cust-2",
		LineItems: []invoices.LineItem{
			{Type: invoices.LineFee, Label: "RTO Charges", Qty: 1, TaxableValue: 9000, Total: 9000},
		},
		Totals:   invoices.Totals{TaxableTotal: 9000, GrandTotal: 9000},
		TenantID: "dealer-001",
	}
	require.NoError(t, invRepo.Save(ctx, inv))

	cn, err := svc.Generate(ctx, inv.ID, "fee charged in error")
	require.NoError(t, err)
	require.Zero(t, cn.TaxAmount)

	legs, err := led.EntriesByReference(ctx, cn.ID)
	require.NoError(t, err)
	require.Len(t, legs, 2)
}

func TestProcessRefundCapAndTerminalStatus(t *testing.T) {
	ctx := context.Background()
	svc, invRepo, led := newTestService(t)
	inv := saveIssuedInvoice(t, invRepo)
	cn, err := svc.Generate(ctx, inv.ID, "cancelled")
	require.NoError(t, err)

	first, err := svc.ProcessRefund(ctx, cn.ID, 40000, receipts.ModeCash)
	require.NoError(t, err)
	require.True(t, displayid.Validate(first.DisplayID))

	got, err := svc.Get(ctx, cn.ID)
	require.NoError(t, err)
	require.Equal(t, StatusIssued, got.Status)

	// Overshooting the remaining credit is rejected before any posting.
	_, err = svc.ProcessRefund(ctx, cn.ID, 54001, receipts.ModeBank)
	require.ErrorIs(t, err, ErrRefundExceedsCredit)

	second, err := svc.ProcessRefund(ctx, cn.ID, 54000, receipts.ModeBank)
	require.NoError(t, err)

	got, err = svc.Get(ctx, cn.ID)
	require.NoError(t, err)
	require.Equal(t, StatusRefunded, got.Status)

	refunds, err := svc.Refunds(ctx, cn.ID)
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	require.Equal(t, first.Amount+second.Amount, cn.TotalAmount)

	cashLegs, err := led.EntriesByReference(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, cashLegs, 1)
	require.Equal(t, accounts.CodeAccountsReceivable, cashLegs[0].DebitCode)
	require.Equal(t, accounts.CodeCash, cashLegs[0].CreditCode)

	bankLegs, err := led.EntriesByReference(ctx, second.ID)
	require.NoError(t, err)
	require.Equal(t, accounts.CodeBank, bankLegs[0].CreditCode)

	// Fully refunded means no further payouts, not even a rupee.
	_, err = svc.ProcessRefund(ctx, cn.ID, 1, receipts.ModeCash)
	require.ErrorIs(t, err, ErrRefundExceedsCredit)
}

func TestProcessRefundRejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc, invRepo, _ := newTestService(t)
	inv := saveIssuedInvoice(t, invRepo)
	cn, err := svc.Generate(ctx, inv.ID, "cancelled")
	require.NoError(t, err)

	_, err = svc.ProcessRefund(ctx, cn.ID, 0, receipts.ModeCash)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.ProcessRefund(ctx, cn.ID, -5, receipts.ModeCash)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestProcessRefundUnknownCreditNote(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.ProcessRefund(context.Background(), uuid.New(), 100, receipts.ModeCash)
	require.ErrorIs(t, err, ErrCreditNoteNotFound)
}
