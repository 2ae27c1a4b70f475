package e2e

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/accounting/reports"
	"github.com/aums-erp/aums-erp/internal/billing/creditnotes"
	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/billing/receipts"
	"github.com/aums-erp/aums-erp/internal/inventory"
	"github.com/aums-erp/aums-erp/internal/pricing"
	"github.com/aums-erp/aums-erp/internal/sales/bookings"
)

const (
	tenantID = "dealer-001"
	sku      = "HND-ACT-6G-STD-GRY"
	vin      = "HND2024ACT00001"
)

type stack struct {
	ledger      *ledger.Service
	reports     *reports.Service
	stock       *inventory.Service
	bookings    *bookings.Service
	invoices    *invoices.Service
	receipts    *receipts.Service
	creditnotes *creditnotes.Service
}

// newStack wires every service against in-memory repositories, the same
// graph cmd/aums builds against postgres.
func newStack(t *testing.T) *stack {
	t.Helper()
	ctx := context.Background()
	logger := slog.Default()

	led := ledger.NewService(ledger.NewMemoryRepository(), accounts.Default(), logger, tenantID)
	rep := reports.NewService(led, nil, tenantID)

	invRepo := inventory.NewMemoryRepository()
	require.NoError(t, invRepo.SavePool(ctx, inventory.StockPool{
		SKU: sku, Brand: "Honda", Model: "Activa 6G", Variant: "Standard", Color: "Matte Axis Grey",
		TotalStock: 5, Available: 5,
	}))
	require.NoError(t, invRepo.SaveUnit(ctx, inventory.VehicleUnit{
		ID: uuid.New(), VIN: vin, SKU: sku, Status: inventory.UnitAvailable,
		Location: "Yard A", InwardDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	stock := inventory.NewService(invRepo, logger)

	bkg := bookings.NewService(bookings.NewMemoryRepository(), stock, pricing.NewDefaultEngine(), logger, tenantID)
	inv := invoices.NewService(invoices.NewMemoryRepository(), bkg, led, logger, "DL", tenantID)
	rcp := receipts.NewService(receipts.NewMemoryRepository(), inv, led, logger, tenantID)
	cn := creditnotes.NewService(creditnotes.NewMemoryRepository(), inv, led, logger, tenantID)

	return &stack{ledger: led, reports: rep, stock: stock, bookings: bkg, invoices: inv, receipts: rcp, creditnotes: cn}
}

func requireBalanced(t *testing.T, s *stack) reports.TrialBalance {
	t.Helper()
	tb, err := s.reports.TrialBalance(context.Background(), nil, nil)
	require.NoError(t, err)
	require.True(t, tb.IsBalanced, "trial balance out of balance by %d", tb.Diff)
	return tb
}

func netFor(tb reports.TrialBalance, code string) int64 {
	for _, item := range tb.Items {
		if item.AccountCode == code {
			return item.NetBalance
		}
	}
	return 0
}

// The ₹85,000 Activa sold in Delhi without insurance, driven from
// booking through delivery, invoicing, full payment, cancellation and
// full refund. The books must balance at every stage and every account
// must come back to zero at the end.
func TestDealershipFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	b, err := s.bookings.Create(ctx, bookings.CreateInput{
		SalesOrderID:        uuid.New(),
		SalesOrderDisplayID: "9X2V3M1AB",
		CustomerID:          "cust-1",
		CustomerName:        "Rahul Kumar",
		Brand:               "Honda",
		Model:               "Activa 6G",
		Variant:             "Standard",
		SKU:                 sku,
		Price:               85000,
		StateCode:           "DL",
		RTOCode:             "DL-01",
		Actor:               "Sales Exec",
	})
	require.NoError(t, err)
	// DL: 8% RTO + 1000 fixed, no insurance selected.
	require.Equal(t, int64(7800), b.Snapshot.RTOCharges)
	require.Equal(t, int64(92800), b.Snapshot.TotalOnRoad)

	_, err = s.bookings.SoftLock(ctx, b.ID, "Sales Exec")
	require.NoError(t, err)
	_, err = s.bookings.HardLock(ctx, b.ID, "Sales Exec")
	require.NoError(t, err)
	_, err = s.bookings.AssignVIN(ctx, b.ID, vin, "Yard")
	require.NoError(t, err)
	_, err = s.bookings.CompletePDI(ctx, b.ID, bookings.PDIInput{InspectorName: "Anita", OdoReading: "4"})
	require.NoError(t, err)
	b, err = s.bookings.Deliver(ctx, b.ID, bookings.DeliverInput{ReceiverName: "Rahul Kumar"})
	require.NoError(t, err)
	require.Equal(t, bookings.StatusDelivered, b.Status)

	pools, err := s.stock.Pools(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, pools[0].TotalStock)

	// Invoice: vehicle 85000 peels to 66406 + 9297 + 9297, RTO stays flat.
	inv, err := s.invoices.Generate(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, invoices.IntraState, inv.GSTContext.RegistrationType)
	require.Equal(t, int64(74206), inv.Totals.TaxableTotal)
	require.Equal(t, int64(18594), inv.Totals.TaxTotal())
	require.Equal(t, int64(92800), inv.Totals.GrandTotal)

	tb := requireBalanced(t, s)
	require.Equal(t, int64(92800), netFor(tb, accounts.CodeAccountsReceivable))
	require.Equal(t, int64(0), netFor(tb, accounts.CodeSalesClearing))
	require.Equal(t, int64(-66406), netFor(tb, accounts.CodeSalesVehicle))
	require.Equal(t, int64(-7800), netFor(tb, accounts.CodeSalesRTO))
	require.Equal(t, int64(-18594), netFor(tb, accounts.CodeOutputGST))

	// Two receipts settle the invoice in full.
	_, inv, err = s.receipts.Record(ctx, inv.ID, 50000, receipts.ModeCash, "", "Cashier")
	require.NoError(t, err)
	require.Equal(t, invoices.PartiallyPaid, inv.PaymentStatus)
	_, inv, err = s.receipts.Record(ctx, inv.ID, 42800, receipts.ModeUPI, "UTR-1", "Cashier")
	require.NoError(t, err)
	require.Equal(t, invoices.Paid, inv.PaymentStatus)
	require.Zero(t, inv.AmountDue)

	tb = requireBalanced(t, s)
	require.Equal(t, int64(0), netFor(tb, accounts.CodeAccountsReceivable))
	require.Equal(t, int64(50000), netFor(tb, accounts.CodeCash))
	require.Equal(t, int64(42800), netFor(tb, accounts.CodeBank))

	pl, err := s.reports.ProfitAndLoss(ctx, nil, nil)
	require.NoError(t, err)
	require.Equal(t, int64(74206), pl.NetProfit)

	bs, err := s.reports.BalanceSheet(ctx, nil, nil)
	require.NoError(t, err)
	require.True(t, bs.Validation.IsBalanced)

	// The customer cancels after delivery: full-reversal credit note.
	cn, err := s.creditnotes.Generate(ctx, inv.ID, "Customer cancelled after delivery")
	require.NoError(t, err)
	require.Equal(t, int64(92800), cn.TotalAmount)

	tb = requireBalanced(t, s)
	require.Equal(t, int64(-92800), netFor(tb, accounts.CodeAccountsReceivable))
	require.Equal(t, int64(0), netFor(tb, accounts.CodeOutputGST))
	require.Equal(t, int64(74206), netFor(tb, accounts.CodeSalesReturns))

	// Refunds mirror the receipts, rupee for rupee.
	_, err = s.creditnotes.ProcessRefund(ctx, cn.ID, 50000, receipts.ModeCash)
	require.NoError(t, err)
	_, err = s.creditnotes.ProcessRefund(ctx, cn.ID, 42800, receipts.ModeBank)
	require.NoError(t, err)

	cn, err = s.creditnotes.Get(ctx, cn.ID)
	require.NoError(t, err)
	require.Equal(t, creditnotes.StatusRefunded, cn.Status)

	tb = requireBalanced(t, s)
	for _, code := range []string{
		accounts.CodeAccountsReceivable,
		accounts.CodeCash,
		accounts.CodeBank,
		accounts.CodeSalesClearing,
		accounts.CodeOutputGST,
	} {
		require.Zerof(t, netFor(tb, code), "account %s should net to zero", code)
	}

	// Sales returns expense exactly offsets the recognised revenue.
	pl, err = s.reports.ProfitAndLoss(ctx, nil, nil)
	require.NoError(t, err)
	require.Zero(t, pl.NetProfit)
}

// Re-running invoice generation and credit-note issuance must not
// duplicate postings.
func TestFlowIdempotentRetries(t *testing.T) {
	ctx := context.Background()
	s := newStack(t)

	b, err := s.bookings.Create(ctx, bookings.CreateInput{
		SalesOrderID:        uuid.New(),
		SalesOrderDisplayID: "9X2V3M1AB",
		CustomerID:          "cust-1",
		CustomerName:        "Rahul Kumar",
		Brand:               "Honda",
		Model:               "Activa 6G",
		Variant:             "Standard",
		SKU:                 sku,
		Price:               85000,
		StateCode:           "DL",
		RTOCode:             "DL-01",
		Actor:               "Sales Exec",
	})
	require.NoError(t, err)
	_, err = s.bookings.SoftLock(ctx, b.ID, "Sales Exec")
	require.NoError(t, err)
	_, err = s.bookings.HardLock(ctx, b.ID, "Sales Exec")
	require.NoError(t, err)
	_, err = s.bookings.AssignVIN(ctx, b.ID, vin, "Yard")
	require.NoError(t, err)
	_, err = s.bookings.CompletePDI(ctx, b.ID, bookings.PDIInput{InspectorName: "Anita"})
	require.NoError(t, err)
	_, err = s.bookings.Deliver(ctx, b.ID, bookings.DeliverInput{ReceiverName: "Rahul Kumar"})
	require.NoError(t, err)

	first, err := s.invoices.Generate(ctx, b.ID)
	require.NoError(t, err)
	second, err := s.invoices.Generate(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	cnFirst, err := s.creditnotes.Generate(ctx, first.ID, "cancelled")
	require.NoError(t, err)
	cnSecond, err := s.creditnotes.Generate(ctx, first.ID, "cancelled again")
	require.NoError(t, err)
	require.Equal(t, cnFirst.ID, cnSecond.ID)

	entries, err := s.ledger.Entries(ctx)
	require.NoError(t, err)
	// 4 invoice legs + 3 credit note legs, nothing doubled.
	require.Len(t, entries, 7)
	requireBalanced(t, s)
}
