package receipts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/displayid"
)

// Repository is the persistence port for receipts.
type Repository interface {
	Save(ctx context.Context, r Receipt) error
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Receipt, error)
}

// InvoiceStore is the slice of the invoice service payments touch.
type InvoiceStore interface {
	Get(ctx context.Context, id uuid.UUID) (invoices.Invoice, error)
	ApplyPayment(ctx context.Context, id uuid.UUID, amount int64) (invoices.Invoice, error)
}

// Poster is the ledger write port.
type Poster interface {
	Post(ctx context.Context, in ledger.PostingInput) (*ledger.Entry, error)
}

// Service records customer payments against invoices. Each receipt is
// immutable; the invoice's paid/due amounts and derived status are the
// only mutable side.
type Service struct {
	repo     Repository
	invoices InvoiceStore
	poster   Poster
	logger   *slog.Logger
	tenantID string
	now      func() time.Time
}

func NewService(repo Repository, invoiceStore InvoiceStore, poster Poster, logger *slog.Logger, tenantID string) *Service {
	return &Service{
		repo:     repo,
		invoices: invoiceStore,
		poster:   poster,
		logger:   logger,
		tenantID: tenantID,
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	s.now = now
}

// ListByInvoice returns the payment history for an invoice. The sum of
// the returned amounts always equals the invoice's AmountPaid.
func (s *Service) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Receipt, error) {
	return s.repo.ListByInvoice(ctx, invoiceID)
}

// Record books one payment: receipt saved, invoice amounts advanced,
// ledger posted (Dr Cash or Bank / Cr Accounts Receivable).
func (s *Service) Record(ctx context.Context, invoiceID uuid.UUID, amount int64, mode PaymentMode, reference, receivedBy string) (Receipt, invoices.Invoice, error) {
	if amount <= 0 {
		return Receipt{}, invoices.Invoice{}, ErrInvalidAmount
	}
	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return Receipt{}, invoices.Invoice{}, err
	}

	rcpt := Receipt{
		ID:                    uuid.New(),
		DisplayID:             displayid.New(),
		InvoiceID:             inv.ID,
		InvoiceDisplayID:      inv.DisplayID,
		BookingID:             inv.BookingID,
		Amount:                amount,
		Mode:                  mode,
		Reference:             reference,
		ReceivedBy:            receivedBy,
		ReceivedAt:            s.now(),
		InvoiceTotalAtReceipt: inv.Totals.GrandTotal,
		TenantID:              s.tenantID,
	}
	if err := s.repo.Save(ctx, rcpt); err != nil {
		return Receipt{}, invoices.Invoice{}, err
	}

	inv, err = s.invoices.ApplyPayment(ctx, invoiceID, amount)
	if err != nil {
		return Receipt{}, invoices.Invoice{}, err
	}

	debit := accounts.CodeBank
	if mode == ModeCash {
		debit = accounts.CodeCash
	}
	if _, err := s.poster.Post(ctx, ledger.PostingInput{
		TransactionType: ledger.TransactionReceipt,
		ReferenceID:     rcpt.ID,
		PartyType:       ledger.PartyCustomer,
		PartyID:         inv.CustomerID,
		PartyName:       inv.CustomerName,
		Description:     fmt.Sprintf("Receipt %s (%s)", rcpt.DisplayID, mode),
		DebitCode:       debit,
		CreditCode:      accounts.CodeAccountsReceivable,
		Amount:          amount,
	}); err != nil {
		return Receipt{}, invoices.Invoice{}, err
	}

	s.logger.Info("payment recorded",
		slog.String("receipt_id", rcpt.ID.String()),
		slog.String("invoice_id", inv.ID.String()),
		slog.Int64("amount", amount),
		slog.String("mode", string(mode)),
		slog.String("payment_status", string(inv.PaymentStatus)),
	)
	return rcpt, inv, nil
}
