package creditnotes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/billing/receipts"
	"github.com/aums-erp/aums-erp/internal/displayid"
)

// Repository is the persistence port for credit notes and refunds.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (CreditNote, error)
	GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (CreditNote, error)
	Save(ctx context.Context, cn CreditNote) error
	SaveRefund(ctx context.Context, r Refund) error
	ListRefunds(ctx context.Context, creditNoteID uuid.UUID) ([]Refund, error)
}

// InvoiceSource is the read side of the invoice service.
type InvoiceSource interface {
	Get(ctx context.Context, id uuid.UUID) (invoices.Invoice, error)
}

// Poster is the ledger write port.
type Poster interface {
	Post(ctx context.Context, in ledger.PostingInput) (*ledger.Entry, error)
	PostSet(ctx context.Context, inputs []ledger.PostingInput) ([]ledger.Entry, error)
}

// Service issues full-reversal credit notes and pays refunds against
// them. The cumulative refunded amount can never exceed the credit note
// total; reaching it moves the note to its terminal REFUNDED status.
type Service struct {
	repo     Repository
	invoices InvoiceSource
	poster   Poster
	logger   *slog.Logger
	tenantID string
	now      func() time.Time
}

func NewService(repo Repository, invoiceSource InvoiceSource, poster Poster, logger *slog.Logger, tenantID string) *Service {
	return &Service{
		repo:     repo,
		invoices: invoiceSource,
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

// Get returns one credit note.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (CreditNote, error) {
	return s.repo.Get(ctx, id)
}

// Refunds returns the payout history for a credit note.
func (s *Service) Refunds(ctx context.Context, creditNoteID uuid.UUID) ([]Refund, error) {
	return s.repo.ListRefunds(ctx, creditNoteID)
}

// Generate issues a full reversal of the invoice. Idempotent per
// invoice: a second call returns the existing note.
func (s *Service) Generate(ctx context.Context, invoiceID uuid.UUID, reason string) (CreditNote, error) {
	existing, err := s.repo.GetByInvoice(ctx, invoiceID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCreditNoteNotFound) {
		return CreditNote{}, err
	}

	inv, err := s.invoices.Get(ctx, invoiceID)
	if err != nil {
		return CreditNote{}, err
	}

	cn := CreditNote{
		ID:            uuid.New(),
		DisplayID:     displayid.New(),
		InvoiceID:     inv.ID,
		BookingID:     inv.BookingID,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.CustomerName,
		Reason:        reason,
		LineItems:     inv.LineItems,
		TaxableAmount: inv.Totals.TaxableTotal,
		TaxAmount:     inv.Totals.TaxTotal(),
		TotalAmount:   inv.Totals.GrandTotal,
		Status:        StatusIssued,
		CreatedAt:     s.now(),
		TenantID:      s.tenantID,
	}
	if err := s.repo.Save(ctx, cn); err != nil {
		return CreditNote{}, err
	}
	if _, err := s.poster.PostSet(ctx, s.reversalLegs(cn)); err != nil {
		return CreditNote{}, err
	}

	s.logger.Info("credit note issued",
		slog.String("credit_note_id", cn.ID.String()),
		slog.String("invoice_id", inv.ID.String()),
		slog.Int64("total", cn.TotalAmount),
	)
	return cn, nil
}

// reversalLegs mirrors the invoice posting through the Sales Clearing
// suspense account: sales returns and GST reversal against clearing,
// then clearing against the receivable for the full credit.
func (s *Service) reversalLegs(cn CreditNote) []ledger.PostingInput {
	legs := []ledger.PostingInput{{
		TransactionType: ledger.TransactionJournal,
		ReferenceID:     cn.ID,
		PartyType:       ledger.PartyCustomer,
		PartyID:         cn.CustomerID,
		PartyName:       cn.CustomerName,
		Description:     fmt.Sprintf("CN %s - Sales Return", cn.DisplayID),
		DebitCode:       accounts.CodeSalesReturns,
		CreditCode:      accounts.CodeSalesClearing,
		Amount:          cn.TaxableAmount,
	}}
	if cn.TaxAmount > 0 {
		legs = append(legs, ledger.PostingInput{
			TransactionType: ledger.TransactionJournal,
			ReferenceID:     cn.ID,
			PartyType:       ledger.PartyTaxAuthority,
			PartyID:         "GST-AUTH",
			PartyName:       "GST Authority",
			Description:     fmt.Sprintf("CN %s - GST Reversal", cn.DisplayID),
			DebitCode:       accounts.CodeOutputGST,
			CreditCode:      accounts.CodeSalesClearing,
			Amount:          cn.TaxAmount,
		})
	}
	legs = append(legs, ledger.PostingInput{
		TransactionType: ledger.TransactionJournal,
		ReferenceID:     cn.ID,
		PartyType:       ledger.PartyCustomer,
		PartyID:         cn.CustomerID,
		PartyName:       cn.CustomerName,
		Description:     fmt.Sprintf("CN %s - Credit Given", cn.DisplayID),
		DebitCode:       accounts.CodeSalesClearing,
		CreditCode:      accounts.CodeAccountsReceivable,
		Amount:          cn.TotalAmount,
	})
	return legs
}

// ProcessRefund pays out part of the credit. The cap is cumulative
// across refunds; hitting the total exactly moves the note to REFUNDED.
func (s *Service) ProcessRefund(ctx context.Context, creditNoteID uuid.UUID, amount int64, mode receipts.PaymentMode) (Refund, error) {
	if amount <= 0 {
		return Refund{}, ErrInvalidAmount
	}
	cn, err := s.repo.Get(ctx, creditNoteID)
	if err != nil {
		return Refund{}, err
	}

	prior, err := s.repo.ListRefunds(ctx, creditNoteID)
	if err != nil {
		return Refund{}, err
	}
	var refunded int64
	for _, r := range prior {
		refunded += r.Amount
	}
	if refunded+amount > cn.TotalAmount {
		return Refund{}, fmt.Errorf("%w: %d refunded, %d requested, %d total",
			ErrRefundExceedsCredit, refunded, amount, cn.TotalAmount)
	}

	refund := Refund{
		ID:           uuid.New(),
		DisplayID:    displayid.New(),
		CreditNoteID: cn.ID,
		Amount:       amount,
		Mode:         mode,
		RefundedAt:   s.now(),
		TenantID:     s.tenantID,
	}
	if err := s.repo.SaveRefund(ctx, refund); err != nil {
		return Refund{}, err
	}

	credit := accounts.CodeBank
	if mode == receipts.ModeCash {
		credit = accounts.CodeCash
	}
	if _, err := s.poster.Post(ctx, ledger.PostingInput{
		TransactionType: ledger.TransactionJournal,
		ReferenceID:     refund.ID,
		PartyType:       ledger.PartyCustomer,
		PartyID:         cn.CustomerID,
		PartyName:       cn.CustomerName,
		Description:     fmt.Sprintf("Refund %s for CN %s", refund.DisplayID, cn.DisplayID),
		DebitCode:       accounts.CodeAccountsReceivable,
		CreditCode:      credit,
		Amount:          amount,
	}); err != nil {
		return Refund{}, err
	}

	if refunded+amount == cn.TotalAmount {
		cn.Status = StatusRefunded
		if err := s.repo.Save(ctx, cn); err != nil {
			return Refund{}, err
		}
	}

	s.logger.Info("refund processed",
		slog.String("refund_id", refund.ID.String()),
		slog.String("credit_note_id", cn.ID.String()),
		slog.Int64("amount", amount),
		slog.String("status", string(cn.Status)),
	)
	return refund, nil
}
