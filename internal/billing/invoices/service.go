package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/accounting/accounts"
	"github.com/aums-erp/aums-erp/internal/accounting/ledger"
	"github.com/aums-erp/aums-erp/internal/displayid"
	"github.com/aums-erp/aums-erp/internal/sales/bookings"
)

// Repository is the persistence port for invoices.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (Invoice, error)
	GetByBooking(ctx context.Context, bookingID uuid.UUID) (Invoice, error)
	Save(ctx context.Context, inv Invoice) error
	List(ctx context.Context) ([]Invoice, error)
}

// BookingSource is the slice of the booking service invoicing needs.
type BookingSource interface {
	Get(ctx context.Context, id uuid.UUID) (bookings.Booking, error)
	LinkInvoice(ctx context.Context, id, invoiceID uuid.UUID, invoiceDisplayID string) error
}

// Poster is the ledger write port. PostSet commits all legs of the
// invoice atomically and absorbs duplicate legs on retry.
type Poster interface {
	PostSet(ctx context.Context, inputs []ledger.PostingInput) ([]ledger.Entry, error)
}

// Service generates invoices from delivered bookings. Generation is
// idempotent per booking: the second call returns the first invoice.
type Service struct {
	repo        Repository
	bookingSrc  BookingSource
	poster      Poster
	logger      *slog.Logger
	supplyState string
	tenantID    string
	now         func() time.Time
}

func NewService(repo Repository, bookingSrc BookingSource, poster Poster, logger *slog.Logger, supplyState, tenantID string) *Service {
	return &Service{
		repo:        repo,
		bookingSrc:  bookingSrc,
		poster:      poster,
		logger:      logger,
		supplyState: supplyState,
		tenantID:    tenantID,
		now:         time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	s.now = now
}

// Get returns one invoice.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Invoice, error) {
	return s.repo.Get(ctx, id)
}

// GetByBooking returns the invoice for a booking, if generated.
func (s *Service) GetByBooking(ctx context.Context, bookingID uuid.UUID) (Invoice, error) {
	return s.repo.GetByBooking(ctx, bookingID)
}

// List returns all invoices.
func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	return s.repo.List(ctx)
}

// Generate builds and posts the invoice for a delivered booking.
func (s *Service) Generate(ctx context.Context, bookingID uuid.UUID) (Invoice, error) {
	booking, err := s.bookingSrc.Get(ctx, bookingID)
	if err != nil {
		return Invoice{}, err
	}

	// Idempotency: a booking carries at most one invoice.
	existing, err := s.repo.GetByBooking(ctx, bookingID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrInvoiceNotFound) {
		return Invoice{}, err
	}

	if booking.Status != bookings.StatusDelivered {
		return Invoice{}, ErrNotDelivered
	}
	if booking.Snapshot == nil {
		return Invoice{}, ErrMissingSnapshot
	}
	snap := *booking.Snapshot
	if snap.StateCode == "" {
		return Invoice{}, ErrMissingStateCode
	}

	regType := InterState
	if snap.StateCode == s.supplyState {
		regType = IntraState
	}
	intra := regType == IntraState

	var lines []LineItem

	vehicleTaxable, vehicleTax := peelGST(snap.ExShowroom, VehicleGSTRate)
	vCGST, vSGST, vIGST := splitTax(vehicleTax, intra)
	lines = append(lines, LineItem{
		Type:             LineVehicle,
		Label:            booking.VariantLabel(),
		Qty:              1,
		UnitPriceExclTax: vehicleTaxable,
		TaxableValue:     vehicleTaxable,
		GSTRate:          VehicleGSTRate,
		CGSTAmount:       vCGST,
		SGSTAmount:       vSGST,
		IGSTAmount:       vIGST,
		Total:            snap.ExShowroom,
	})

	// RTO registration is a statutory fee, outside GST.
	if snap.RTOCharges > 0 {
		lines = append(lines, LineItem{
			Type:             LineFee,
			Label:            fmt.Sprintf("RTO Registration Charges (%s)", snap.RTOCode),
			Qty:              1,
			UnitPriceExclTax: snap.RTOCharges,
			TaxableValue:     snap.RTOCharges,
			Total:            snap.RTOCharges,
		})
	}

	if insTotal := snap.InsuranceTotal(); insTotal > 0 {
		insTaxable, insTax := peelGST(insTotal, InsuranceGSTRate)
		iCGST, iSGST, iIGST := splitTax(insTax, intra)
		lines = append(lines, LineItem{
			Type:             LineService,
			Label:            "Insurance Premium",
			Qty:              1,
			UnitPriceExclTax: insTaxable,
			TaxableValue:     insTaxable,
			GSTRate:          InsuranceGSTRate,
			CGSTAmount:       iCGST,
			SGSTAmount:       iSGST,
			IGSTAmount:       iIGST,
			Total:            insTotal,
		})
	}

	var totals Totals
	for _, line := range lines {
		totals.TaxableTotal += line.TaxableValue
		totals.CGSTTotal += line.CGSTAmount
		totals.SGSTTotal += line.SGSTAmount
		totals.IGSTTotal += line.IGSTAmount
		totals.GrandTotal += line.Total
	}

	inv := Invoice{
		ID:               uuid.New(),
		DisplayID:        displayid.New(),
		BookingID:        booking.ID,
		BookingDisplayID: booking.DisplayID,
		CustomerID:       booking.CustomerID,
		CustomerName:     booking.CustomerName,
		SnapshotRef: SnapshotRef{
			SnapshotID:   snap.ID,
			LockedAt:     snap.CalculatedAt,
			VariantLabel: booking.VariantLabel(),
			StateCode:    snap.StateCode,
		},
		LineItems:     lines,
		Totals:        totals,
		GSTContext:    GSTContext{SupplyState: s.supplyState, RegistrationType: regType},
		GeneratedAt:   s.now(),
		Status:        "ISSUED",
		PaymentStatus: Unpaid,
		AmountPaid:    0,
		AmountDue:     totals.GrandTotal,
		TenantID:      s.tenantID,
	}

	if err := s.repo.Save(ctx, inv); err != nil {
		return Invoice{}, err
	}
	if _, err := s.poster.PostSet(ctx, s.postingLegs(inv)); err != nil {
		return Invoice{}, err
	}
	if err := s.bookingSrc.LinkInvoice(ctx, booking.ID, inv.ID, inv.DisplayID); err != nil {
		return Invoice{}, err
	}

	s.logger.Info("invoice generated",
		slog.String("invoice_id", inv.ID.String()),
		slog.String("display_id", inv.DisplayID),
		slog.String("booking_id", booking.ID.String()),
		slog.Int64("grand_total", totals.GrandTotal),
	)
	return inv, nil
}

// postingLegs decomposes the invoice into pairwise journal entries via
// the Sales Clearing suspense account: receivable against clearing for
// the grand total, clearing fanned out to revenue per line, clearing
// against output GST for the combined tax.
func (s *Service) postingLegs(inv Invoice) []ledger.PostingInput {
	legs := []ledger.PostingInput{{
		TransactionType: ledger.TransactionInvoice,
		ReferenceID:     inv.ID,
		PartyType:       ledger.PartyCustomer,
		PartyID:         inv.CustomerID,
		PartyName:       inv.CustomerName,
		Description:     fmt.Sprintf("Invoice %s - Sales", inv.DisplayID),
		DebitCode:       accounts.CodeAccountsReceivable,
		CreditCode:      accounts.CodeSalesClearing,
		Amount:          inv.Totals.GrandTotal,
	}}

	for _, line := range inv.LineItems {
		if line.TaxableValue <= 0 {
			continue
		}
		revenue := accounts.CodeSalesVehicle
		switch line.Type {
		case LineService:
			revenue = accounts.CodeSalesInsurance
		case LineFee:
			revenue = accounts.CodeSalesRTO
		}
		legs = append(legs, ledger.PostingInput{
			TransactionType: ledger.TransactionInvoice,
			ReferenceID:     inv.ID,
			PartyType:       ledger.PartyCustomer,
			PartyID:         inv.CustomerID,
			PartyName:       inv.CustomerName,
			Description:     "Rev: " + line.Label,
			DebitCode:       accounts.CodeSalesClearing,
			CreditCode:      revenue,
			Amount:          line.TaxableValue,
		})
	}

	if tax := inv.Totals.TaxTotal(); tax > 0 {
		legs = append(legs, ledger.PostingInput{
			TransactionType: ledger.TransactionInvoice,
			ReferenceID:     inv.ID,
			PartyType:       ledger.PartyTaxAuthority,
			PartyID:         "GST-AUTH",
			PartyName:       "GST Authority",
			Description:     fmt.Sprintf("GST on Invoice %s", inv.DisplayID),
			DebitCode:       accounts.CodeSalesClearing,
			CreditCode:      accounts.CodeOutputGST,
			Amount:          tax,
		})
	}
	return legs
}

// ApplyPayment accumulates a receipt amount onto the invoice and
// recomputes the derived payment fields.
func (s *Service) ApplyPayment(ctx context.Context, id uuid.UUID, amount int64) (Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return Invoice{}, err
	}
	inv.AmountPaid += amount
	inv.AmountDue = inv.Totals.GrandTotal - inv.AmountPaid
	inv.PaymentStatus = StatusFor(inv.AmountPaid, inv.Totals.GrandTotal)
	if err := s.repo.Save(ctx, inv); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}
