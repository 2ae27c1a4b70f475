package invoices

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvoiceNotFound  = errors.New("invoices: invoice not found")
	ErrNotDelivered     = errors.New("invoices: booking must be delivered before invoicing")
	ErrMissingSnapshot  = errors.New("invoices: no price snapshot attached to booking")
	ErrMissingStateCode = errors.New("invoices: customer state code missing in snapshot")
)

// RegistrationType classifies the supply for GST splitting.
type RegistrationType string

const (
	IntraState RegistrationType = "INTRA_STATE"
	InterState RegistrationType = "INTER_STATE"
)

// LineType tags invoice lines; the ledger posting uses it to pick the
// revenue account.
type LineType string

const (
	LineVehicle LineType = "VEHICLE"
	LineFee     LineType = "FEE"
	LineService LineType = "SERVICE"
)

// LineItem is one priced row on the invoice. Amounts are tax-inclusive
// totals decomposed into taxable value and tax components.
type LineItem struct {
	Type             LineType `json:"type"`
	Label            string   `json:"label"`
	Qty              int      `json:"qty"`
	UnitPriceExclTax int64    `json:"unit_price_excl_tax"`
	TaxableValue     int64    `json:"taxable_value"`
	GSTRate          int      `json:"gst_rate"`
	CGSTAmount       int64    `json:"cgst_amount"`
	SGSTAmount       int64    `json:"sgst_amount"`
	IGSTAmount       int64    `json:"igst_amount"`
	Total            int64    `json:"total"`
}

// Totals are field-wise sums over the line items.
type Totals struct {
	TaxableTotal int64 `json:"taxable_total"`
	CGSTTotal    int64 `json:"cgst_total"`
	SGSTTotal    int64 `json:"sgst_total"`
	IGSTTotal    int64 `json:"igst_total"`
	GrandTotal   int64 `json:"grand_total"`
}

// TaxTotal is the combined GST across components.
func (t Totals) TaxTotal() int64 {
	return t.CGSTTotal + t.SGSTTotal + t.IGSTTotal
}

// GSTContext records the supply-side facts the split was derived from.
type GSTContext struct {
	SupplyState      string           `json:"supply_state"`
	RegistrationType RegistrationType `json:"registration_type"`
}

// SnapshotRef pins the invoice to the price snapshot it was built from.
type SnapshotRef struct {
	SnapshotID   uuid.UUID `json:"snapshot_id"`
	LockedAt     time.Time `json:"locked_at"`
	VariantLabel string    `json:"variant_label"`
	StateCode    string    `json:"state_code"`
}

// PaymentStatus is derived from amounts, never stored as a state machine.
type PaymentStatus string

const (
	Unpaid        PaymentStatus = "UNPAID"
	PartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	Paid          PaymentStatus = "PAID"
	Overpaid      PaymentStatus = "OVERPAID"
)

// StatusFor derives the payment status from amounts. Pure function: the
// same inputs always give the same status, so the stored column can be
// recomputed at will.
func StatusFor(amountPaid, grandTotal int64) PaymentStatus {
	switch {
	case amountPaid > grandTotal:
		return Overpaid
	case amountPaid == grandTotal && grandTotal > 0:
		return Paid
	case amountPaid > 0:
		return PartiallyPaid
	default:
		return Unpaid
	}
}

// Invoice is the immutable GST invoice generated after delivery.
// Corrections go through credit notes, never edits.
type Invoice struct {
	ID               uuid.UUID     `json:"id"`
	DisplayID        string        `json:"display_id"`
	BookingID        uuid.UUID     `json:"booking_id"`
	BookingDisplayID string        `json:"booking_display_id"`
	CustomerID       string        `json:"customer_id"`
	CustomerName     string        `json:"customer_name"`
	SnapshotRef      SnapshotRef   `json:"snapshot_ref"`
	LineItems        []LineItem    `json:"line_items"`
	Totals           Totals        `json:"totals"`
	GSTContext       GSTContext    `json:"gst_context"`
	GeneratedAt      time.Time     `json:"generated_at"`
	Status           string        `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	AmountPaid       int64         `json:"amount_paid"`
	AmountDue        int64         `json:"amount_due"`
	TenantID         string        `json:"tenant_id"`
}
