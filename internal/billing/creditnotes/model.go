package creditnotes

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/billing/invoices"
	"github.com/aums-erp/aums-erp/internal/billing/receipts"
)

var (
	ErrCreditNoteNotFound  = errors.New("creditnotes: credit note not found")
	ErrInvalidAmount       = errors.New("creditnotes: refund amount must be positive")
	ErrRefundExceedsCredit = errors.New("creditnotes: cumulative refunds cannot exceed credit note total")
)

type CreditNoteStatus string

const (
	StatusIssued CreditNoteStatus = "ISSUED"
	// StatusRefunded is terminal: the full credit has been paid out.
	StatusRefunded CreditNoteStatus = "REFUNDED"
)

// CreditNote reverses an invoice in full: mirrored line items, reversal
// postings, and a credit the customer can draw refunds against.
type CreditNote struct {
	ID            uuid.UUID           `json:"id"`
	DisplayID     string              `json:"display_id"`
	InvoiceID     uuid.UUID           `json:"invoice_id"`
	BookingID     uuid.UUID           `json:"booking_id"`
	CustomerID    string              `json:"customer_id"`
	CustomerName  string              `json:"customer_name"`
	Reason        string              `json:"reason"`
	LineItems     []invoices.LineItem `json:"line_items"`
	TaxableAmount int64               `json:"taxable_amount"`
	TaxAmount     int64               `json:"tax_amount"`
	TotalAmount   int64               `json:"total_amount"`
	Status        CreditNoteStatus    `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	TenantID      string              `json:"tenant_id"`
}

// Refund is one payout against a credit note.
type Refund struct {
	ID           uuid.UUID            `json:"id"`
	DisplayID    string               `json:"display_id"`
	CreditNoteID uuid.UUID            `json:"credit_note_id"`
	Amount       int64                `json:"amount"`
	Mode         receipts.PaymentMode `json:"mode"`
	RefundedAt   time.Time            `json:"refunded_at"`
	TenantID     string               `json:"tenant_id"`
}
