package receipts

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrReceiptNotFound = errors.New("receipts: receipt not found")
	ErrInvalidAmount   = errors.New("receipts: payment amount must be positive")
)

// PaymentMode is how the money arrived. CASH hits the cash account;
// every other mode settles through the bank.
type PaymentMode string

const (
	ModeCash   PaymentMode = "CASH"
	ModeBank   PaymentMode = "BANK"
	ModeUPI    PaymentMode = "UPI"
	ModeCheque PaymentMode = "CHEQUE"
)

// Receipt is one immutable payment record against an invoice. The
// invoice total is snapshotted at receipt time so later credit notes
// cannot distort the payment history.
type Receipt struct {
	ID                    uuid.UUID   `json:"id"`
	DisplayID             string      `json:"display_id"`
	InvoiceID             uuid.UUID   `json:"invoice_id"`
	InvoiceDisplayID      string      `json:"invoice_display_id"`
	BookingID             uuid.UUID   `json:"booking_id"`
	Amount                int64       `json:"amount"`
	Mode                  PaymentMode `json:"mode"`
	Reference             string      `json:"reference,omitempty"`
	ReceivedBy            string      `json:"received_by"`
	ReceivedAt            time.Time   `json:"received_at"`
	InvoiceTotalAtReceipt int64       `json:"invoice_total_at_receipt"`
	TenantID              string      `json:"tenant_id"`
}
