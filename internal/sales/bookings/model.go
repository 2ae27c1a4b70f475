package bookings

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/pricing"
)

var (
	ErrBookingNotFound    = errors.New("bookings: booking not found")
	ErrAllotmentState     = errors.New("bookings: invalid allotment transition")
	ErrNotHardLocked      = errors.New("bookings: booking must be hard locked")
	ErrVINAlreadyAssigned = errors.New("bookings: VIN already assigned")
	ErrNoVIN              = errors.New("bookings: no VIN assigned")
	ErrPDIAlreadyPassed   = errors.New("bookings: PDI already approved")
	ErrPDINotPassed       = errors.New("bookings: PDI not approved")
	ErrAlreadyDelivered   = errors.New("bookings: booking already delivered")
	ErrNotDelivered       = errors.New("bookings: booking not delivered")
	ErrDocsAcknowledged   = errors.New("bookings: documents already acknowledged")
)

type BookingStatus string

const (
	StatusDraft     BookingStatus = "DRAFT"
	StatusDelivered BookingStatus = "DELIVERED"
)

type AllotmentStatus string

const (
	AllotmentNone     AllotmentStatus = "NONE"
	AllotmentSoftLock AllotmentStatus = "SOFT_LOCK"
	AllotmentHardLock AllotmentStatus = "HARD_LOCK"
)

type PDIStatus string

const (
	PDIPending PDIStatus = "PENDING"
	PDIPassed  PDIStatus = "PASSED"
)

// PDIReport captures the pre-delivery inspection sign-off.
type PDIReport struct {
	InspectorName   string    `json:"inspector_name"`
	OdoReading      string    `json:"odo_reading"`
	Notes           string    `json:"notes"`
	AllChecksPassed bool      `json:"all_checks_passed"`
	ApprovedAt      time.Time `json:"approved_at"`
}

// DocumentPack records the customer's handover acknowledgement.
type DocumentPack struct {
	InvoiceAck        bool      `json:"invoice_ack"`
	DeliveryNoteAck   bool      `json:"delivery_note_ack"`
	InsurancePolicyNo string    `json:"insurance_policy_no"`
	RCStatus          string    `json:"rc_status"`
	CustomerAck       bool      `json:"customer_ack"`
	AckDate           time.Time `json:"ack_date"`
}

// AuditNote is one line of the booking's embedded history trail.
type AuditNote struct {
	At     time.Time `json:"at"`
	Action string    `json:"action"`
	Actor  string    `json:"actor"`
}

// Booking is a confirmed sale moving through allotment, inspection and
// delivery. The price snapshot is locked at creation and never recomputed.
type Booking struct {
	ID                  uuid.UUID              `json:"id"`
	DisplayID           string                 `json:"display_id"`
	SalesOrderID        uuid.UUID              `json:"sales_order_id"`
	SalesOrderDisplayID string                 `json:"sales_order_display_id"`
	CustomerID          string                 `json:"customer_id"`
	CustomerName        string                 `json:"customer_name"`
	Brand               string                 `json:"brand"`
	Model               string                 `json:"model"`
	Variant             string                 `json:"variant"`
	SKU                 string                 `json:"sku"`
	Price               int64                  `json:"price"`
	Snapshot            *pricing.PriceSnapshot `json:"price_snapshot,omitempty"`
	Status              BookingStatus          `json:"status"`
	AllotmentStatus     AllotmentStatus        `json:"allotment_status"`
	AssignedVIN         string                 `json:"assigned_vin,omitempty"`
	EngineNumber        string                 `json:"engine_number,omitempty"`
	PDIStatus           PDIStatus              `json:"pdi_status"`
	PDIReport           *PDIReport             `json:"pdi_report,omitempty"`
	InsuranceStatus     string                 `json:"insurance_status,omitempty"`
	InvoiceID           *uuid.UUID             `json:"invoice_id,omitempty"`
	InvoiceDisplayID    string                 `json:"invoice_display_id,omitempty"`
	Documents           *DocumentPack          `json:"documents,omitempty"`
	History             []AuditNote            `json:"history"`
	CreatedAt           time.Time              `json:"created_at"`
	TenantID            string                 `json:"tenant_id"`
}

// VariantLabel is the human-readable product description used on
// invoices and audit notes.
func (b Booking) VariantLabel() string {
	return b.Brand + " " + b.Model + " " + b.Variant
}
