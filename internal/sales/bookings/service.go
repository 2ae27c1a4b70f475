package bookings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/displayid"
	"github.com/aums-erp/aums-erp/internal/inventory"
	"github.com/aums-erp/aums-erp/internal/pricing"
	"github.com/aums-erp/aums-erp/internal/shared"
)

// Repository is the persistence port for bookings.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (Booking, error)
	Save(ctx context.Context, b Booking) error
	List(ctx context.Context) ([]Booking, error)
}

// Stock is the slice of the inventory service the booking lifecycle
// drives: pool movements on allotment and unit state on VIN assignment.
type Stock interface {
	Reserve(ctx context.Context, sku string, qty int) error
	Allot(ctx context.Context, sku string, qty int) error
	Deliver(ctx context.Context, sku string, qty int) error
	AssignUnit(ctx context.Context, vin string, bookingID uuid.UUID) (inventory.VehicleUnit, error)
	DeliverUnit(ctx context.Context, vin string) error
	ReleaseUnit(ctx context.Context, vin string) error
}

// Service drives the booking lifecycle: create with a locked price
// snapshot, soft/hard lock stock, assign a VIN, pass PDI, deliver, and
// acknowledge handover documents. Every mutation appends to the
// booking's history trail.
type Service struct {
	repo     Repository
	stock    Stock
	pricer   *pricing.Engine
	logger   *slog.Logger
	audit    shared.AuditPort
	tenantID string
	now      func() time.Time
}

func NewService(repo Repository, stock Stock, pricer *pricing.Engine, logger *slog.Logger, tenantID string) *Service {
	return &Service{
		repo:     repo,
		stock:    stock,
		pricer:   pricer,
		logger:   logger,
		tenantID: tenantID,
		now:      time.Now,
	}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	s.now = now
}

// WithAudit attaches an audit trail sink. Recording is best effort and
// never fails the underlying operation.
func (s *Service) WithAudit(a shared.AuditPort) *Service {
	s.audit = a
	return s
}

func (s *Service) recordAudit(ctx context.Context, action, actor string, id uuid.UUID) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   "booking",
		EntityID: id.String(),
		At:       s.now(),
	}); err != nil {
		s.logger.Warn("audit record", slog.Any("error", err))
	}
}

// CreateInput carries the confirmed sales order a booking is cut from.
type CreateInput struct {
	SalesOrderID        uuid.UUID
	SalesOrderDisplayID string
	CustomerID          string
	CustomerName        string
	Brand               string
	Model               string
	Variant             string
	SKU                 string
	Price               int64
	StateCode           string
	RTOCode             string
	InsuranceRuleID     string
	Actor               string
}

// Create cuts a booking from a confirmed sales order, locking the price
// snapshot at creation time.
func (s *Service) Create(ctx context.Context, in CreateInput) (Booking, error) {
	snap, err := s.pricer.Generate(pricing.Product{
		Brand:      in.Brand,
		Model:      in.Model,
		Variant:    in.Variant,
		ExShowroom: in.Price,
	}, in.StateCode, in.RTOCode, in.InsuranceRuleID)
	if err != nil {
		return Booking{}, err
	}

	now := s.now()
	b := Booking{
		ID:                  uuid.New(),
		DisplayID:           displayid.New(),
		SalesOrderID:        in.SalesOrderID,
		SalesOrderDisplayID: in.SalesOrderDisplayID,
		CustomerID:          in.CustomerID,
		CustomerName:        in.CustomerName,
		Brand:               in.Brand,
		Model:               in.Model,
		Variant:             in.Variant,
		SKU:                 in.SKU,
		Price:               in.Price,
		Snapshot:            &snap,
		Status:              StatusDraft,
		AllotmentStatus:     AllotmentNone,
		PDIStatus:           PDIPending,
		History: []AuditNote{{
			At:     now,
			Action: "Booking created from " + in.SalesOrderDisplayID,
			Actor:  in.Actor,
		}},
		CreatedAt: now,
		TenantID:  s.tenantID,
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return Booking{}, err
	}
	s.logger.Info("booking created",
		slog.String("booking_id", b.ID.String()),
		slog.String("display_id", b.DisplayID),
		slog.Int64("total_on_road", snap.TotalOnRoad),
	)
	s.recordAudit(ctx, "Booking created", in.Actor, b.ID)
	return b, nil
}

// Get returns one booking.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Booking, error) {
	return s.repo.Get(ctx, id)
}

// List returns all bookings.
func (s *Service) List(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx)
}

// SoftLock reserves one unit of stock for the booking.
func (s *Service) SoftLock(ctx context.Context, id uuid.UUID, actor string) (Booking, error) {
	return s.mutate(ctx, id, "Stock reserved (soft lock)", actor, func(ctx context.Context, b *Booking) error {
		if b.AllotmentStatus != AllotmentNone {
			return fmt.Errorf("%w: %s -> SOFT_LOCK", ErrAllotmentState, b.AllotmentStatus)
		}
		if err := s.stock.Reserve(ctx, b.SKU, 1); err != nil {
			return err
		}
		b.AllotmentStatus = AllotmentSoftLock
		return nil
	})
}

// HardLock allots stock to the booking. Allowed from SOFT_LOCK or, as a
// direct hard lock, from NONE. Insurance goes back to pending because a
// hard lock fixes the vehicle the policy must name.
func (s *Service) HardLock(ctx context.Context, id uuid.UUID, actor string) (Booking, error) {
	return s.mutate(ctx, id, "Stock allotted (hard lock)", actor, func(ctx context.Context, b *Booking) error {
		if b.AllotmentStatus == AllotmentHardLock {
			return fmt.Errorf("%w: already HARD_LOCK", ErrAllotmentState)
		}
		if err := s.stock.Allot(ctx, b.SKU, 1); err != nil {
			return err
		}
		b.AllotmentStatus = AllotmentHardLock
		b.InsuranceStatus = "PENDING"
		return nil
	})
}

// RevokeAllotment returns the booking to NONE, releasing any assigned
// unit and clearing the PDI state.
func (s *Service) RevokeAllotment(ctx context.Context, id uuid.UUID, actor string) (Booking, error) {
	return s.mutate(ctx, id, "Allotment revoked", actor, func(ctx context.Context, b *Booking) error {
		if b.AllotmentStatus == AllotmentNone {
			return fmt.Errorf("%w: already NONE", ErrAllotmentState)
		}
		if b.Status == StatusDelivered {
			return ErrAlreadyDelivered
		}
		if b.AssignedVIN != "" {
			if err := s.stock.ReleaseUnit(ctx, b.AssignedVIN); err != nil {
				return err
			}
		}
		b.AllotmentStatus = AllotmentNone
		b.AssignedVIN = ""
		b.EngineNumber = ""
		b.PDIStatus = PDIPending
		b.PDIReport = nil
		return nil
	})
}

// AssignVIN attaches a physical vehicle to a hard-locked booking.
func (s *Service) AssignVIN(ctx context.Context, id uuid.UUID, vin, actor string) (Booking, error) {
	return s.mutate(ctx, id, "Assigned VIN: "+vin, actor, func(ctx context.Context, b *Booking) error {
		if b.AllotmentStatus != AllotmentHardLock {
			return ErrNotHardLocked
		}
		if b.AssignedVIN != "" {
			return ErrVINAlreadyAssigned
		}
		unit, err := s.stock.AssignUnit(ctx, vin, b.ID)
		if err != nil {
			return err
		}
		b.AssignedVIN = unit.VIN
		b.EngineNumber = unit.EngineNumber
		b.PDIStatus = PDIPending
		return nil
	})
}

// PDIInput is the inspector's sign-off.
type PDIInput struct {
	InspectorName string
	OdoReading    string
	Notes         string
}

// CompletePDI records the pre-delivery inspection. Double approval is
// rejected.
func (s *Service) CompletePDI(ctx context.Context, id uuid.UUID, in PDIInput) (Booking, error) {
	return s.mutate(ctx, id, "PDI approved by "+in.InspectorName, in.InspectorName, func(ctx context.Context, b *Booking) error {
		if b.AssignedVIN == "" {
			return ErrNoVIN
		}
		if b.PDIStatus == PDIPassed {
			return ErrPDIAlreadyPassed
		}
		b.PDIStatus = PDIPassed
		b.PDIReport = &PDIReport{
			InspectorName:   in.InspectorName,
			OdoReading:      in.OdoReading,
			Notes:           in.Notes,
			AllChecksPassed: true,
			ApprovedAt:      s.now(),
		}
		return nil
	})
}

// DeliverInput records who took the vehicle.
type DeliverInput struct {
	ReceiverName string
	Notes        string
}

// Deliver hands the vehicle over: unit marked delivered, stock pool
// decremented, booking status DELIVERED.
func (s *Service) Deliver(ctx context.Context, id uuid.UUID, in DeliverInput) (Booking, error) {
	return s.mutate(ctx, id, "Vehicle delivered to "+in.ReceiverName, in.ReceiverName, func(ctx context.Context, b *Booking) error {
		if b.AssignedVIN == "" {
			return ErrNoVIN
		}
		if b.PDIStatus != PDIPassed {
			return ErrPDINotPassed
		}
		if b.Status == StatusDelivered {
			return ErrAlreadyDelivered
		}
		if err := s.stock.DeliverUnit(ctx, b.AssignedVIN); err != nil {
			return err
		}
		if err := s.stock.Deliver(ctx, b.SKU, 1); err != nil {
			return err
		}
		b.Status = StatusDelivered
		return nil
	})
}

// AcknowledgeDocuments records the customer's handover acknowledgement,
// once, after delivery. RC moves to APPLIED on handover.
func (s *Service) AcknowledgeDocuments(ctx context.Context, id uuid.UUID, policyNo, actor string) (Booking, error) {
	return s.mutate(ctx, id, "Documents acknowledged, policy #"+policyNo, actor, func(ctx context.Context, b *Booking) error {
		if b.Status != StatusDelivered {
			return ErrNotDelivered
		}
		if b.Documents != nil && b.Documents.CustomerAck {
			return ErrDocsAcknowledged
		}
		b.Documents = &DocumentPack{
			InvoiceAck:        true,
			DeliveryNoteAck:   true,
			InsurancePolicyNo: policyNo,
			RCStatus:          "APPLIED",
			CustomerAck:       true,
			AckDate:           s.now(),
		}
		return nil
	})
}

// LinkInvoice records the generated invoice on the booking with an audit
// note. Invoked by the invoice generator, not exposed over HTTP.
func (s *Service) LinkInvoice(ctx context.Context, id, invoiceID uuid.UUID, invoiceDisplayID string) error {
	_, err := s.mutate(ctx, id, "Invoice generated: "+invoiceDisplayID, "system", func(ctx context.Context, b *Booking) error {
		b.InvoiceID = &invoiceID
		b.InvoiceDisplayID = invoiceDisplayID
		return nil
	})
	return err
}

func (s *Service) mutate(ctx context.Context, id uuid.UUID, note, actor string, fn func(context.Context, *Booking) error) (Booking, error) {
	b, err := s.repo.Get(ctx, id)
	if err != nil {
		return Booking{}, err
	}
	if err := fn(ctx, &b); err != nil {
		return Booking{}, err
	}
	b.History = append([]AuditNote{{At: s.now(), Action: note, Actor: actor}}, b.History...)
	if err := s.repo.Save(ctx, b); err != nil {
		return Booking{}, err
	}
	s.recordAudit(ctx, note, actor, b.ID)
	return b, nil
}
