package bookings

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aums-erp/aums-erp/internal/displayid"
	"github.com/aums-erp/aums-erp/internal/inventory"
	"github.com/aums-erp/aums-erp/internal/pricing"
)

const testSKU = "HND-ACT-6G-STD-GRY"

func newTestService(t *testing.T) (*Service, *inventory.Service, *inventory.MemoryRepository) {
	t.Helper()
	ctx := context.Background()
	invRepo := inventory.NewMemoryRepository()
	require.NoError(t, invRepo.SavePool(ctx, inventory.StockPool{
		SKU: testSKU, Brand: "Honda", Model: "Activa 6G", Variant: "Standard",
		TotalStock: 5, Available: 5,
	}))
	require.NoError(t, invRepo.SaveUnit(ctx, inventory.VehicleUnit{
		ID: uuid.New(), VIN: "HND2024ACT00001", SKU: testSKU, Status: inventory.UnitAvailable,
		InwardDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	stock := inventory.NewService(invRepo, slog.Default())
	svc := NewService(NewMemoryRepository(), stock, pricing.NewDefaultEngine(), slog.Default(), "dealer-001")
	return svc, stock, invRepo
}

func createTestBooking(t *testing.T, svc *Service) Booking {
	t.Helper()
	b, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID:        uuid.New(),
		SalesOrderDisplayID: "9X2V3M1AB",
		CustomerID:          "cust-1",
		CustomerName:        "Rahul Kumar",
		Brand:               "Honda",
		Model:               "Activa 6G",
		Variant:             "Standard",
		SKU:                 testSKU,
		Price:               85000,
		StateCode:           "DL",
		RTOCode:             "DL-01",
		Actor:               "Sales Exec",
	})
	require.NoError(t, err)
	return b
}

func TestCreateLocksSnapshot(t *testing.T) {
	svc, _, _ := newTestService(t)
	b := createTestBooking(t, svc)

	require.Equal(t, StatusDraft, b.Status)
	require.Equal(t, AllotmentNone, b.AllotmentStatus)
	require.Equal(t, PDIPending, b.PDIStatus)
	require.True(t, displayid.Validate(b.DisplayID))
	require.NotNil(t, b.Snapshot)
	require.Equal(t, int64(85000), b.Snapshot.ExShowroom)
	// 8% road tax on 85000 + 1000 registration fee.
	require.Equal(t, int64(7800), b.Snapshot.RTOCharges)
	require.Len(t, b.History, 1)
	require.Equal(t, "dealer-001", b.TenantID)
}

func TestCreateRejectsUnknownState(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Create(context.Background(), CreateInput{
		SalesOrderID: uuid.New(), SalesOrderDisplayID: "X", CustomerID: "c", CustomerName: "C",
		Brand: "Honda", Model: "Activa 6G", Variant: "Standard", SKU: testSKU,
		Price: 85000, StateCode: "ZZ", RTOCode: "ZZ-01", Actor: "Sales Exec",
	})
	require.ErrorIs(t, err, pricing.ErrUnknownState)
}

func TestAllotmentStateMachine(t *testing.T) {
	ctx := context.Background()
	svc, _, invRepo := newTestService(t)
	b := createTestBooking(t, svc)

	b, err := svc.SoftLock(ctx, b.ID, "Manager")
	require.NoError(t, err)
	require.Equal(t, AllotmentSoftLock, b.AllotmentStatus)

	// Double soft lock rejected.
	_, err = svc.SoftLock(ctx, b.ID, "Manager")
	require.ErrorIs(t, err, ErrAllotmentState)

	b, err = svc.HardLock(ctx, b.ID, "Manager")
	require.NoError(t, err)
	require.Equal(t, AllotmentHardLock, b.AllotmentStatus)
	require.Equal(t, "PENDING", b.InsuranceStatus)

	pool, err := invRepo.Pool(ctx, testSKU)
	require.NoError(t, err)
	require.Equal(t, 1, pool.Allotted)
	require.Equal(t, 0, pool.Reserved)
}

func TestDirectHardLock(t *testing.T) {
	ctx := context.Background()
	svc, _, invRepo := newTestService(t)
	b := createTestBooking(t, svc)

	b, err := svc.HardLock(ctx, b.ID, "Manager")
	require.NoError(t, err)
	require.Equal(t, AllotmentHardLock, b.AllotmentStatus)

	pool, err := invRepo.Pool(ctx, testSKU)
	require.NoError(t, err)
	require.Equal(t, 4, pool.Available)
	require.Equal(t, 1, pool.Allotted)
}

func TestAssignVINGuards(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	b := createTestBooking(t, svc)

	// Requires hard lock.
	_, err := svc.AssignVIN(ctx, b.ID, "HND2024ACT00001", "Manager")
	require.ErrorIs(t, err, ErrNotHardLocked)

	_, err = svc.HardLock(ctx, b.ID, "Manager")
	require.NoError(t, err)

	b, err = svc.AssignVIN(ctx, b.ID, "HND2024ACT00001", "Manager")
	require.NoError(t, err)
	require.Equal(t, "HND2024ACT00001", b.AssignedVIN)
	require.Equal(t, "ENG-00001", b.EngineNumber)

	// Second VIN rejected.
	_, err = svc.AssignVIN(ctx, b.ID, "HND2024ACT00002", "Manager")
	require.ErrorIs(t, err, ErrVINAlreadyAssigned)

	// Unknown VIN surfaces the inventory error.
	b2 := createTestBooking(t, svc)
	_, err = svc.HardLock(ctx, b2.ID, "Manager")
	require.NoError(t, err)
	_, err = svc.AssignVIN(ctx, b2.ID, "NO-SUCH-VIN", "Manager")
	require.ErrorIs(t, err, inventory.ErrUnitNotFound)
}

func TestCompletePDIGuards(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	b := createTestBooking(t, svc)

	_, err := svc.CompletePDI(ctx, b.ID, PDIInput{InspectorName: "Anita"})
	require.ErrorIs(t, err, ErrNoVIN)

	_, err = svc.HardLock(ctx, b.ID, "Manager")
	require.NoError(t, err)
	_, err = svc.AssignVIN(ctx, b.ID, "HND2024ACT00001", "Manager")
	require.NoError(t, err)

	b, err = svc.CompletePDI(ctx, b.ID, PDIInput{InspectorName: "Anita", OdoReading: "4", Notes: "ok"})
	require.NoError(t, err)
	require.Equal(t, PDIPassed, b.PDIStatus)
	require.True(t, b.PDIReport.AllChecksPassed)

	// Double approval rejected.
	_, err = svc.CompletePDI(ctx, b.ID, PDIInput{InspectorName: "Anita"})
	require.ErrorIs(t, err, ErrPDIAlreadyPassed)
}

func TestDeliverGuards(t *testing.T) {
	ctx := context.Background()
	svc, _, invRepo := newTestService(t)
	b := createTestBooking(t, svc)

	_, err := svc.HardLock(ctx, b.ID, "Manager")
	require.NoError(t, err)
	_, err = svc.AssignVIN(ctx, b.ID, "HND2024ACT00001", "Manager")
	require.NoError(t, err)

	// PDI must pass first.
	_, err = svc.Deliver(ctx, b.ID, DeliverInput{ReceiverName: "Rahul Kumar"})
	require.ErrorIs(t, err, ErrPDINotPassed)

	_, err = svc.CompletePDI(ctx, b.ID, PDIInput{InspectorName: "Anita"})
	require.NoError(t, err)

	b, err = svc.Deliver(ctx, b.ID, DeliverInput{ReceiverName: "Rahul Kumar"})
	require.NoError(t, err)
	require.Equal(t, StatusDelivered, b.Status)

	unit, err := invRepo.UnitByVIN(ctx, "HND2024ACT00001")
	require.NoError(t, err)
	require.Equal(t, inventory.UnitDelivered, unit.Status)

	pool, err := invRepo.Pool(ctx, testSKU)
	require.NoError(t, err)
	require.Equal(t, 4, pool.TotalStock)
	require.Equal(t, 0, pool.Allotted)

	_, err = svc.Deliver(ctx, b.ID, DeliverInput{ReceiverName: "Rahul Kumar"})
	require.ErrorIs(t, err, ErrAlreadyDelivered)
}

func TestRevokeAllotmentClearsVINAndPDI(t *testing.T) {
	ctx := context.Background()
	svc, _, invRepo := newTestService(t)
	b := createTestBooking(t, svc)

	_, err := svc.HardLock(ctx, b.ID, "Manager")
	require.NoError(t, err)
	_, err = svc.AssignVIN(ctx, b.ID, "HND2024ACT00001", "Manager")
	require.NoError(t, err)
	_, err = svc.CompletePDI(ctx, b.ID, PDIInput{InspectorName: "Anita"})
	require.NoError(t, err)

	b, err = svc.RevokeAllotment(ctx, b.ID, "Manager")
	require.NoError(t, err)
	require.Equal(t, AllotmentNone, b.AllotmentStatus)
	require.Empty(t, b.AssignedVIN)
	require.Equal(t, PDIPending, b.PDIStatus)
	require.Nil(t, b.PDIReport)

	unit, err := invRepo.UnitByVIN(ctx, "HND2024ACT00001")
	require.NoError(t, err)
	require.Equal(t, inventory.UnitAvailable, unit.Status)
}

func TestAcknowledgeDocuments(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	b := createTestBooking(t, svc)

	// Only after delivery.
	_, err := svc.AcknowledgeDocuments(ctx, b.ID, "POL-123", "Rahul Kumar")
	require.ErrorIs(t, err, ErrNotDelivered)

	deliverBooking(t, svc, b.ID)

	b, err = svc.AcknowledgeDocuments(ctx, b.ID, "POL-123", "Rahul Kumar")
	require.NoError(t, err)
	require.True(t, b.Documents.CustomerAck)
	require.Equal(t, "APPLIED", b.Documents.RCStatus)
	require.Equal(t, "POL-123", b.Documents.InsurancePolicyNo)

	_, err = svc.AcknowledgeDocuments(ctx, b.ID, "POL-123", "Rahul Kumar")
	require.ErrorIs(t, err, ErrDocsAcknowledged)
}

func TestHistoryAccumulates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	b := createTestBooking(t, svc)
	deliverBooking(t, svc, b.ID)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	// create + hard lock + vin + pdi + deliver
	require.Len(t, got.History, 5)
	require.Contains(t, got.History[0].Action, "delivered")
}

func TestLinkInvoice(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	b := createTestBooking(t, svc)

	invoiceID := uuid.New()
	require.NoError(t, svc.LinkInvoice(ctx, b.ID, invoiceID, "7K2M4P9QA"))

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, invoiceID, *got.InvoiceID)
	require.Equal(t, "7K2M4P9QA", got.InvoiceDisplayID)
	require.Contains(t, got.History[0].Action, "Invoice generated")
}

func deliverBooking(t *testing.T, svc *Service, id uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.HardLock(ctx, id, "Manager")
	require.NoError(t, err)
	_, err = svc.AssignVIN(ctx, id, "HND2024ACT00001", "Manager")
	require.NoError(t, err)
	_, err = svc.CompletePDI(ctx, id, PDIInput{InspectorName: "Anita"})
	require.NoError(t, err)
	_, err = svc.Deliver(ctx, id, DeliverInput{ReceiverName: "Rahul Kumar"})
	require.NoError(t, err)
}
