package inventory

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSKU = "HND-ACT-6G-STD-GRY"

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	require.NoError(t, repo.SavePool(context.Background(), StockPool{
		SKU: testSKU, Brand: "Honda", Model: "Activa 6G", Variant: "Standard", Color: "Matte Axis Grey",
		TotalStock: 5, Available: 5,
	}))
	require.NoError(t, repo.SaveUnit(context.Background(), VehicleUnit{
		ID: uuid.New(), VIN: "HND2024ACT00001", SKU: testSKU, Status: UnitAvailable,
		Location: "Yard A", InwardDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	return NewService(repo, slog.Default()), repo
}

func pool(t *testing.T, repo *MemoryRepository) StockPool {
	t.Helper()
	p, err := repo.Pool(context.Background(), testSKU)
	require.NoError(t, err)
	return p
}

func TestReserveAllotDeliverFlow(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	require.NoError(t, svc.Reserve(ctx, testSKU, 1))
	p := pool(t, repo)
	require.Equal(t, 4, p.Available)
	require.Equal(t, 1, p.Reserved)

	require.NoError(t, svc.Allot(ctx, testSKU, 1))
	p = pool(t, repo)
	require.Equal(t, 0, p.Reserved)
	require.Equal(t, 1, p.Allotted)

	require.NoError(t, svc.Deliver(ctx, testSKU, 1))
	p = pool(t, repo)
	require.Equal(t, 0, p.Allotted)
	require.Equal(t, 4, p.TotalStock)
	require.Equal(t, 4, p.Available)
}

func TestAllotFallsBackToAvailable(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	// Direct hard lock without a prior soft lock.
	require.NoError(t, svc.Allot(ctx, testSKU, 2))
	p := pool(t, repo)
	require.Equal(t, 3, p.Available)
	require.Equal(t, 2, p.Allotted)
}

func TestAdjustUnderflows(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	require.ErrorIs(t, svc.Reserve(ctx, testSKU, 6), ErrInsufficientStock)
	require.ErrorIs(t, svc.Deliver(ctx, testSKU, 1), ErrInsufficientStock)
	require.ErrorIs(t, svc.Reserve(ctx, testSKU, 0), ErrInvalidQuantity)
	require.ErrorIs(t, svc.Reserve(ctx, "NO-SUCH-SKU", 1), ErrPoolNotFound)
}

func TestAssignAndDeliverUnit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	bookingID := uuid.New()

	unit, err := svc.AssignUnit(ctx, "HND2024ACT00001", bookingID)
	require.NoError(t, err)
	require.Equal(t, UnitAssigned, unit.Status)
	require.Equal(t, bookingID, *unit.BookingID)
	require.Equal(t, "ENG-00001", unit.EngineNumber)
	require.NotNil(t, unit.AssignedAt)

	// Double assignment rejected.
	_, err = svc.AssignUnit(ctx, "HND2024ACT00001", uuid.New())
	require.ErrorIs(t, err, ErrUnitUnavailable)

	require.NoError(t, svc.DeliverUnit(ctx, "HND2024ACT00001"))
	got, err := svc.UnitByVIN(ctx, "HND2024ACT00001")
	require.NoError(t, err)
	require.Equal(t, UnitDelivered, got.Status)

	// Delivered is terminal.
	require.ErrorIs(t, svc.DeliverUnit(ctx, "HND2024ACT00001"), ErrUnitUnavailable)
}

func TestReleaseUnit(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.AssignUnit(ctx, "HND2024ACT00001", uuid.New())
	require.NoError(t, err)
	require.NoError(t, svc.ReleaseUnit(ctx, "HND2024ACT00001"))

	unit, err := svc.UnitByVIN(ctx, "HND2024ACT00001")
	require.NoError(t, err)
	require.Equal(t, UnitAvailable, unit.Status)
	require.Nil(t, unit.BookingID)
}

func TestUnknownVIN(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)
	_, err := svc.UnitByVIN(ctx, "NOPE")
	require.ErrorIs(t, err, ErrUnitNotFound)
}
