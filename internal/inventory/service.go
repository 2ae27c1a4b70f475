package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence port for pools and units.
type Repository interface {
	Pool(ctx context.Context, sku string) (StockPool, error)
	SavePool(ctx context.Context, pool StockPool) error
	ListPools(ctx context.Context) ([]StockPool, error)
	UnitByVIN(ctx context.Context, vin string) (VehicleUnit, error)
	SaveUnit(ctx context.Context, unit VehicleUnit) error
	ListUnits(ctx context.Context, sku string) ([]VehicleUnit, error)
}

// Service owns stock movements. Pools move through three operations:
// reserve (soft lock), allot (hard lock) and deliver (vehicle leaves the
// premises). Underflows fail, they are never clamped.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithNow overrides the clock, for tests.
func (s *Service) WithNow(now func() time.Time) {
	s.now = now
}

// Pools lists all stock pools.
func (s *Service) Pools(ctx context.Context) ([]StockPool, error) {
	return s.repo.ListPools(ctx)
}

// Units lists vehicle units, optionally filtered by SKU.
func (s *Service) Units(ctx context.Context, sku string) ([]VehicleUnit, error) {
	return s.repo.ListUnits(ctx, sku)
}

// Reserve moves qty from available to reserved.
func (s *Service) Reserve(ctx context.Context, sku string, qty int) error {
	return s.adjust(ctx, sku, qty, func(p *StockPool) error {
		if p.Available < qty {
			return fmt.Errorf("%w: %d available, %d requested", ErrInsufficientStock, p.Available, qty)
		}
		p.Available -= qty
		p.Reserved += qty
		return nil
	})
}

// Allot moves qty from reserved to allotted. When nothing is reserved it
// takes directly from available, covering the direct hard lock path.
func (s *Service) Allot(ctx context.Context, sku string, qty int) error {
	return s.adjust(ctx, sku, qty, func(p *StockPool) error {
		if p.Reserved >= qty {
			p.Reserved -= qty
			p.Allotted += qty
			return nil
		}
		if p.Available >= qty {
			p.Available -= qty
			p.Allotted += qty
			return nil
		}
		return fmt.Errorf("%w: %d reserved, %d available, %d requested", ErrInsufficientStock, p.Reserved, p.Available, qty)
	})
}

// Deliver removes qty from allotted and from total stock.
func (s *Service) Deliver(ctx context.Context, sku string, qty int) error {
	return s.adjust(ctx, sku, qty, func(p *StockPool) error {
		if p.Allotted < qty {
			return fmt.Errorf("%w: %d allotted, %d requested", ErrInsufficientStock, p.Allotted, qty)
		}
		p.Allotted -= qty
		p.TotalStock -= qty
		return nil
	})
}

func (s *Service) adjust(ctx context.Context, sku string, qty int, mutate func(*StockPool) error) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	pool, err := s.repo.Pool(ctx, sku)
	if err != nil {
		return err
	}
	if err := mutate(&pool); err != nil {
		return err
	}
	pool.LastUpdated = s.now()
	if err := s.repo.SavePool(ctx, pool); err != nil {
		return err
	}
	s.logger.Info("stock adjusted",
		slog.String("sku", sku),
		slog.Int("available", pool.Available),
		slog.Int("reserved", pool.Reserved),
		slog.Int("allotted", pool.Allotted),
	)
	return nil
}

// UnitByVIN looks a vehicle unit up by VIN.
func (s *Service) UnitByVIN(ctx context.Context, vin string) (VehicleUnit, error) {
	return s.repo.UnitByVIN(ctx, vin)
}

// AssignUnit marks an available unit as assigned to a booking.
func (s *Service) AssignUnit(ctx context.Context, vin string, bookingID uuid.UUID) (VehicleUnit, error) {
	unit, err := s.repo.UnitByVIN(ctx, vin)
	if err != nil {
		return VehicleUnit{}, err
	}
	if unit.Status != UnitAvailable {
		return VehicleUnit{}, fmt.Errorf("%w: %s is %s", ErrUnitUnavailable, vin, unit.Status)
	}
	at := s.now()
	unit.Status = UnitAssigned
	unit.BookingID = &bookingID
	unit.AssignedAt = &at
	if unit.EngineNumber == "" {
		unit.EngineNumber = syntheticEngineNumber(vin)
	}
	if err := s.repo.SaveUnit(ctx, unit); err != nil {
		return VehicleUnit{}, err
	}
	return unit, nil
}

// DeliverUnit marks an assigned unit as delivered.
func (s *Service) DeliverUnit(ctx context.Context, vin string) error {
	unit, err := s.repo.UnitByVIN(ctx, vin)
	if err != nil {
		return err
	}
	if unit.Status != UnitAssigned {
		return fmt.Errorf("%w: %s is %s", ErrUnitUnavailable, vin, unit.Status)
	}
	unit.Status = UnitDelivered
	return s.repo.SaveUnit(ctx, unit)
}

// ReleaseUnit returns an assigned unit to the available pool, used when a
// booking's hard lock is revoked.
func (s *Service) ReleaseUnit(ctx context.Context, vin string) error {
	unit, err := s.repo.UnitByVIN(ctx, vin)
	if err != nil {
		return err
	}
	if unit.Status != UnitAssigned {
		return fmt.Errorf("%w: %s is %s", ErrUnitUnavailable, vin, unit.Status)
	}
	unit.Status = UnitAvailable
	unit.BookingID = nil
	unit.AssignedAt = nil
	return s.repo.SaveUnit(ctx, unit)
}

func syntheticEngineNumber(vin string) string {
	if len(vin) > 5 {
		vin = vin[len(vin)-5:]
	}
	return "ENG-" + vin
}
