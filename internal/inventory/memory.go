package inventory

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-process store used by unit tests and local
// development.
type MemoryRepository struct {
	mu    sync.Mutex
	pools map[string]StockPool
	units map[string]VehicleUnit
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		pools: make(map[string]StockPool),
		units: make(map[string]VehicleUnit),
	}
}

func (r *MemoryRepository) Pool(ctx context.Context, sku string) (StockPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pool, ok := r.pools[sku]
	if !ok {
		return StockPool{}, ErrPoolNotFound
	}
	return pool, nil
}

func (r *MemoryRepository) SavePool(ctx context.Context, pool StockPool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools[pool.SKU] = pool
	return nil
}

func (r *MemoryRepository) ListPools(ctx context.Context) ([]StockPool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StockPool, 0, len(r.pools))
	for _, pool := range r.pools {
		out = append(out, pool)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func (r *MemoryRepository) UnitByVIN(ctx context.Context, vin string) (VehicleUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	unit, ok := r.units[vin]
	if !ok {
		return VehicleUnit{}, ErrUnitNotFound
	}
	return unit, nil
}

func (r *MemoryRepository) SaveUnit(ctx context.Context, unit VehicleUnit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.units[unit.VIN] = unit
	return nil
}

func (r *MemoryRepository) ListUnits(ctx context.Context, sku string) ([]VehicleUnit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []VehicleUnit
	for _, unit := range r.units {
		if sku == "" || unit.SKU == sku {
			out = append(out, unit)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VIN < out[j].VIN })
	return out, nil
}
