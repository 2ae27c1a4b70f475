package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const poolColumns = `sku, brand, model, variant, color, total_stock, reserved, allotted, available, last_updated`

func (r *repository) Pool(ctx context.Context, sku string) (StockPool, error) {
	var p StockPool
	err := r.db.QueryRow(ctx, `SELECT `+poolColumns+` FROM stock_pools WHERE sku=$1`, sku).
		Scan(&p.SKU, &p.Brand, &p.Model, &p.Variant, &p.Color, &p.TotalStock, &p.Reserved, &p.Allotted, &p.Available, &p.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return StockPool{}, ErrPoolNotFound
	}
	return p, err
}

func (r *repository) SavePool(ctx context.Context, p StockPool) error {
	_, err := r.db.Exec(ctx, `INSERT INTO stock_pools (`+poolColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (sku) DO UPDATE SET
	total_stock=EXCLUDED.total_stock,
	reserved=EXCLUDED.reserved,
	allotted=EXCLUDED.allotted,
	available=EXCLUDED.available,
	last_updated=EXCLUDED.last_updated`,
		p.SKU, p.Brand, p.Model, p.Variant, p.Color, p.TotalStock, p.Reserved, p.Allotted, p.Available, p.LastUpdated)
	return err
}

func (r *repository) ListPools(ctx context.Context) ([]StockPool, error) {
	rows, err := r.db.Query(ctx, `SELECT `+poolColumns+` FROM stock_pools ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []StockPool
	for rows.Next() {
		var p StockPool
		if err := rows.Scan(&p.SKU, &p.Brand, &p.Model, &p.Variant, &p.Color, &p.TotalStock, &p.Reserved, &p.Allotted, &p.Available, &p.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const unitColumns = `id, vin, sku, status, engine_number, location, inward_date, booking_id, assigned_at`

func (r *repository) UnitByVIN(ctx context.Context, vin string) (VehicleUnit, error) {
	var u VehicleUnit
	err := r.db.QueryRow(ctx, `SELECT `+unitColumns+` FROM vehicle_units WHERE vin=$1`, vin).
		Scan(&u.ID, &u.VIN, &u.SKU, &u.Status, &u.EngineNumber, &u.Location, &u.InwardDate, &u.BookingID, &u.AssignedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return VehicleUnit{}, ErrUnitNotFound
	}
	return u, err
}

func (r *repository) SaveUnit(ctx context.Context, u VehicleUnit) error {
	_, err := r.db.Exec(ctx, `INSERT INTO vehicle_units (`+unitColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (vin) DO UPDATE SET
	status=EXCLUDED.status,
	engine_number=EXCLUDED.engine_number,
	booking_id=EXCLUDED.booking_id,
	assigned_at=EXCLUDED.assigned_at`,
		u.ID, u.VIN, u.SKU, u.Status, u.EngineNumber, u.Location, u.InwardDate, u.BookingID, u.AssignedAt)
	return err
}

func (r *repository) ListUnits(ctx context.Context, sku string) ([]VehicleUnit, error) {
	rows, err := r.db.Query(ctx, `SELECT `+unitColumns+` FROM vehicle_units
WHERE ($1 = '' OR sku = $1) ORDER BY vin`, sku)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []VehicleUnit
	for rows.Next() {
		var u VehicleUnit
		if err := rows.Scan(&u.ID, &u.VIN, &u.SKU, &u.Status, &u.EngineNumber, &u.Location, &u.InwardDate, &u.BookingID, &u.AssignedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
