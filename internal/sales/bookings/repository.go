package bookings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, display_id, sales_order_id, sales_order_display_id, customer_id, customer_name,
brand, model, variant, sku, price, snapshot, status, allotment_status, assigned_vin, engine_number,
pdi_status, pdi_report, insurance_status, invoice_id, invoice_display_id, documents, history, created_at, tenant_id`

// Snapshot, PDI report, documents and history live in jsonb columns:
// they are read and written whole, never queried into.
func (r *repository) Get(ctx context.Context, id uuid.UUID) (Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}
	return b, err
}

func (r *repository) Save(ctx context.Context, b Booking) error {
	snapshot, err := json.Marshal(b.Snapshot)
	if err != nil {
		return err
	}
	pdiReport, err := json.Marshal(b.PDIReport)
	if err != nil {
		return err
	}
	documents, err := json.Marshal(b.Documents)
	if err != nil {
		return err
	}
	history, err := json.Marshal(b.History)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO bookings (`+bookingColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
ON CONFLICT (id) DO UPDATE SET
	status=EXCLUDED.status,
	allotment_status=EXCLUDED.allotment_status,
	assigned_vin=EXCLUDED.assigned_vin,
	engine_number=EXCLUDED.engine_number,
	pdi_status=EXCLUDED.pdi_status,
	pdi_report=EXCLUDED.pdi_report,
	insurance_status=EXCLUDED.insurance_status,
	invoice_id=EXCLUDED.invoice_id,
	invoice_display_id=EXCLUDED.invoice_display_id,
	documents=EXCLUDED.documents,
	history=EXCLUDED.history`,
		b.ID, b.DisplayID, b.SalesOrderID, b.SalesOrderDisplayID, b.CustomerID, b.CustomerName,
		b.Brand, b.Model, b.Variant, b.SKU, b.Price, snapshot, b.Status, b.AllotmentStatus, b.AssignedVIN, b.EngineNumber,
		b.PDIStatus, pdiReport, b.InsuranceStatus, b.InvoiceID, b.InvoiceDisplayID, documents, history, b.CreatedAt, b.TenantID)
	return err
}

func (r *repository) List(ctx context.Context) ([]Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	var snapshot, pdiReport, documents, history []byte
	err := row.Scan(&b.ID, &b.DisplayID, &b.SalesOrderID, &b.SalesOrderDisplayID, &b.CustomerID, &b.CustomerName,
		&b.Brand, &b.Model, &b.Variant, &b.SKU, &b.Price, &snapshot, &b.Status, &b.AllotmentStatus, &b.AssignedVIN, &b.EngineNumber,
		&b.PDIStatus, &pdiReport, &b.InsuranceStatus, &b.InvoiceID, &b.InvoiceDisplayID, &documents, &history, &b.CreatedAt, &b.TenantID)
	if err != nil {
		return Booking{}, err
	}
	if err := json.Unmarshal(snapshot, &b.Snapshot); err != nil {
		return Booking{}, err
	}
	if err := json.Unmarshal(pdiReport, &b.PDIReport); err != nil {
		return Booking{}, err
	}
	if err := json.Unmarshal(documents, &b.Documents); err != nil {
		return Booking{}, err
	}
	if err := json.Unmarshal(history, &b.History); err != nil {
		return Booking{}, err
	}
	return b, nil
}
