package invoices

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

const invoiceColumns = `id, display_id, booking_id, booking_display_id, customer_id, customer_name,
snapshot_ref, line_items, taxable_total, cgst_total, sgst_total, igst_total, grand_total,
supply_state, registration_type, generated_at, status, payment_status, amount_paid, amount_due, tenant_id`

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id=$1`, id)
	return scanInvoice(row)
}

func (r *repository) GetByBooking(ctx context.Context, bookingID uuid.UUID) (Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE booking_id=$1`, bookingID)
	return scanInvoice(row)
}

// Save upserts. The unique index on booking_id backs the one-invoice-per-
// booking idempotency; only payment fields are ever updated in place.
func (r *repository) Save(ctx context.Context, inv Invoice) error {
	snapshotRef, err := json.Marshal(inv.SnapshotRef)
	if err != nil {
		return err
	}
	lineItems, err := json.Marshal(inv.LineItems)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO invoices (`+invoiceColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
ON CONFLICT (id) DO UPDATE SET
	status=EXCLUDED.status,
	payment_status=EXCLUDED.payment_status,
	amount_paid=EXCLUDED.amount_paid,
	amount_due=EXCLUDED.amount_due`,
		inv.ID, inv.DisplayID, inv.BookingID, inv.BookingDisplayID, inv.CustomerID, inv.CustomerName,
		snapshotRef, lineItems, inv.Totals.TaxableTotal, inv.Totals.CGSTTotal, inv.Totals.SGSTTotal, inv.Totals.IGSTTotal, inv.Totals.GrandTotal,
		inv.GSTContext.SupplyState, inv.GSTContext.RegistrationType, inv.GeneratedAt, inv.Status, inv.PaymentStatus, inv.AmountPaid, inv.AmountDue, inv.TenantID)
	return err
}

func (r *repository) List(ctx context.Context) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY generated_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	var snapshotRef, lineItems []byte
	err := row.Scan(&inv.ID, &inv.DisplayID, &inv.BookingID, &inv.BookingDisplayID, &inv.CustomerID, &inv.CustomerName,
		&snapshotRef, &lineItems, &inv.Totals.TaxableTotal, &inv.Totals.CGSTTotal, &inv.Totals.SGSTTotal, &inv.Totals.IGSTTotal, &inv.Totals.GrandTotal,
		&inv.GSTContext.SupplyState, &inv.GSTContext.RegistrationType, &inv.GeneratedAt, &inv.Status, &inv.PaymentStatus, &inv.AmountPaid, &inv.AmountDue, &inv.TenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrInvoiceNotFound
	}
	if err != nil {
		return Invoice{}, err
	}
	if err := json.Unmarshal(snapshotRef, &inv.SnapshotRef); err != nil {
		return Invoice{}, err
	}
	if err := json.Unmarshal(lineItems, &inv.LineItems); err != nil {
		return Invoice{}, err
	}
	return inv, nil
}
