package creditnotes

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

const creditNoteColumns = `id, display_id, invoice_id, booking_id, customer_id, customer_name,
reason, line_items, taxable_amount, tax_amount, total_amount, status, created_at, tenant_id`

func (r *repository) Get(ctx context.Context, id uuid.UUID) (CreditNote, error) {
	row := r.db.QueryRow(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE id=$1`, id)
	return scanCreditNote(row)
}

func (r *repository) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (CreditNote, error) {
	row := r.db.QueryRow(ctx, `SELECT `+creditNoteColumns+` FROM credit_notes WHERE invoice_id=$1`, invoiceID)
	return scanCreditNote(row)
}

// Save upserts. The unique index on invoice_id backs the one-note-per-
// invoice idempotency; only status is ever updated in place.
func (r *repository) Save(ctx context.Context, cn CreditNote) error {
	lineItems, err := json.Marshal(cn.LineItems)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO credit_notes (`+creditNoteColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (id) DO UPDATE SET status=EXCLUDED.status`,
		cn.ID, cn.DisplayID, cn.InvoiceID, cn.BookingID, cn.CustomerID, cn.CustomerName,
		cn.Reason, lineItems, cn.TaxableAmount, cn.TaxAmount, cn.TotalAmount, cn.Status, cn.CreatedAt, cn.TenantID)
	return err
}

func (r *repository) SaveRefund(ctx context.Context, refund Refund) error {
	_, err := r.db.Exec(ctx, `INSERT INTO refunds (id, display_id, credit_note_id, amount, mode, refunded_at, tenant_id)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		refund.ID, refund.DisplayID, refund.CreditNoteID, refund.Amount, refund.Mode, refund.RefundedAt, refund.TenantID)
	return err
}

func (r *repository) ListRefunds(ctx context.Context, creditNoteID uuid.UUID) ([]Refund, error) {
	rows, err := r.db.Query(ctx, `SELECT id, display_id, credit_note_id, amount, mode, refunded_at, tenant_id
FROM refunds WHERE credit_note_id=$1 ORDER BY refunded_at`, creditNoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Refund
	for rows.Next() {
		var refund Refund
		err := rows.Scan(&refund.ID, &refund.DisplayID, &refund.CreditNoteID, &refund.Amount, &refund.Mode, &refund.RefundedAt, &refund.TenantID)
		if err != nil {
			return nil, err
		}
		out = append(out, refund)
	}
	return out, rows.Err()
}

func scanCreditNote(row pgx.Row) (CreditNote, error) {
	var cn CreditNote
	var lineItems []byte
	err := row.Scan(&cn.ID, &cn.DisplayID, &cn.InvoiceID, &cn.BookingID, &cn.CustomerID, &cn.CustomerName,
		&cn.Reason, &lineItems, &cn.TaxableAmount, &cn.TaxAmount, &cn.TotalAmount, &cn.Status, &cn.CreatedAt, &cn.TenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return CreditNote{}, ErrCreditNoteNotFound
	}
	if err != nil {
		return CreditNote{}, err
	}
	if err := json.Unmarshal(lineItems, &cn.LineItems); err != nil {
		return CreditNote{}, err
	}
	return cn, nil
}
