package receipts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const receiptColumns = `id, display_id, invoice_id, invoice_display_id, booking_id, amount, mode, reference, received_by, received_at, invoice_total_at_receipt, tenant_id`

func (r *repository) Save(ctx context.Context, rcpt Receipt) error {
	_, err := r.db.Exec(ctx, `INSERT INTO receipts (`+receiptColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rcpt.ID, rcpt.DisplayID, rcpt.InvoiceID, rcpt.InvoiceDisplayID, rcpt.BookingID, rcpt.Amount, rcpt.Mode, rcpt.Reference, rcpt.ReceivedBy, rcpt.ReceivedAt, rcpt.InvoiceTotalAtReceipt, rcpt.TenantID)
	return err
}

func (r *repository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Receipt, error) {
	rows, err := r.db.Query(ctx, `SELECT `+receiptColumns+` FROM receipts WHERE invoice_id=$1 ORDER BY received_at`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Receipt
	for rows.Next() {
		var rcpt Receipt
		err := rows.Scan(&rcpt.ID, &rcpt.DisplayID, &rcpt.InvoiceID, &rcpt.InvoiceDisplayID, &rcpt.BookingID, &rcpt.Amount, &rcpt.Mode, &rcpt.Reference, &rcpt.ReceivedBy, &rcpt.ReceivedAt, &rcpt.InvoiceTotalAtReceipt, &rcpt.TenantID)
		if err != nil {
			return nil, err
		}
		out = append(out, rcpt)
	}
	return out, rows.Err()
}
