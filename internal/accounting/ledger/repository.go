package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aums-erp/aums-erp/internal/accounting/shared"
)

// Repository encapsulates DB access to the append-only journal.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
	ListBetween(ctx context.Context, from, to *time.Time) ([]Entry, error)
	ListByParty(ctx context.Context, partyID string) ([]Entry, error)
	ListByReference(ctx context.Context, referenceID uuid.UUID) ([]Entry, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes writes available within a transaction. Insert is the
// only write the journal has; entries are never updated or deleted.
type TxRepository interface {
	Insert(ctx context.Context, entry Entry) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const entryColumns = `id, display_id, transaction_type, reference_id, party_type, party_id, party_name, description, debit_code, credit_code, amount, transaction_date, tenant_id`

func scanEntries(rows pgx.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.DisplayID, &e.TransactionType, &e.ReferenceID, &e.PartyType, &e.PartyID, &e.PartyName, &e.Description, &e.DebitCode, &e.CreditCode, &e.Amount, &e.TransactionDate, &e.TenantID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM ledger_entries ORDER BY transaction_date, id`)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *repository) ListBetween(ctx context.Context, from, to *time.Time) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM ledger_entries
WHERE ($1::timestamptz IS NULL OR transaction_date >= $1)
  AND ($2::timestamptz IS NULL OR transaction_date <= $2)
ORDER BY transaction_date, id`, from, to)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *repository) ListByParty(ctx context.Context, partyID string) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE party_id=$1 ORDER BY transaction_date, id`, partyID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

func (r *repository) ListByReference(ctx context.Context, referenceID uuid.UUID) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE reference_id=$1 ORDER BY transaction_date, id`, referenceID)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// WithTx runs fn inside a single transaction so every leg of a business
// event commits atomically; a mid-posting failure rolls the whole set back.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	if err := fn(ctx, &txRepository{tx: tx}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type txRepository struct {
	tx pgx.Tx
}

// Insert appends one entry. The uq_ledger_posting unique constraint on
// (reference_id, debit_code, credit_code) is the idempotency guarantee:
// concurrent retries of the same generator cannot both land. ON CONFLICT
// keeps the surrounding transaction usable when a duplicate leg is skipped.
func (r *txRepository) Insert(ctx context.Context, e Entry) error {
	tag, err := r.tx.Exec(ctx, `INSERT INTO ledger_entries (`+entryColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT ON CONSTRAINT uq_ledger_posting DO NOTHING`,
		e.ID, e.DisplayID, e.TransactionType, e.ReferenceID, e.PartyType, e.PartyID, e.PartyName, e.Description, e.DebitCode, e.CreditCode, e.Amount, e.TransactionDate, e.TenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrDuplicatePosting
	}
	return nil
}
