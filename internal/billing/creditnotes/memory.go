package creditnotes

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process store used by unit tests and local
// development.
type MemoryRepository struct {
	mu      sync.Mutex
	notes   map[uuid.UUID]CreditNote
	refunds []Refund
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{notes: make(map[uuid.UUID]CreditNote)}
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (CreditNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cn, ok := r.notes[id]
	if !ok {
		return CreditNote{}, ErrCreditNoteNotFound
	}
	return cn, nil
}

func (r *MemoryRepository) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (CreditNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cn := range r.notes {
		if cn.InvoiceID == invoiceID {
			return cn, nil
		}
	}
	return CreditNote{}, ErrCreditNoteNotFound
}

func (r *MemoryRepository) Save(ctx context.Context, cn CreditNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[cn.ID] = cn
	return nil
}

func (r *MemoryRepository) SaveRefund(ctx context.Context, refund Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refunds = append(r.refunds, refund)
	return nil
}

func (r *MemoryRepository) ListRefunds(ctx context.Context, creditNoteID uuid.UUID) ([]Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Refund
	for _, refund := range r.refunds {
		if refund.CreditNoteID == creditNoteID {
			out = append(out, refund)
		}
	}
	return out, nil
}
