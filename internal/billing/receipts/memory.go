package receipts

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process receipt store used by unit tests and
// local development.
type MemoryRepository struct {
	mu       sync.Mutex
	receipts []Receipt
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(ctx context.Context, rcpt Receipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receipts = append(r.receipts, rcpt)
	return nil
}

func (r *MemoryRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]Receipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Receipt
	for _, rcpt := range r.receipts {
		if rcpt.InvoiceID == invoiceID {
			out = append(out, rcpt)
		}
	}
	return out, nil
}
