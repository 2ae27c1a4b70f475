package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aums-erp/aums-erp/internal/accounting/shared"
)

// MemoryRepository is an in-process journal used by unit tests and local
// development. It honours the same idempotency key as the durable store.
type MemoryRepository struct {
	mu      sync.Mutex
	entries []Entry
	keys    map[postingKey]struct{}
}

type postingKey struct {
	referenceID uuid.UUID
	debitCode   string
	creditCode  string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{keys: make(map[postingKey]struct{})}
}

func (r *MemoryRepository) List(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

func (r *MemoryRepository) ListBetween(ctx context.Context, from, to *time.Time) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if from != nil && e.TransactionDate.Before(*from) {
			continue
		}
		if to != nil && e.TransactionDate.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *MemoryRepository) ListByParty(ctx context.Context, partyID string) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.PartyID == partyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryRepository) ListByReference(ctx context.Context, referenceID uuid.UUID) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Entry
	for _, e := range r.entries {
		if e.ReferenceID == referenceID {
			out = append(out, e)
		}
	}
	return out, nil
}

// WithTx serialises writers. Rollback of partially applied sets is
// simulated by restoring the journal length on error.
func (r *MemoryRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	checkpoint := len(r.entries)
	tx := &memoryTx{repo: r}
	if err := fn(ctx, tx); err != nil {
		for _, e := range r.entries[checkpoint:] {
			delete(r.keys, postingKey{e.ReferenceID, e.DebitCode, e.CreditCode})
		}
		r.entries = r.entries[:checkpoint]
		return err
	}
	return nil
}

type memoryTx struct {
	repo *MemoryRepository
}

func (t *memoryTx) Insert(ctx context.Context, e Entry) error {
	key := postingKey{e.ReferenceID, e.DebitCode, e.CreditCode}
	if _, exists := t.repo.keys[key]; exists {
		return shared.ErrDuplicatePosting
	}
	t.repo.keys[key] = struct{}{}
	t.repo.entries = append(t.repo.entries, e)
	return nil
}
