package invoices

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process invoice store used by unit tests and
// local development.
type MemoryRepository struct {
	mu        sync.Mutex
	invoices  map[uuid.UUID]Invoice
	byBooking map[uuid.UUID]uuid.UUID
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		invoices:  make(map[uuid.UUID]Invoice),
		byBooking: make(map[uuid.UUID]uuid.UUID),
	}
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[id]
	if !ok {
		return Invoice{}, ErrInvoiceNotFound
	}
	return inv, nil
}

func (r *MemoryRepository) GetByBooking(ctx context.Context, bookingID uuid.UUID) (Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byBooking[bookingID]
	if !ok {
		return Invoice{}, ErrInvoiceNotFound
	}
	return r.invoices[id], nil
}

func (r *MemoryRepository) Save(ctx context.Context, inv Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = inv
	r.byBooking[inv.BookingID] = inv.ID
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAt.Before(out[j].GeneratedAt) })
	return out, nil
}
