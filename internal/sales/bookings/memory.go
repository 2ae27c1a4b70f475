package bookings

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-process booking store used by unit tests and
// local development.
type MemoryRepository struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{bookings: make(map[uuid.UUID]Booking)}
}

func (r *MemoryRepository) Get(ctx context.Context, id uuid.UUID) (Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func (r *MemoryRepository) Save(ctx context.Context, b Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = b
	return nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
