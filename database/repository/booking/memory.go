package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"clinicbook/models"
)

// MemoryBookingRepo is an in-memory ledger with the same transactional
// semantics as the Mongo implementation: the overlap check and the insert
// run under one lock, so racing writers serialize.
type MemoryBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookingRepo) ActiveByResourceAndDate(_ context.Context, resourceID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked(resourceID, date), nil
}

func (r *MemoryBookingRepo) activeLocked(resourceID, date string) []models.Booking {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ResourceID == resourceID && b.Date == date && b.Status == models.BookingActive {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (r *MemoryBookingRepo) InsertActive(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.IdempotencyKey != "" {
		for _, existing := range r.bookings {
			if existing.IdempotencyKey == b.IdempotencyKey {
				return ErrDuplicateKey
			}
		}
	}
	for _, existing := range r.activeLocked(b.ResourceID, b.Date) {
		if existing.Overlaps(b.Start, b.End()) {
			return ErrConflict
		}
	}
	r.bookings[b.ID] = *b
	return nil
}

func (r *MemoryBookingRepo) Reschedule(_ context.Context, id, date string, start, duration int) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if current.Status != models.BookingActive {
		return nil, ErrInvalidTransition
	}
	end := start + duration
	for _, existing := range r.activeLocked(current.ResourceID, date) {
		if existing.ID != id && existing.Overlaps(start, end) {
			return nil, ErrConflict
		}
	}
	current.Date = date
	current.Start = start
	current.Duration = duration
	current.UpdatedAt = time.Now().UTC()
	r.bookings[id] = current
	return &current, nil
}

func (r *MemoryBookingRepo) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	if current.Status != from {
		return nil, ErrInvalidTransition
	}
	current.Status = to
	current.UpdatedAt = time.Now().UTC()
	r.bookings[id] = current
	return &current, nil
}

func (r *MemoryBookingRepo) FindByIdempotencyKey(_ context.Context, key string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.IdempotencyKey == key {
			return &b, nil
		}
	}
	return nil, ErrNotFound
}
