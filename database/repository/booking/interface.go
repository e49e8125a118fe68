package bookingRepo

import (
	"context"
	"errors"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound = errors.New("booking not found")
	// ErrConflict means the requested interval overlaps an active booking for
	// the same resource. Detected inside the store transaction, so two racing
	// writers can never both commit.
	ErrConflict = errors.New("booking interval conflict")
	// ErrInvalidTransition means the booking is not in the status the
	// operation requires (e.g. rescheduling a finalized booking).
	ErrInvalidTransition = errors.New("invalid booking status transition")
	// ErrDuplicateKey means a booking with the same idempotency key already
	// exists.
	ErrDuplicateKey = errors.New("duplicate idempotency key")
)

// BookingRepository is the authoritative booking ledger. Reads are
// linearizable with respect to committed writes for the same resource/date.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ActiveByResourceAndDate returns all active bookings for a resource on a
	// date, sorted by start time. A day is a sufficient conflict bound since
	// no booking spans midnight.
	ActiveByResourceAndDate(ctx context.Context, resourceID, date string) ([]models.Booking, error)
	// InsertActive persists a new active booking. The overlap check against
	// existing active bookings runs inside the same store transaction as the
	// insert; a losing racer gets ErrConflict with no partial state change.
	InsertActive(ctx context.Context, b *models.Booking) error
	// Reschedule moves an active booking to a new interval, excluding the
	// booking's own current interval from the conflict set.
	Reschedule(ctx context.Context, id, date string, start, duration int) (*models.Booking, error)
	// UpdateStatus transitions a booking from one status to another and
	// returns the updated record.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error)
	// FindByIdempotencyKey returns the booking created under the given key,
	// or ErrNotFound.
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Booking, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a MongoDB BookingRepository.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{coll: db.Collection("bookings")}
}
