package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	// BookingFinalized means payment/completion has occurred. Finalized
	// bookings are immutable for this engine.
	BookingFinalized BookingStatus = "finalized"
)

// Booking is the authoritative record of an appointment. Times of day are
// minutes from midnight; a booking never spans midnight, so (Date, Start,
// Duration) fully describes its interval.
type Booking struct {
	ID             string        `bson:"id" json:"id"`
	ResourceID     string        `bson:"resource_id" json:"resource_id"`
	Date           string        `bson:"date" json:"date"` // "2006-01-02"
	Start          int           `bson:"start" json:"start"`
	Duration       int           `bson:"duration" json:"duration"` // minutes, positive multiple of the granularity
	Status         BookingStatus `bson:"status" json:"status"`
	PayloadRef     string        `bson:"payload_ref,omitempty" json:"payload_ref,omitempty"` // opaque reference owned by other modules
	IdempotencyKey string        `bson:"idempotency_key,omitempty" json:"-"`
	CreatedAt      time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updated_at"`
}

// End returns the exclusive end of the booking's interval in minutes from
// midnight.
func (b Booking) End() int { return b.Start + b.Duration }

// Overlaps reports whether the half-open interval [start, end) intersects
// this booking's interval.
func (b Booking) Overlaps(start, end int) bool {
	return b.Start < end && start < b.End()
}
