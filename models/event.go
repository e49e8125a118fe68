package models

// EventType identifies a booking lifecycle event.
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingUpdated   EventType = "booking.updated"
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent is the broadcast payload. It deliberately carries no booking
// body: delivery is best-effort and may be duplicated or stale, so
// subscribers must re-resolve availability instead of trusting the event.
type BookingEvent struct {
	Type       EventType `json:"type"`
	ResourceID string    `json:"resource_id"`
	Date       string    `json:"date"`
}
