package models

// SlotStatus is the computed state of one derived slot.
type SlotStatus string

const (
	SlotFree   SlotStatus = "free"
	SlotBooked SlotStatus = "booked"
	SlotPast   SlotStatus = "past"
)

// Slot is a derived, never-persisted value: one quantized start time within
// an availability window on a given date. Slots are regenerated from the
// schedule and the ledger on every resolve; they are not ground truth.
type Slot struct {
	ResourceID string     `json:"resource_id"`
	Date       string     `json:"date"`
	Start      int        `json:"start"` // minutes from midnight
	Block      int        `json:"block"` // index of the window the slot belongs to (break dividers)
	Status     SlotStatus `json:"status"`
	BookingID  string     `json:"booking_id,omitempty"`
	// Head marks the slot whose start equals the occupying booking's start,
	// as opposed to later slots the booking also spans.
	Head bool `json:"head,omitempty"`
}

// DayStatus summarises a whole day for the month grid.
type DayStatus string

const (
	DayNoSchedule      DayStatus = "no-schedule"
	DayPastToday       DayStatus = "past-today"
	DayFullyBooked     DayStatus = "fully-booked"
	DayAvailable       DayStatus = "available"
	DayPartiallyBooked DayStatus = "partially-booked"
)

// DaySlots is the resolver's per-day result. Resources lists which doctors
// contributed windows, so the caller can tell a single-doctor day from an
// aggregated one.
type DaySlots struct {
	Date      string    `json:"date"`
	Status    DayStatus `json:"status"`
	Slots     []Slot    `json:"slots"`
	Resources []string  `json:"resources,omitempty"`
}
