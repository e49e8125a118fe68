package models

// ReminderPayload is the queued task body for an appointment reminder.
type ReminderPayload struct {
	BookingID  string `json:"bookingId"`
	ResourceID string `json:"resourceId"`
	Date       string `json:"date"`
	Start      int    `json:"start"`
}
