package handlers

// HandlerBundle groups the engine's handlers for route registration.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Schedule     *ScheduleHandler
	Events       *EventsHandler
}
