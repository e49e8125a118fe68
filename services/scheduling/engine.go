package scheduling

import (
	"context"
	"errors"
	"time"

	bookingRepo "clinicbook/database/repository/booking"
	resourceRepo "clinicbook/database/repository/resource"
	"clinicbook/models"
	"clinicbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Publisher broadcasts booking lifecycle events. Implementations must not
// block: a slow or absent subscriber can never delay a booking commit.
type Publisher interface {
	Publish(ev models.BookingEvent)
}

// ReminderScheduler enqueues an appointment reminder for a new booking.
// Best-effort; failures are logged, never surfaced to the caller.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, b models.Booking) error
}

// Engine validates and atomically commits booking creation, rescheduling
// and cancellation. Writes serialize per resource around the
// check-then-insert sequence; the store transaction re-checks, so even two
// engine instances on different hosts cannot both commit an overlap.
type Engine struct {
	Bookings    bookingRepo.BookingRepository
	Resources   resourceRepo.ResourceRepository
	Resolver    *Resolver
	Notifier    Publisher
	Idem        IdempotencyStore
	Reminders   ReminderScheduler
	Granularity int
	Clock       Clock

	locks *resourceLocks
}

// NewEngine wires an Engine with its per-resource lock table.
func NewEngine(
	bookings bookingRepo.BookingRepository,
	resources resourceRepo.ResourceRepository,
	resolver *Resolver,
	notifier Publisher,
	idem IdempotencyStore,
	granularity int,
	clock Clock,
) *Engine {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Engine{
		Bookings:    bookings,
		Resources:   resources,
		Resolver:    resolver,
		Notifier:    notifier,
		Idem:        idem,
		Granularity: granularity,
		Clock:       clock,
		locks:       newResourceLocks(),
	}
}

// CreateBookingInput is the request for a new appointment. Payload is an
// opaque reference owned by the patient-record module. IdempotencyKey, when
// set, makes a retried submission return the originally created booking.
type CreateBookingInput struct {
	ResourceID     string `json:"resource_id"`
	Date           string `json:"date"`
	Start          int    `json:"start"`
	Duration       int    `json:"duration"`
	PayloadRef     string `json:"payload_ref"`
	IdempotencyKey string `json:"-"`
}

func (e *Engine) CreateBooking(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	logger := utils.GetLogger()

	if err := e.validateInterval(in.Date, in.Start, in.Duration); err != nil {
		return nil, err
	}
	if _, err := e.Resources.GetByID(ctx, in.ResourceID); err != nil {
		if errors.Is(err, resourceRepo.ErrNotFound) {
			return nil, newNotFoundError("unknown resource "+in.ResourceID, err)
		}
		return nil, newStoreError("resource roster read failed", err)
	}

	if in.IdempotencyKey != "" {
		if prior, ok := e.priorBooking(ctx, in.IdempotencyKey); ok {
			logger.Info("idempotent booking replay",
				zap.String("key", in.IdempotencyKey), zap.String("bookingID", prior.ID))
			return prior, nil
		}
	}

	lock := e.locks.get(in.ResourceID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := e.Bookings.ActiveByResourceAndDate(ctx, in.ResourceID, in.Date)
	if err != nil {
		return nil, newStoreError("booking ledger read failed", err)
	}
	end := in.Start + in.Duration
	for _, b := range existing {
		if b.Overlaps(in.Start, end) {
			return nil, newConflictError("requested interval overlaps an active booking", bookingRepo.ErrConflict)
		}
	}

	now := e.Clock.Now().UTC()
	booking := &models.Booking{
		ID:             uuid.New().String(),
		ResourceID:     in.ResourceID,
		Date:           in.Date,
		Start:          in.Start,
		Duration:       in.Duration,
		Status:         models.BookingActive,
		PayloadRef:     in.PayloadRef,
		IdempotencyKey: in.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := e.Bookings.InsertActive(ctx, booking); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrConflict):
			return nil, newConflictError("requested interval overlaps an active booking", err)
		case errors.Is(err, bookingRepo.ErrDuplicateKey):
			// A concurrent retry with the same key committed first.
			if prior, ok := e.priorBooking(ctx, in.IdempotencyKey); ok {
				return prior, nil
			}
			return nil, newStoreError("idempotent replay lookup failed", err)
		default:
			return nil, newStoreError("booking insert failed", err)
		}
	}

	if in.IdempotencyKey != "" && e.Idem != nil {
		if err := e.Idem.Put(ctx, in.IdempotencyKey, booking.ID); err != nil {
			logger.Warn("failed to record idempotency key", zap.Error(err))
		}
	}

	e.publish(models.BookingEvent{
		Type:       models.EventBookingCreated,
		ResourceID: booking.ResourceID,
		Date:       booking.Date,
	})
	e.scheduleReminder(ctx, *booking)
	return booking, nil
}

// priorBooking resolves an idempotency key to the booking it created, first
// through the fast key cache, then through the ledger's own key lookup.
func (e *Engine) priorBooking(ctx context.Context, key string) (*models.Booking, bool) {
	if e.Idem != nil {
		if id, ok, err := e.Idem.Get(ctx, key); err == nil && ok {
			if b, err := e.Bookings.GetByID(ctx, id); err == nil {
				return b, true
			}
		}
	}
	if b, err := e.Bookings.FindByIdempotencyKey(ctx, key); err == nil {
		return b, true
	}
	return nil, false
}

func (e *Engine) RescheduleBooking(ctx context.Context, id, newDate string, newStart, newDuration int) (*models.Booking, error) {
	if err := e.validateInterval(newDate, newStart, newDuration); err != nil {
		return nil, err
	}

	current, err := e.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, newNotFoundError("unknown booking "+id, err)
		}
		return nil, newStoreError("booking ledger read failed", err)
	}
	if current.Status != models.BookingActive {
		return nil, newInvalidStateError("only active bookings can be rescheduled", bookingRepo.ErrInvalidTransition)
	}

	lock := e.locks.get(current.ResourceID)
	lock.Lock()
	defer lock.Unlock()

	oldDate := current.Date
	updated, err := e.Bookings.Reschedule(ctx, id, newDate, newStart, newDuration)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrConflict):
			return nil, newConflictError("requested interval overlaps an active booking", err)
		case errors.Is(err, bookingRepo.ErrInvalidTransition):
			return nil, newInvalidStateError("only active bookings can be rescheduled", err)
		case errors.Is(err, bookingRepo.ErrNotFound):
			return nil, newNotFoundError("unknown booking "+id, err)
		default:
			return nil, newStoreError("reschedule failed", err)
		}
	}

	e.publish(models.BookingEvent{
		Type:       models.EventBookingUpdated,
		ResourceID: updated.ResourceID,
		Date:       updated.Date,
	})
	if oldDate != updated.Date {
		// The vacated day changed too; subscribers watching it must refresh.
		e.publish(models.BookingEvent{
			Type:       models.EventBookingUpdated,
			ResourceID: updated.ResourceID,
			Date:       oldDate,
		})
	}
	e.scheduleReminder(ctx, *updated)
	return updated, nil
}

func (e *Engine) CancelBooking(ctx context.Context, id string) error {
	current, err := e.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return newNotFoundError("unknown booking "+id, err)
		}
		return newStoreError("booking ledger read failed", err)
	}
	switch current.Status {
	case models.BookingCancelled:
		// Cancelling twice is a no-op.
		return nil
	case models.BookingFinalized:
		return newInvalidStateError("finalized bookings cannot be cancelled", bookingRepo.ErrInvalidTransition)
	}

	updated, err := e.Bookings.UpdateStatus(ctx, id, models.BookingActive, models.BookingCancelled)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrInvalidTransition):
			return newInvalidStateError("finalized bookings cannot be cancelled", err)
		case errors.Is(err, bookingRepo.ErrNotFound):
			return newNotFoundError("unknown booking "+id, err)
		default:
			return newStoreError("cancel failed", err)
		}
	}

	e.publish(models.BookingEvent{
		Type:       models.EventBookingCancelled,
		ResourceID: updated.ResourceID,
		Date:       updated.Date,
	})
	return nil
}

// FinalizeBooking marks an appointment as completed/paid. Terminal: the
// booking keeps occupying its interval but can no longer be moved or
// cancelled through this engine.
func (e *Engine) FinalizeBooking(ctx context.Context, id string) (*models.Booking, error) {
	updated, err := e.Bookings.UpdateStatus(ctx, id, models.BookingActive, models.BookingFinalized)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrInvalidTransition):
			return nil, newInvalidStateError("only active bookings can be finalized", err)
		case errors.Is(err, bookingRepo.ErrNotFound):
			return nil, newNotFoundError("unknown booking "+id, err)
		default:
			return nil, newStoreError("finalize failed", err)
		}
	}
	return updated, nil
}

// validateInterval enforces the canonical representation: a parseable date,
// a granularity-aligned start, and a positive granularity-multiple duration
// that stays within the day.
func (e *Engine) validateInterval(date string, start, duration int) error {
	if _, err := models.ParseDate(date); err != nil {
		return newValidationError("invalid date %q, want YYYY-MM-DD", date)
	}
	g := e.Granularity
	if g <= 0 {
		g = DefaultGranularity
	}
	if start < 0 || start%g != 0 {
		return newValidationError("start %d is not aligned to the %d-minute granularity", start, g)
	}
	if duration <= 0 || duration%g != 0 {
		return newValidationError("duration %d is not a positive multiple of %d minutes", duration, g)
	}
	if start+duration > 24*60 {
		return newValidationError("booking may not span midnight")
	}
	return nil
}

func (e *Engine) publish(ev models.BookingEvent) {
	if e.Notifier == nil {
		return
	}
	e.Notifier.Publish(ev)
}

func (e *Engine) scheduleReminder(ctx context.Context, b models.Booking) {
	if e.Reminders == nil {
		return
	}
	// Detach from the request context; the booking is already committed.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := e.Reminders.ScheduleReminder(ctx, b); err != nil {
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("bookingID", b.ID), zap.Error(err))
	}
}
