package scheduling

import (
	"context"
	"fmt"
	"sort"

	bookingRepo "clinicbook/database/repository/booking"
	resourceRepo "clinicbook/database/repository/resource"
	scheduleRepo "clinicbook/database/repository/schedule"
	"clinicbook/models"
)

// Resolver computes availability from the schedule store, the slot
// generator and the booking ledger. It performs no writes and keeps no
// cache; every call regenerates from the stores plus the injected clock.
type Resolver struct {
	Schedules   scheduleRepo.ScheduleRepository
	Bookings    bookingRepo.BookingRepository
	Resources   resourceRepo.ResourceRepository
	Granularity int
	Clock       Clock
}

func (r *Resolver) granularity() int {
	if r.Granularity > 0 {
		return r.Granularity
	}
	return DefaultGranularity
}

func (r *Resolver) clock() Clock {
	if r.Clock != nil {
		return r.Clock
	}
	return SystemClock()
}

// ResolveDay returns the slot grid and day status for one resource, or for
// the union of all resources when resourceID is models.AllResources.
func (r *Resolver) ResolveDay(ctx context.Context, resourceID, date string) (models.DaySlots, error) {
	if _, err := models.ParseDate(date); err != nil {
		return models.DaySlots{}, newValidationError("invalid date %q, want YYYY-MM-DD", date)
	}
	if resourceID == models.AllResources {
		return r.resolveAllResources(ctx, date)
	}
	slots, err := r.resolveResourceDay(ctx, resourceID, date)
	if err != nil {
		return models.DaySlots{}, err
	}
	day := models.DaySlots{Date: date, Slots: slots}
	if len(slots) > 0 {
		day.Resources = []string{resourceID}
	}
	day.Status = r.dayStatus(date, slots)
	return day, nil
}

// ResolveMonth maps every date of (year, month) to its day status for the
// month grid.
func (r *Resolver) ResolveMonth(ctx context.Context, resourceID string, year int, month int) (map[string]models.DayStatus, error) {
	if month < 1 || month > 12 {
		return nil, newValidationError("invalid month %d", month)
	}
	first, err := models.ParseDate(dateString(year, month, 1))
	if err != nil {
		return nil, newValidationError("invalid year/month %d-%d", year, month)
	}
	out := make(map[string]models.DayStatus)
	for d := first; int(d.Month()) == month; d = d.AddDate(0, 0, 1) {
		date := d.Format(models.DateLayout)
		day, err := r.ResolveDay(ctx, resourceID, date)
		if err != nil {
			return nil, err
		}
		out[date] = day.Status
	}
	return out, nil
}

// resolveResourceDay runs the per-resource pipeline: effective windows,
// slot generation, occupancy and past marking. Steps 1-6 of the contract.
func (r *Resolver) resolveResourceDay(ctx context.Context, resourceID, date string) ([]models.Slot, error) {
	windows, err := r.effectiveWindows(ctx, resourceID, date)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, nil
	}

	candidates := generateBlocks(windows, r.granularity())
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].start < candidates[j].start })

	bookings, err := r.Bookings.ActiveByResourceAndDate(ctx, resourceID, date)
	if err != nil {
		return nil, newStoreError("booking ledger read failed", err)
	}

	now := r.clock().Now()
	today := now.Format(models.DateLayout)
	nowMin := minuteOfDay(now)

	slots := make([]models.Slot, 0, len(candidates))
	for _, c := range candidates {
		slot := models.Slot{
			ResourceID: resourceID,
			Date:       date,
			Start:      c.start,
			Block:      c.block,
			Status:     models.SlotFree,
		}
		// A slot at t is booked when some active booking's interval contains
		// t, so a 90-minute booking blocks all three of its 30-minute slots.
		for _, b := range bookings {
			if b.Start <= c.start && c.start < b.End() {
				slot.Status = models.SlotBooked
				slot.BookingID = b.ID
				slot.Head = c.start == b.Start
				break
			}
		}
		if slot.Status == models.SlotFree && isPast(date, c.start, today, nowMin) {
			slot.Status = models.SlotPast
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// effectiveWindows applies override precedence: any active override for the
// date fully replaces the weekly pattern.
func (r *Resolver) effectiveWindows(ctx context.Context, resourceID, date string) ([]TimeWindow, error) {
	overrides, err := r.Schedules.GetOverrides(ctx, resourceID, date)
	if err != nil {
		return nil, newStoreError("schedule store read failed", err)
	}
	if len(overrides) > 0 {
		windows := make([]TimeWindow, len(overrides))
		for i, o := range overrides {
			windows[i] = TimeWindow{Start: o.Start, End: o.End}
		}
		return windows, nil
	}

	day, err := models.ParseDate(date)
	if err != nil {
		return nil, newValidationError("invalid date %q", date)
	}
	weekly, err := r.Schedules.GetWeeklyWindows(ctx, resourceID, int(day.Weekday()))
	if err != nil {
		return nil, newStoreError("schedule store read failed", err)
	}
	windows := make([]TimeWindow, len(weekly))
	for i, w := range weekly {
		windows[i] = TimeWindow{Start: w.Start, End: w.End}
	}
	return windows, nil
}

func (r *Resolver) resolveAllResources(ctx context.Context, date string) (models.DaySlots, error) {
	resources, err := r.Resources.List(ctx)
	if err != nil {
		return models.DaySlots{}, newStoreError("resource roster read failed", err)
	}

	day := models.DaySlots{Date: date}
	for _, res := range resources {
		slots, err := r.resolveResourceDay(ctx, res.ID, date)
		if err != nil {
			return models.DaySlots{}, err
		}
		if len(slots) == 0 {
			continue
		}
		day.Resources = append(day.Resources, res.ID)
		day.Slots = append(day.Slots, slots...)
	}
	sort.SliceStable(day.Slots, func(i, j int) bool {
		if day.Slots[i].Start != day.Slots[j].Start {
			return day.Slots[i].Start < day.Slots[j].Start
		}
		return day.Slots[i].ResourceID < day.Slots[j].ResourceID
	})
	day.Status = r.dayStatus(date, day.Slots)
	return day, nil
}

// dayStatus derives the day-level status from counts over non-past slots.
func (r *Resolver) dayStatus(date string, slots []models.Slot) models.DayStatus {
	if len(slots) == 0 {
		return models.DayNoSchedule
	}

	now := r.clock().Now()
	today := now.Format(models.DateLayout)
	nowMin := minuteOfDay(now)

	var free, booked int
	for _, s := range slots {
		if s.Status == models.SlotPast {
			continue
		}
		// Booked slots keep counting until their own start passes; a past
		// start with a booked status is no longer actionable.
		if isPast(date, s.Start, today, nowMin) {
			continue
		}
		switch s.Status {
		case models.SlotFree:
			free++
		case models.SlotBooked:
			booked++
		}
	}

	switch {
	case free == 0 && booked == 0:
		// Nothing actionable: today after hours, or an earlier date whose
		// slots are all past.
		return models.DayPastToday
	case free > 0 && booked == 0:
		return models.DayAvailable
	case free == 0 && booked > 0:
		return models.DayFullyBooked
	default:
		return models.DayPartiallyBooked
	}
}

// isPast reports whether a slot start on date has already passed. Dates
// compare lexicographically in the canonical layout.
func isPast(date string, start int, today string, nowMin int) bool {
	if date < today {
		return true
	}
	if date == today && start < nowMin {
		return true
	}
	return false
}

func dateString(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}
