package scheduling

import (
	"context"
	"testing"
	"time"

	bookingRepo "clinicbook/database/repository/booking"
	resourceRepo "clinicbook/database/repository/resource"
	scheduleRepo "clinicbook/database/repository/schedule"
	"clinicbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday noon, UTC. 2026-03-02 is a Monday.
var testNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

const (
	today      = "2026-03-02"
	nextMonday = "2026-03-09"
	nextSunday = "2026-03-08"
)

type resolverFixture struct {
	resolver  *Resolver
	resources *resourceRepo.MemoryResourceRepo
	schedules *scheduleRepo.MemoryScheduleRepo
	bookings  *bookingRepo.MemoryBookingRepo
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	f := &resolverFixture{
		resources: resourceRepo.NewMemoryResourceRepo(),
		schedules: scheduleRepo.NewMemoryScheduleRepo(),
		bookings:  bookingRepo.NewMemoryBookingRepo(),
	}
	f.resolver = &Resolver{
		Schedules:   f.schedules,
		Bookings:    f.bookings,
		Resources:   f.resources,
		Granularity: 30,
		Clock:       FixedClock{T: testNow},
	}
	return f
}

func (f *resolverFixture) addResource(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, f.resources.Upsert(context.Background(), models.Resource{ID: id, Name: name}))
}

func (f *resolverFixture) setWeekly(t *testing.T, resourceID string, windows ...models.WeeklyWindow) {
	t.Helper()
	require.NoError(t, f.schedules.ReplaceWeekly(context.Background(), resourceID, windows))
}

func (f *resolverFixture) setOverrides(t *testing.T, resourceID, date string, overrides ...models.DateOverride) {
	t.Helper()
	require.NoError(t, f.schedules.ReplaceOverrides(context.Background(), resourceID, date, overrides))
}

func (f *resolverFixture) addBooking(t *testing.T, resourceID, date string, start, duration int) models.Booking {
	t.Helper()
	b := models.Booking{
		ID:         "bk-" + date + "-" + resourceID,
		ResourceID: resourceID,
		Date:       date,
		Start:      start,
		Duration:   duration,
		Status:     models.BookingActive,
	}
	require.NoError(t, f.bookings.InsertActive(context.Background(), &b))
	return b
}

func slotStarts(slots []models.Slot) []int {
	out := make([]int, len(slots))
	for i, s := range slots {
		out[i] = s.Start
	}
	return out
}

func TestResolveDayWeeklyPattern(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 660, Active: true},  // 9:00-11:00
		models.WeeklyWindow{DayOfWeek: 1, Start: 780, End: 840, Active: true},  // 13:00-14:00
	)

	day, err := f.resolver.ResolveDay(context.Background(), "dr-adams", nextMonday)
	require.NoError(t, err)

	assert.Equal(t, []int{540, 570, 600, 630, 780, 810}, slotStarts(day.Slots))
	assert.Equal(t, models.DayAvailable, day.Status)
	assert.Equal(t, []string{"dr-adams"}, day.Resources)
	// Slots from the second window carry the break divider index.
	assert.Equal(t, 0, day.Slots[0].Block)
	assert.Equal(t, 1, day.Slots[4].Block)
}

func TestResolveDayInactiveWindowsIgnored(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 600, Active: true},
		models.WeeklyWindow{DayOfWeek: 1, Start: 780, End: 840, Active: false},
	)

	day, err := f.resolver.ResolveDay(context.Background(), "dr-adams", nextMonday)
	require.NoError(t, err)
	assert.Equal(t, []int{540, 570}, slotStarts(day.Slots))
}

func TestResolveDayNoSchedule(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	// Weekly pattern covers Mondays only.
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 660, Active: true},
	)

	day, err := f.resolver.ResolveDay(context.Background(), "dr-adams", nextSunday)
	require.NoError(t, err)
	assert.Empty(t, day.Slots)
	assert.Equal(t, models.DayNoSchedule, day.Status)
}

func TestResolveDayOverridePrecedence(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 720, Active: true},
	)
	// A single active override for the date replaces the whole weekly
	// pattern; the 9:00-12:00 block must not leak through.
	f.setOverrides(t, "dr-adams", nextMonday,
		models.DateOverride{Start: 900, End: 960, Active: true}, // 15:00-16:00
	)

	day, err := f.resolver.ResolveDay(context.Background(), "dr-adams", nextMonday)
	require.NoError(t, err)
	assert.Equal(t, []int{900, 930}, slotStarts(day.Slots))

	// Other dates are untouched by the override.
	other, err := f.resolver.ResolveDay(context.Background(), "dr-adams", "2026-03-16")
	require.NoError(t, err)
	assert.Equal(t, []int{540, 570, 600, 630, 660, 690}, slotStarts(other.Slots))
}

func TestResolveDayInactiveOverrideFallsBackToWeekly(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 600, Active: true},
	)
	f.setOverrides(t, "dr-adams", nextMonday,
		models.DateOverride{Start: 900, End: 960, Active: false},
	)

	day, err := f.resolver.ResolveDay(context.Background(), "dr-adams", nextMonday)
	require.NoError(t, err)
	assert.Equal(t, []int{540, 570}, slotStarts(day.Slots))
}

func TestResolveDayDurationBlocksSpannedSlots(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 720, Active: true},
	)
	// A 90-minute booking at 9:30 occupies the 9:30, 10:00 and 10:30 slots.
	b := f.addBooking(t, "dr-adams", nextMonday, 570, 90)

	day, err := f.resolver.ResolveDay(context.Background(), "dr-adams", nextMonday)
	require.NoError(t, err)

	byStart := make(map[int]models.Slot)
	for _, s := range day.Slots {
		byStart[s.Start] = s
	}
	assert.Equal(t, models.SlotFree, byStart[540].Status)
	for _, start := range []int{570, 600, 630} {
		assert.Equal(t, models.SlotBooked, byStart[start].Status, "slot %d", start)
		assert.Equal(t, b.ID, byStart[start].BookingID)
	}
	assert.Equal(t, models.SlotFree, byStart[660].Status)

	// Only the slot at the booking's own start is the head.
	assert.True(t, byStart[570].Head)
	assert.False(t, byStart[600].Head)
	assert.False(t, byStart[630].Head)
}

func TestResolveDayPastCutoff(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 660, End: 810, Active: true}, // 11:00-13:30
	)

	// Clock is fixed at noon today: 11:00 and 11:30 have passed, 12:00 on
	// (start == now counts as future) is still free.
	day, err := f.resolver.ResolveDay(context.Background(), "dr-adams", today)
	require.NoError(t, err)

	byStart := make(map[int]models.SlotStatus)
	for _, s := range day.Slots {
		byStart[s.Start] = s.Status
	}
	assert.Equal(t, models.SlotPast, byStart[660])
	assert.Equal(t, models.SlotPast, byStart[690])
	assert.Equal(t, models.SlotFree, byStart[720])
	assert.Equal(t, models.SlotFree, byStart[750])
	assert.Equal(t, models.DayAvailable, day.Status)
}

func TestResolveDayBookedSlotKeepsStatusAfterStartPasses(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 660, End: 780, Active: true},
	)
	b := f.addBooking(t, "dr-adams", today, 660, 30) // 11:00, already begun

	day, err := f.resolver.ResolveDay(context.Background(), "dr-adams", today)
	require.NoError(t, err)

	assert.Equal(t, models.SlotBooked, day.Slots[0].Status)
	assert.Equal(t, b.ID, day.Slots[0].BookingID)
}

func TestDayStatusBoundaries(t *testing.T) {
	ctx := context.Background()

	t.Run("fully booked", func(t *testing.T) {
		f := newResolverFixture(t)
		f.addResource(t, "dr-adams", "Dr. Adams")
		f.setWeekly(t, "dr-adams",
			models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 600, Active: true},
		)
		f.addBooking(t, "dr-adams", nextMonday, 540, 60)

		day, err := f.resolver.ResolveDay(ctx, "dr-adams", nextMonday)
		require.NoError(t, err)
		assert.Equal(t, models.DayFullyBooked, day.Status)
	})

	t.Run("partially booked", func(t *testing.T) {
		f := newResolverFixture(t)
		f.addResource(t, "dr-adams", "Dr. Adams")
		f.setWeekly(t, "dr-adams",
			models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 600, Active: true},
		)
		f.addBooking(t, "dr-adams", nextMonday, 540, 30)

		day, err := f.resolver.ResolveDay(ctx, "dr-adams", nextMonday)
		require.NoError(t, err)
		assert.Equal(t, models.DayPartiallyBooked, day.Status)
	})

	t.Run("today after hours", func(t *testing.T) {
		f := newResolverFixture(t)
		f.addResource(t, "dr-adams", "Dr. Adams")
		// Morning shift only; the noon clock has passed every slot.
		f.setWeekly(t, "dr-adams",
			models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 660, Active: true},
		)

		day, err := f.resolver.ResolveDay(ctx, "dr-adams", today)
		require.NoError(t, err)
		assert.Equal(t, models.DayPastToday, day.Status)
	})

	t.Run("earlier date fully past", func(t *testing.T) {
		f := newResolverFixture(t)
		f.addResource(t, "dr-adams", "Dr. Adams")
		f.setWeekly(t, "dr-adams",
			models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 660, Active: true},
		)

		day, err := f.resolver.ResolveDay(ctx, "dr-adams", "2026-02-23") // prior Monday
		require.NoError(t, err)
		assert.Equal(t, models.DayPastToday, day.Status)
	})
}

func TestResolveDayAllResourcesUnion(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.addResource(t, "dr-baker", "Dr. Baker")
	f.addResource(t, "dr-clark", "Dr. Clark") // no schedule at all
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 600, Active: true},
	)
	f.setWeekly(t, "dr-baker",
		models.WeeklyWindow{DayOfWeek: 1, Start: 570, End: 630, Active: true},
	)

	day, err := f.resolver.ResolveDay(context.Background(), models.AllResources, nextMonday)
	require.NoError(t, err)

	// Sorted by start, then resource; doctors without windows do not appear.
	assert.Equal(t, []string{"dr-adams", "dr-baker"}, day.Resources)
	require.Len(t, day.Slots, 4)
	assert.Equal(t, "dr-adams", day.Slots[0].ResourceID)
	assert.Equal(t, 540, day.Slots[0].Start)
	assert.Equal(t, "dr-adams", day.Slots[1].ResourceID)
	assert.Equal(t, "dr-baker", day.Slots[2].ResourceID)
	assert.Equal(t, 570, day.Slots[2].Start)
	assert.Equal(t, "dr-baker", day.Slots[3].ResourceID)
}

func TestResolveDayAllResourcesStatusUsesUnion(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.addResource(t, "dr-baker", "Dr. Baker")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 600, Active: true},
	)
	f.setWeekly(t, "dr-baker",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 600, Active: true},
	)
	// Adams fully booked; Baker free. The aggregate day is partially booked.
	f.addBooking(t, "dr-adams", nextMonday, 540, 60)

	day, err := f.resolver.ResolveDay(context.Background(), models.AllResources, nextMonday)
	require.NoError(t, err)
	assert.Equal(t, models.DayPartiallyBooked, day.Status)
}

func TestResolveDayRejectsBadDate(t *testing.T) {
	f := newResolverFixture(t)
	_, err := f.resolver.ResolveDay(context.Background(), "dr-adams", "03/02/2026")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestResolveMonth(t *testing.T) {
	f := newResolverFixture(t)
	f.addResource(t, "dr-adams", "Dr. Adams")
	f.setWeekly(t, "dr-adams",
		models.WeeklyWindow{DayOfWeek: 1, Start: 540, End: 600, Active: true},
	)
	f.addBooking(t, "dr-adams", "2026-03-16", 540, 60)

	statuses, err := f.resolver.ResolveMonth(context.Background(), "dr-adams", 2026, 3)
	require.NoError(t, err)

	assert.Len(t, statuses, 31)
	assert.Equal(t, models.DayPastToday, statuses["2026-03-02"]) // today, morning shift already over
	assert.Equal(t, models.DayAvailable, statuses["2026-03-09"])
	assert.Equal(t, models.DayFullyBooked, statuses["2026-03-16"])
	assert.Equal(t, models.DayNoSchedule, statuses["2026-03-10"]) // a Tuesday

	_, err = f.resolver.ResolveMonth(context.Background(), "dr-adams", 2026, 13)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}
