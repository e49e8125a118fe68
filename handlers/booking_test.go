package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	bookingRepo "clinicbook/database/repository/booking"
	resourceRepo "clinicbook/database/repository/resource"
	scheduleRepo "clinicbook/database/repository/schedule"
	"clinicbook/models"
	"clinicbook/services/scheduling"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *scheduleRepo.MemoryScheduleRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	resources := resourceRepo.NewMemoryResourceRepo()
	schedules := scheduleRepo.NewMemoryScheduleRepo()
	bookings := bookingRepo.NewMemoryBookingRepo()
	require.NoError(t, resources.Upsert(context.Background(), models.Resource{ID: "dr-adams", Name: "Dr. Adams"}))

	clock := scheduling.FixedClock{T: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)}
	resolver := &scheduling.Resolver{
		Schedules:   schedules,
		Bookings:    bookings,
		Resources:   resources,
		Granularity: 30,
		Clock:       clock,
	}
	engine := scheduling.NewEngine(
		bookings, resources, resolver, nil,
		scheduling.NewMemoryIdempotencyStore(), 30, clock,
	)

	router := gin.New()
	router.POST("/api/bookings", NewBookingHandler(engine).Create)
	router.POST("/api/bookings/:id/cancel", NewBookingHandler(engine).Cancel)
	router.GET("/api/availability/day", NewAvailabilityHandler(resolver, engine).GetDay)
	router.PUT("/api/resources/:id/weekly", NewScheduleHandler(schedules).ReplaceWeekly)
	return router, schedules
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBookingCreateEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	in := map[string]interface{}{
		"resource_id": "dr-adams",
		"date":        "2026-03-09",
		"start":       540,
		"duration":    60,
		"payload_ref": "patient-record-17",
	}
	w := doJSON(t, router, http.MethodPost, "/api/bookings", in, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.BookingActive, created.Status)

	// Same interval again is a conflict.
	w = doJSON(t, router, http.MethodPost, "/api/bookings", in, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// After cancelling it becomes free again.
	w = doJSON(t, router, http.MethodPost, "/api/bookings/"+created.ID+"/cancel", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, router, http.MethodPost, "/api/bookings", in, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestBookingCreateEndpointIdempotencyHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	in := map[string]interface{}{
		"resource_id": "dr-adams",
		"date":        "2026-03-09",
		"start":       600,
		"duration":    30,
	}
	headers := map[string]string{"Idempotency-Key": "req-42"}

	w := doJSON(t, router, http.MethodPost, "/api/bookings", in, headers)
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = doJSON(t, router, http.MethodPost, "/api/bookings", in, headers)
	require.Equal(t, http.StatusCreated, w.Code)
	var replay models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &replay))
	assert.Equal(t, first.ID, replay.ID)
}

func TestBookingCreateEndpointValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	in := map[string]interface{}{
		"resource_id": "dr-adams",
		"date":        "next tuesday",
		"start":       540,
		"duration":    60,
	}
	w := doJSON(t, router, http.MethodPost, "/api/bookings", in, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilityDayEndpoint(t *testing.T) {
	router, schedules := newTestRouter(t)
	require.NoError(t, schedules.ReplaceWeekly(context.Background(), "dr-adams", []models.WeeklyWindow{
		{DayOfWeek: 1, Start: 540, End: 660, Active: true},
	}))

	w := doJSON(t, router, http.MethodGet, "/api/availability/day?resource=dr-adams&date=2026-03-09", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var day models.DaySlots
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &day))
	assert.Equal(t, models.DayAvailable, day.Status)
	assert.Len(t, day.Slots, 4)

	w = doJSON(t, router, http.MethodGet, "/api/availability/day?resource=dr-adams", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplaceWeeklyEndpointRejectsOverlap(t *testing.T) {
	router, _ := newTestRouter(t)

	in := map[string]interface{}{
		"windows": []models.WeeklyWindow{
			{DayOfWeek: 1, Start: 540, End: 660, Active: true},
			{DayOfWeek: 1, Start: 600, End: 720, Active: true},
		},
	}
	w := doJSON(t, router, http.MethodPut, "/api/resources/dr-adams/weekly", in, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	in = map[string]interface{}{
		"windows": []models.WeeklyWindow{
			{DayOfWeek: 1, Start: 540, End: 660, Active: true},
			{DayOfWeek: 2, Start: 600, End: 720, Active: true},
		},
	}
	w = doJSON(t, router, http.MethodPut, "/api/resources/dr-adams/weekly", in, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
