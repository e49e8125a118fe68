package handlers

import (
	"net/http"

	"clinicbook/services/scheduling"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the write side of the engine.
type BookingHandler struct {
	Engine *scheduling.Engine
}

func NewBookingHandler(engine *scheduling.Engine) *BookingHandler {
	return &BookingHandler{Engine: engine}
}

// Create handles POST /api/bookings. A retried request must resend the same
// Idempotency-Key header to get the original booking back instead of a
// duplicate.
func (h *BookingHandler) Create(c *gin.Context) {
	var in scheduling.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	in.IdempotencyKey = c.GetHeader("Idempotency-Key")

	booking, err := h.Engine.CreateBooking(c.Request.Context(), in)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// Reschedule handles PUT /api/bookings/:id/reschedule.
func (h *BookingHandler) Reschedule(c *gin.Context) {
	var in struct {
		Date     string `json:"date"`
		Start    int    `json:"start"`
		Duration int    `json:"duration"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	booking, err := h.Engine.RescheduleBooking(c.Request.Context(), c.Param("id"), in.Date, in.Start, in.Duration)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Cancel handles POST /api/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c *gin.Context) {
	if err := h.Engine.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// Finalize handles POST /api/bookings/:id/finalize.
func (h *BookingHandler) Finalize(c *gin.Context) {
	booking, err := h.Engine.FinalizeBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
