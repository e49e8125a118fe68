package handlers

import (
	"net/http"
	"sort"

	scheduleRepo "clinicbook/database/repository/schedule"
	"clinicbook/models"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler is the write surface for the roster admin: it replaces a
// doctor's weekly pattern or a single date's overrides. Windows are
// validated for overlap here, at write time; the resolver only has to
// tolerate bad data, not repair it.
type ScheduleHandler struct {
	Schedules scheduleRepo.ScheduleRepository
}

func NewScheduleHandler(schedules scheduleRepo.ScheduleRepository) *ScheduleHandler {
	return &ScheduleHandler{Schedules: schedules}
}

// ReplaceWeekly handles PUT /api/resources/:id/weekly.
func (h *ScheduleHandler) ReplaceWeekly(c *gin.Context) {
	var in struct {
		Windows []models.WeeklyWindow `json:"windows"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	byDay := make(map[int][]models.WeeklyWindow)
	for _, w := range in.Windows {
		if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "day_of_week must be 0..6")
			return
		}
		if w.End <= w.Start || w.Start < 0 || w.End > 24*60 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "window must satisfy 0 <= start < end <= 1440")
			return
		}
		if w.Active {
			byDay[w.DayOfWeek] = append(byDay[w.DayOfWeek], w)
		}
	}
	for _, windows := range byDay {
		if windowsOverlap(windows) {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "windows on the same weekday must not overlap")
			return
		}
	}

	if err := h.Schedules.ReplaceWeekly(c.Request.Context(), c.Param("id"), in.Windows); err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "store temporarily unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReplaceOverrides handles PUT /api/resources/:id/overrides/:date.
func (h *ScheduleHandler) ReplaceOverrides(c *gin.Context) {
	date := c.Param("date")
	if _, err := models.ParseDate(date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date must be YYYY-MM-DD")
		return
	}

	var in struct {
		Overrides []models.DateOverride `json:"overrides"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	var active []models.WeeklyWindow
	for _, o := range in.Overrides {
		if o.End <= o.Start || o.Start < 0 || o.End > 24*60 {
			utils.JSONError(c, http.StatusBadRequest, "invalid input", "override must satisfy 0 <= start < end <= 1440")
			return
		}
		if o.Active {
			active = append(active, models.WeeklyWindow{Start: o.Start, End: o.End})
		}
	}
	if windowsOverlap(active) {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "overrides for one date must not overlap")
		return
	}

	if err := h.Schedules.ReplaceOverrides(c.Request.Context(), c.Param("id"), date, in.Overrides); err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "store temporarily unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func windowsOverlap(windows []models.WeeklyWindow) bool {
	sorted := make([]models.WeeklyWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Start < sorted[i-1].End {
			return true
		}
	}
	return false
}
