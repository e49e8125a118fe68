package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"clinicbook/models"
	"clinicbook/services/scheduling"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves the read side: month grids, day slot lists and
// nearest-free-slot scans.
type AvailabilityHandler struct {
	Resolver *scheduling.Resolver
	Engine   *scheduling.Engine
}

func NewAvailabilityHandler(resolver *scheduling.Resolver, engine *scheduling.Engine) *AvailabilityHandler {
	return &AvailabilityHandler{Resolver: resolver, Engine: engine}
}

// GetMonth handles GET /api/availability/month?resource=<id|all>&year=&month=
func (h *AvailabilityHandler) GetMonth(c *gin.Context) {
	resource := c.DefaultQuery("resource", models.AllResources)
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", "year must be an integer")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", "month must be an integer")
		return
	}

	days, err := h.Resolver.ResolveMonth(c.Request.Context(), resource, year, month)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resource": resource, "days": days})
}

// GetDay handles GET /api/availability/day?resource=<id|all>&date=
func (h *AvailabilityHandler) GetDay(c *gin.Context) {
	resource := c.DefaultQuery("resource", models.AllResources)
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", "date is required")
		return
	}

	day, err := h.Resolver.ResolveDay(c.Request.Context(), resource, date)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// GetNearest handles GET /api/availability/nearest?resources=a,b&horizon=&limit=
func (h *AvailabilityHandler) GetNearest(c *gin.Context) {
	var resources []string
	if raw := c.Query("resources"); raw != "" && raw != models.AllResources {
		resources = strings.Split(raw, ",")
	}
	horizon, err := strconv.Atoi(c.DefaultQuery("horizon", "14"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", "horizon must be an integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", "limit must be an integer")
		return
	}

	slots, err := h.Engine.NearestAvailable(c.Request.Context(), resources, horizon, limit)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": slots})
}
