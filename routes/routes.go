package routes

import (
	"net/http"
	"time"

	"clinicbook/handlers"
	"clinicbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint of the scheduling engine.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	availability := r.Group("/api/availability")
	{
		availability.GET("/month", hb.Availability.GetMonth)
		availability.GET("/day", hb.Availability.GetDay)
		availability.GET("/nearest", hb.Availability.GetNearest)
	}

	bookings := r.Group("/api/bookings")
	{
		bookings.POST("", hb.Booking.Create)
		bookings.PUT("/:id/reschedule", hb.Booking.Reschedule)
		bookings.POST("/:id/cancel", hb.Booking.Cancel)
		bookings.POST("/:id/finalize", hb.Booking.Finalize)
	}

	resources := r.Group("/api/resources")
	{
		resources.PUT("/:id/weekly", hb.Schedule.ReplaceWeekly)
		resources.PUT("/:id/overrides/:date", hb.Schedule.ReplaceOverrides)
	}

	r.GET("/api/events/ws", hb.Events.Stream)

	RegisterHealthRoute(r)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}
