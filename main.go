// File: clinicbook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinicbook/config"
	"clinicbook/cron"
	"clinicbook/database"
	bookingRepo "clinicbook/database/repository/booking"
	resourceRepo "clinicbook/database/repository/resource"
	scheduleRepo "clinicbook/database/repository/schedule"
	"clinicbook/handlers"
	"clinicbook/middleware"
	"clinicbook/routes"
	"clinicbook/services/notifier"
	"clinicbook/services/scheduling"
	"clinicbook/services/tasks"
	"clinicbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitIdemCache()
	utils.InitEventCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	db := database.DB()
	resources := resourceRepo.NewMongoResourceRepo(db)
	schedules := scheduleRepo.NewMongoScheduleRepo(db)
	bookings := bookingRepo.NewMongoBookingRepo(db)
	if err := bookingRepo.EnsureIndexes(context.Background(), db); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// Change notifier: local hub plus a Redis bridge between instances.
	hub := notifier.NewHub()
	bridge := notifier.NewBridge(utils.GetEventClient(), hub)
	bridgeCtx, stopBridge := context.WithCancel(context.Background())
	go bridge.Run(bridgeCtx)

	// Scheduling engine.
	resolver := &scheduling.Resolver{
		Schedules:   schedules,
		Bookings:    bookings,
		Resources:   resources,
		Granularity: config.AppConfig.SlotGranularityMin,
		Clock:       scheduling.SystemClock(),
	}
	idemStore := scheduling.NewRedisIdempotencyStore(utils.GetIdemClient(), 24*time.Hour)
	engine := scheduling.NewEngine(
		bookings,
		resources,
		resolver,
		bridge,
		idemStore,
		config.AppConfig.SlotGranularityMin,
		scheduling.SystemClock(),
	)
	reminderQueue := tasks.NewReminderQueue(time.Duration(config.AppConfig.ReminderLeadMin) * time.Minute)
	engine.Reminders = reminderQueue

	cron.InitReminderWorker(bookings)

	handlerBundle := &handlers.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(resolver, engine),
		Booking:      handlers.NewBookingHandler(engine),
		Schedule:     handlers.NewScheduleHandler(schedules),
		Events:       handlers.NewEventsHandler(hub),
	}
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetIdemClient(), utils.GetEventClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	stopBridge()
	if err := reminderQueue.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close reminder queue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
