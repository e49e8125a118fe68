package cron

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"clinicbook/config"
	bookingRepo "clinicbook/database/repository/booking"
	"clinicbook/models"
	"clinicbook/services/tasks"
	"clinicbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(bookings bookingRepo.BookingRepository) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendReminder, handleReminderTask(bookings))

	go func() {
		logger.Info("starting reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("reminder worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("reminder worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleReminderTask hands a due reminder to the notification module unless
// the booking has been cancelled or moved since it was enqueued.
func handleReminderTask(bookings bookingRepo.BookingRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder task has invalid payload", zap.Error(err))
			return err
		}

		b, err := bookings.GetByID(ctx, p.BookingID)
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if b.Status != models.BookingActive {
			// Cancelled or finalized since the reminder was scheduled.
			return nil
		}
		if b.Date != p.Date || b.Start != p.Start {
			// Rescheduled; the stale reminder is dropped. Creation of the
			// replacement reminder happens on the reschedule path.
			return nil
		}

		// Delivery (push/SMS) is owned by the notifications module; this
		// engine only surfaces the due reminder.
		logger.Info("appointment reminder due",
			zap.String("bookingID", b.ID),
			zap.String("resourceID", b.ResourceID),
			zap.String("date", b.Date),
			zap.Int("start", b.Start))
		return nil
	}
}
