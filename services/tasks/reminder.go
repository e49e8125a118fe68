package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clinicbook/config"
	"clinicbook/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

// NewReminderTask builds the queued task for an appointment reminder.
func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// ReminderQueue enqueues appointment reminders ahead of their start time.
// Implements the engine's ReminderScheduler.
type ReminderQueue struct {
	client *asynq.Client
	lead   time.Duration
}

func NewReminderQueue(lead time.Duration) *ReminderQueue {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &ReminderQueue{client: client, lead: lead}
}

func (q *ReminderQueue) ScheduleReminder(ctx context.Context, b models.Booking) error {
	day, err := models.ParseDate(b.Date)
	if err != nil {
		return fmt.Errorf("invalid booking date %q: %w", b.Date, err)
	}
	startAt := day.Add(time.Duration(b.Start) * time.Minute)
	fireAt := startAt.Add(-q.lead)
	if fireAt.Before(time.Now()) {
		// Too close to the appointment to be worth a reminder.
		return nil
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{
		BookingID:  b.ID,
		ResourceID: b.ResourceID,
		Date:       b.Date,
		Start:      b.Start,
	}, fireAt)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue reminder: %w", err)
	}
	return nil
}

func (q *ReminderQueue) Close() error {
	return q.client.Close()
}
