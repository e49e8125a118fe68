package notifier

import (
	"context"
	"encoding/json"

	"clinicbook/models"
	"clinicbook/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const eventChannel = "clinicbook.booking.events"

// Bridge fans booking events out across engine instances through Redis
// pub/sub while feeding the local hub directly, so a Redis outage degrades
// to single-instance delivery instead of silence.
type Bridge struct {
	client *redis.Client
	hub    *Hub
}

func NewBridge(client *redis.Client, hub *Hub) *Bridge {
	return &Bridge{client: client, hub: hub}
}

// Publish delivers locally and mirrors the event to the other instances.
// Fire-and-forget on the Redis leg; it never blocks the booking commit.
func (b *Bridge) Publish(ev models.BookingEvent) {
	b.hub.Publish(ev)

	payload, err := json.Marshal(ev)
	if err != nil {
		utils.GetLogger().Error("failed to marshal booking event", zap.Error(err))
		return
	}
	go func() {
		if err := b.client.Publish(context.Background(), eventChannel, payload).Err(); err != nil {
			utils.GetLogger().Warn("failed to publish booking event to redis", zap.Error(err))
		}
	}()
}

// Run consumes remote events and replays them into the local hub until ctx
// is cancelled. Events published by this instance come back through the
// subscription too; duplicate delivery is fine since events only trigger
// refreshes.
func (b *Bridge) Run(ctx context.Context) {
	logger := utils.GetLogger()
	sub := b.client.Subscribe(ctx, eventChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev models.BookingEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Warn("dropping malformed booking event", zap.Error(err))
				continue
			}
			b.hub.Publish(ev)
		}
	}
}
