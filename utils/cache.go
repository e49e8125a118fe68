package utils

import (
	"context"
	"log"
	"time"

	"clinicbook/config"

	"github.com/go-redis/redis/v8"
)

var (
	// IdemClient stores idempotency keys for booking creation.
	IdemClient *redis.Client
	// EventClient backs the change-notifier pub/sub bridge.
	EventClient *redis.Client
)

// InitIdemCache initializes the Redis client used for idempotency keys.
func InitIdemCache() {
	IdemClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisIdemDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := IdemClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (idempotency): %v", err)
	}
}

// GetIdemClient returns the idempotency cache client.
func GetIdemClient() *redis.Client {
	if IdemClient == nil {
		InitIdemCache()
	}
	return IdemClient
}

// InitEventCache initializes the Redis client used for event pub/sub.
func InitEventCache() {
	EventClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEventDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := EventClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (events): %v", err)
	}
}

// GetEventClient returns the pub/sub bridge client.
func GetEventClient() *redis.Client {
	if EventClient == nil {
		InitEventCache()
	}
	return EventClient
}
