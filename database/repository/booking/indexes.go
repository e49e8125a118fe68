package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the ledger queries depend on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := db.Collection("bookings").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Backs the per-day active-booking scans of the resolver and the
			// overlap checks of the transaction manager.
			Keys: bson.D{
				{Key: "resource_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "status", Value: 1},
				{Key: "start", Value: 1},
			},
		},
		{
			// Second line of defense for idempotent creation; the sparse
			// option skips bookings created without a key.
			Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
