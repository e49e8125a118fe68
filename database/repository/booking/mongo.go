package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &b, nil
}

func (r *mongoBookingRepo) ActiveByResourceAndDate(ctx context.Context, resourceID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"resource_id": resourceID, "date": date, "status": models.BookingActive}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// overlapFilter matches active bookings for the resource/date whose
// [start, start+duration) interval intersects [start, end). excludeID is
// skipped, which is how reschedule ignores the booking's own interval.
func overlapFilter(resourceID, date string, start, end int, excludeID string) bson.M {
	filter := bson.M{
		"resource_id": resourceID,
		"date":        date,
		"status":      models.BookingActive,
		"start":       bson.M{"$lt": end},
		"$expr": bson.M{
			"$gt": bson.A{bson.M{"$add": bson.A{"$start", "$duration"}}, start},
		},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

func (r *mongoBookingRepo) InsertActive(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if b.IdempotencyKey != "" {
			n, err := r.coll.CountDocuments(sc, bson.M{"idempotency_key": b.IdempotencyKey})
			if err != nil {
				return fmt.Errorf("idempotency lookup failed: %w", err)
			}
			if n > 0 {
				return ErrDuplicateKey
			}
		}
		n, err := r.coll.CountDocuments(sc, overlapFilter(b.ResourceID, b.Date, b.Start, b.End(), ""))
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if n > 0 {
			return ErrConflict
		}
		if _, err := r.coll.InsertOne(sc, b); err != nil {
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrDuplicateKey) {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

func (r *mongoBookingRepo) Reschedule(ctx context.Context, id, date string, start, duration int) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var updated models.Booking
	txnFn := func(sc mongo.SessionContext) error {
		var current models.Booking
		err := r.coll.FindOne(sc, bson.M{"id": id}).Decode(&current)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to fetch booking %s: %w", id, err)
		}
		if current.Status != models.BookingActive {
			return ErrInvalidTransition
		}
		n, err := r.coll.CountDocuments(sc, overlapFilter(current.ResourceID, date, start, start+duration, id))
		if err != nil {
			return fmt.Errorf("overlap check failed: %w", err)
		}
		if n > 0 {
			return ErrConflict
		}
		err = r.coll.FindOneAndUpdate(sc,
			bson.M{"id": id, "status": models.BookingActive},
			bson.M{"$set": bson.M{
				"date":       date,
				"start":      start,
				"duration":   duration,
				"updated_at": time.Now().UTC(),
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
		if err != nil {
			return fmt.Errorf("reschedule update failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("reschedule transaction failed: %w", err)
	}
	return &updated, nil
}

func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish a missing booking from one in the wrong state.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrInvalidTransition
	}
	if err != nil {
		return nil, fmt.Errorf("status update failed: %w", err)
	}
	return &updated, nil
}

func (r *mongoBookingRepo) FindByIdempotencyKey(ctx context.Context, key string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	err := r.coll.FindOne(ctx, bson.M{"idempotency_key": key}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup failed: %w", err)
	}
	return &b, nil
}
