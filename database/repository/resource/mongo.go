package resourceRepo

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

func (r *mongoResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var res models.Resource
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resource %s: %w", id, err)
	}
	return &res, nil
}

func (r *mongoResourceRepo) List(ctx context.Context) ([]models.Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer cursor.Close(ctx)

	var out []models.Resource
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode resources: %w", err)
	}
	return out, nil
}

func (r *mongoResourceRepo) Upsert(ctx context.Context, res models.Resource) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"id": res.ID},
		bson.M{"$set": res},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resource %s: %w", res.ID, err)
	}
	return nil
}
