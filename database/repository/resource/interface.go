package resourceRepo

import (
	"context"
	"errors"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("resource not found")

// ResourceRepository is the read-mostly view of the doctor roster this
// engine consumes. The roster itself is owned by the admin module.
type ResourceRepository interface {
	GetByID(ctx context.Context, id string) (*models.Resource, error)
	List(ctx context.Context) ([]models.Resource, error)
	Upsert(ctx context.Context, res models.Resource) error
}

type mongoResourceRepo struct {
	coll *mongo.Collection
}

// NewMongoResourceRepo constructs a MongoDB ResourceRepository.
func NewMongoResourceRepo(db *mongo.Database) ResourceRepository {
	return &mongoResourceRepo{coll: db.Collection("resources")}
}
