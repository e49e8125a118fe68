package scheduleRepo

import (
	"context"
	"fmt"
	"time"

	"clinicbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoScheduleRepo) GetWeeklyWindows(ctx context.Context, resourceID string, dayOfWeek int) ([]models.WeeklyWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"resource_id": resourceID, "day_of_week": dayOfWeek, "active": true}
	cursor, err := r.weeklyColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weekly windows: %w", err)
	}
	defer cursor.Close(ctx)

	var windows []models.WeeklyWindow
	if err := cursor.All(ctx, &windows); err != nil {
		return nil, fmt.Errorf("failed to decode weekly windows: %w", err)
	}
	return windows, nil
}

func (r *mongoScheduleRepo) GetOverrides(ctx context.Context, resourceID, date string) ([]models.DateOverride, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"resource_id": resourceID, "date": date, "active": true}
	cursor, err := r.overrideColl.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch date overrides: %w", err)
	}
	defer cursor.Close(ctx)

	var overrides []models.DateOverride
	if err := cursor.All(ctx, &overrides); err != nil {
		return nil, fmt.Errorf("failed to decode date overrides: %w", err)
	}
	return overrides, nil
}

func (r *mongoScheduleRepo) ReplaceWeekly(ctx context.Context, resourceID string, windows []models.WeeklyWindow) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.weeklyColl.DeleteMany(ctx, bson.M{"resource_id": resourceID}); err != nil {
		return fmt.Errorf("failed to clear weekly windows: %w", err)
	}
	if len(windows) == 0 {
		return nil
	}
	docs := make([]interface{}, len(windows))
	for i, w := range windows {
		if w.ID == "" {
			w.ID = uuid.New().String()
		}
		w.ResourceID = resourceID
		docs[i] = w
	}
	if _, err := r.weeklyColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert weekly windows: %w", err)
	}
	return nil
}

func (r *mongoScheduleRepo) ReplaceOverrides(ctx context.Context, resourceID, date string, overrides []models.DateOverride) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.overrideColl.DeleteMany(ctx, bson.M{"resource_id": resourceID, "date": date}); err != nil {
		return fmt.Errorf("failed to clear date overrides: %w", err)
	}
	if len(overrides) == 0 {
		return nil
	}
	docs := make([]interface{}, len(overrides))
	for i, o := range overrides {
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		o.ResourceID = resourceID
		o.Date = date
		docs[i] = o
	}
	if _, err := r.overrideColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert date overrides: %w", err)
	}
	return nil
}
