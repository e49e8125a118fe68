package scheduleRepo

import (
	"context"

	"clinicbook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleRepository holds the recurring weekly windows and the
// date-specific overrides per resource.
type ScheduleRepository interface {
	// GetWeeklyWindows returns the active weekly windows for a resource on
	// the given weekday (0 = Sunday), sorted by start time.
	GetWeeklyWindows(ctx context.Context, resourceID string, dayOfWeek int) ([]models.WeeklyWindow, error)
	// GetOverrides returns the active overrides for a (resource, date) pair,
	// sorted by start time. A non-empty result fully replaces the weekly
	// pattern for that date.
	GetOverrides(ctx context.Context, resourceID, date string) ([]models.DateOverride, error)
	// ReplaceWeekly swaps the full weekly pattern for a resource.
	ReplaceWeekly(ctx context.Context, resourceID string, windows []models.WeeklyWindow) error
	// ReplaceOverrides swaps all overrides for a (resource, date) pair.
	ReplaceOverrides(ctx context.Context, resourceID, date string, overrides []models.DateOverride) error
}

type mongoScheduleRepo struct {
	weeklyColl   *mongo.Collection
	overrideColl *mongo.Collection
}

// NewMongoScheduleRepo constructs a MongoDB ScheduleRepository.
func NewMongoScheduleRepo(db *mongo.Database) ScheduleRepository {
	return &mongoScheduleRepo{
		weeklyColl:   db.Collection("weekly_windows"),
		overrideColl: db.Collection("date_overrides"),
	}
}
