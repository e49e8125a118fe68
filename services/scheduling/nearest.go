package scheduling

import (
	"context"
	"sort"

	"clinicbook/models"
)

// NearestAvailable scans forward day by day up to horizonDays, collecting
// free non-past slots for the given resources (all of them when the list is
// empty), sorted by (date, start, resource) and capped at limit. Purely a
// read; safe to rerun after a timeout.
func (e *Engine) NearestAvailable(ctx context.Context, resourceIDs []string, horizonDays, limit int) ([]models.Slot, error) {
	if horizonDays <= 0 {
		return nil, newValidationError("horizon must be positive, got %d", horizonDays)
	}
	if limit <= 0 {
		return nil, newValidationError("limit must be positive, got %d", limit)
	}

	if len(resourceIDs) == 0 {
		resources, err := e.Resources.List(ctx)
		if err != nil {
			return nil, newStoreError("resource roster read failed", err)
		}
		for _, r := range resources {
			resourceIDs = append(resourceIDs, r.ID)
		}
	}

	from := e.Clock.Now()
	var candidates []models.Slot
	for offset := 0; offset < horizonDays; offset++ {
		date := from.AddDate(0, 0, offset).Format(models.DateLayout)
		for _, resourceID := range resourceIDs {
			day, err := e.Resolver.ResolveDay(ctx, resourceID, date)
			if err != nil {
				return nil, err
			}
			for _, s := range day.Slots {
				if s.Status == models.SlotFree {
					candidates = append(candidates, s)
				}
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Date != candidates[j].Date {
			return candidates[i].Date < candidates[j].Date
		}
		if candidates[i].Start != candidates[j].Start {
			return candidates[i].Start < candidates[j].Start
		}
		return candidates[i].ResourceID < candidates[j].ResourceID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
