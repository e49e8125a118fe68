package scheduleRepo

import (
	"context"
	"sort"
	"sync"

	"clinicbook/models"

	"github.com/google/uuid"
)

// MemoryScheduleRepo is an in-memory schedule store, used by tests and
// local runs.
type MemoryScheduleRepo struct {
	mu        sync.RWMutex
	weekly    map[string][]models.WeeklyWindow          // resourceID -> windows
	overrides map[string]map[string][]models.DateOverride // resourceID -> date -> overrides
}

func NewMemoryScheduleRepo() *MemoryScheduleRepo {
	return &MemoryScheduleRepo{
		weekly:    make(map[string][]models.WeeklyWindow),
		overrides: make(map[string]map[string][]models.DateOverride),
	}
}

func (r *MemoryScheduleRepo) GetWeeklyWindows(_ context.Context, resourceID string, dayOfWeek int) ([]models.WeeklyWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.WeeklyWindow
	for _, w := range r.weekly[resourceID] {
		if w.DayOfWeek == dayOfWeek && w.Active {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *MemoryScheduleRepo) GetOverrides(_ context.Context, resourceID, date string) ([]models.DateOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.DateOverride
	for _, o := range r.overrides[resourceID][date] {
		if o.Active {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *MemoryScheduleRepo) ReplaceWeekly(_ context.Context, resourceID string, windows []models.WeeklyWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := make([]models.WeeklyWindow, len(windows))
	for i, w := range windows {
		if w.ID == "" {
			w.ID = uuid.New().String()
		}
		w.ResourceID = resourceID
		stored[i] = w
	}
	r.weekly[resourceID] = stored
	return nil
}

func (r *MemoryScheduleRepo) ReplaceOverrides(_ context.Context, resourceID, date string, overrides []models.DateOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overrides[resourceID] == nil {
		r.overrides[resourceID] = make(map[string][]models.DateOverride)
	}
	stored := make([]models.DateOverride, len(overrides))
	for i, o := range overrides {
		if o.ID == "" {
			o.ID = uuid.New().String()
		}
		o.ResourceID = resourceID
		o.Date = date
		stored[i] = o
	}
	r.overrides[resourceID][date] = stored
	return nil
}
