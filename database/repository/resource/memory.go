package resourceRepo

import (
	"context"
	"sort"
	"sync"

	"clinicbook/models"
)

// MemoryResourceRepo is an in-memory roster, used by tests and local runs.
type MemoryResourceRepo struct {
	mu        sync.RWMutex
	resources map[string]models.Resource
}

func NewMemoryResourceRepo() *MemoryResourceRepo {
	return &MemoryResourceRepo{resources: make(map[string]models.Resource)}
}

func (r *MemoryResourceRepo) GetByID(_ context.Context, id string) (*models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resources[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &res, nil
}

func (r *MemoryResourceRepo) List(_ context.Context) ([]models.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Resource, 0, len(r.resources))
	for _, res := range r.resources {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryResourceRepo) Upsert(_ context.Context, res models.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[res.ID] = res
	return nil
}
