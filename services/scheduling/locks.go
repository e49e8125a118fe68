package scheduling

import "sync"

// resourceLocks hands out one mutex per resource id so booking writes for
// the same doctor serialize while different doctors proceed in parallel.
type resourceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newResourceLocks() *resourceLocks {
	return &resourceLocks{locks: make(map[string]*sync.Mutex)}
}

func (s *resourceLocks) get(resourceID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, exists := s.locks[resourceID]
	if !exists {
		lock = &sync.Mutex{}
		s.locks[resourceID] = lock
	}
	return lock
}
