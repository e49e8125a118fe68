package notifier

import (
	"sync"

	"clinicbook/models"
	"clinicbook/utils"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Hub is an in-process fan-out broadcaster for booking events. Publish
// never blocks: a subscriber whose buffer is full simply misses the event,
// which is safe because events are refresh hints, not the source of truth.
// Clients re-resolve availability on every view refresh anyway.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan models.BookingEvent
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan models.BookingEvent)}
}

// Subscription is one subscriber's event stream. Close it when done or the
// hub keeps a channel alive for a departed client.
type Subscription struct {
	C      <-chan models.BookingEvent
	id     int
	hub    *Hub
	closed sync.Once
}

func (s *Subscription) Close() {
	s.closed.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		if ch, ok := s.hub.subs[s.id]; ok {
			delete(s.hub.subs, s.id)
			close(ch)
		}
	})
}

func (h *Hub) Subscribe() *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan models.BookingEvent, subscriberBuffer)
	h.subs[id] = ch
	return &Subscription{C: ch, id: id, hub: h}
}

func (h *Hub) Publish(ev models.BookingEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			utils.GetLogger().Debug("dropping event for slow subscriber",
				zap.String("type", string(ev.Type)), zap.String("date", ev.Date))
		}
	}
}

// SubscriberCount is used by tests and the health endpoint.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
