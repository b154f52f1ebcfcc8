package events

import "sync"

// Each subscriber gets a small buffer; a client that cannot drain fast enough
// loses events rather than stalling the mutation that published them. The
// periodic notification digest rebroadcasts unread counts, so dropped badge
// updates heal within the staleness bound.
const subscriberBuffer = 10

// Hub fans serialized event envelopes (vacancy updates, candidate moves,
// application submissions, notification digests) out to connected SSE
// clients.
type Hub struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	delete(h.subs, ch)
	h.mu.Unlock()
	close(ch)
}

// Publish never blocks: delivery to a full subscriber is skipped.
func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
