package services

import "sync"

// broadcastBuffer is the per-subscriber queue depth.
const broadcastBuffer = 100

// hub fans every published frame out to every subscriber. Slow
// subscribers follow the lagging-receiver policy: when a subscriber's
// bounded buffer is full, its oldest queued frame is dropped to admit
// the new one. A publish therefore never blocks, and a slow reader
// only loses its own oldest frames.
type hub struct {
	mu       sync.Mutex
	capacity int
	subs     map[*subscriber]struct{}
}

type subscriber struct {
	ch chan []byte
}

func newHub(capacity int) *hub {
	if capacity <= 0 {
		capacity = broadcastBuffer
	}
	return &hub{
		capacity: capacity,
		subs:     make(map[*subscriber]struct{}),
	}
}

func (h *hub) subscribe() *subscriber {
	s := &subscriber{ch: make(chan []byte, h.capacity)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// unsubscribe removes the subscriber and closes its channel, ending
// the outbound pump draining it. Safe to call more than once.
func (h *hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
	h.mu.Unlock()
}

// publish delivers frame to all subscribers in FIFO order relative to
// other publishes.
func (h *hub) publish(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.ch <- frame:
		default:
			// Full buffer: drop this subscriber's oldest frame.
			select {
			case <-s.ch:
			default:
			}
			select {
			case s.ch <- frame:
			default:
			}
		}
	}
}

// connCounter tracks open connections for status reporting. The
// decrement saturates at zero.
type connCounter struct {
	mu sync.Mutex
	n  int
}

func (c *connCounter) inc() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

func (c *connCounter) dec() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.n > 0 {
		c.n--
	}
	return c.n
}

func (c *connCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}
