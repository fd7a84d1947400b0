package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Subscription struct {
	C    <-chan Event
	send chan Event
}

// Hub fans published events out to subscribers. Publish never blocks: when
// the hub buffer or a subscriber buffer is full the event is dropped for that
// receiver and a warning is logged.
type Hub struct {
	subs      map[*Subscription]struct{}
	broadcast chan Event
	mutex     sync.RWMutex
	closed    bool
	logger    *zap.Logger
	subBuffer int
}

func NewHub(logger *zap.Logger, buffer int) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 64
	}
	return &Hub{
		subs:      make(map[*Subscription]struct{}),
		broadcast: make(chan Event, buffer),
		logger:    logger,
		subBuffer: buffer,
	}
}

// Run delivers events until ctx is done. Events already buffered at that
// point are still delivered, then every subscription is closed.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.drain()
			h.shutdown()
			return
		case evt := <-h.broadcast:
			h.deliver(evt)
		}
	}
}

func (h *Hub) drain() {
	for {
		select {
		case evt := <-h.broadcast:
			h.deliver(evt)
		default:
			return
		}
	}
}

// deliver holds the read lock for the whole fan-out so Unsubscribe and
// shutdown cannot close a channel mid-send. Sends never block.
func (h *Hub) deliver(evt Event) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for s := range h.subs {
		select {
		case s.send <- evt:
		default:
			h.logger.Warn("event dropped", zap.String("reason", "subscriber_full"), zap.String("type", string(evt.Type)))
		}
	}
}

func (h *Hub) shutdown() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		close(s.send)
		delete(h.subs, s)
	}
}

// Subscribe registers a receiver. After shutdown it returns a subscription
// whose channel is already closed.
func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, h.subBuffer)
	s := &Subscription{C: ch, send: ch}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		close(ch)
		return s
	}
	h.subs[s] = struct{}{}
	return s
}

// Unsubscribe removes s and closes its channel. Calling it twice is safe.
func (h *Hub) Unsubscribe(s *Subscription) {
	if h == nil || s == nil {
		return
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.send)
	}
}

// Publish queues evt for delivery by Run.
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- evt:
	default:
		h.logger.Warn("event dropped", zap.String("reason", "buffer_full"), zap.String("type", string(evt.Type)))
	}
}

// SubscriberCount returns the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.subs)
}
