// Package hub implements the in-process broadcast layer for live tracking.
// Subscribers join per-order rooms or per-customer channels and receive
// tracking events over bounded queues. Publishing never blocks: when a
// subscriber's queue is full, its oldest pending event is dropped to make
// room for the newest.
package hub

import (
	"log/slog"
	"sync"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/order"
	"tracking/internal/core/ports"
	"tracking/internal/pkg/errs"
)

// DefaultQueueSize is the per-subscriber queue capacity.
// Sixteen events absorbs a burst of location pings without letting a stalled
// reader hold a meaningful backlog.
const DefaultQueueSize = 16

// Subscription is one subscriber's handle on the hub. Read events from
// Events; call the unsubscribe function returned at subscribe time (or rely
// on hub Close) to release it. The Events channel is closed when the
// subscription ends.
type Subscription struct {
	queue chan Envelope

	mu     sync.Mutex
	closed bool

	dropped int64
}

func newSubscription(size int) *Subscription {
	return &Subscription{queue: make(chan Envelope, size)}
}

// Events returns the subscriber's event stream.
func (s *Subscription) Events() <-chan Envelope {
	return s.queue
}

// Dropped returns how many events were discarded because the subscriber
// could not keep up.
func (s *Subscription) Dropped() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// offer enqueues without blocking. When the queue is full the oldest pending
// event is discarded first, so the subscriber always converges on the latest
// state.
func (s *Subscription) offer(env Envelope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	for {
		select {
		case s.queue <- env:
			return
		default:
		}

		select {
		case <-s.queue:
			s.dropped++
		default:
		}
	}
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.queue)
}

// TrackingHub routes tracking events to live subscribers. Order rooms carry
// everything that happens to one order; customer channels carry events for
// all of a customer's orders. The hub implements ports.EventPublisher.
//
// All methods are safe for concurrent use.
type TrackingHub struct {
	logger    *slog.Logger
	queueSize int

	mu     sync.RWMutex
	closed bool

	// orders and customers are assigned once at construction and only
	// mutated in place after that. Close clears them rather than
	// reassigning, so the map headers may be read without holding mu.
	orders    map[kernel.UUID]map[*Subscription]struct{}
	customers map[kernel.UUID]map[*Subscription]struct{}
}

// Option configures a TrackingHub.
type Option func(*TrackingHub)

// WithQueueSize overrides the per-subscriber queue capacity.
func WithQueueSize(size int) Option {
	return func(h *TrackingHub) {
		if size > 0 {
			h.queueSize = size
		}
	}
}

// NewTrackingHub creates an empty hub.
func NewTrackingHub(logger *slog.Logger, opts ...Option) *TrackingHub {
	h := &TrackingHub{
		logger:    logger.With("component", "tracking_hub"),
		queueSize: DefaultQueueSize,
		orders:    make(map[kernel.UUID]map[*Subscription]struct{}),
		customers: make(map[kernel.UUID]map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SubscribeToOrder joins the room for one order. The returned unsubscribe
// function is idempotent and closes the subscription's Events channel.
func (h *TrackingHub) SubscribeToOrder(orderID kernel.UUID) (*Subscription, func(), error) {
	return h.subscribe(h.orders, orderID)
}

// SubscribeToCustomer joins the personal channel of one customer.
func (h *TrackingHub) SubscribeToCustomer(customerID kernel.UUID) (*Subscription, func(), error) {
	return h.subscribe(h.customers, customerID)
}

func (h *TrackingHub) subscribe(
	rooms map[kernel.UUID]map[*Subscription]struct{}, key kernel.UUID,
) (*Subscription, func(), error) {
	if err := key.Validate(); err != nil {
		return nil, nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, nil, errs.NewValueIsInvalidErrorWithCause("hub", ports.ErrBroadcastFailure)
	}

	sub := newSubscription(h.queueSize)
	if rooms[key] == nil {
		rooms[key] = make(map[*Subscription]struct{})
	}
	rooms[key][sub] = struct{}{}

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if members, ok := rooms[key]; ok {
				delete(members, sub)
				if len(members) == 0 {
					delete(rooms, key)
				}
			}
			h.mu.Unlock()
			sub.close()
		})
	}

	return sub, unsubscribe, nil
}

// PublishOrderEvent delivers the event to every subscriber of the order's
// room. Missing rooms are not an error: events for unwatched orders vanish.
func (h *TrackingHub) PublishOrderEvent(orderID kernel.UUID, event order.TrackingEvent) error {
	return h.publish(h.orders, orderID, orderID, event)
}

// PublishCustomerEvent delivers the event to the customer's personal channel.
func (h *TrackingHub) PublishCustomerEvent(
	customerID kernel.UUID, orderID kernel.UUID, event order.TrackingEvent,
) error {
	return h.publish(h.customers, customerID, orderID, event)
}

func (h *TrackingHub) publish(
	rooms map[kernel.UUID]map[*Subscription]struct{},
	key kernel.UUID,
	orderID kernel.UUID,
	event order.TrackingEvent,
) error {
	env, err := NewEnvelope(orderID.String(), event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ports.ErrBroadcastFailure
	}

	for sub := range rooms[key] {
		sub.offer(env)
	}

	return nil
}

// RoomSize returns the number of live subscribers in an order's room.
func (h *TrackingHub) RoomSize(orderID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.orders[orderID])
}

// Close shuts the hub down: every subscription's Events channel is closed
// and later publishes return ErrBroadcastFailure. Idempotent.
func (h *TrackingHub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true

	var subs []*Subscription
	for _, members := range h.orders {
		for sub := range members {
			subs = append(subs, sub)
		}
	}
	for _, members := range h.customers {
		for sub := range members {
			subs = append(subs, sub)
		}
	}
	clear(h.orders)
	clear(h.customers)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}

	h.logger.Info("tracking hub closed", "subscribers", len(subs))
}
