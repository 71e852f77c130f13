package realtime

import (
	"sync"

	"github.com/inkhaus/studio-app/models"
	"github.com/inkhaus/studio-app/utils"
)

// Event is the wire shape pushed to WebSocket clients.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const EventNewMessage = "new_message"

// Handler receives one newly inserted message per call.
type Handler func(models.Message)

const subscriptionBuffer = 32

// Subscription is one live listener on a booking's messages. Deliveries are
// buffered so a slow consumer never blocks the publisher; a consumer that
// falls a full buffer behind is disconnected rather than silently missing
// messages.
type Subscription struct {
	hub       *Hub
	bookingID uint
	ch        chan models.Message
	done      chan struct{}
	once      sync.Once
}

// Done is closed when the subscription ends, whether by Unsubscribe or by the
// hub disconnecting a consumer that fell behind. Transports watch it to tear
// their connection down so the loss is visible to the client.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Unsubscribe removes the subscription. Safe to call more than once; calls
// after the first are no-ops.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
	})
}

// Hub fans newly created messages out to per-booking subscribers. It keeps no
// state between deliveries.
type Hub struct {
	mu   sync.Mutex
	subs map[uint]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[uint]map[*Subscription]struct{}),
	}
}

// Subscribe registers a handler for inserts on one booking's messages.
func (h *Hub) Subscribe(bookingID uint, fn Handler) *Subscription {
	sub := &Subscription{
		hub:       h,
		bookingID: bookingID,
		ch:        make(chan models.Message, subscriptionBuffer),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	if h.subs[bookingID] == nil {
		h.subs[bookingID] = make(map[*Subscription]struct{})
	}
	h.subs[bookingID][sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		for {
			select {
			case msg := <-sub.ch:
				fn(msg)
			case <-sub.done:
				return
			}
		}
	}()

	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.bookingID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.bookingID)
		}
	}
}

// Publish delivers a created message row to every subscriber of its booking.
// Subscribers whose buffer is full are disconnected outside the lock.
func (h *Hub) Publish(msg models.Message) {
	var slow []*Subscription

	h.mu.Lock()
	for sub := range h.subs[msg.BookingID] {
		select {
		case sub.ch <- msg:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range slow {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("disconnecting slow subscriber on booking %d", msg.BookingID)
		}
		sub.Unsubscribe()
	}
}
