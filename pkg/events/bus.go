package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SettlementEvent is published whenever an order settles (full payment, partial
// payment, credit grant or credit repayment). Read models subscribe to it instead
// of holding a reference back to any caller.
type SettlementEvent struct {
	OrderID     uuid.UUID
	CustomerID  *uuid.UUID
	PaidAmount  int64
	CreditDelta int64
	OccurredAt  time.Time
}

// Handler consumes a settlement event. Handlers must be non-blocking; anything
// slow should hand off to its own goroutine.
type Handler func(SettlementEvent)

// Bus is a minimal in-process publish/subscribe channel for settlement events.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future settlement events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber synchronously, in
// subscription order.
func (b *Bus) Publish(e SettlementEvent) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
