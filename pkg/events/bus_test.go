package events_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/marumbi/kahawa-api/pkg/events"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := events.NewBus()

	var order []int
	bus.Subscribe(func(events.SettlementEvent) { order = append(order, 1) })
	bus.Subscribe(func(events.SettlementEvent) { order = append(order, 2) })

	bus.Publish(events.SettlementEvent{
		OrderID:    uuid.New(),
		PaidAmount: 500,
		OccurredAt: time.Now(),
	})

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("got delivery order %v, want [1 2]", order)
	}
}

func TestBusPassesEventData(t *testing.T) {
	bus := events.NewBus()
	orderID := uuid.New()
	customerID := uuid.New()

	var got events.SettlementEvent
	bus.Subscribe(func(e events.SettlementEvent) { got = e })

	bus.Publish(events.SettlementEvent{
		OrderID:     orderID,
		CustomerID:  &customerID,
		PaidAmount:  1200,
		CreditDelta: -300,
		OccurredAt:  time.Now(),
	})

	if got.OrderID != orderID {
		t.Errorf("got order ID %s, want %s", got.OrderID, orderID)
	}
	if got.CustomerID == nil || *got.CustomerID != customerID {
		t.Error("customer ID not delivered")
	}
	if got.PaidAmount != 1200 || got.CreditDelta != -300 {
		t.Errorf("got paid=%d delta=%d, want 1200/-300", got.PaidAmount, got.CreditDelta)
	}
}

func TestBusWithoutSubscribers(t *testing.T) {
	bus := events.NewBus()
	// Publishing into the void must not panic.
	bus.Publish(events.SettlementEvent{OrderID: uuid.New()})
}
