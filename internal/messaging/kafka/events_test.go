package kafka

import (
	"testing"
	"time"

	"github.com/matheusrpd/gostack-desafio-09/internal/domain"
)

func TestNewOrderCreatedEvent(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	order := domain.Order{
		ID:          "order-1",
		CustomerID:  "customer-1",
		AmountMinor: 1700,
		Items: []domain.OrderItem{
			{ID: "item-1", ProductID: "product-1", Qty: 2, PriceMinor: 500},
			{ID: "item-2", ProductID: "product-2", Qty: 1, PriceMinor: 700},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	event := NewOrderCreatedEvent(order)

	if event.EventType != EventTypeOrderCreated {
		t.Fatalf("unexpected event type: %s", event.EventType)
	}
	if event.OrderID != "order-1" || event.CustomerID != "customer-1" {
		t.Fatalf("unexpected identifiers: %s / %s", event.OrderID, event.CustomerID)
	}
	if event.AmountMinor != 1700 {
		t.Fatalf("unexpected amount: %d", event.AmountMinor)
	}
	if len(event.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(event.Items))
	}
	if event.Items[0].ProductID != "product-1" || event.Items[0].Qty != 2 || event.Items[0].PriceMinor != 500 {
		t.Fatalf("unexpected first item: %+v", event.Items[0])
	}
	if event.Timestamp.IsZero() {
		t.Fatal("expected event timestamp")
	}
}
