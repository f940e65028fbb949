package kafka

import (
	"time"

	"github.com/matheusrpd/gostack-desafio-09/internal/domain"
)

// EventType определяет тип события.
type EventType string

const (
	EventTypeOrderCreated    EventType = "order.created"
	EventTypeCustomerCreated EventType = "customer.created"
	EventTypeProductCreated  EventType = "product.created"
)

// Topics для Kafka.
const (
	TopicOrderEvents     = "store.order.events"
	TopicDeadLetterQueue = "store.dlq" // Dead Letter Queue для failed messages
)

// OrderItemEvent — позиция заказа в составе события.
type OrderItemEvent struct {
	ProductID  string `json:"product_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
}

// OrderCreatedEvent публикуется после успешного оформления заказа.
type OrderCreatedEvent struct {
	EventType   EventType        `json:"event_type"`
	OrderID     string           `json:"order_id"`
	CustomerID  string           `json:"customer_id"`
	AmountMinor int64            `json:"amount_minor"`
	Items       []OrderItemEvent `json:"items"`
	Timestamp   time.Time        `json:"timestamp"`
}

// NewOrderCreatedEvent собирает событие из доменного заказа.
func NewOrderCreatedEvent(order domain.Order) *OrderCreatedEvent {
	items := make([]OrderItemEvent, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemEvent{
			ProductID:  item.ProductID,
			Qty:        item.Qty,
			PriceMinor: item.PriceMinor,
		})
	}
	return &OrderCreatedEvent{
		EventType:   EventTypeOrderCreated,
		OrderID:     order.ID,
		CustomerID:  order.CustomerID,
		AmountMinor: order.AmountMinor,
		Items:       items,
		Timestamp:   time.Now().UTC(),
	}
}
