package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/matheusrpd/gostack-desafio-09/internal/domain"
	"github.com/matheusrpd/gostack-desafio-09/internal/messaging/kafka"
	"github.com/matheusrpd/gostack-desafio-09/internal/metrics"
)

// ProductQuantity задаёт запрошенный товар и количество в новом заказе.
type ProductQuantity struct {
	ProductID string
	Quantity  int32
}

// CreateOrderInput — входные данные сценария оформления заказа.
type CreateOrderInput struct {
	CustomerID string
	Products   []ProductQuantity
}

// Service реализует сценарий оформления заказа: проверка клиента и товаров,
// списание остатков и сохранение заказа с зафиксированными ценами.
type Service struct {
	customers domain.CustomerRepository
	products  domain.ProductRepository
	orders    domain.OrderRepository
	outbox    domain.OutboxRepository
	logger    *log.Entry
	metrics   *metrics.OrderMetrics
	now       func() time.Time
}

// NewService создаёт рабочий экземпляр сценария.
func NewService(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "create-order")
	}
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		outbox:    outbox,
		logger:    logger,
		metrics:   metrics.NewOrderMetrics(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// NewServiceWithoutMetrics создаёт сценарий без метрик (для тестов).
func NewServiceWithoutMetrics(
	customers domain.CustomerRepository,
	products domain.ProductRepository,
	orders domain.OrderRepository,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	svc := NewService(customers, products, orders, outbox, logger)
	svc.metrics = nil
	return svc
}

// Execute выполняет оформление заказа. Все проверки проходят до первой
// мутации: при любой ошибке валидации ни остатки, ни заказы не меняются.
func (s *Service) Execute(input CreateOrderInput) (domain.Order, error) {
	start := time.Now()
	order, err := s.execute(input)
	if s.metrics != nil {
		s.metrics.RecordCreateDuration(time.Since(start))
		if err != nil {
			s.metrics.RecordCreateFailed(failureReason(err))
		} else {
			s.metrics.RecordCreated(len(order.Items))
		}
	}
	return order, err
}

func (s *Service) execute(input CreateOrderInput) (domain.Order, error) {
	if input.CustomerID == "" {
		return domain.Order{}, domain.ErrCustomerRequired
	}
	if len(input.Products) == 0 {
		return domain.Order{}, domain.ErrItemsRequired
	}

	customer, err := s.customers.FindByID(input.CustomerID)
	if err != nil {
		return domain.Order{}, err
	}

	// Количество проверяем до обращения к складу: нулевые и отрицательные
	// значения отбрасываются сразу.
	for _, req := range input.Products {
		if req.ProductID == "" {
			return domain.Order{}, domain.ErrItemProductRequired
		}
		if req.Quantity <= 0 {
			return domain.Order{}, domain.ErrItemQtyInvalid
		}
	}

	ids := distinctProductIDs(input.Products)
	found, err := s.products.FindAllByID(ids)
	if err != nil {
		return domain.Order{}, fmt.Errorf("find products: %w", err)
	}
	if len(found) < len(ids) {
		return domain.Order{}, domain.ErrProductNotFound
	}

	byID := make(map[string]domain.Product, len(found))
	for _, product := range found {
		byID[product.ID] = product
	}

	// Остаток сверяется с суммарным запросом по товару: один и тот же
	// товар может встретиться в нескольких позициях запроса.
	requested := make(map[string]int32, len(ids))
	for _, req := range input.Products {
		requested[req.ProductID] += req.Quantity
	}
	for _, id := range ids {
		// Нулевой остаток не обходит проверку: любой положительный
		// запрос к товару без остатка отклоняется.
		if requested[id] > byID[id].Quantity {
			return domain.Order{}, domain.ErrInvalidQuantity
		}
	}

	changes := make([]domain.QuantityChange, 0, len(ids))
	for _, id := range ids {
		changes = append(changes, domain.QuantityChange{ProductID: id, Qty: requested[id]})
	}
	if _, err := s.products.UpdateQuantity(changes); err != nil {
		return domain.Order{}, fmt.Errorf("update product quantities: %w", err)
	}

	now := s.now()
	order := domain.Order{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, req := range input.Products {
		item := domain.OrderItem{
			ID:         uuid.NewString(),
			ProductID:  req.ProductID,
			Qty:        req.Quantity,
			PriceMinor: byID[req.ProductID].PriceMinor,
			CreatedAt:  now,
		}
		order.AmountMinor += int64(item.Qty) * item.PriceMinor
		order.Items = append(order.Items, item)
	}

	if err := s.orders.Create(order); err != nil {
		// Остатки к этому моменту уже списаны; компенсации нет,
		// ошибка уходит вызывающей стороне как есть.
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.enqueueCreatedEvent(order)

	s.logger.WithFields(log.Fields{
		"order_id":     order.ID,
		"customer_id":  order.CustomerID,
		"items":        len(order.Items),
		"amount_minor": order.AmountMinor,
	}).Info("заказ создан")

	return order, nil
}

// enqueueCreatedEvent сохраняет событие order.created в outbox. Ошибка
// публикации не должна ломать уже сохранённый заказ, поэтому только логируется.
func (s *Service) enqueueCreatedEvent(order domain.Order) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(kafka.NewOrderCreatedEvent(order))
	if err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to marshal order.created event")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     string(kafka.EventTypeOrderCreated),
		Payload:       payload,
	}); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to enqueue order.created event")
	}
}

// distinctProductIDs возвращает уникальные идентификаторы в порядке первого вхождения.
func distinctProductIDs(products []ProductQuantity) []string {
	ids := make([]string, 0, len(products))
	seen := make(map[string]bool, len(products))
	for _, req := range products {
		if seen[req.ProductID] {
			continue
		}
		seen[req.ProductID] = true
		ids = append(ids, req.ProductID)
	}
	return ids
}

// failureReason переводит ошибку в метку для метрик.
func failureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrItemsRequired),
		errors.Is(err, domain.ErrItemProductRequired),
		errors.Is(err, domain.ErrItemQtyInvalid):
		return "invalid_input"
	default:
		return "storage_error"
	}
}
