package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/matheusrpd/gostack-desafio-09/internal/domain"
	customersvc "github.com/matheusrpd/gostack-desafio-09/internal/service/customer"
	ordersvc "github.com/matheusrpd/gostack-desafio-09/internal/service/order"
	outboxsvc "github.com/matheusrpd/gostack-desafio-09/internal/service/outbox"
	productsvc "github.com/matheusrpd/gostack-desafio-09/internal/service/product"
	"github.com/matheusrpd/gostack-desafio-09/internal/storage/memory"
)

// OrderFlowTestSuite тестирует полный сценарий магазина: регистрация клиента,
// каталог, оформление заказа и публикация события через outbox.
type OrderFlowTestSuite struct {
	suite.Suite
	customers   *customersvc.Service
	products    *productsvc.Service
	orders      *ordersvc.Service
	productRepo domain.ProductRepository
	orderRepo   domain.OrderRepository
	outboxRepo  domain.OutboxRepository
	publisher   *recordingPublisher
}

func (suite *OrderFlowTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	customerRepo := memory.NewCustomerRepository()
	suite.productRepo = memory.NewProductRepository()
	suite.orderRepo = memory.NewOrderRepository()
	suite.outboxRepo = memory.NewOutboxRepository()
	suite.publisher = &recordingPublisher{}

	suite.customers = customersvc.NewService(customerRepo, logger)
	suite.products = productsvc.NewService(suite.productRepo, logger)
	suite.orders = ordersvc.NewServiceWithoutMetrics(
		customerRepo,
		suite.productRepo,
		suite.orderRepo,
		suite.outboxRepo,
		logger,
	)
}

func (suite *OrderFlowTestSuite) TestSuccessfulOrderFlow() {
	// 1. Регистрируем клиента и наполняем каталог
	customer, err := suite.customers.Create("Джон Доу", "john@example.com")
	require.NoError(suite.T(), err)

	laptop, err := suite.products.Create("laptop-pro", 199900, 5)
	require.NoError(suite.T(), err)
	mouse, err := suite.products.Create("mouse-wireless", 4999, 10)
	require.NoError(suite.T(), err)

	// 2. Оформляем заказ
	order, err := suite.orders.Execute(ordersvc.CreateOrderInput{
		CustomerID: customer.ID,
		Products: []ordersvc.ProductQuantity{
			{ProductID: laptop.ID, Quantity: 1},
			{ProductID: mouse.ID, Quantity: 2},
		},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int64(209898), order.AmountMinor) // $1999 + 2*$49.99
	require.Len(suite.T(), order.Items, 2)

	// 3. Остатки списаны
	found, err := suite.productRepo.FindAllByID([]string{laptop.ID, mouse.ID})
	require.NoError(suite.T(), err)
	byID := map[string]domain.Product{}
	for _, p := range found {
		byID[p.ID] = p
	}
	require.Equal(suite.T(), int32(4), byID[laptop.ID].Quantity)
	require.Equal(suite.T(), int32(8), byID[mouse.ID].Quantity)

	// 4. Заказ сохранён и читается из хранилища
	persisted, err := suite.orderRepo.Get(order.ID)
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), customer.ID, persisted.CustomerID)

	// 5. Outbox worker публикует событие order.created
	worker := outboxsvc.NewWorker(
		suite.outboxRepo,
		suite.publisher,
		outboxsvc.WithRetryBaseDelay(0),
	)
	worker.ProcessOnce(context.Background())

	published := suite.publisher.published()
	require.Len(suite.T(), published, 1)
	require.Equal(suite.T(), order.ID, published[0].AggregateID)
	require.Equal(suite.T(), "order.created", published[0].EventType)

	// После публикации backlog пуст
	stats, err := suite.outboxRepo.Stats()
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 0, stats.PendingCount)
}

func (suite *OrderFlowTestSuite) TestFailedOrderLeavesNoTraces() {
	customer, err := suite.customers.Create("Джейн Доу", "jane@example.com")
	require.NoError(suite.T(), err)

	product, err := suite.products.Create("headphones", 700, 1)
	require.NoError(suite.T(), err)

	_, err = suite.orders.Execute(ordersvc.CreateOrderInput{
		CustomerID: customer.ID,
		Products:   []ordersvc.ProductQuantity{{ProductID: product.ID, Quantity: 3}},
	})
	require.ErrorIs(suite.T(), err, domain.ErrInvalidQuantity)

	// Остаток не изменился
	found, err := suite.productRepo.FindAllByID([]string{product.ID})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), int32(1), found[0].Quantity)

	// Ни заказов, ни событий
	history, err := suite.orderRepo.ListByCustomer(customer.ID, 0)
	require.NoError(suite.T(), err)
	require.Empty(suite.T(), history)

	stats, err := suite.outboxRepo.Stats()
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), 0, stats.PendingCount)
}

func (suite *OrderFlowTestSuite) TestOutboxRetriesTransientPublishError() {
	customer, err := suite.customers.Create("Боб", "bob@example.com")
	require.NoError(suite.T(), err)
	product, err := suite.products.Create("keyboard", 500, 10)
	require.NoError(suite.T(), err)

	order, err := suite.orders.Execute(ordersvc.CreateOrderInput{
		CustomerID: customer.ID,
		Products:   []ordersvc.ProductQuantity{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(suite.T(), err)

	// Первые две попытки падают, третья проходит
	suite.publisher.failures = []error{
		errors.New("broker unavailable"),
		errors.New("broker unavailable"),
	}

	worker := outboxsvc.NewWorker(
		suite.outboxRepo,
		suite.publisher,
		outboxsvc.WithRetryBaseDelay(time.Millisecond),
		outboxsvc.WithMaxAttempts(3),
	)
	worker.ProcessOnce(context.Background())

	published := suite.publisher.published()
	require.Len(suite.T(), published, 1)
	require.Equal(suite.T(), order.ID, published[0].AggregateID)
}

type recordingPublisher struct {
	mu       sync.Mutex
	failures []error
	events   []domain.OutboxMessage
}

func (p *recordingPublisher) Publish(event domain.OutboxMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		return err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []domain.OutboxMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.OutboxMessage(nil), p.events...)
}

var _ domain.OutboxPublisher = (*recordingPublisher)(nil)

func TestOrderFlow(t *testing.T) {
	suite.Run(t, new(OrderFlowTestSuite))
}
