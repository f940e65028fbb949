package customer

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/matheusrpd/gostack-desafio-09/internal/domain"
)

// Service реализует регистрацию клиентов.
type Service struct {
	customers domain.CustomerRepository
	logger    *log.Entry
}

// NewService создаёт сервис клиентов.
func NewService(customers domain.CustomerRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "customer-service")
	}
	return &Service{customers: customers, logger: logger}
}

// Create регистрирует нового клиента. Email должен быть уникальным.
func (s *Service) Create(name, email string) (domain.Customer, error) {
	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errs := customer.ValidateInvariants(); len(errs) > 0 {
		return domain.Customer{}, errs[0]
	}

	if _, err := s.customers.FindByEmail(email); err == nil {
		return domain.Customer{}, domain.ErrCustomerExists
	} else if !errors.Is(err, domain.ErrCustomerNotFound) {
		return domain.Customer{}, fmt.Errorf("check customer email: %w", err)
	}

	if err := s.customers.Create(customer); err != nil {
		return domain.Customer{}, fmt.Errorf("create customer: %w", err)
	}

	s.logger.WithField("customer_id", customer.ID).Info("клиент зарегистрирован")
	return customer, nil
}

// Get возвращает клиента по идентификатору.
func (s *Service) Get(id string) (domain.Customer, error) {
	return s.customers.FindByID(id)
}
