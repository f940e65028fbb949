package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/matheusrpd/gostack-desafio-09/internal/domain"
	customersvc "github.com/matheusrpd/gostack-desafio-09/internal/service/customer"
	ordersvc "github.com/matheusrpd/gostack-desafio-09/internal/service/order"
	productsvc "github.com/matheusrpd/gostack-desafio-09/internal/service/product"
)

const defaultListOrdersLimit = 100

// Handler обрабатывает HTTP-запросы магазина.
type Handler struct {
	customers *customersvc.Service
	products  *productsvc.Service
	orders    *ordersvc.Service
	orderRepo domain.OrderRepository
	logger    *log.Entry
}

// NewHandler конструирует handler с зависимостями.
func NewHandler(
	customers *customersvc.Service,
	products *productsvc.Service,
	orders *ordersvc.Service,
	orderRepo domain.OrderRepository,
	logger *log.Entry,
) *Handler {
	if logger == nil {
		logger = log.New().WithField("component", "http-api")
	}
	return &Handler{
		customers: customers,
		products:  products,
		orders:    orders,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// CreateCustomer регистрирует нового клиента.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	customer, err := h.customers.Create(req.Name, req.Email)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapCustomer(customer))
}

// CreateProduct добавляет товар в каталог.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product, err := h.products.Create(req.Name, req.PriceMinor, req.Quantity)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapProduct(product))
}

// CreateOrder оформляет заказ.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	input := ordersvc.CreateOrderInput{CustomerID: req.CustomerID}
	for _, p := range req.Products {
		input.Products = append(input.Products, ordersvc.ProductQuantity{
			ProductID: p.ID,
			Quantity:  p.Quantity,
		})
	}

	order, err := h.orders.Execute(input)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapOrder(order))
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "order_id_required", "")
		return
	}

	order, err := h.orderRepo.Get(orderID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrder(order))
}

// ListCustomerOrders возвращает историю заказов клиента.
func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "id")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id_required", "")
		return
	}

	if _, err := h.customers.Get(customerID); err != nil {
		h.writeDomainError(w, err)
		return
	}

	limit := defaultListOrdersLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	orders, err := h.orderRepo.ListByCustomer(customerID, limit)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	result := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, mapOrder(order))
	}
	writeJSON(w, http.StatusOK, result)
}

// writeDomainError переводит доменные ошибки в HTTP-статусы.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, "customer_not_found", err.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, domain.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order_not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, "invalid_quantity", err.Error())
	case errors.Is(err, domain.ErrCustomerExists):
		writeError(w, http.StatusConflict, "customer_exists", err.Error())
	case errors.Is(err, domain.ErrProductExists):
		writeError(w, http.StatusConflict, "product_exists", err.Error())
	case errors.Is(err, domain.ErrCustomerRequired),
		errors.Is(err, domain.ErrItemsRequired),
		errors.Is(err, domain.ErrItemProductRequired),
		errors.Is(err, domain.ErrItemQtyInvalid),
		errors.Is(err, domain.ErrCustomerNameRequired),
		errors.Is(err, domain.ErrCustomerEmailRequired),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrProductPriceInvalid),
		errors.Is(err, domain.ErrProductQuantityInvalid):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		h.logger.WithError(err).Error("необработанная ошибка запроса")
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
