package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	customersvc "github.com/matheusrpd/gostack-desafio-09/internal/service/customer"
	"github.com/matheusrpd/gostack-desafio-09/internal/service/httpapi"
	ordersvc "github.com/matheusrpd/gostack-desafio-09/internal/service/order"
	productsvc "github.com/matheusrpd/gostack-desafio-09/internal/service/product"
	"github.com/matheusrpd/gostack-desafio-09/internal/storage/memory"
)

type apiFixture struct {
	router http.Handler
}

func newAPIFixture() *apiFixture {
	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	outbox := memory.NewOutboxRepository()

	handler := httpapi.NewHandler(
		customersvc.NewService(customers, nil),
		productsvc.NewService(products, nil),
		ordersvc.NewServiceWithoutMetrics(customers, products, orders, outbox, nil),
		orders,
		nil,
	)
	return &apiFixture{router: httpapi.NewRouter(handler)}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func (f *apiFixture) createCustomer(t *testing.T, name, email string) httpapi.CustomerResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/customers", httpapi.CreateCustomerRequest{Name: name, Email: email})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create customer: status %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[httpapi.CustomerResponse](t, rec)
}

func (f *apiFixture) createProduct(t *testing.T, name string, priceMinor int64, quantity int32) httpapi.ProductResponse {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/products", httpapi.CreateProductRequest{
		Name:       name,
		PriceMinor: priceMinor,
		Quantity:   quantity,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: status %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[httpapi.ProductResponse](t, rec)
}

func TestAPI_CreateCustomer(t *testing.T) {
	f := newAPIFixture()

	customer := f.createCustomer(t, "Джон Доу", "john@example.com")
	if customer.ID == "" || customer.Email != "john@example.com" {
		t.Fatalf("unexpected customer: %+v", customer)
	}

	// Повторная регистрация с тем же email — конфликт.
	rec := f.do(t, http.MethodPost, "/customers", httpapi.CreateCustomerRequest{Name: "Джон Доу", Email: "john@example.com"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAPI_CreateCustomer_InvalidBody(t *testing.T) {
	f := newAPIFixture()

	req := httptest.NewRequest(http.MethodPost, "/customers", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodPost, "/customers", httpapi.CreateCustomerRequest{Email: "no-name@example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing name, got %d", rec.Code)
	}
}

func TestAPI_CreateProduct(t *testing.T) {
	f := newAPIFixture()

	product := f.createProduct(t, "Клавиатура", 500, 10)
	if product.ID == "" || product.PriceMinor != 500 || product.Quantity != 10 {
		t.Fatalf("unexpected product: %+v", product)
	}

	rec := f.do(t, http.MethodPost, "/products", httpapi.CreateProductRequest{Name: "Клавиатура", PriceMinor: 700, Quantity: 3})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAPI_CreateOrder_FullFlow(t *testing.T) {
	f := newAPIFixture()
	customer := f.createCustomer(t, "Джон Доу", "john@example.com")
	product := f.createProduct(t, "Клавиатура", 500, 10)

	rec := f.do(t, http.MethodPost, "/orders", httpapi.CreateOrderRequest{
		CustomerID: customer.ID,
		Products:   []httpapi.OrderProductRequestDTO{{ID: product.ID, Quantity: 3}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create order: status %d, body %s", rec.Code, rec.Body.String())
	}

	order := decode[httpapi.OrderResponse](t, rec)
	if order.CustomerID != customer.ID || order.AmountMinor != 1500 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].PriceMinor != 500 || order.Items[0].Qty != 3 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}

	// Заказ читается обратно по идентификатору.
	rec = f.do(t, http.MethodGet, "/orders/"+order.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get order: status %d", rec.Code)
	}
	fetched := decode[httpapi.OrderResponse](t, rec)
	if fetched.ID != order.ID || fetched.AmountMinor != 1500 {
		t.Fatalf("unexpected fetched order: %+v", fetched)
	}
}

func TestAPI_CreateOrder_Errors(t *testing.T) {
	f := newAPIFixture()
	customer := f.createCustomer(t, "Джон Доу", "john@example.com")
	product := f.createProduct(t, "Клавиатура", 500, 2)

	cases := []struct {
		name       string
		request    httpapi.CreateOrderRequest
		wantStatus int
		wantCode   string
	}{
		{
			name: "unknown customer",
			request: httpapi.CreateOrderRequest{
				CustomerID: "00000000-0000-0000-0000-000000000000",
				Products:   []httpapi.OrderProductRequestDTO{{ID: product.ID, Quantity: 1}},
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "customer_not_found",
		},
		{
			name: "unknown product",
			request: httpapi.CreateOrderRequest{
				CustomerID: customer.ID,
				Products:   []httpapi.OrderProductRequestDTO{{ID: "00000000-0000-0000-0000-000000000000", Quantity: 1}},
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "product_not_found",
		},
		{
			name: "insufficient stock",
			request: httpapi.CreateOrderRequest{
				CustomerID: customer.ID,
				Products:   []httpapi.OrderProductRequestDTO{{ID: product.ID, Quantity: 5}},
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "invalid_quantity",
		},
		{
			name: "zero quantity",
			request: httpapi.CreateOrderRequest{
				CustomerID: customer.ID,
				Products:   []httpapi.OrderProductRequestDTO{{ID: product.ID, Quantity: 0}},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "empty products",
			request:    httpapi.CreateOrderRequest{CustomerID: customer.ID},
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/orders", tc.request)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, rec.Code, rec.Body.String())
			}
			errResp := decode[httpapi.ErrorResponse](t, rec)
			if errResp.Code != tc.wantCode {
				t.Fatalf("expected error code %q, got %q", tc.wantCode, errResp.Code)
			}
		})
	}
}

func TestAPI_GetOrder_NotFound(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodGet, "/orders/00000000-0000-0000-0000-000000000000", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAPI_ListCustomerOrders(t *testing.T) {
	f := newAPIFixture()
	customer := f.createCustomer(t, "Джон Доу", "john@example.com")
	product := f.createProduct(t, "Клавиатура", 500, 100)

	for i := 0; i < 3; i++ {
		rec := f.do(t, http.MethodPost, "/orders", httpapi.CreateOrderRequest{
			CustomerID: customer.ID,
			Products:   []httpapi.OrderProductRequestDTO{{ID: product.ID, Quantity: 1}},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create order %d: status %d", i, rec.Code)
		}
	}

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/customers/%s/orders", customer.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list orders: status %d", rec.Code)
	}
	orders := decode[[]httpapi.OrderResponse](t, rec)
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/customers/%s/orders?limit=2", customer.ID), nil)
	orders = decode[[]httpapi.OrderResponse](t, rec)
	if len(orders) != 2 {
		t.Fatalf("expected limit 2, got %d", len(orders))
	}

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/customers/%s/orders?limit=abc", customer.ID), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/customers/00000000-0000-0000-0000-000000000000/orders", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown customer, got %d", rec.Code)
	}
}
