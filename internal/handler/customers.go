package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/pressline/counter-api/internal/middleware"
	"github.com/shopspring/decimal"
)

// CustomersGateway is the slice of the customer gateway the customers screen
// needs. Satisfied by *gateway.CustomerGateway.
type CustomersGateway interface {
	List(ctx context.Context, token string, params gateway.ListCustomersParams) ([]gateway.Customer, error)
	Get(ctx context.Context, token string, id uuid.UUID) (gateway.Customer, error)
	Create(ctx context.Context, token string, params gateway.CreateCustomerParams) (gateway.Customer, error)
	Update(ctx context.Context, token string, params gateway.UpdateCustomerParams) (gateway.Customer, error)
	Deactivate(ctx context.Context, token string, id uuid.UUID) error
}

// CreditReader reports a customer's credit balance.
// Satisfied by *gateway.TransactionGateway.
type CreditReader interface {
	CustomerCredit(ctx context.Context, token string, customerID uuid.UUID) (decimal.Decimal, error)
}

// CustomerHandler handles the customers screen.
type CustomerHandler struct {
	customers CustomersGateway
	orders    OrdersGateway
	credit    CreditReader
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customers CustomersGateway, orders OrdersGateway, credit CreditReader) *CustomerHandler {
	return &CustomerHandler{customers: customers, orders: orders, credit: credit}
}

// RegisterRoutes registers customer endpoints on the given Chi router.
// Expected to be mounted at /customers.
func (h *CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Update)
		r.Delete("/", h.Deactivate)
		r.Get("/orders", h.Orders)
		r.Get("/credit", h.Credit)
	})
}

// List returns customers, optionally filtered by search query.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	customers, err := h.customers.List(r.Context(), middleware.TokenFromContext(r.Context()), gateway.ListCustomersParams{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeGatewayError(w, "list customers", err)
		return
	}

	writeJSON(w, http.StatusOK, customers)
}

// Get returns a single customer by id.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	customer, err := h.customers.Get(r.Context(), middleware.TokenFromContext(r.Context()), customerID)
	if err != nil {
		writeGatewayError(w, "get customer", err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// Create registers a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	customer, err := h.customers.Create(r.Context(), middleware.TokenFromContext(r.Context()), gateway.CreateCustomerParams{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeGatewayError(w, "create customer", err)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}

// Update modifies an existing customer.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	customer, err := h.customers.Update(r.Context(), middleware.TokenFromContext(r.Context()), gateway.UpdateCustomerParams{
		ID:          customerID,
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeGatewayError(w, "update customer", err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

// Deactivate soft-deletes a customer.
func (h *CustomerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	if err := h.customers.Deactivate(r.Context(), middleware.TokenFromContext(r.Context()), customerID); err != nil {
		writeGatewayError(w, "deactivate customer", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Orders returns a customer's order history.
func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	limit, offset := parsePagination(r)

	orders, err := h.orders.List(r.Context(), middleware.TokenFromContext(r.Context()), gateway.ListOrdersParams{
		CustomerID: &customerID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeGatewayError(w, "list customer orders", err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Credit returns a customer's current credit balance.
func (h *CustomerHandler) Credit(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer ID")
		return
	}

	balance, err := h.credit.CustomerCredit(r.Context(), middleware.TokenFromContext(r.Context()), customerID)
	if err != nil {
		writeGatewayError(w, "customer credit", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"balance": balance})
}
