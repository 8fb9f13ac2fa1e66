package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pressline/counter-api/internal/enum"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/pressline/counter-api/internal/middleware"
	"github.com/pressline/counter-api/internal/ws"
)

// OrdersGateway is the slice of the order gateway the list/detail screens and
// status modals need. Satisfied by *gateway.OrderGateway.
type OrdersGateway interface {
	List(ctx context.Context, token string, params gateway.ListOrdersParams) ([]gateway.Order, error)
	Get(ctx context.Context, token string, id uuid.UUID) (gateway.OrderDetail, error)
	UpdateStatus(ctx context.Context, token string, id uuid.UUID, status, actor string) (gateway.Order, error)
	BulkUpdateStatus(ctx context.Context, token string, ids []uuid.UUID, status, actor string) (int, error)
	Cancel(ctx context.Context, token string, id uuid.UUID, reason, actor string) (gateway.Order, error)
}

// OrderHandler handles the orders screen and its action modals.
type OrderHandler struct {
	orders OrdersGateway
	hub    Notifier
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders OrdersGateway, hub Notifier) *OrderHandler {
	return &OrderHandler{orders: orders, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
// Expected to be mounted at /orders.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/bulk-status", h.BulkUpdateStatus)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/status", h.UpdateStatus)
		r.Delete("/", h.Cancel)
	})
}

// --- Request types ---

type updateStatusRequest struct {
	Status string `json:"status"`
}

type bulkStatusRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Status string      `json:"status"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// --- Handlers ---

// List returns orders matching the screen's filters.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	params := gateway.ListOrdersParams{
		Status:    r.URL.Query().Get("status"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		Limit:     limit,
		Offset:    offset,
	}
	if params.Status != "" && !enum.ValidOrderStatus(params.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if s := r.URL.Query().Get("customer_id"); s != "" {
		cid, err := uuid.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid customer ID")
			return
		}
		params.CustomerID = &cid
	}

	orders, err := h.orders.List(r.Context(), middleware.TokenFromContext(r.Context()), params)
	if err != nil {
		writeGatewayError(w, "list orders", err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Get returns a single order with items and garments.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.orders.Get(r.Context(), middleware.TokenFromContext(r.Context()), orderID)
	if err != nil {
		writeGatewayError(w, "get order", err)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles the status modal for a single order.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !enum.ValidOrderStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), middleware.TokenFromContext(r.Context()), orderID, req.Status, claims.Name)
	if err != nil {
		writeGatewayError(w, "update order status", err)
		return
	}

	h.hub.BroadcastJSON(ws.EventOrderUpdated, map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	})
	writeJSON(w, http.StatusOK, order)
}

// BulkUpdateStatus handles the bulk status modal.
func (h *OrderHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req bulkStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids are required")
		return
	}
	if !enum.ValidOrderStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	updated, err := h.orders.BulkUpdateStatus(r.Context(), middleware.TokenFromContext(r.Context()), req.IDs, req.Status, claims.Name)
	if err != nil {
		writeGatewayError(w, "bulk update order status", err)
		return
	}

	h.hub.BroadcastJSON(ws.EventOrderUpdated, map[string]interface{}{
		"order_ids": req.IDs,
		"status":    req.Status,
	})
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// Cancel handles the cancel modal.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}

	order, err := h.orders.Cancel(r.Context(), middleware.TokenFromContext(r.Context()), orderID, req.Reason, claims.Name)
	if err != nil {
		writeGatewayError(w, "cancel order", err)
		return
	}

	h.hub.BroadcastJSON(ws.EventOrderCancelled, map[string]interface{}{
		"order_id": order.ID,
		"reason":   req.Reason,
	})
	writeJSON(w, http.StatusOK, order)
}
