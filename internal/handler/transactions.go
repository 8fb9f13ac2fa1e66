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
	"github.com/shopspring/decimal"
)

// TransactionsGateway is the slice of the transaction gateway the payment and
// refund modals need. Satisfied by *gateway.TransactionGateway.
type TransactionsGateway interface {
	List(ctx context.Context, token string, params gateway.ListTransactionsParams) ([]gateway.Transaction, error)
	RecordPayment(ctx context.Context, token string, orderID uuid.UUID, method string, amount decimal.Decimal, actor string) (gateway.Transaction, error)
	RecordRefund(ctx context.Context, token string, orderID uuid.UUID, amount decimal.Decimal, reason, actor string) (gateway.Transaction, error)
}

// TransactionHandler handles the transaction ledger and the payment/refund
// modals on the order detail screen.
type TransactionHandler struct {
	transactions TransactionsGateway
	hub          Notifier
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions TransactionsGateway, hub Notifier) *TransactionHandler {
	return &TransactionHandler{transactions: transactions, hub: hub}
}

// RegisterRoutes registers the ledger list endpoint on the given Chi router.
// Expected to be mounted at /transactions.
func (h *TransactionHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
}

// RegisterOrderRoutes registers the payment and refund modal endpoints.
// Expected to be mounted at /orders.
func (h *TransactionHandler) RegisterOrderRoutes(r chi.Router) {
	r.Post("/{id}/payments", h.RecordPayment)
	r.Post("/{id}/refunds", h.RecordRefund)
}

type recordPaymentRequest struct {
	Method string `json:"method"`
	Amount string `json:"amount"`
}

type recordRefundRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

// List returns ledger transactions matching the screen's filters.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	params := gateway.ListTransactionsParams{
		Type:      r.URL.Query().Get("type"),
		Method:    r.URL.Query().Get("method"),
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
		Limit:     limit,
		Offset:    offset,
	}
	if params.Type != "" && !enum.ValidTransactionType(params.Type) {
		writeError(w, http.StatusBadRequest, "invalid transaction type")
		return
	}

	transactions, err := h.transactions.List(r.Context(), middleware.TokenFromContext(r.Context()), params)
	if err != nil {
		writeGatewayError(w, "list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

// RecordPayment applies a payment against an order. The backend decides
// whether the payment settles the balance; this endpoint only carries intent.
func (h *TransactionHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !enum.ValidPaymentMethod(req.Method) {
		writeError(w, http.StatusBadRequest, "invalid payment method")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	tx, err := h.transactions.RecordPayment(r.Context(), middleware.TokenFromContext(r.Context()), orderID, req.Method, amount, claims.Name)
	if err != nil {
		writeGatewayError(w, "record payment", err)
		return
	}

	h.hub.BroadcastJSON(ws.EventOrderUpdated, map[string]interface{}{
		"order_id": orderID,
	})
	writeJSON(w, http.StatusCreated, tx)
}

// RecordRefund records a refund against an order. The refundable amount is
// validated by the backend, not here.
func (h *TransactionHandler) RecordRefund(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req recordRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		writeError(w, http.StatusBadRequest, "amount must be a positive number")
		return
	}

	tx, err := h.transactions.RecordRefund(r.Context(), middleware.TokenFromContext(r.Context()), orderID, amount, req.Reason, claims.Name)
	if err != nil {
		writeGatewayError(w, "record refund", err)
		return
	}

	h.hub.BroadcastJSON(ws.EventOrderUpdated, map[string]interface{}{
		"order_id": orderID,
	})
	writeJSON(w, http.StatusCreated, tx)
}
