package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction mirrors the backend's transaction ledger row.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   *uuid.UUID      `json:"order_id"`
	Type      string          `json:"type"`
	Method    string          `json:"method,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason,omitempty"`
	ActorName string          `json:"actor_name"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListTransactionsParams are the filters for List.
type ListTransactionsParams struct {
	Type      string `json:"type,omitempty"`
	Method    string `json:"method,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// TransactionGateway wraps the backend's payment/refund/credit functions.
// Payment application, refund validation and the credit ledger are entirely
// backend-side; these calls only carry intent.
type TransactionGateway struct {
	rpc Caller
}

// NewTransactionGateway creates a new TransactionGateway.
func NewTransactionGateway(rpc Caller) *TransactionGateway {
	return &TransactionGateway{rpc: rpc}
}

// List returns transactions matching the given filters.
func (g *TransactionGateway) List(ctx context.Context, token string, params ListTransactionsParams) ([]Transaction, error) {
	var out []Transaction
	if err := g.rpc.Call(ctx, token, "list_transactions", params, &out); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// RecordPayment applies a payment against an order.
func (g *TransactionGateway) RecordPayment(ctx context.Context, token string, orderID uuid.UUID, method string, amount decimal.Decimal, actor string) (Transaction, error) {
	params := map[string]interface{}{
		"order_id":   orderID,
		"method":     method,
		"amount":     amount,
		"actor_name": actor,
	}
	var out Transaction
	if err := g.rpc.Call(ctx, token, "record_payment", params, &out); err != nil {
		return Transaction{}, err
	}
	return out, nil
}

// RecordRefund records a refund against an order. The backend validates the
// refundable amount.
func (g *TransactionGateway) RecordRefund(ctx context.Context, token string, orderID uuid.UUID, amount decimal.Decimal, reason, actor string) (Transaction, error) {
	params := map[string]interface{}{
		"order_id":   orderID,
		"amount":     amount,
		"reason":     reason,
		"actor_name": actor,
	}
	var out Transaction
	if err := g.rpc.Call(ctx, token, "record_refund", params, &out); err != nil {
		return Transaction{}, err
	}
	return out, nil
}

// CustomerCredit returns a customer's current credit balance.
func (g *TransactionGateway) CustomerCredit(ctx context.Context, token string, customerID uuid.UUID) (decimal.Decimal, error) {
	var out struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := g.rpc.Call(ctx, token, "customer_credit", map[string]uuid.UUID{"customer_id": customerID}, &out); err != nil {
		return decimal.Zero, fmt.Errorf("customer credit: %w", err)
	}
	return out.Balance, nil
}
