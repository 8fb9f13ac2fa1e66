package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderGarment is a tracked garment attached to an order item.
type OrderGarment struct {
	ID          uuid.UUID `json:"id"`
	TagID       string    `json:"tag_id"`
	Description string    `json:"description"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
}

// OrderItem is one service line on a persisted order.
type OrderItem struct {
	ID          uuid.UUID       `json:"id"`
	ServiceID   uuid.UUID       `json:"service_id"`
	ServiceName string          `json:"service_name"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Garments    []OrderGarment  `json:"garments"`
}

// Order mirrors the backend's order record.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Status       string          `json:"status"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	Notes        string          `json:"notes,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderDetail is an order with its items and garments.
type OrderDetail struct {
	Order
	Items []OrderItem `json:"items"`
}

// CreateOrderGarment is a garment draft sent with a new order.
// The local draft id is not sent; the backend assigns identity.
type CreateOrderGarment struct {
	TagID       string `json:"tag_id"`
	Description string `json:"description"`
	Notes       string `json:"notes,omitempty"`
}

// CreateOrderItem is one service line sent with a new order. Price is never
// sent; the backend prices every line itself.
type CreateOrderItem struct {
	ServiceID uuid.UUID            `json:"service_id"`
	Quantity  int32                `json:"quantity"`
	Garments  []CreateOrderGarment `json:"garments"`
}

// CreateOrderParams is the input for Create.
type CreateOrderParams struct {
	CustomerID    uuid.UUID         `json:"customer_id"`
	Items         []CreateOrderItem `json:"items"`
	PaymentOption string            `json:"payment_option"`
	PaymentMethod *string           `json:"payment_method"`
	AmountPaid    decimal.Decimal   `json:"amount_paid"`
	ActorName     string            `json:"actor_name"`
}

// CreateOrderResult is the backend's answer to a successful order creation.
type CreateOrderResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	InvoiceID   uuid.UUID       `json:"invoice_id"`
	OrderNumber string          `json:"order_number"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// ListOrdersParams are the filters for List.
type ListOrdersParams struct {
	Status     string     `json:"status,omitempty"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	StartDate  string     `json:"start_date,omitempty"`
	EndDate    string     `json:"end_date,omitempty"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}

// OrderGateway wraps the backend's order functions.
type OrderGateway struct {
	rpc Caller
}

// NewOrderGateway creates a new OrderGateway.
func NewOrderGateway(rpc Caller) *OrderGateway {
	return &OrderGateway{rpc: rpc}
}

// Create finalizes a draft into a persisted order. Pricing, payment
// application and ledger effects all happen on the backend.
func (g *OrderGateway) Create(ctx context.Context, token string, params CreateOrderParams) (CreateOrderResult, error) {
	var out CreateOrderResult
	if err := g.rpc.Call(ctx, token, "create_order", params, &out); err != nil {
		return CreateOrderResult{}, err
	}
	return out, nil
}

// List returns orders matching the given filters.
func (g *OrderGateway) List(ctx context.Context, token string, params ListOrdersParams) ([]Order, error) {
	var out []Order
	if err := g.rpc.Call(ctx, token, "list_orders", params, &out); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return out, nil
}

// Get returns a single order with items and garments.
func (g *OrderGateway) Get(ctx context.Context, token string, id uuid.UUID) (OrderDetail, error) {
	var out OrderDetail
	if err := g.rpc.Call(ctx, token, "get_order", map[string]uuid.UUID{"id": id}, &out); err != nil {
		return OrderDetail{}, fmt.Errorf("get order: %w", err)
	}
	return out, nil
}

// UpdateStatus moves one order to a new status.
func (g *OrderGateway) UpdateStatus(ctx context.Context, token string, id uuid.UUID, status, actor string) (Order, error) {
	params := map[string]interface{}{
		"id":         id,
		"status":     status,
		"actor_name": actor,
	}
	var out Order
	if err := g.rpc.Call(ctx, token, "update_order_status", params, &out); err != nil {
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	return out, nil
}

// BulkUpdateStatus moves several orders to a new status in one call.
// Returns the number of orders the backend actually updated.
func (g *OrderGateway) BulkUpdateStatus(ctx context.Context, token string, ids []uuid.UUID, status, actor string) (int, error) {
	params := map[string]interface{}{
		"ids":        ids,
		"status":     status,
		"actor_name": actor,
	}
	var out struct {
		Updated int `json:"updated"`
	}
	if err := g.rpc.Call(ctx, token, "bulk_update_order_status", params, &out); err != nil {
		return 0, fmt.Errorf("bulk update order status: %w", err)
	}
	return out.Updated, nil
}

// Cancel cancels an order with a reason.
func (g *OrderGateway) Cancel(ctx context.Context, token string, id uuid.UUID, reason, actor string) (Order, error) {
	params := map[string]interface{}{
		"id":         id,
		"reason":     reason,
		"actor_name": actor,
	}
	var out Order
	if err := g.rpc.Call(ctx, token, "cancel_order", params, &out); err != nil {
		return Order{}, fmt.Errorf("cancel order: %w", err)
	}
	return out, nil
}
