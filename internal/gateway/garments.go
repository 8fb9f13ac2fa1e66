package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GarmentRecord is a garment as tracked by the backend, with enough order
// context for the lookup screen.
type GarmentRecord struct {
	OrderGarment
	OrderID      uuid.UUID `json:"order_id"`
	OrderNumber  string    `json:"order_number"`
	CustomerName string    `json:"customer_name"`
}

// GarmentGateway wraps the backend's garment tracking functions.
type GarmentGateway struct {
	rpc Caller
}

// NewGarmentGateway creates a new GarmentGateway.
func NewGarmentGateway(rpc Caller) *GarmentGateway {
	return &GarmentGateway{rpc: rpc}
}

// LookupByTag finds garments by tag id. Tags are re-used across orders, so
// this can return more than one record.
func (g *GarmentGateway) LookupByTag(ctx context.Context, token, tagID string) ([]GarmentRecord, error) {
	var out []GarmentRecord
	if err := g.rpc.Call(ctx, token, "lookup_garments", map[string]string{"tag_id": tagID}, &out); err != nil {
		return nil, fmt.Errorf("lookup garments: %w", err)
	}
	return out, nil
}

// ListByOrder returns all garments on one order.
func (g *GarmentGateway) ListByOrder(ctx context.Context, token string, orderID uuid.UUID) ([]GarmentRecord, error) {
	var out []GarmentRecord
	if err := g.rpc.Call(ctx, token, "list_order_garments", map[string]uuid.UUID{"order_id": orderID}, &out); err != nil {
		return nil, fmt.Errorf("list order garments: %w", err)
	}
	return out, nil
}

// UpdateStatus moves one garment to a new status.
func (g *GarmentGateway) UpdateStatus(ctx context.Context, token string, id uuid.UUID, status, actor string) (GarmentRecord, error) {
	params := map[string]interface{}{
		"id":         id,
		"status":     status,
		"actor_name": actor,
	}
	var out GarmentRecord
	if err := g.rpc.Call(ctx, token, "update_garment_status", params, &out); err != nil {
		return GarmentRecord{}, fmt.Errorf("update garment status: %w", err)
	}
	return out, nil
}
