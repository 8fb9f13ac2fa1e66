package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is one row of the service catalog (wash, dry clean, press, ...).
// BasePrice is advisory for display and draft totals; the backend remains the
// pricing authority at order creation.
type Service struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	BasePrice    decimal.Decimal `json:"base_price"`
	PricingModel string          `json:"pricing_model"`
}

// CatalogGateway wraps the backend's service catalog functions.
type CatalogGateway struct {
	rpc Caller
}

// NewCatalogGateway creates a new CatalogGateway.
func NewCatalogGateway(rpc Caller) *CatalogGateway {
	return &CatalogGateway{rpc: rpc}
}

// ListServices returns the full service catalog.
func (g *CatalogGateway) ListServices(ctx context.Context, token string) ([]Service, error) {
	var out []Service
	if err := g.rpc.Call(ctx, token, "list_services", nil, &out); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return out, nil
}
