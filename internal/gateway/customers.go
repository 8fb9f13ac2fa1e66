package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Customer mirrors the backend's customer record.
type Customer struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       *string   `json:"email"`
	Preferences *string   `json:"preferences"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerGateway wraps the backend's customer functions.
type CustomerGateway struct {
	rpc Caller
}

// NewCustomerGateway creates a new CustomerGateway.
func NewCustomerGateway(rpc Caller) *CustomerGateway {
	return &CustomerGateway{rpc: rpc}
}

// ListCustomersParams are the filters for List. Search is a case-insensitive
// substring match applied by the backend across name, phone and email.
type ListCustomersParams struct {
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// CreateCustomerParams is the input for Create.
type CreateCustomerParams struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Preferences string `json:"preferences,omitempty"`
}

// UpdateCustomerParams is the input for Update.
type UpdateCustomerParams struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	Preferences string    `json:"preferences,omitempty"`
}

// List returns customers matching the given filters.
func (g *CustomerGateway) List(ctx context.Context, token string, params ListCustomersParams) ([]Customer, error) {
	var out []Customer
	if err := g.rpc.Call(ctx, token, "list_customers", params, &out); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return out, nil
}

// Get returns a single customer by id.
func (g *CustomerGateway) Get(ctx context.Context, token string, id uuid.UUID) (Customer, error) {
	var out Customer
	if err := g.rpc.Call(ctx, token, "get_customer", map[string]uuid.UUID{"id": id}, &out); err != nil {
		return Customer{}, fmt.Errorf("get customer: %w", err)
	}
	return out, nil
}

// Create registers a new customer.
func (g *CustomerGateway) Create(ctx context.Context, token string, params CreateCustomerParams) (Customer, error) {
	var out Customer
	if err := g.rpc.Call(ctx, token, "create_customer", params, &out); err != nil {
		return Customer{}, fmt.Errorf("create customer: %w", err)
	}
	return out, nil
}

// Update modifies an existing customer.
func (g *CustomerGateway) Update(ctx context.Context, token string, params UpdateCustomerParams) (Customer, error) {
	var out Customer
	if err := g.rpc.Call(ctx, token, "update_customer", params, &out); err != nil {
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return out, nil
}

// Deactivate soft-deletes a customer.
func (g *CustomerGateway) Deactivate(ctx context.Context, token string, id uuid.UUID) error {
	if err := g.rpc.Call(ctx, token, "deactivate_customer", map[string]uuid.UUID{"id": id}, nil); err != nil {
		return fmt.Errorf("deactivate customer: %w", err)
	}
	return nil
}
