package gateway

import (
	"context"

	"github.com/google/uuid"
)

// LoginResult is the backend's answer to a successful login. The token is a
// JWT this service re-validates on every subsequent request.
type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
		Role string    `json:"role"`
	} `json:"user"`
}

// AuthGateway forwards login to the backend; credential checks happen there.
type AuthGateway struct {
	rpc Caller
}

// NewAuthGateway creates a new AuthGateway.
func NewAuthGateway(rpc Caller) *AuthGateway {
	return &AuthGateway{rpc: rpc}
}

// Login exchanges credentials for a session token.
func (g *AuthGateway) Login(ctx context.Context, username, password string) (LoginResult, error) {
	params := map[string]string{
		"username": username,
		"password": password,
	}
	var out LoginResult
	if err := g.rpc.Call(ctx, "", "login", params, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}
