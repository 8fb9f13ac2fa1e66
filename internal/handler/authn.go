package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pressline/counter-api/internal/gateway"
)

// Authenticator exchanges credentials for a session token.
// Satisfied by *gateway.AuthGateway.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (gateway.LoginResult, error)
}

// AuthHandler handles the login screen.
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
// Expected to be mounted at /auth, outside the authenticated group.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login forwards credentials to the backend and returns its token verbatim.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeGatewayError(w, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
