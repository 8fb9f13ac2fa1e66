package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pressline/counter-api/internal/backend"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/pressline/counter-api/internal/handler"
)

type mockAuth struct {
	username string
	err      error
}

func (m *mockAuth) Login(_ context.Context, username, password string) (gateway.LoginResult, error) {
	m.username = username
	if m.err != nil {
		return gateway.LoginResult{}, m.err
	}
	result := gateway.LoginResult{Token: "issued-token"}
	result.User.ID = uuid.New()
	result.User.Name = username
	result.User.Role = "STAFF"
	return result, nil
}

func newAuthRouter(auth *mockAuth) http.Handler {
	h := handler.NewAuthHandler(auth)
	r := chi.NewRouter()
	r.Route("/auth", h.RegisterRoutes)
	return r
}

func TestLogin(t *testing.T) {
	auth := &mockAuth{}
	router := newAuthRouter(auth)

	rec := doRequest(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "dewi", "password": "hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body)
	}
	var result gateway.LoginResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if result.Token != "issued-token" {
		t.Errorf("token = %q", result.Token)
	}
	if auth.username != "dewi" {
		t.Errorf("username forwarded = %q", auth.username)
	}
}

func TestLoginValidation(t *testing.T) {
	router := newAuthRouter(&mockAuth{})

	rec := doRequest(t, router, http.MethodPost, "/auth/login", "", map[string]string{"username": "dewi"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing password: got %d, want 400", rec.Code)
	}
}

func TestLoginBadCredentialsForwarded(t *testing.T) {
	auth := &mockAuth{err: &backend.Error{Status: http.StatusUnauthorized, Message: "invalid credentials"}}
	router := newAuthRouter(auth)

	rec := doRequest(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "dewi", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want the backend's 401: %s", rec.Code, rec.Body)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "invalid credentials" {
		t.Errorf("error = %q", body["error"])
	}
}
