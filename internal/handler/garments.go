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
)

// GarmentsGateway is the slice of the garment gateway the tracking screen
// needs. Satisfied by *gateway.GarmentGateway.
type GarmentsGateway interface {
	LookupByTag(ctx context.Context, token, tagID string) ([]gateway.GarmentRecord, error)
	ListByOrder(ctx context.Context, token string, orderID uuid.UUID) ([]gateway.GarmentRecord, error)
	UpdateStatus(ctx context.Context, token string, id uuid.UUID, status, actor string) (gateway.GarmentRecord, error)
}

// GarmentHandler handles the garment tracking screen.
type GarmentHandler struct {
	garments GarmentsGateway
}

// NewGarmentHandler creates a new GarmentHandler.
func NewGarmentHandler(garments GarmentsGateway) *GarmentHandler {
	return &GarmentHandler{garments: garments}
}

// RegisterRoutes registers garment endpoints on the given Chi router.
// Expected to be mounted at /garments.
func (h *GarmentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Lookup)
	r.Patch("/{id}/status", h.UpdateStatus)
}

// Lookup finds garments by tag id or lists all garments on one order,
// depending on which query parameter is present.
func (h *GarmentHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())

	if tag := r.URL.Query().Get("tag"); tag != "" {
		records, err := h.garments.LookupByTag(r.Context(), token, tag)
		if err != nil {
			writeGatewayError(w, "lookup garments", err)
			return
		}
		writeJSON(w, http.StatusOK, records)
		return
	}

	if s := r.URL.Query().Get("order_id"); s != "" {
		orderID, err := uuid.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid order ID")
			return
		}
		records, err := h.garments.ListByOrder(r.Context(), token, orderID)
		if err != nil {
			writeGatewayError(w, "list order garments", err)
			return
		}
		writeJSON(w, http.StatusOK, records)
		return
	}

	writeError(w, http.StatusBadRequest, "tag or order_id is required")
}

// UpdateStatus moves one garment to a new status.
func (h *GarmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	garmentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid garment ID")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !enum.ValidGarmentStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	record, err := h.garments.UpdateStatus(r.Context(), middleware.TokenFromContext(r.Context()), garmentID, req.Status, claims.Name)
	if err != nil {
		writeGatewayError(w, "update garment status", err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}
