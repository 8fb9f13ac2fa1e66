package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pressline/counter-api/internal/draft"
	"github.com/pressline/counter-api/internal/enum"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/pressline/counter-api/internal/middleware"
	"github.com/pressline/counter-api/internal/ws"
	"github.com/shopspring/decimal"
)

// CustomerDirectory is the slice of the customer gateway the wizard needs.
type CustomerDirectory interface {
	List(ctx context.Context, token string, params gateway.ListCustomersParams) ([]gateway.Customer, error)
	Create(ctx context.Context, token string, params gateway.CreateCustomerParams) (gateway.Customer, error)
}

// CatalogSource lists the service catalog.
// Satisfied by *catalogcache.Catalog.
type CatalogSource interface {
	ListServices(ctx context.Context, token string) ([]gateway.Service, error)
}

// Notifier pushes events to connected counter screens.
// Satisfied by *ws.Hub.
type Notifier interface {
	BroadcastJSON(eventType string, payload interface{})
}

// WizardHandler drives the three-step order intake flow. The draft store is
// the single source of truth; every endpoint answers with a fresh snapshot so
// the screen never derives state of its own.
type WizardHandler struct {
	drafts    *draft.Store
	customers CustomerDirectory
	catalog   CatalogSource
	orders    draft.OrderCreator
	hub       Notifier
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(drafts *draft.Store, customers CustomerDirectory, catalog CatalogSource, orders draft.OrderCreator, hub Notifier) *WizardHandler {
	return &WizardHandler{drafts: drafts, customers: customers, catalog: catalog, orders: orders, hub: hub}
}

// RegisterRoutes registers intake endpoints on the given Chi router.
// Expected to be mounted at /intake.
func (h *WizardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/draft", h.GetDraft)
	r.Post("/draft/reset", h.Reset)
	r.Post("/draft/next", h.Next)
	r.Post("/draft/prev", h.Prev)
	r.Post("/draft/step", h.GoToStep)

	// Step 1: customer selection
	r.Get("/customers", h.SearchCustomers)
	r.Post("/customers", h.CreateCustomer)
	r.Post("/draft/customer", h.SelectCustomer)

	// Step 2: service & garment composition
	r.Get("/services", h.ListServices)
	r.Post("/draft/items", h.AddItem)
	r.Route("/draft/items/{sid}", func(r chi.Router) {
		r.Patch("/", h.UpdateItemQuantity)
		r.Delete("/", h.RemoveItem)
		r.Put("/garments", h.ReplaceGarments)
		r.Post("/garments", h.AddGarment)
		r.Patch("/garments/{gid}", h.UpdateGarment)
		r.Delete("/garments/{gid}", h.RemoveGarment)
	})

	// Step 3: payment & submission
	r.Post("/draft/submit", h.Submit)
}

// sessionDraft returns the caller's draft, keyed by the authenticated user.
func (h *WizardHandler) sessionDraft(r *http.Request) *draft.Draft {
	claims := middleware.ClaimsFromContext(r.Context())
	return h.drafts.Get(claims.UserID.String())
}

// --- Request types ---

type selectCustomerRequest struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Email string    `json:"email"`
}

type createCustomerRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Preferences string `json:"preferences"`
}

type addItemRequest struct {
	ServiceID uuid.UUID `json:"service_id"`
	Quantity  int32     `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type garmentRequest struct {
	TagID       string `json:"tag_id"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

type goToStepRequest struct {
	Step int `json:"step"`
}

type submitRequest struct {
	Option string `json:"option"`
	Method string `json:"method"`
	Amount string `json:"amount"`
}

// --- Navigation ---

// GetDraft returns the current draft snapshot.
func (h *WizardHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessionDraft(r).Snapshot())
}

// Reset discards the draft; the snapshot comes back at step 1.
func (h *WizardHandler) Reset(w http.ResponseWriter, r *http.Request) {
	d := h.sessionDraft(r)
	d.Reset()
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// Next advances one step. Readiness gates live here, not in the draft:
// step 1 needs a chosen customer, step 2 at least one item.
func (h *WizardHandler) Next(w http.ResponseWriter, r *http.Request) {
	d := h.sessionDraft(r)

	switch d.Step() {
	case 1:
		if d.Customer() == nil {
			writeError(w, http.StatusBadRequest, "select a customer first")
			return
		}
	case 2:
		if d.ItemCount() == 0 {
			writeError(w, http.StatusBadRequest, "add at least one service first")
			return
		}
	}

	d.NextStep()
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// Prev goes back one step; going back is never gated.
func (h *WizardHandler) Prev(w http.ResponseWriter, r *http.Request) {
	d := h.sessionDraft(r)
	d.PrevStep()
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// GoToStep jumps directly to a step. No gate checks happen here; callers that
// skip ahead get whatever validation failure submission produces later.
func (h *WizardHandler) GoToStep(w http.ResponseWriter, r *http.Request) {
	var req goToStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d := h.sessionDraft(r)
	d.GoToStep(req.Step)
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// --- Step 1: customer selection ---

// SearchCustomers forwards the step 1 search box to the backend. The backend
// matches the term as a case-insensitive substring across name, phone and
// email, any field qualifying.
func (h *WizardHandler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	customers, err := h.customers.List(r.Context(), middleware.TokenFromContext(r.Context()), gateway.ListCustomersParams{
		Search: r.URL.Query().Get("search"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeGatewayError(w, "search customers", err)
		return
	}

	writeJSON(w, http.StatusOK, customers)
}

// SelectCustomer sets the draft's customer wholesale from a search result.
func (h *WizardHandler) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	var req selectCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.ID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "customer id is required")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "customer name is required")
		return
	}

	d := h.sessionDraft(r)
	d.SetCustomer(draft.CustomerRef{
		ID:    req.ID,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// CreateCustomer creates a customer inline, auto-selects it and advances the
// wizard to step 2.
func (h *WizardHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}

	customer, err := h.customers.Create(r.Context(), middleware.TokenFromContext(r.Context()), gateway.CreateCustomerParams{
		Name:        req.Name,
		Phone:       req.Phone,
		Email:       req.Email,
		Preferences: req.Preferences,
	})
	if err != nil {
		writeGatewayError(w, "create customer", err)
		return
	}

	d := h.sessionDraft(r)
	ref := draft.CustomerRef{ID: customer.ID, Name: customer.Name, Phone: customer.Phone}
	if customer.Email != nil {
		ref.Email = *customer.Email
	}
	d.SetCustomer(ref)
	d.GoToStep(2)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"customer": customer,
		"draft":    d.Snapshot(),
	})
}

// --- Step 2: service & garment composition ---

// ListServices returns the catalog for the step 2 picker.
func (h *WizardHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context(), middleware.TokenFromContext(r.Context()))
	if err != nil {
		writeGatewayError(w, "list services", err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// AddItem copies a pending quantity from a catalog row into the draft. The
// row is resolved from the catalog so the draft carries the catalog's price
// and pricing model, never a client-supplied one.
func (h *WizardHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}

	services, err := h.catalog.ListServices(r.Context(), middleware.TokenFromContext(r.Context()))
	if err != nil {
		writeGatewayError(w, "list services", err)
		return
	}

	var service *gateway.Service
	for i := range services {
		if services[i].ID == req.ServiceID {
			service = &services[i]
			break
		}
	}
	if service == nil {
		writeError(w, http.StatusNotFound, "service not found in catalog")
		return
	}

	d := h.sessionDraft(r)
	d.AddItem(draft.LineItem{
		ServiceID:    service.ID,
		ServiceName:  service.Name,
		Quantity:     req.Quantity,
		UnitPrice:    service.BasePrice,
		PricingModel: service.PricingModel,
	})
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// UpdateItemQuantity replaces one item's quantity; zero removes the item.
func (h *WizardHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service ID")
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d := h.sessionDraft(r)
	d.UpdateItemQuantity(serviceID, req.Quantity)
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// RemoveItem drops one item from the draft.
func (h *WizardHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service ID")
		return
	}

	d := h.sessionDraft(r)
	d.RemoveItem(serviceID)
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// ReplaceGarments replaces one item's garment list wholesale.
func (h *WizardHandler) ReplaceGarments(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service ID")
		return
	}

	var req []garmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	garments := make([]draft.Garment, len(req))
	for i, g := range req {
		garments[i] = draft.NewGarment(g.TagID, g.Description, g.Notes)
	}

	d := h.sessionDraft(r)
	if err := d.UpdateItemGarments(serviceID, garments); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// AddGarment appends one garment to an item.
func (h *WizardHandler) AddGarment(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service ID")
		return
	}

	var req garmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d := h.sessionDraft(r)
	if _, err := d.AddGarment(serviceID, draft.NewGarment(req.TagID, req.Description, req.Notes)); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// UpdateGarment edits one garment, keyed by its draft-local id.
func (h *WizardHandler) UpdateGarment(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service ID")
		return
	}
	garmentID, err := uuid.Parse(chi.URLParam(r, "gid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid garment ID")
		return
	}

	var req garmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d := h.sessionDraft(r)
	if err := d.UpdateGarment(serviceID, garmentID, req.TagID, req.Description, req.Notes); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// RemoveGarment drops one garment, keyed by its draft-local id.
func (h *WizardHandler) RemoveGarment(w http.ResponseWriter, r *http.Request) {
	serviceID, err := uuid.Parse(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service ID")
		return
	}
	garmentID, err := uuid.Parse(chi.URLParam(r, "gid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid garment ID")
		return
	}

	d := h.sessionDraft(r)
	if err := d.RemoveGarment(serviceID, garmentID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// --- Step 3: payment & submission ---

// Submit finalizes the draft. The amount defaults to the computed total when
// omitted; the acting persona comes from the authenticated session and is
// passed to the draft explicitly.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !enum.ValidPaymentOption(req.Option) {
		writeError(w, http.StatusBadRequest, "invalid payment option")
		return
	}

	d := h.sessionDraft(r)

	amount := d.TotalAmount()
	if req.Amount != "" {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil || parsed.IsNegative() {
			writeError(w, http.StatusBadRequest, "invalid amount")
			return
		}
		amount = parsed
	}

	err := d.SubmitOrder(r.Context(), h.orders, middleware.TokenFromContext(r.Context()), claims.Name, req.Option, req.Method, amount)
	if err != nil {
		switch {
		case errors.Is(err, draft.ErrSubmitInFlight):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, draft.ErrStaleSubmit):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, draft.ErrNoCustomer),
			errors.Is(err, draft.ErrCustomerNotSaved),
			errors.Is(err, draft.ErrEmptyItems),
			errors.Is(err, draft.ErrNoActor),
			errors.Is(err, draft.ErrInvalidOption),
			errors.Is(err, draft.ErrInvalidMethod),
			errors.Is(err, draft.ErrInsufficientPayment):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeGatewayError(w, "submit order", err)
		}
		return
	}

	snap := d.Snapshot()
	h.hub.BroadcastJSON(ws.EventOrderCreated, map[string]interface{}{
		"order_id":     snap.OrderID,
		"order_number": snap.OrderNumber,
		"created_by":   claims.Name,
	})

	writeJSON(w, http.StatusCreated, snap)
}
