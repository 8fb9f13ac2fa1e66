package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pressline/counter-api/internal/gateway"
	"github.com/pressline/counter-api/internal/middleware"
)

// ReportsGateway is the slice of the report gateway the reports screen needs.
// Satisfied by *gateway.ReportGateway.
type ReportsGateway interface {
	DailySales(ctx context.Context, token string, params gateway.DateRangeParams) ([]gateway.DailySalesRow, error)
	ServiceSales(ctx context.Context, token string, params gateway.DateRangeParams) ([]gateway.ServiceSalesRow, error)
	PaymentSummary(ctx context.Context, token string, params gateway.DateRangeParams) ([]gateway.PaymentSummaryRow, error)
}

// ReportHandler handles the reports screen. Route-level role checks live in
// the router; all aggregation happens on the backend.
type ReportHandler struct {
	reports ReportsGateway
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports ReportsGateway) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers report endpoints on the given Chi router.
// Expected to be mounted at /reports.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/daily-sales", h.DailySales)
	r.Get("/service-sales", h.ServiceSales)
	r.Get("/payment-summary", h.PaymentSummary)
}

// DailySales returns per-day sales totals.
func (h *ReportHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.reports.DailySales(r.Context(), middleware.TokenFromContext(r.Context()), gateway.DateRangeParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeGatewayError(w, "daily sales report", err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// ServiceSales returns per-service sales.
func (h *ReportHandler) ServiceSales(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.reports.ServiceSales(r.Context(), middleware.TokenFromContext(r.Context()), gateway.DateRangeParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeGatewayError(w, "service sales report", err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}

// PaymentSummary returns the takings breakdown per payment method.
func (h *ReportHandler) PaymentSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.reports.PaymentSummary(r.Context(), middleware.TokenFromContext(r.Context()), gateway.DateRangeParams{
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeGatewayError(w, "payment summary report", err)
		return
	}

	writeJSON(w, http.StatusOK, rows)
}
