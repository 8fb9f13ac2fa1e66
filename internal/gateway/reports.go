package gateway

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report rows come back fully aggregated from the backend; this side only
// formats them.

// DailySalesRow is one day of sales totals.
type DailySalesRow struct {
	Date         string          `json:"date"`
	OrderCount   int64           `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalRefunds decimal.Decimal `json:"total_refunds"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
}

// ServiceSalesRow is revenue per catalog service.
type ServiceSalesRow struct {
	ServiceID    uuid.UUID       `json:"service_id"`
	ServiceName  string          `json:"service_name"`
	QuantitySold int64           `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// PaymentSummaryRow is the takings breakdown per payment method.
type PaymentSummaryRow struct {
	PaymentMethod    string          `json:"payment_method"`
	TransactionCount int64           `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// DateRangeParams bounds a report query; dates are YYYY-MM-DD, end exclusive.
type DateRangeParams struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ReportGateway wraps the backend's aggregation functions.
type ReportGateway struct {
	rpc Caller
}

// NewReportGateway creates a new ReportGateway.
func NewReportGateway(rpc Caller) *ReportGateway {
	return &ReportGateway{rpc: rpc}
}

// DailySales returns per-day sales totals for the given range.
func (g *ReportGateway) DailySales(ctx context.Context, token string, params DateRangeParams) ([]DailySalesRow, error) {
	var out []DailySalesRow
	if err := g.rpc.Call(ctx, token, "report_daily_sales", params, &out); err != nil {
		return nil, fmt.Errorf("daily sales report: %w", err)
	}
	return out, nil
}

// ServiceSales returns per-service sales for the given range.
func (g *ReportGateway) ServiceSales(ctx context.Context, token string, params DateRangeParams) ([]ServiceSalesRow, error) {
	var out []ServiceSalesRow
	if err := g.rpc.Call(ctx, token, "report_service_sales", params, &out); err != nil {
		return nil, fmt.Errorf("service sales report: %w", err)
	}
	return out, nil
}

// PaymentSummary returns the takings breakdown per method for the given range.
func (g *ReportGateway) PaymentSummary(ctx context.Context, token string, params DateRangeParams) ([]PaymentSummaryRow, error) {
	var out []PaymentSummaryRow
	if err := g.rpc.Call(ctx, token, "report_payment_summary", params, &out); err != nil {
		return nil, fmt.Errorf("payment summary report: %w", err)
	}
	return out, nil
}
