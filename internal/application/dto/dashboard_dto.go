package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	Products        int             `json:"products"`
	BelowMinimum    int             `json:"below_minimum"`
	StockValue      decimal.Decimal `json:"stock_value"` // Σ stock * precio_compra
	OrdersByStatus  map[string]int  `json:"orders_by_status"`
	PendingRequests int             `json:"pending_requests"`
	PendingAlerts   int             `json:"pending_alerts"`
}
