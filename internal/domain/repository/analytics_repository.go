package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// StockTotals agregados de bodega.
type StockTotals struct {
	Products     int
	BelowMinimum int
	TotalValue   decimal.Decimal // Σ stock * precio_compra
}

// AnalyticsRepository consultas read-only para el dashboard.
type AnalyticsRepository interface {
	GetStockTotals(ctx context.Context) (StockTotals, error)
	CountOrdersByStatus(ctx context.Context) (map[entity.OrderStatus]int, error)
	CountPendingRequests(ctx context.Context) (int, error)
	CountPendingAlerts(ctx context.Context) (int, error)
}
