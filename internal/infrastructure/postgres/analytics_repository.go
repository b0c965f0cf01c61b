package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetStockTotals cantidad de productos, productos bajo mínimo y valor total del stock.
func (r *AnalyticsRepo) GetStockTotals(ctx context.Context) (repository.StockTotals, error) {
	const query = `
	SELECT
	    COUNT(*)                                        AS products,
	    COUNT(*) FILTER (WHERE stock < min_stock)       AS below_minimum,
	    COALESCE(SUM(stock * purchase_price), 0)        AS total_value
	FROM products`

	var t repository.StockTotals
	if err := r.pool.QueryRow(ctx, query).Scan(&t.Products, &t.BelowMinimum, &t.TotalValue); err != nil {
		return t, wrapErr("analytics.GetStockTotals", err)
	}
	return t, nil
}

// CountOrdersByStatus cantidad de órdenes de compra por estado.
func (r *AnalyticsRepo) CountOrdersByStatus(ctx context.Context) (map[entity.OrderStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM purchase_orders GROUP BY status`)
	if err != nil {
		return nil, wrapErr("analytics.CountOrdersByStatus", err)
	}
	defer rows.Close()
	out := map[entity.OrderStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, wrapErr("analytics.CountOrdersByStatus", err)
		}
		out[entity.OrderStatus(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("analytics.CountOrdersByStatus", err)
	}
	return out, nil
}

// CountPendingRequests solicitudes en estado pendiente.
func (r *AnalyticsRepo) CountPendingRequests(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM requests WHERE status = $1`, entity.RequestStatusPending).Scan(&n)
	if err != nil {
		return 0, wrapErr("analytics.CountPendingRequests", err)
	}
	return n, nil
}

// CountPendingAlerts alertas en estado pendiente.
func (r *AnalyticsRepo) CountPendingAlerts(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM alerts WHERE status = $1`, entity.AlertStatusPending).Scan(&n)
	if err != nil {
		return 0, wrapErr("analytics.CountPendingAlerts", err)
	}
	return n, nil
}
