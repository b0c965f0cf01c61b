// Package analytics contiene los casos de uso de reportes de bodega y el dashboard.
package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// DashboardUseCase genera el resumen operativo de bodega.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. GetStockTotals        → Products, BelowMinimum, StockValue
//  2. CountOrdersByStatus   → OrdersByStatus
//  3. CountPendingRequests  → PendingRequests
//  4. CountPendingAlerts    → PendingAlerts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	var (
		totals   repository.StockTotals
		byStatus map[entity.OrderStatus]int
		requests int
		alerts   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if totals, err = uc.analyticsRepo.GetStockTotals(gctx); err != nil {
			return fmt.Errorf("dashboard: totales de stock: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if byStatus, err = uc.analyticsRepo.CountOrdersByStatus(gctx); err != nil {
			return fmt.Errorf("dashboard: órdenes por estado: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if requests, err = uc.analyticsRepo.CountPendingRequests(gctx); err != nil {
			return fmt.Errorf("dashboard: solicitudes pendientes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if alerts, err = uc.analyticsRepo.CountPendingAlerts(gctx); err != nil {
			return fmt.Errorf("dashboard: alertas pendientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Todos los estados aparecen aunque no tengan órdenes.
	orders := map[string]int{
		string(entity.OrderStatusPending):  0,
		string(entity.OrderStatusPartial):  0,
		string(entity.OrderStatusComplete): 0,
		string(entity.OrderStatusInactive): 0,
	}
	for s, n := range byStatus {
		orders[string(s)] = n
	}

	return &dto.DashboardSummaryDTO{
		Products:        totals.Products,
		BelowMinimum:    totals.BelowMinimum,
		StockValue:      totals.TotalValue.Round(2),
		OrdersByStatus:  orders,
		PendingRequests: requests,
		PendingAlerts:   alerts,
	}, nil
}
