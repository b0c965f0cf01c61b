package analytics_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/analytics"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/internal/testutil/memstore"
)

func TestGetSummary_AgregaConsultas(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	require.NoError(t, store.Products().Create(ctx, &entity.Product{Code: "A", Stock: 2, MinStock: 5, PurchasePrice: decimal.NewFromInt(100)}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{Code: "B", Stock: 10, MinStock: 1, PurchasePrice: decimal.RequireFromString("2.5")}))
	require.NoError(t, store.Orders().Create(ctx, &entity.PurchaseOrder{Number: "1", Status: entity.OrderStatusPending}))
	require.NoError(t, store.Orders().Create(ctx, &entity.PurchaseOrder{Number: "2", Status: entity.OrderStatusPending}))
	require.NoError(t, store.Requests().Create(ctx, &entity.Request{Number: "3400", Status: entity.RequestStatusPending}))
	require.NoError(t, store.Alerts().Create(ctx, &entity.Alert{Type: entity.AlertTypeLowStock, Status: entity.AlertStatusPending}))

	got, err := analytics.NewDashboardUseCase(store.Analytics()).GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, got.Products)
	assert.Equal(t, 1, got.BelowMinimum)
	assert.True(t, got.StockValue.Equal(decimal.NewFromInt(225)))
	assert.Equal(t, 2, got.OrdersByStatus[string(entity.OrderStatusPending)])
	assert.Equal(t, 0, got.OrdersByStatus[string(entity.OrderStatusComplete)])
	assert.Len(t, got.OrdersByStatus, 4)
	assert.Equal(t, 1, got.PendingRequests)
	assert.Equal(t, 1, got.PendingAlerts)
}

type failingAnalytics struct {
	repository.AnalyticsRepository
}

func (failingAnalytics) CountPendingAlerts(context.Context) (int, error) {
	return 0, errors.New("conexión cerrada")
}

func TestGetSummary_PropagaError(t *testing.T) {
	store := memstore.New()
	uc := analytics.NewDashboardUseCase(failingAnalytics{store.Analytics()})

	_, err := uc.GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alertas pendientes")
}
