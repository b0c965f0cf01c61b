//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/purchasing"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	rules "github.com/jhoicas/bodega-api/internal/domain/purchasing"
	"github.com/jhoicas/bodega-api/internal/infrastructure/postgres"
)

func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("bodega_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(dsn, zerolog.Nop()))

	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestIntegration_NumeracionConcurrenteSinDuplicados(t *testing.T) {
	pool := newTestPool(t)
	tx := postgres.NewTxRunner(pool)
	alloc := purchasing.NewSequenceAllocator(tx, nil, zerolog.Nop())

	const n = 30
	var (
		mu   sync.Mutex
		seen = map[string]bool{}
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := alloc.AllocateIdentifier(context.Background(), rules.PartitionMaquinarias)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	assert.True(t, seen["280"])
	assert.True(t, seen["309"])
}

func TestIntegration_NumeracionContinuaDesdeOrdenesExistentes(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)

	sup := &entity.Supplier{ID: uuid.New().String(), Name: "Lubricantes Norte", TaxID: "77.000.111-2"}
	require.NoError(t, postgres.NewSupplierRepository(pool).Create(ctx, sup))
	orders := postgres.NewPurchaseOrderRepository(pool)
	for _, number := range []string{"7700", "7787", "S/N"} {
		require.NoError(t, orders.Create(ctx, &entity.PurchaseOrder{
			ID: uuid.New().String(), Number: number, Company: rules.PartitionInversiones,
			SupplierID: sup.ID, Status: entity.OrderStatusComplete, CreatedAt: time.Now(),
		}))
	}

	uc := purchasing.NewOrderUseCase(postgres.NewTxRunner(pool), orders, postgres.NewSupplierRepository(pool),
		purchasing.NewSequenceAllocator(postgres.NewTxRunner(pool), nil, zerolog.Nop()), 0, zerolog.Nop())
	order, err := uc.Create(ctx, dto.CreateOrderRequest{
		Company: rules.PartitionInversiones, SupplierID: sup.ID,
		Charge: "bodega", PaymentTerms: "contado", DeliveryTerm: "inmediata",
		Lines: []dto.CreateOrderLineRequest{{Quantity: 1, Description: "Grasa", UnitPrice: decimal.NewFromInt(5000)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "7789", order.Number)
}

func TestIntegration_RecepcionConciliaOrden(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	tx := postgres.NewTxRunner(pool)
	log := zerolog.Nop()

	suppliers := usecase.NewSupplierUseCase(postgres.NewSupplierRepository(pool))
	products := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
	alloc := purchasing.NewSequenceAllocator(tx, nil, log)
	orders := purchasing.NewOrderUseCase(tx, postgres.NewPurchaseOrderRepository(pool),
		postgres.NewSupplierRepository(pool), alloc, 0, log)
	movements := inventory.NewMovementUseCase(tx, postgres.NewMovementRepository(pool), log)

	sup, err := suppliers.Create(ctx, dto.CreateSupplierRequest{
		Name: "Ferretería Sur", TaxID: "76.123.456-7", Address: "Av. Central 100",
		Location: "Temuco", Email: "ventas@sur.cl", Phone: "452000000",
	})
	require.NoError(t, err)
	prod, err := products.Create(ctx, dto.CreateProductRequest{
		Code: "FIL-01", Name: "Filtro aceite", Category: "repuestos", Location: "A1",
		PurchasePrice: decimal.NewFromInt(1000), MinStock: 2,
	})
	require.NoError(t, err)

	order, err := orders.Create(ctx, dto.CreateOrderRequest{
		Company: rules.PartitionInversiones, SupplierID: sup.ID,
		Charge: "taller", PaymentTerms: "30 días", DeliveryTerm: "inmediata",
		Lines: []dto.CreateOrderLineRequest{
			{Quantity: 5, Description: "Filtro aceite", UnitPrice: decimal.NewFromInt(900)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "7698", order.Number)

	_, err = movements.ApplyReceipt(ctx, inventory.ReceiptInput{
		ProductID: prod.ID, Quantity: 3, UnitCost: decimal.NewFromInt(900), OrderID: order.ID, UserID: "u1",
	})
	require.NoError(t, err)
	got, err := orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusPartial), got.Status)
	assert.Equal(t, int64(2), got.Lines[0].Pending)

	m, err := movements.ApplyReceipt(ctx, inventory.ReceiptInput{
		ProductID: prod.ID, Quantity: 2, UnitCost: decimal.NewFromInt(900), OrderID: order.ID,
		UpdatePrice: true, UserID: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), m.StockAfter)

	got, err = orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.OrderStatusComplete), got.Status)

	p, err := products.GetByID(ctx, prod.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(900).Equal(p.PurchasePrice))

	dash, err := postgres.NewAnalyticsRepository(pool).CountOrdersByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, dash[entity.OrderStatusComplete])
}
