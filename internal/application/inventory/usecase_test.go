package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
	"github.com/jhoicas/bodega-api/internal/testutil/memstore"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, store *memstore.Store, opts ...inventory.Option) *inventory.MovementUseCase {
	t.Helper()
	opts = append([]inventory.Option{inventory.WithClock(func() time.Time { return fixedNow })}, opts...)
	return inventory.NewMovementUseCase(store, store.Movements(), zerolog.Nop(), opts...)
}

func seedProduct(t *testing.T, store *memstore.Store, code, name string, stock int64) *entity.Product {
	t.Helper()
	p := &entity.Product{Code: code, Name: name, Stock: stock, PurchasePrice: decimal.NewFromInt(1000)}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func seedOrder(t *testing.T, store *memstore.Store, status entity.OrderStatus, lines ...entity.OrderLine) *entity.PurchaseOrder {
	t.Helper()
	o := &entity.PurchaseOrder{
		Number:    "7698",
		Company:   "Inversiones Imperia SPA",
		Status:    status,
		CreatedAt: fixedNow.Add(-48 * time.Hour),
		Lines:     lines,
	}
	require.NoError(t, store.Orders().Create(context.Background(), o))
	return o
}

func getOrder(t *testing.T, store *memstore.Store, id string) *entity.PurchaseOrder {
	t.Helper()
	o, err := store.Orders().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, o)
	return o
}

func getProduct(t *testing.T, store *memstore.Store, id string) *entity.Product {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyReceipt_SinOrdenSumaStock(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 4)
	uc := newUseCase(t, store)

	mov, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{
		ProductID: p.ID,
		Quantity:  6,
		UnitCost:  decimal.NewFromInt(1500),
		UserID:    "u1",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementKindReceipt, mov.Kind)
	assert.Equal(t, entity.ReceiptReasonPurchase, mov.Reason)
	assert.Equal(t, int64(10), mov.StockAfter)
	assert.Equal(t, fixedNow, mov.CreatedAt)
	assert.Equal(t, int64(10), getProduct(t, store, p.ID).Stock)
	// Sin update_price el precio no cambia.
	assert.True(t, getProduct(t, store, p.ID).PurchasePrice.Equal(decimal.NewFromInt(1000)))
}

func TestApplyReceipt_ActualizaPrecio(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 0)
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{
		ProductID:   p.ID,
		Quantity:    1,
		UnitCost:    decimal.NewFromInt(2500),
		UpdatePrice: true,
	})
	require.NoError(t, err)
	assert.True(t, getProduct(t, store, p.ID).PurchasePrice.Equal(decimal.NewFromInt(2500)))
}

func TestApplyReceipt_CantidadInvalida(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 3)
	uc := newUseCase(t, store)

	for _, qty := range []int64{0, -2} {
		_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: qty})
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Equal(t, int64(3), getProduct(t, store, p.ID).Stock)
	assert.Empty(t, store.MovementsSnapshot())
	assert.Zero(t, store.Commits, "no debe abrirse transacción")
}

func TestApplyReceipt_ProductoInexistente(t *testing.T) {
	store := memstore.New()
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: "no-existe", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.MovementsSnapshot())
}

func TestApplyReceipt_OrdenInexistenteNoMuta(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 3)
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 2, OrderID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(3), getProduct(t, store, p.ID).Stock)
	assert.Empty(t, store.MovementsSnapshot())
}

func TestApplyReceipt_RecepcionParcialYCompleta(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 0)
	o := seedOrder(t, store, entity.OrderStatusPending,
		entity.OrderLine{Position: 1, Quantity: 10, Description: "  flt-01 ", UnitPrice: decimal.NewFromInt(100)},
		entity.OrderLine{Position: 2, Quantity: 5, Description: "Otro producto", UnitPrice: decimal.NewFromInt(100)},
	)
	uc := newUseCase(t, store)

	mov, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 4, OrderID: o.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.ReceiptReasonOrder, mov.Reason)
	assert.Equal(t, o.ID, mov.OrderID)

	got := getOrder(t, store, o.ID)
	assert.Equal(t, int64(4), got.Lines[0].Received)
	assert.Equal(t, int64(6), got.Lines[0].Pending())
	assert.Equal(t, int64(0), got.Lines[1].Received)
	assert.Equal(t, entity.OrderStatusPartial, got.Status)
	assert.Equal(t, int64(4), getProduct(t, store, p.ID).Stock)
}

func TestApplyReceipt_CompletaOrdenYSobreRecepcion(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 0)
	o := seedOrder(t, store, entity.OrderStatusPending,
		entity.OrderLine{Position: 1, Quantity: 3, Description: "FILTRO ACEITE", UnitPrice: decimal.NewFromInt(100)},
	)
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 5, OrderID: o.ID})
	require.NoError(t, err)

	got := getOrder(t, store, o.ID)
	assert.Equal(t, entity.OrderStatusComplete, got.Status)
	assert.Equal(t, int64(-2), got.Lines[0].Pending(), "la sobre-recepción queda como pendiente negativo")
}

func TestApplyReceipt_FanOutEnLineasDuplicadas(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 0)
	o := seedOrder(t, store, entity.OrderStatusPending,
		entity.OrderLine{Position: 1, Quantity: 10, Description: "FLT-01", UnitPrice: decimal.NewFromInt(100)},
		entity.OrderLine{Position: 2, Quantity: 10, Description: "filtro aceite", UnitPrice: decimal.NewFromInt(100)},
	)
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 3, OrderID: o.ID})
	require.NoError(t, err)

	got := getOrder(t, store, o.ID)
	assert.Equal(t, int64(3), got.Lines[0].Received)
	assert.Equal(t, int64(3), got.Lines[1].Received)
	// El stock suma una sola vez.
	assert.Equal(t, int64(3), getProduct(t, store, p.ID).Stock)
}

func TestApplyReceipt_SinCoincidenciasSumaStockIgual(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 1)
	o := seedOrder(t, store, entity.OrderStatusPending,
		entity.OrderLine{Position: 1, Quantity: 10, Description: "Correa", UnitPrice: decimal.NewFromInt(100)},
	)
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 2, OrderID: o.ID})
	require.NoError(t, err)

	got := getOrder(t, store, o.ID)
	assert.Equal(t, int64(0), got.Lines[0].Received)
	assert.Equal(t, entity.OrderStatusPending, got.Status)
	assert.Equal(t, int64(3), getProduct(t, store, p.ID).Stock)
}

func TestApplyReceipt_OrdenInactivaNoCambiaEstado(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 0)
	o := seedOrder(t, store, entity.OrderStatusInactive,
		entity.OrderLine{Position: 1, Quantity: 2, Description: "FLT-01", UnitPrice: decimal.NewFromInt(100)},
	)
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 2, OrderID: o.ID})
	require.NoError(t, err)

	got := getOrder(t, store, o.ID)
	assert.Equal(t, int64(2), got.Lines[0].Received)
	assert.Equal(t, entity.OrderStatusInactive, got.Status)
}

func TestApplyReceipts_LoteTodoONada(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 1)
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipts(context.Background(), []inventory.ReceiptInput{
		{ProductID: p.ID, Quantity: 2},
		{ProductID: "no-existe", Quantity: 1},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(1), getProduct(t, store, p.ID).Stock, "el primer ítem debe revertirse")
	assert.Empty(t, store.MovementsSnapshot())
}

func TestApplyReceipt_ReintentaConflicto(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 0)
	uc := newUseCase(t, store)

	store.FailWithConflict(2)
	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), getProduct(t, store, p.ID).Stock)

	store.FailWithConflict(3)
	_, err = uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	assert.Equal(t, int64(1), getProduct(t, store, p.ID).Stock)
}

func TestApplyReceipt_ConcurrentesNoPierdenActualizaciones(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 0)
	o := seedOrder(t, store, entity.OrderStatusPending,
		entity.OrderLine{Position: 1, Quantity: 100, Description: "FLT-01", UnitPrice: decimal.NewFromInt(100)},
	)
	uc := newUseCase(t, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 5, OrderID: o.ID})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), getProduct(t, store, p.ID).Stock)
	got := getOrder(t, store, o.ID)
	assert.Equal(t, int64(100), got.Lines[0].Received)
	assert.Equal(t, entity.OrderStatusComplete, got.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyIssue_RestaStockYValorizaAPrecioCompra(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 5)
	uc := newUseCase(t, store)

	mov, err := uc.ApplyIssue(context.Background(), inventory.IssueInput{ProductID: p.ID, Quantity: 2, Charge: entity.IssueChargeWorkshop})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementKindIssue, mov.Kind)
	assert.Equal(t, int64(3), mov.StockAfter)
	assert.True(t, mov.UnitCost.Equal(decimal.NewFromInt(1000)))
	assert.True(t, mov.Total().Equal(decimal.NewFromInt(2000)))
}

func TestApplyIssue_PermiteStockNegativoPorDefecto(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 1)
	uc := newUseCase(t, store)

	mov, err := uc.ApplyIssue(context.Background(), inventory.IssueInput{ProductID: p.ID, Quantity: 3, Charge: entity.IssueChargeOther})
	require.NoError(t, err)
	assert.Equal(t, int64(-2), mov.StockAfter)
}

func TestApplyIssue_StockInsuficienteConGuarda(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 1)
	uc := newUseCase(t, store, inventory.WithNegativeStock(false))

	_, err := uc.ApplyIssue(context.Background(), inventory.IssueInput{ProductID: p.ID, Quantity: 3, Charge: entity.IssueChargeOther})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), getProduct(t, store, p.ID).Stock)
}

func TestApplyIssue_CargoInvalido(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 1)
	uc := newUseCase(t, store)

	_, err := uc.ApplyIssue(context.Background(), inventory.IssueInput{ProductID: p.ID, Quantity: 1, Charge: "vacaciones"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApplyIssue_NoTocaOrdenes(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 10)
	o := seedOrder(t, store, entity.OrderStatusPartial,
		entity.OrderLine{Position: 1, Quantity: 10, Received: 4, Description: "FLT-01", UnitPrice: decimal.NewFromInt(100)},
	)
	uc := newUseCase(t, store)

	_, err := uc.ApplyIssue(context.Background(), inventory.IssueInput{ProductID: p.ID, Quantity: 2, Charge: entity.IssueChargeWarehouse})
	require.NoError(t, err)
	got := getOrder(t, store, o.ID)
	assert.Equal(t, int64(4), got.Lines[0].Received)
	assert.Equal(t, entity.OrderStatusPartial, got.Status)
}

func TestList_FiltraPorTipo(t *testing.T) {
	store := memstore.New()
	p := seedProduct(t, store, "FLT-01", "Filtro aceite", 10)
	uc := newUseCase(t, store)

	_, err := uc.ApplyReceipt(context.Background(), inventory.ReceiptInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = uc.ApplyIssue(context.Background(), inventory.IssueInput{ProductID: p.ID, Quantity: 1, Charge: entity.IssueChargeOther})
	require.NoError(t, err)

	receipts, err := uc.List(context.Background(), repository.MovementFilter{Kind: entity.MovementKindReceipt})
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, entity.MovementKindReceipt, receipts[0].Kind)

	_, err = uc.List(context.Background(), repository.MovementFilter{Kind: "ajuste"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
