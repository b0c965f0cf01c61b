package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega-api/internal/application/alerts"
	"github.com/jhoicas/bodega-api/internal/application/analytics"
	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/purchasing"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	apphttp "github.com/jhoicas/bodega-api/internal/interfaces/http"
	"github.com/jhoicas/bodega-api/internal/testutil/memstore"
)

func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memstore.New()
	log := zerolog.Nop()
	alloc := purchasing.NewSequenceAllocator(store, nil, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(store.Products()),
		SupplierUC:  usecase.NewSupplierUseCase(store.Suppliers()),
		MachineryUC: usecase.NewMachineryUseCase(store.Machinery()),
		OrderUC:     purchasing.NewOrderUseCase(store, store.Orders(), store.Suppliers(), alloc, 0, log),
		RequestUC:   purchasing.NewRequestUseCase(store, store.Requests(), alloc, log),
		Allocator:   alloc,
		MovementUC:  inventory.NewMovementUseCase(store, store.Movements(), log),
		AlertUC:     alerts.NewUseCase(store.Alerts(), store.Orders(), store.Requests(), store.Products(), alerts.Config{}, log),
		DashboardUC: analytics.NewDashboardUseCase(store.Analytics()),
		JWTSecret:   testJWTSecret,
	})
	return app
}

// call lanza una petición autenticada con el rol indicado y decodifica la respuesta en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path, role string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createProduct(t *testing.T, app *fiber.App, code, name string, minStock int64) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	status := call(t, app, http.MethodPost, "/api/products", entity.RoleBodeguero, fiber.Map{
		"code": code, "name": name, "category": "repuestos", "location": "A1",
		"purchase_price": 1000, "min_stock": minStock,
	}, &p)
	require.Equal(t, http.StatusCreated, status)
	return p
}

func createSupplier(t *testing.T, app *fiber.App) dto.SupplierResponse {
	t.Helper()
	var s dto.SupplierResponse
	status := call(t, app, http.MethodPost, "/api/suppliers", entity.RoleSecretarioTecnico, fiber.Map{
		"name": "Repuestos Sur", "tax_id": "76.123.456-7", "address": "Av. Central 100",
		"location": "Temuco", "email": "ventas@sur.cl", "phone": "452000000",
	}, &s)
	require.Equal(t, http.StatusCreated, status)
	return s
}

func TestHealth(t *testing.T) {
	app := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_RequiereToken(t *testing.T) {
	app := newAPI(t)
	assert.Equal(t, http.StatusUnauthorized, call(t, app, http.MethodGet, "/api/products", "", nil, nil))
}

func TestProductos_CrearObtenerYValidar(t *testing.T) {
	app := newAPI(t)
	p := createProduct(t, app, "FLT-01", "Filtro aceite", 0)
	assert.Equal(t, int64(0), p.Stock)

	var got dto.ProductResponse
	assert.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/products/"+p.ID, entity.RoleBodeguero, nil, &got))
	assert.Equal(t, "FLT-01", got.Code)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/products", entity.RoleBodeguero, fiber.Map{
		"code": "FLT-01", "name": "Otro", "category": "x", "location": "B2",
	}, &e))
	assert.Equal(t, "DUPLICATE", e.Code)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/products", entity.RoleBodeguero, fiber.Map{
		"name": "Sin código", "category": "x", "location": "B2",
	}, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/products/no-es-uuid", entity.RoleBodeguero, nil, &e))
	assert.Equal(t, "INVALID_ID", e.Code)

	assert.Equal(t, http.StatusNotFound,
		call(t, app, http.MethodGet, "/api/products/00000000-0000-0000-0000-0000000000ff", entity.RoleBodeguero, nil, nil))
}

func TestMaquinaria_RegistroOrdenadoPorNumero(t *testing.T) {
	app := newAPI(t)

	var m dto.MachineryResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/machinery", entity.RoleBodeguero, fiber.Map{
		"number": "EQ-12", "type": entity.MachineryTypeTruck, "plate": "abcd12",
	}, &m))
	assert.Equal(t, "ABCD12", m.Plate)
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/machinery", entity.RoleBodeguero, fiber.Map{
		"number": "EQ-03", "type": entity.MachineryTypeTipper, "plate": "ZZ9911",
	}, nil))

	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPost, "/api/machinery", entity.RoleBodeguero, fiber.Map{
		"number": "EQ-12", "type": entity.MachineryTypePickup, "plate": "XX1111",
	}, nil))
	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/machinery", entity.RoleBodeguero, fiber.Map{
		"number": "EQ-99", "type": "tractor", "plate": "XX1111",
	}, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	var list []dto.MachineryResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/machinery", entity.RoleBodeguero, nil, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "EQ-03", list[0].Number)
	assert.Equal(t, "EQ-12", list[1].Number)

	var got dto.MachineryResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/machinery/"+m.ID, entity.RoleBodeguero, nil, &got))
	assert.Equal(t, entity.MachineryTypeTruck, got.Type)
	assert.Equal(t, http.StatusNotFound,
		call(t, app, http.MethodGet, "/api/machinery/00000000-0000-0000-0000-0000000000ff", entity.RoleBodeguero, nil, nil))
}

func TestSecuencias_AsignarPorParticion(t *testing.T) {
	app := newAPI(t)

	var out dto.IdentifierResponse
	assert.Equal(t, http.StatusCreated,
		call(t, app, http.MethodPost, "/api/sequences/Maquinarias%20Imperia%20SPA", entity.RoleSecretarioTecnico, nil, &out))
	assert.Equal(t, "280", out.Identifier)
	assert.Equal(t, "Maquinarias Imperia SPA", out.Partition)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest,
		call(t, app, http.MethodPost, "/api/sequences/desconocida", entity.RoleSecretarioTecnico, nil, &e))
	assert.Equal(t, "INVALID_PARTITION", e.Code)
}

func TestOrdenes_RecepcionParcialYCompleta(t *testing.T) {
	app := newAPI(t)
	p := createProduct(t, app, "FLT-01", "Filtro aceite", 0)
	s := createSupplier(t, app)

	var order dto.OrderResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/orders", entity.RoleSecretarioTecnico, fiber.Map{
		"company": "Inversiones Imperia SPA", "supplier_id": s.ID,
		"charge": "taller", "payment_terms": "30 días", "delivery_term": "inmediata",
		"lines": []fiber.Map{{"quantity": 5, "description": "flt-01", "unit_price": 900}},
	}, &order))
	assert.Equal(t, "7698", order.Number)
	assert.Equal(t, string(entity.OrderStatusPending), order.Status)

	var movs []dto.MovementResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/movements/receipts", entity.RoleBodeguero, fiber.Map{
		"items": []fiber.Map{{"product_id": p.ID, "quantity": 3, "unit_cost": 900, "order_id": order.ID}},
	}, &movs))
	require.Len(t, movs, 1)
	require.NotNil(t, movs[0].StockAfter)
	assert.Equal(t, int64(3), *movs[0].StockAfter)

	var got dto.OrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/orders/"+order.ID, entity.RoleBodeguero, nil, &got))
	assert.Equal(t, string(entity.OrderStatusPartial), got.Status)
	assert.Equal(t, int64(2), got.Lines[0].Pending)

	var pending []dto.OrderResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/orders/pending", entity.RoleBodeguero, nil, &pending))
	assert.Len(t, pending, 1)

	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/movements/receipts", entity.RoleBodeguero, fiber.Map{
		"items": []fiber.Map{{"product_id": p.ID, "quantity": 2, "unit_cost": 900, "order_id": order.ID}},
	}, nil))

	var st dto.OrderStatusResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/recompute", entity.RoleBodeguero, nil, &st))
	assert.Equal(t, string(entity.OrderStatusComplete), st.Status)
}

func TestMovimientos_EntradaCantidadInvalida(t *testing.T) {
	app := newAPI(t)
	p := createProduct(t, app, "FLT-01", "Filtro aceite", 0)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/movements/receipts", entity.RoleBodeguero, fiber.Map{
		"items": []fiber.Map{{"product_id": p.ID, "quantity": 0, "unit_cost": 900}},
	}, &e))
	assert.Equal(t, "INVALID_QUANTITY", e.Code)

	var list []dto.MovementResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/movements/receipts", entity.RoleBodeguero, nil, &list))
	assert.Empty(t, list)
}

func TestMovimientos_SalidaConCargoInvalido(t *testing.T) {
	app := newAPI(t)
	p := createProduct(t, app, "FLT-01", "Filtro aceite", 0)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPost, "/api/movements/issues", entity.RoleBodeguero, fiber.Map{
		"items": []fiber.Map{{"product_id": p.ID, "quantity": 1, "charge": "casino"}},
	}, &e))
	assert.Equal(t, "VALIDATION", e.Code)

	assert.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/movements/issues", entity.RoleBodeguero, fiber.Map{
		"items":   []fiber.Map{{"product_id": p.ID, "quantity": 1, "charge": "taller"}},
		"comment": "mantención",
	}, nil))

	var list []dto.MovementResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/movements/issues?start_date=2000-01-01", entity.RoleBodeguero, nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "taller", list[0].Charge)

	assert.Equal(t, http.StatusBadRequest,
		call(t, app, http.MethodGet, "/api/movements/issues?start_date=ayer", entity.RoleBodeguero, nil, nil))
}

func TestSolicitudes_AprobacionPorRol(t *testing.T) {
	app := newAPI(t)

	var req dto.RequestResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/requests", entity.RoleBodeguero, fiber.Map{
		"requester_name": "Juan Pérez",
		"lines":          []fiber.Map{{"product": "Guantes", "quantity": 10, "reason": "reposición"}},
	}, &req))
	assert.Equal(t, "3400", req.Number)
	assert.Equal(t, testUserID, req.CreatedBy)

	path := "/api/requests/" + req.ID + "/approve"
	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPatch, path, entity.RoleBodeguero, nil, nil))

	var approved dto.RequestResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPatch, path, entity.RoleSupervisor, nil, &approved))
	assert.Equal(t, string(entity.RequestStatusApproved), approved.Status)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusConflict,
		call(t, app, http.MethodPatch, "/api/requests/"+req.ID+"/reject", entity.RoleTecnico, nil, &e))
	assert.Equal(t, "INVALID_STATE", e.Code)

	var list []dto.RequestResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/requests?status=aprobada", entity.RoleBodeguero, nil, &list))
	assert.Len(t, list, 1)
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/requests?status=otra", entity.RoleBodeguero, nil, nil))
}

func TestAlertas_RevisionYResolucion(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "FLT-01", "Filtro aceite", 5)

	assert.Equal(t, http.StatusForbidden, call(t, app, http.MethodPost, "/api/alerts/scan", entity.RoleBodeguero, nil, nil))

	var scan dto.AlertScanResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPost, "/api/alerts/scan", entity.RoleTecnico, nil, &scan))
	assert.Equal(t, 1, scan.LowStock)

	var list []dto.AlertResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/alerts", entity.RoleBodeguero, nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, entity.AlertTypeLowStock, list[0].Type)

	var resolved dto.AlertResponse
	path := "/api/alerts/" + list[0].ID + "/resolve"
	require.Equal(t, http.StatusOK, call(t, app, http.MethodPatch, path, entity.RoleSecretarioTecnico,
		fiber.Map{"status": "resuelta", "comment": "pedido a proveedor"}, &resolved))
	assert.Equal(t, string(entity.AlertStatusResolved), resolved.Status)
	assert.Equal(t, testUserID, resolved.ResolvedBy)

	assert.Equal(t, http.StatusConflict, call(t, app, http.MethodPatch, path, entity.RoleSecretarioTecnico,
		fiber.Map{"status": "rechazada"}, nil))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodPatch, path, entity.RoleSecretarioTecnico,
		fiber.Map{"status": "pendiente"}, nil))
}

func TestDashboard_Resumen(t *testing.T) {
	app := newAPI(t)
	createProduct(t, app, "FLT-01", "Filtro aceite", 5)

	var sum dto.DashboardSummaryDTO
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/dashboard/summary", entity.RoleSupervisor, nil, &sum))
	assert.Equal(t, 1, sum.Products)
	assert.Equal(t, 1, sum.BelowMinimum)
	assert.Len(t, sum.OrdersByStatus, 4)
}
