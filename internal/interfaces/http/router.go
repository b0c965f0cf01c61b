package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-api/internal/application/alerts"
	"github.com/jhoicas/bodega-api/internal/application/analytics"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/application/purchasing"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	MachineryUC *usecase.MachineryUseCase
	OrderUC     *purchasing.OrderUseCase
	RequestUC   *purchasing.RequestUseCase
	Allocator   *purchasing.SequenceAllocator
	MovementUC  *inventory.MovementUseCase
	AlertUC     *alerts.UseCase
	DashboardUC *analytics.DashboardUseCase
	AlertQueue  AlertScanEnqueuer // opcional
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)

	machinery := api.Group("/machinery")
	machineryHandler := NewMachineryHandler(deps.MachineryUC)
	machinery.Get("/", machineryHandler.List)
	machinery.Post("/", machineryHandler.Create)
	machinery.Get("/:id", machineryHandler.GetByID)

	orderHandler := NewOrderHandler(deps.OrderUC, deps.Allocator)
	api.Post("/sequences/:partition", orderHandler.AllocateIdentifier)

	// /pending y /sweep antes de /:id
	orders := api.Group("/orders")
	orders.Get("/", orderHandler.List)
	orders.Get("/pending", orderHandler.ListPending)
	orders.Post("/sweep", orderHandler.Sweep)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/recompute", orderHandler.Recompute)

	requests := api.Group("/requests")
	requestHandler := NewRequestHandler(deps.RequestUC)
	requests.Get("/", requestHandler.List)
	requests.Post("/", requestHandler.Create)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Patch("/:id/approve", RequireRole(entity.RequestApproverRoles...), requestHandler.Approve)
	requests.Patch("/:id/reject", RequireRole(entity.RequestApproverRoles...), requestHandler.Reject)

	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/receipts", movementHandler.ListReceipts)
	movements.Post("/receipts", movementHandler.RegisterReceipts)
	movements.Get("/issues", movementHandler.ListIssues)
	movements.Post("/issues", movementHandler.RegisterIssues)

	alertGroup := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC, deps.AlertQueue)
	alertGroup.Get("/", alertHandler.List)
	alertGroup.Post("/scan", RequireRole(entity.AlertResolverRoles...), alertHandler.Scan)
	alertGroup.Patch("/:id/resolve", RequireRole(entity.AlertResolverRoles...), alertHandler.Resolve)

	dashboard := api.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
