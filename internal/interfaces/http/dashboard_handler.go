package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/bodega-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de bodega.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (stock_value, products, below_minimum,
// orders_by_status, pending_requests, pending_alerts).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
