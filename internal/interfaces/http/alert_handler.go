package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"github.com/jhoicas/bodega-api/internal/application/alerts"
	"github.com/jhoicas/bodega-api/internal/application/dto"
)

// AlertScanEnqueuer encola la revisión de alertas en el worker.
type AlertScanEnqueuer interface {
	EnqueueAlertScan(ctx context.Context) (*asynq.TaskInfo, error)
}

// AlertHandler endpoints de alertas.
type AlertHandler struct {
	uc    *alerts.UseCase
	queue AlertScanEnqueuer // opcional
}

// NewAlertHandler construye el handler. queue puede ser nil: la revisión corre en la petición.
func NewAlertHandler(uc *alerts.UseCase, queue AlertScanEnqueuer) *AlertHandler {
	return &AlertHandler{uc: uc, queue: queue}
}

// List godoc
// @Summary      Listar alertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Scan godoc
// @Summary      Revisar órdenes, solicitudes y stock bajo
// @Description  Con async=true y worker configurado se encola y responde 202.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        async  query  bool  false  "Encolar en el worker"
// @Success      200  {object}  dto.AlertScanResponse
// @Success      202  {object}  map[string]string
// @Router       /api/alerts/scan [post]
func (h *AlertHandler) Scan(c *fiber.Ctx) error {
	if h.queue != nil && c.QueryBool("async", false) {
		info, err := h.queue.EnqueueAlertScan(c.UserContext())
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"task_id": info.ID, "queue": info.Queue})
	}
	out, err := h.uc.Scan(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Resolver o rechazar una alerta pendiente
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la alerta"
// @Param        body  body  dto.ResolveAlertRequest  true  "Resolución"
// @Success      200   {object}  dto.AlertResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [patch]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	var in dto.ResolveAlertRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Resolve(c.UserContext(), id, GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
