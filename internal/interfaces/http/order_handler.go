package http

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/purchasing"
)

// OrderHandler endpoints de órdenes de compra y numeración.
type OrderHandler struct {
	uc        *purchasing.OrderUseCase
	allocator *purchasing.SequenceAllocator
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *purchasing.OrderUseCase, allocator *purchasing.SequenceAllocator) *OrderHandler {
	return &OrderHandler{uc: uc, allocator: allocator}
}

// Create godoc
// @Summary      Crear orden de compra (el número lo asigna el servidor)
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Orden"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden con líneas y pendientes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes (revisa inactivas antes de listar)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), pageQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPending godoc
// @Summary      Listar órdenes pendientes o con ítems pendientes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders/pending [get]
func (h *OrderHandler) ListPending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.UserContext(), pageQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recompute godoc
// @Summary      Recalcular el estado de una orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderStatusResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/recompute [post]
func (h *OrderHandler) Recompute(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	status, err := h.uc.RecomputeStatus(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.OrderStatusResponse{ID: id, Status: string(status)})
}

// Sweep godoc
// @Summary      Pasar a inactiva las órdenes pendientes antiguas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de referencia RFC3339 (por defecto ahora)"
// @Success      200    {object}  dto.SweepResponse
// @Router       /api/orders/sweep [post]
func (h *OrderHandler) Sweep(c *fiber.Ctx) error {
	asOf := time.Now()
	if s := c.Query("as_of"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "as_of debe ser RFC3339"})
		}
		asOf = t
	}
	n, err := h.uc.SweepStale(c.UserContext(), asOf)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.SweepResponse{AsOf: asOf, Updated: n})
}

// AllocateIdentifier godoc
// @Summary      Asignar el siguiente número de una partición
// @Tags         sequences
// @Security     Bearer
// @Produce      json
// @Param        partition  path  string  true  "Empresa emisora o 'solicitudes'"
// @Success      201        {object}  dto.IdentifierResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/sequences/{partition} [post]
func (h *OrderHandler) AllocateIdentifier(c *fiber.Ctx) error {
	partition, err := url.PathUnescape(c.Params("partition"))
	if err != nil || partition == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PARTITION", Message: "partición inválida"})
	}
	id, err := h.allocator.AllocateIdentifier(c.UserContext(), partition)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IdentifierResponse{Partition: partition, Identifier: id})
}
