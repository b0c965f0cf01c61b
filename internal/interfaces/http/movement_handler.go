package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/inventory"
	"github.com/jhoicas/bodega-api/internal/domain/entity"
	"github.com/jhoicas/bodega-api/internal/domain/repository"
)

// MovementHandler endpoints de entradas y salidas de bodega.
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

// RegisterReceipts godoc
// @Summary      Registrar entradas (todas o ninguna)
// @Description  Cada entrada suma stock; si trae order_id se concilia contra las líneas de la OC.
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterReceiptsRequest  true  "Entradas"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/receipts [post]
func (h *MovementHandler) RegisterReceipts(c *fiber.Ctx) error {
	var in dto.RegisterReceiptsRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterReceipts(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterIssues godoc
// @Summary      Registrar salidas (todas o ninguna)
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterIssuesRequest  true  "Salidas"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/movements/issues [post]
func (h *MovementHandler) RegisterIssues(c *fiber.Ctx) error {
	var in dto.RegisterIssuesRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterIssues(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceipts godoc
// @Summary      Listar entradas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        start_date    query  string  false  "YYYY-MM-DD"
// @Param        end_date      query  string  false  "YYYY-MM-DD"
// @Param        consignacion  query  bool    false  "Solo productos en consignación"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements/receipts [get]
func (h *MovementHandler) ListReceipts(c *fiber.Ctx) error {
	return h.list(c, entity.MovementKindReceipt)
}

// ListIssues godoc
// @Summary      Listar salidas
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        start_date    query  string  false  "YYYY-MM-DD"
// @Param        end_date      query  string  false  "YYYY-MM-DD"
// @Param        consignacion  query  bool    false  "Solo productos en consignación"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/movements/issues [get]
func (h *MovementHandler) ListIssues(c *fiber.Ctx) error {
	return h.list(c, entity.MovementKindIssue)
}

func (h *MovementHandler) list(c *fiber.Ctx, kind string) error {
	from, to, ok, err := dateRange(c)
	if !ok {
		return err
	}
	out, err := h.uc.ListMovements(c.UserContext(), repository.MovementFilter{
		Kind:            kind,
		From:            from,
		To:              to,
		ConsignmentOnly: c.QueryBool("consignacion", false),
		Limit:           c.QueryInt("limit", 0),
		Offset:          c.QueryInt("offset", 0),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
