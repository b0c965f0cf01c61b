package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-api/internal/application/dto"
	"github.com/jhoicas/bodega-api/internal/application/usecase"
)

// MachineryHandler endpoints del registro de equipos.
type MachineryHandler struct {
	uc *usecase.MachineryUseCase
}

// NewMachineryHandler construye el handler.
func NewMachineryHandler(uc *usecase.MachineryUseCase) *MachineryHandler {
	return &MachineryHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar equipo
// @Tags         machinery
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMachineryRequest  true  "Datos del equipo"
// @Success      201   {object}  dto.MachineryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/machinery [post]
func (h *MachineryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMachineryRequest
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
// @Summary      Obtener equipo
// @Tags         machinery
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del equipo"
// @Success      200  {object}  dto.MachineryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/machinery/{id} [get]
func (h *MachineryHandler) GetByID(c *fiber.Ctx) error {
	id, ok, err := paramID(c)
	if !ok {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar equipos por número
// @Tags         machinery
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MachineryResponse
// @Router       /api/machinery [get]
func (h *MachineryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
