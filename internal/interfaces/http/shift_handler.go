package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crismard/ventapos-api/internal/application/dto"
	"github.com/crismard/ventapos-api/internal/application/sales"
)

// ShiftHandler expone el total teórico de efectivo para el cuadre de caja.
type ShiftHandler struct {
	uc *sales.ShiftUseCase
}

// NewShiftHandler construye el handler.
func NewShiftHandler(uc *sales.ShiftUseCase) *ShiftHandler {
	return &ShiftHandler{uc: uc}
}

// TheoreticalCash godoc
// @Summary      Total teórico de efectivo de un turno
// @Description  Suma los pagos en efectivo de ventas no anuladas del turno. El cuadre contra el conteo físico lo hace el módulo de caja.
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del turno"
// @Success      200  {object}  dto.TheoreticalCashResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shifts/{id}/theoretical-cash [get]
func (h *ShiftHandler) TheoreticalCash(c *fiber.Ctx) error {
	shiftID := c.Params("id")
	if shiftID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	total, err := h.uc.TheoreticalCashTotal(c.Context(), shiftID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.TheoreticalCashResponse{ShiftID: shiftID, CashTotal: total})
}
