package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/crismard/ventapos-api/internal/application/dto"
	"github.com/crismard/ventapos-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de stock, ajustes y kardex (protegido).
type InventoryHandler struct {
	adjustUC *inventory.AdjustStockUseCase
	queryUC  *inventory.StockQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(adjustUC *inventory.AdjustStockUseCase, queryUC *inventory.StockQueryUseCase) *InventoryHandler {
	return &InventoryHandler{adjustUC: adjustUC, queryUC: queryUC}
}

// Adjust godoc
// @Summary      Ajustar stock físico
// @Description  Fija available al valor indicado tras un conteo físico y registra el movimiento adjustment. reserved no se toca.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "variant_id, warehouse_id, new_quantity, reason"
// @Success      200   {object}  dto.AdjustStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.VariantID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_id y warehouse_id son requeridos"})
	}
	result, err := h.adjustUC.Adjust(c.Context(), in.VariantID, in.WarehouseID, in.NewQuantity, in.Reason, actorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AdjustStockResponse{
		Previous:   result.Previous,
		New:        result.New,
		MovementID: result.MovementID,
	})
}

// RegisterEntry godoc
// @Summary      Registrar entrada de mercadería
// @Description  Suma la cantidad recibida al available de la bodega y registra el movimiento entry.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockEntryRequest  true  "variant_id, warehouse_id, quantity, reference"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/entries [post]
func (h *InventoryHandler) RegisterEntry(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	var in dto.StockEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.VariantID == "" || in.WarehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_id y warehouse_id son requeridos"})
	}
	if err := h.adjustUC.RegisterEntry(c.Context(), in.VariantID, in.WarehouseID, in.Quantity, in.Reference, actorID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "entrada registrada"})
}

// GetStock godoc
// @Summary      Consultar stock de una variante en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id    query  string  true  "ID de la variante"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	variantID := c.Query("variant_id")
	warehouseID := c.Query("warehouse_id")
	if variantID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "variant_id y warehouse_id son requeridos"})
	}
	stock, err := h.queryUC.GetStock(c.Context(), variantID, warehouseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockFromEntity(stock))
}

// ListStock godoc
// @Summary      Listar stock por bodega
// @Description  Con below_min=true devuelve solo las variantes bajo su umbral mínimo (reposición).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  path   string  true   "ID de la bodega"
// @Param        below_min     query  bool    false  "Solo bajo umbral mínimo"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventory/warehouses/{warehouse_id}/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouse_id")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id es requerido"})
	}
	belowMin := c.QueryBool("below_min", false)
	var page dto.PageRequest
	page.Limit = c.QueryInt("limit", 20)
	page.Offset = c.QueryInt("offset", 0)
	page.DefaultPage()

	list, err := h.queryUC.ListStockByWarehouse(c.Context(), warehouseID, belowMin, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StockFromEntity(s))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Consultar kardex de movimientos
// @Description  Filtra por bodega o variante y por rango de fechas (RFC 3339).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "ID de la bodega"
// @Param        variant_id    query  string  false  "ID de la variante"
// @Param        from          query  string  false  "Desde (RFC 3339)"
// @Param        to            query  string  false  "Hasta (RFC 3339)"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	warehouseID := c.Query("warehouse_id")
	variantID := c.Query("variant_id")
	if warehouseID == "" && variantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id o variant_id es requerido"})
	}
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC 3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC 3339)"})
	}
	var page dto.PageRequest
	page.Limit = c.QueryInt("limit", 20)
	page.Offset = c.QueryInt("offset", 0)
	page.DefaultPage()

	list, err := h.queryUC.ListMovements(c.Context(), warehouseID, variantID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementFromEntity(m))
	}
	return c.JSON(out)
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
