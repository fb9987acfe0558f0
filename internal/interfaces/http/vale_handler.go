package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crismard/ventapos-api/internal/application/dto"
	"github.com/crismard/ventapos-api/internal/application/sales"
)

// ValeHandler maneja las peticiones HTTP del ciclo de vida del vale (protegido).
type ValeHandler struct {
	createUC   *sales.CreateValeUseCase
	getUC      *sales.GetValeUseCase
	claimUC    *sales.ClaimValeUseCase
	finalizeUC *sales.FinalizeValeUseCase
	releaseUC  *sales.ReleaseValeUseCase
	cancelUC   *sales.CancelValeUseCase
}

// NewValeHandler construye el handler.
func NewValeHandler(
	createUC *sales.CreateValeUseCase,
	getUC *sales.GetValeUseCase,
	claimUC *sales.ClaimValeUseCase,
	finalizeUC *sales.FinalizeValeUseCase,
	releaseUC *sales.ReleaseValeUseCase,
	cancelUC *sales.CancelValeUseCase,
) *ValeHandler {
	return &ValeHandler{
		createUC:   createUC,
		getUC:      getUC,
		claimUC:    claimUC,
		finalizeUC: finalizeUC,
		releaseUC:  releaseUC,
		cancelUC:   cancelUC,
	}
}

// Create godoc
// @Summary      Crear vale de venta
// @Description  Numera el vale con el consecutivo diario y reserva stock según la política de asignación.
// @Tags         vales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateValeRequest  true  "Líneas y tipo de documento"
// @Success      201   {object}  dto.ValeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/vales [post]
func (h *ValeHandler) Create(c *fiber.Ctx) error {
	sellerID := GetUserID(c)
	if sellerID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateValeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lines es requerido"})
	}
	input := sales.CreateValeInput{
		SellerID:             sellerID,
		DocumentType:         in.DocumentType,
		CustomerID:           in.CustomerID,
		PreferredWarehouseID: in.PreferredWarehouseID,
		SkipReservation:      in.SkipReservation,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.CreateValeLineInput{
			VariantID:       l.VariantID,
			PriceModalityID: l.PriceModalityID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			PriceKind:       l.PriceKind,
			ApprovedBy:      l.ApprovedBy,
		})
	}
	vale, _, err := h.createUC.CreateVale(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ValeFromEntity(vale))
}

// GetByNumber godoc
// @Summary      Consultar vale por número
// @Tags         vales
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de vale (VPYYYYMMDD-NNNN)"
// @Success      200  {object}  dto.ValeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/vales/{number} [get]
func (h *ValeHandler) GetByNumber(c *fiber.Ctx) error {
	number := c.Params("number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_NUMBER", Message: "number es requerido"})
	}
	vale, customer, err := h.getUC.Get(c.Context(), number)
	if err != nil {
		return respondError(c, err)
	}
	out := struct {
		dto.ValeResponse
		Customer *dto.CustomerResponse `json:"customer,omitempty"`
	}{ValeResponse: dto.ValeFromEntity(vale)}
	if customer != nil {
		out.Customer = &dto.CustomerResponse{
			ID:        customer.ID,
			RUT:       customer.RUT,
			LegalName: customer.LegalName,
			Email:     customer.Email,
		}
	}
	return c.JSON(out)
}

// Claim godoc
// @Summary      Tomar un vale en caja
// @Description  Marca el vale como en proceso por el cajero autenticado. Un vale tomado hace más de 5 minutos puede retomarse.
// @Tags         vales
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de vale"
// @Success      200  {object}  dto.ValeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vales/{number}/claim [post]
func (h *ValeHandler) Claim(c *fiber.Ctx) error {
	cashierID := GetUserID(c)
	number := c.Params("number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_NUMBER", Message: "number es requerido"})
	}
	vale, err := h.claimUC.Claim(c.Context(), number, cashierID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ValeFromEntity(vale))
}

// Finalize godoc
// @Summary      Finalizar vale (cierre de venta en caja)
// @Description  Recalcula totales, aplica descuento e IVA si corresponde, consume las reservas de stock y emite la venta con consecutivo global. Todo en una transacción.
// @Tags         vales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        number  path  string  true  "Número de vale"
// @Param        body    body  dto.FinalizeValeRequest  true  "Pago, descuento y datos de cliente"
// @Success      200  {object}  dto.FinalizeValeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/vales/{number}/finalize [post]
func (h *ValeHandler) Finalize(c *fiber.Ctx) error {
	cashierID := GetUserID(c)
	number := c.Params("number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_NUMBER", Message: "number es requerido"})
	}
	var in dto.FinalizeValeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PaymentMethod == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "payment_method es requerido"})
	}
	result, err := h.finalizeUC.Finalize(c.Context(), sales.FinalizeValeInput{
		Number:            number,
		CashierID:         cashierID,
		ShiftID:           in.ShiftID,
		DocumentType:      in.DocumentType,
		Discount:          in.Discount,
		PaymentMethod:     in.PaymentMethod,
		AmountPaid:        in.AmountPaid,
		CustomerID:        in.CustomerID,
		CustomerRUT:       in.CustomerRUT,
		CustomerLegalName: in.CustomerLegalName,
		CustomerEmail:     in.CustomerEmail,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FinalizeValeResponse{
		SaleNumber: result.SaleNumber,
		Subtotal:   result.Subtotal,
		Discount:   result.Discount,
		Tax:        result.Tax,
		Total:      result.Total,
		Change:     result.Change,
	})
}

// Release godoc
// @Summary      Soltar un vale tomado en caja
// @Description  Devuelve el vale de processing_at_register a voucher_pending sin tocar reservas. Solo el cajero que lo tiene (o cualquiera si el lock venció).
// @Tags         vales
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de vale"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vales/{number}/release [post]
func (h *ValeHandler) Release(c *fiber.Ctx) error {
	cashierID := GetUserID(c)
	number := c.Params("number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_NUMBER", Message: "number es requerido"})
	}
	if err := h.releaseUC.Release(c.Context(), number, cashierID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "vale liberado"})
}

// Cancel godoc
// @Summary      Anular un vale
// @Description  Cancela un vale no terminal y libera sus reservas de stock en la misma transacción.
// @Tags         vales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        number  path  string  true  "Número de vale"
// @Param        body    body  dto.CancelValeRequest  true  "Motivo de anulación"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/vales/{number}/cancel [post]
func (h *ValeHandler) Cancel(c *fiber.Ctx) error {
	actorID := GetUserID(c)
	number := c.Params("number")
	if number == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_NUMBER", Message: "number es requerido"})
	}
	var in dto.CancelValeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Reason == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reason es requerido"})
	}
	if err := h.cancelUC.Cancel(c.Context(), number, in.Reason, actorID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "vale anulado"})
}
