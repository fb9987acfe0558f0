package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crismard/ventapos-api/internal/application/dto"
	"github.com/crismard/ventapos-api/internal/application/settings"
)

// SettingsHandler maneja la configuración de negocio (solo admin).
type SettingsHandler struct {
	provider *settings.Provider
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(provider *settings.Provider) *SettingsHandler {
	return &SettingsHandler{provider: provider}
}

// Get godoc
// @Summary      Consultar una clave de configuración
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Param        key  path  string  true  "Clave (p. ej. inventory.allow_oversell)"
// @Success      200  {object}  dto.SettingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_KEY", Message: "key es requerido"})
	}
	value, err := h.provider.Get(c.Context(), key, "")
	if err != nil {
		return respondError(c, err)
	}
	if value == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "clave no configurada"})
	}
	return c.JSON(dto.SettingResponse{Key: key, Value: value})
}

// Set godoc
// @Summary      Fijar una clave de configuración
// @Description  Persiste el valor e invalida la caché en memoria de la clave.
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        key   path  string              true  "Clave"
// @Param        body  body  dto.SettingRequest  true  "Valor"
// @Success      200   {object}  dto.SettingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/settings/{key} [put]
func (h *SettingsHandler) Set(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_KEY", Message: "key es requerido"})
	}
	var in dto.SettingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "value es requerido"})
	}
	if err := h.provider.Set(c.Context(), key, in.Value); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SettingResponse{Key: key, Value: in.Value})
}
