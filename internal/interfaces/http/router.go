package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/application/sales"
	"github.com/crismard/ventapos-api/internal/application/settings"
)

// Roles de la aplicación.
const (
	RoleAdmin    = "admin"
	RoleVendedor = "vendedor"
	RoleCajero   = "cajero"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateVale   *sales.CreateValeUseCase
	GetVale      *sales.GetValeUseCase
	ClaimVale    *sales.ClaimValeUseCase
	FinalizeVale *sales.FinalizeValeUseCase
	ReleaseVale  *sales.ReleaseValeUseCase
	CancelVale   *sales.CancelValeUseCase
	ShiftUC      *sales.ShiftUseCase
	AdjustStock  *inventory.AdjustStockUseCase
	StockQuery   *inventory.StockQueryUseCase
	Settings     *settings.Provider
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Vales: creación por vendedores, caja por cajeros
	vales := protected.Group("/vales")
	valeHandler := NewValeHandler(deps.CreateVale, deps.GetVale, deps.ClaimVale,
		deps.FinalizeVale, deps.ReleaseVale, deps.CancelVale)
	vales.Post("/", RequireRole(RoleAdmin, RoleVendedor), valeHandler.Create)
	vales.Get("/:number", valeHandler.GetByNumber)
	vales.Post("/:number/claim", RequireRole(RoleAdmin, RoleCajero), valeHandler.Claim)
	vales.Post("/:number/finalize", RequireRole(RoleAdmin, RoleCajero), valeHandler.Finalize)
	vales.Post("/:number/release", RequireRole(RoleAdmin, RoleCajero), valeHandler.Release)
	vales.Post("/:number/cancel", RequireRole(RoleAdmin, RoleCajero), valeHandler.Cancel)

	// Inventario: ajustes y entradas solo admin; consultas para todos
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustStock, deps.StockQuery)
	invGroup.Post("/adjustments", RequireRole(RoleAdmin), inventoryHandler.Adjust)
	invGroup.Post("/entries", RequireRole(RoleAdmin), inventoryHandler.RegisterEntry)
	invGroup.Get("/stock", inventoryHandler.GetStock)
	invGroup.Get("/warehouses/:warehouse_id/stock", inventoryHandler.ListStock)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// Turnos: total teórico de efectivo para el cuadre
	shifts := protected.Group("/shifts")
	shiftHandler := NewShiftHandler(deps.ShiftUC)
	shifts.Get("/:id/theoretical-cash", RequireRole(RoleAdmin, RoleCajero), shiftHandler.TheoreticalCash)

	// Configuración de negocio (solo admin)
	settingsGroup := protected.Group("/settings", RequireRole(RoleAdmin))
	settingsHandler := NewSettingsHandler(deps.Settings)
	settingsGroup.Get("/:key", settingsHandler.Get)
	settingsGroup.Put("/:key", settingsHandler.Set)
}
