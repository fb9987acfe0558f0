package entity

import "time"

// Claves de configuración de negocio consultadas por el núcleo.
const (
	ConfigAllowOversell      = "inventory.allow_oversell"       // "true"/"false"
	ConfigFallbackWarehouse  = "inventory.fallback_warehouse"   // ID de bodega virtual para sobreventa
	ConfigReservationMinutes = "sales.reservation_minutes"      // vigencia de reserva al crear vale
	ConfigWarehousePriority  = "sales.warehouse_priority"       // ID de bodega preferida, vacío = mayor stock
)

// AppConfig representa una entrada clave/valor de configuración de negocio,
// persistida en BD y cacheada en memoria por el proveedor de configuración.
type AppConfig struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
