package entity

import "time"

// Warehouse representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// IsPointOfSale marca las bodegas elegibles para venta directa en caja.
// IsVirtual marca la bodega de respaldo para sobreventa; solo en ella available puede quedar negativo.
type Warehouse struct {
	ID            string
	Name          string
	Address       string
	IsPointOfSale bool
	IsVirtual     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
