package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// AdjustStockRequest body para POST /api/inventory/adjustments.
// new_quantity fija el available resultante; reserved no se toca.
type AdjustStockRequest struct {
	VariantID   string          `json:"variant_id"`
	WarehouseID string          `json:"warehouse_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason"`
}

// AdjustStockResponse resultado del ajuste.
type AdjustStockResponse struct {
	Previous   decimal.Decimal `json:"previous"`
	New        decimal.Decimal `json:"new"`
	MovementID string          `json:"movement_id"`
}

// StockEntryRequest body para POST /api/inventory/entries (recepción de mercadería).
type StockEntryRequest struct {
	VariantID   string          `json:"variant_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reference   string          `json:"reference,omitempty"` // guía o factura de compra
}

// StockResponse posición de stock de una variante en una bodega.
type StockResponse struct {
	VariantID    string          `json:"variant_id"`
	WarehouseID  string          `json:"warehouse_id"`
	Available    decimal.Decimal `json:"available"`
	Reserved     decimal.Decimal `json:"reserved"`
	Total        decimal.Decimal `json:"total"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	MaxThreshold decimal.Decimal `json:"max_threshold"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// StockFromEntity mapea la posición de stock a la respuesta HTTP.
func StockFromEntity(s *entity.WarehouseStock) StockResponse {
	return StockResponse{
		VariantID:    s.VariantID,
		WarehouseID:  s.WarehouseID,
		Available:    s.Available,
		Reserved:     s.Reserved,
		Total:        s.Total(),
		MinThreshold: s.MinThreshold,
		MaxThreshold: s.MaxThreshold,
		UpdatedAt:    s.UpdatedAt,
	}
}

// MovementResponse movimiento del kardex en respuestas.
type MovementResponse struct {
	ID              string          `json:"id"`
	VariantID       string          `json:"variant_id"`
	WarehouseID     string          `json:"warehouse_id"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	QuantityBefore  decimal.Decimal `json:"quantity_before"`
	QuantityAfter   decimal.Decimal `json:"quantity_after"`
	Reference       string          `json:"reference,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	DestWarehouseID *string         `json:"dest_warehouse_id,omitempty"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MovementFromEntity mapea el movimiento a la respuesta HTTP.
func MovementFromEntity(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:              m.ID,
		VariantID:       m.VariantID,
		WarehouseID:     m.WarehouseID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		QuantityBefore:  m.QuantityBefore,
		QuantityAfter:   m.QuantityAfter,
		Reference:       m.Reference,
		Reason:          m.Reason,
		DestWarehouseID: m.DestWarehouseID,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}
