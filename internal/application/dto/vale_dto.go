package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// ValeLineRequest línea solicitada al crear un vale. unit_price en cero toma el
// precio de catálogo; un precio custom exige approved_by.
type ValeLineRequest struct {
	VariantID       string          `json:"variant_id"`
	PriceModalityID string          `json:"price_modality_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price,omitempty"`
	PriceKind       string          `json:"price_kind,omitempty"` // standard | invoice | custom
	ApprovedBy      *string         `json:"approved_by,omitempty"`
}

// CreateValeRequest body para POST /api/vales.
type CreateValeRequest struct {
	DocumentType         string            `json:"document_type"` // ticket | boleta | factura
	CustomerID           *string           `json:"customer_id,omitempty"`
	PreferredWarehouseID string            `json:"preferred_warehouse_id,omitempty"`
	SkipReservation      bool              `json:"skip_reservation,omitempty"`
	Lines                []ValeLineRequest `json:"lines"`
}

// ValeLineResponse línea de vale en respuestas.
type ValeLineResponse struct {
	ID          string          `json:"id"`
	VariantID   string          `json:"variant_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PriceKind   string          `json:"price_kind"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	WarehouseID *string         `json:"warehouse_id,omitempty"`
}

// ValeResponse vale en respuestas.
type ValeResponse struct {
	ID                   string             `json:"id"`
	Number               string             `json:"number"`
	SellerID             string             `json:"seller_id"`
	CustomerID           *string            `json:"customer_id,omitempty"`
	DocumentType         string             `json:"document_type"`
	State                string             `json:"state"`
	Subtotal             decimal.Decimal    `json:"subtotal"`
	Discount             decimal.Decimal    `json:"discount"`
	Total                decimal.Decimal    `json:"total"`
	ProcessingBy         *string            `json:"processing_by,omitempty"`
	ReservationExpiresAt *time.Time         `json:"reservation_expires_at,omitempty"`
	CancelReason         string             `json:"cancel_reason,omitempty"`
	Lines                []ValeLineResponse `json:"lines"`
	CreatedAt            time.Time          `json:"created_at"`
}

// ValeFromEntity mapea la entidad de dominio a la respuesta HTTP.
func ValeFromEntity(v *entity.Vale) ValeResponse {
	out := ValeResponse{
		ID:                   v.ID,
		Number:               v.Number,
		SellerID:             v.SellerID,
		CustomerID:           v.CustomerID,
		DocumentType:         v.DocumentType,
		State:                v.State,
		Subtotal:             v.Subtotal,
		Discount:             v.Discount,
		Total:                v.Total,
		ProcessingBy:         v.ProcessingBy,
		ReservationExpiresAt: v.ReservationExpiresAt,
		CancelReason:         v.CancelReason,
		CreatedAt:            v.CreatedAt,
	}
	for _, l := range v.Lines {
		out.Lines = append(out.Lines, ValeLineResponse{
			ID:          l.ID,
			VariantID:   l.VariantID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			PriceKind:   l.PriceKind,
			Subtotal:    l.Subtotal,
			WarehouseID: l.WarehouseID,
		})
	}
	return out
}

// FinalizeValeRequest body para POST /api/vales/:number/finalize.
// Los datos de cliente solo son obligatorios cuando document_type es factura
// y el vale no trae cliente facturable.
type FinalizeValeRequest struct {
	ShiftID           *string         `json:"shift_id,omitempty"`
	DocumentType      string          `json:"document_type,omitempty"` // vacío = el del vale
	Discount          decimal.Decimal `json:"discount,omitempty"`
	PaymentMethod     string          `json:"payment_method"` // cash | debit | credit | transfer
	AmountPaid        decimal.Decimal `json:"amount_paid"`
	CustomerID        *string         `json:"customer_id,omitempty"`
	CustomerRUT       string          `json:"customer_rut,omitempty"`
	CustomerLegalName string          `json:"customer_legal_name,omitempty"`
	CustomerEmail     string          `json:"customer_email,omitempty"`
}

// FinalizeValeResponse resultado de caja para el vale finalizado.
type FinalizeValeResponse struct {
	SaleNumber int64           `json:"sale_number"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	Change     decimal.Decimal `json:"change"`
}

// CancelValeRequest body para POST /api/vales/:number/cancel.
type CancelValeRequest struct {
	Reason string `json:"reason"`
}

// CustomerResponse cliente en respuestas (datos de facturación).
type CustomerResponse struct {
	ID        string `json:"id"`
	RUT       string `json:"rut"`
	LegalName string `json:"legal_name"`
	Email     string `json:"email,omitempty"`
}
