package dto

import "github.com/shopspring/decimal"

// SettingRequest body para PUT /api/settings/:key.
type SettingRequest struct {
	Value string `json:"value"`
}

// SettingResponse entrada de configuración en respuestas.
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TheoreticalCashResponse total teórico de efectivo de un turno, para el cuadre de caja.
type TheoreticalCashResponse struct {
	ShiftID   string          `json:"shift_id"`
	CashTotal decimal.Decimal `json:"cash_total"`
}
