package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrValeNotFound        = errors.New("vale no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidDiscount     = errors.New("descuento inválido")
	ErrMissingCustomerData = errors.New("faltan datos tributarios del cliente")
	ErrStaleLockConflict   = errors.New("el vale está siendo procesado por otro cajero")
	ErrSequenceGeneration  = errors.New("no se pudo generar el consecutivo de venta")
	ErrInvalidTransition   = errors.New("transición de estado inválida")
)

// InsufficientStockError detalla qué variante quedó corta y cuánto había disponible,
// para que el caller pueda mostrar un mensaje accionable al vendedor.
type InsufficientStockError struct {
	VariantID   string
	WarehouseID string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para variante %s: solicitado %s, disponible %s",
		e.VariantID, e.Requested.String(), e.Available.String())
}

// Is permite errors.Is(err, ErrInsufficientStock) sobre el error detallado.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// InvalidTransitionError detalla una transición de estado rechazada.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transición de estado inválida: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
