package sales

import (
	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// RecomputeSubtotal suma los subtotales de las líneas revalidando sus invariantes
// (cantidad y precio positivos, subtotal redondeado consistente). El finalizador no
// confía en los totales persistidos del vale: los recalcula dentro de la transacción.
func RecomputeSubtotal(lines []*entity.ValeLine) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, domain.ErrInvalidInput
	}
	subtotal := decimal.Zero
	for _, line := range lines {
		if !line.Quantity.GreaterThan(decimal.Zero) || !line.UnitPrice.GreaterThan(decimal.Zero) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		expected := entity.LineSubtotal(line.Quantity, line.UnitPrice)
		if !line.Subtotal.Equal(expected) {
			return decimal.Zero, domain.ErrInvalidInput
		}
		subtotal = subtotal.Add(line.Subtotal)
	}
	return subtotal, nil
}

// ValidateDiscount aplica la cota del descuento: no negativo y estrictamente menor
// que el total recalculado.
func ValidateDiscount(discount, recomputedTotal decimal.Decimal) error {
	if discount.LessThan(decimal.Zero) || discount.GreaterThanOrEqual(recomputedTotal) {
		return domain.ErrInvalidDiscount
	}
	return nil
}

// ChangeFor calcula el vuelto: max(0, pagado - total).
func ChangeFor(amountPaid, total decimal.Decimal) decimal.Decimal {
	change := amountPaid.Sub(total)
	if change.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return change
}
