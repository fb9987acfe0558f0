package sales_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crismard/ventapos-api/internal/application/sales"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

func line(qty, price string) *entity.ValeLine {
	q, p := d(qty), d(price)
	return &entity.ValeLine{Quantity: q, UnitPrice: p, Subtotal: entity.LineSubtotal(q, p)}
}

func TestRecomputeSubtotal_SumaLineas(t *testing.T) {
	// 2.35 m × $4.990 = 11726.5 → $11.727; 3 × $1.200 = $3.600.
	subtotal, err := sales.RecomputeSubtotal([]*entity.ValeLine{
		line("2.35", "4990"),
		line("3", "1200"),
	})
	require.NoError(t, err)
	assert.True(t, subtotal.Equal(d("15327")), "subtotal %s", subtotal)
}

func TestRecomputeSubtotal_DetectaSubtotalAdulterado(t *testing.T) {
	adulterated := line("2", "5000")
	adulterated.Subtotal = d("9000") // no coincide con qty × price

	_, err := sales.RecomputeSubtotal([]*entity.ValeLine{adulterated})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecomputeSubtotal_LineasInvalidas(t *testing.T) {
	_, err := sales.RecomputeSubtotal(nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "sin líneas")

	zero := line("0", "5000")
	_, err = sales.RecomputeSubtotal([]*entity.ValeLine{zero})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad cero")
}

func TestValidateDiscount_Cotas(t *testing.T) {
	total := d("5000")

	assert.NoError(t, sales.ValidateDiscount(decimal.Zero, total))
	assert.NoError(t, sales.ValidateDiscount(d("4999"), total))
	assert.Error(t, sales.ValidateDiscount(d("-1"), total))
	assert.Error(t, sales.ValidateDiscount(d("5000"), total), "descuento igual al total")
	assert.Error(t, sales.ValidateDiscount(d("6000"), total))
}

func TestChangeFor_NuncaNegativo(t *testing.T) {
	assert.True(t, sales.ChangeFor(d("10000"), d("9980")).Equal(d("20")))
	assert.True(t, sales.ChangeFor(d("9980"), d("9980")).IsZero())
	// Pago corto: el vuelto se reporta en cero, el faltante lo rechaza el finalizador.
	assert.True(t, sales.ChangeFor(d("5000"), d("9980")).IsZero())
}
