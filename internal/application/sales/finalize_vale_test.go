package sales_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/application/sales"
	"github.com/crismard/ventapos-api/internal/application/settings"
	"github.com/crismard/ventapos-api/internal/domain"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

func newFinalizeUseCase(store *fakeStore) (*sales.FinalizeValeUseCase, *recordingNotifier) {
	notifier := &recordingNotifier{}
	cfg := settings.NewProvider(fakeConfigRepo{store}, time.Minute)
	uc := sales.NewFinalizeValeUseCase(fakeTxRunner{store}, inventory.NewLedger(), cfg, notifier)
	return uc, notifier
}

// seedVale crea por la puerta de entrada un vale reservado listo para caja.
func seedVale(t *testing.T, store *fakeStore, docType string, lines ...sales.CreateValeLineInput) *entity.Vale {
	t.Helper()
	createUC, _ := newCreateUseCase(store)
	vale, _, err := createUC.CreateVale(context.Background(), sales.CreateValeInput{
		SellerID:     "seller-1",
		DocumentType: docType,
		Lines:        lines,
	})
	require.NoError(t, err)
	return vale
}

func TestFinalize_BoletaFlujoCompleto(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "4990")
	store.addStock("v1", "w1", "50")
	vale := seedVale(t, store, entity.DocumentBoleta,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("2")})
	uc, notifier := newFinalizeUseCase(store)

	result, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("10000"),
	})
	require.NoError(t, err)

	// Totales: 2 * 4990 = 9980, boleta sin desglose de IVA, vuelto 20.
	assert.Equal(t, int64(1), result.SaleNumber)
	assert.True(t, result.Subtotal.Equal(d("9980")))
	assert.True(t, result.Tax.IsZero())
	assert.True(t, result.Total.Equal(d("9980")))
	assert.True(t, result.Change.Equal(d("20")))

	// El vale quedó completed y la mercadería salió físicamente.
	stored := store.valeByNumber(vale.Number)
	assert.Equal(t, entity.ValeStateCompleted, stored.State)
	st := store.stockAt("v1", "w1")
	assert.True(t, st.Available.Equal(d("48")))
	assert.True(t, st.Reserved.IsZero())
	assert.True(t, st.Total().Equal(d("48")))

	// Una salida en el kardex referenciando el vale.
	require.Len(t, store.movements, 1)
	mov := store.movements[0]
	assert.Equal(t, entity.MovementTypeExit, mov.Type)
	assert.Equal(t, vale.Number, mov.Reference)
	assert.True(t, mov.Quantity.Equal(d("-2")))

	// El pago se persiste neto: el vuelto no entra a caja.
	require.Len(t, store.payments, 1)
	assert.True(t, store.payments[0].Amount.Equal(d("9980")))

	assert.Equal(t, []string{sales.EventValeFinalized}, notifier.events)
}

func TestFinalize_FacturaCalculaIVAYExigeRUT(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "10000")
	store.addStock("v1", "w1", "10")
	vale := seedVale(t, store, entity.DocumentFactura,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("1")})
	uc, _ := newFinalizeUseCase(store)

	// Sin datos tributarios la factura se rechaza y nada cambia.
	_, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentDebit,
		AmountPaid:    d("10000"),
	})
	assert.True(t, errors.Is(err, domain.ErrMissingCustomerData))
	assert.Equal(t, entity.ValeStateVoucherPending, store.valeByNumber(vale.Number).State)
	assert.Empty(t, store.sales)

	// Con RUT y razón social se crea el cliente y se emite con IVA.
	result, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:            vale.Number,
		CashierID:         "cashier-1",
		PaymentMethod:     entity.PaymentDebit,
		AmountPaid:        d("10000"),
		CustomerRUT:       "76.543.210-K",
		CustomerLegalName: "Comercial Andes SpA",
	})
	require.NoError(t, err)

	assert.True(t, result.Tax.Equal(d("1900")), "IVA 19%% de 10000, got %s", result.Tax)
	require.Len(t, store.customers, 1)
	sale := store.sales[vale.ID]
	require.NotNil(t, sale.CustomerID)
}

func TestFinalize_DescuentoFueraDeCota(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "5000")
	store.addStock("v1", "w1", "10")
	vale := seedVale(t, store, entity.DocumentTicket,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("1")})
	uc, _ := newFinalizeUseCase(store)

	for _, discount := range []string{"-100", "5000", "6000"} {
		_, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
			Number:        vale.Number,
			CashierID:     "cashier-1",
			PaymentMethod: entity.PaymentCash,
			Discount:      d(discount),
			AmountPaid:    d("5000"),
		})
		assert.True(t, errors.Is(err, domain.ErrInvalidDiscount), "descuento %s", discount)
	}

	// El estado y las reservas sobreviven a los intentos fallidos.
	assert.Equal(t, entity.ValeStateVoucherPending, store.valeByNumber(vale.Number).State)
	assert.Len(t, store.activeReservations(vale.ID), 1)

	// Un descuento válido aplica sobre el total.
	result, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentCash,
		Discount:      d("1000"),
		AmountPaid:    d("4000"),
	})
	require.NoError(t, err)
	assert.True(t, result.Total.Equal(d("4000")))
}

func TestFinalize_PagoInsuficiente(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "5000")
	store.addStock("v1", "w1", "10")
	vale := seedVale(t, store, entity.DocumentTicket,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("1")})
	uc, _ := newFinalizeUseCase(store)

	_, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("4999"),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Empty(t, store.sales)
}

func TestFinalize_ValeTomadoPorOtroCajeroVigente(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "5000")
	store.addStock("v1", "w1", "10")
	vale := seedVale(t, store, entity.DocumentTicket,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("1")})

	claimUC := sales.NewClaimValeUseCase(fakeTxRunner{store})
	_, err := claimUC.Claim(context.Background(), vale.Number, "cashier-A")
	require.NoError(t, err)

	uc, _ := newFinalizeUseCase(store)
	_, err = uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-B",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("5000"),
	})
	assert.True(t, errors.Is(err, domain.ErrStaleLockConflict))

	// El cajero que lo tiene tomado sí puede cerrar.
	_, err = uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-A",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("5000"),
	})
	require.NoError(t, err)
}

func TestFinalize_LockVencidoPuedeRetomarse(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "5000")
	store.addStock("v1", "w1", "10")
	vale := seedVale(t, store, entity.DocumentTicket,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("1")})

	// Simular un cajero que tomó el vale y desapareció hace más de la ventana.
	stored := store.valeByNumber(vale.Number)
	holder := "cashier-desaparecido"
	stored.State = entity.ValeStateProcessing
	stored.ProcessingBy = &holder
	stored.UpdatedAt = time.Now().Add(-10 * time.Minute)

	uc, _ := newFinalizeUseCase(store)
	result, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-B",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("5000"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.SaleNumber)
}

func TestFinalize_DobleVentaDelMismoVale(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "5000")
	store.addStock("v1", "w1", "10")
	vale := seedVale(t, store, entity.DocumentTicket,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("1")})
	uc, _ := newFinalizeUseCase(store)

	input := sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("5000"),
	}
	_, err := uc.Finalize(context.Background(), input)
	require.NoError(t, err)

	// El segundo intento encuentra el vale completed: conflicto, nunca dos ventas.
	_, err = uc.Finalize(context.Background(), input)
	assert.True(t, errors.Is(err, domain.ErrStaleLockConflict))
	assert.Len(t, store.sales, 1)
	assert.Len(t, store.payments, 1)
}

func TestFinalize_ValePendingReservaEnLaMismaTx(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "5000")
	store.addStock("v1", "w1", "10")

	createUC, _ := newCreateUseCase(store)
	vale, _, err := createUC.CreateVale(context.Background(), sales.CreateValeInput{
		SellerID:        "seller-1",
		DocumentType:    entity.DocumentTicket,
		SkipReservation: true,
		Lines:           []sales.CreateValeLineInput{{VariantID: "v1", Quantity: d("4")}},
	})
	require.NoError(t, err)
	require.Equal(t, entity.ValeStatePending, store.valeByNumber(vale.Number).State)

	// El vale pending se cierra directo en caja, sin pasos intermedios.
	uc, _ := newFinalizeUseCase(store)
	_, err = uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("20000"),
	})
	require.NoError(t, err)

	// La reserva se creó y consumió dentro del cierre: la mercadería salió.
	assert.Equal(t, entity.ValeStateCompleted, store.valeByNumber(vale.Number).State)
	st := store.stockAt("v1", "w1")
	assert.True(t, st.Available.Equal(d("6")))
	assert.True(t, st.Reserved.IsZero())
}

func TestFinalize_ValeBarridoVuelveACajaYSeVende(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "5000")
	store.addStock("v1", "w1", "10")
	vale := seedVale(t, store, entity.DocumentTicket,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("4")})

	// La reserva vence y el barrido devuelve el vale a pending con su stock liberado.
	past := time.Now().Add(-time.Minute)
	store.valeByNumber(vale.Number).ReservationExpiresAt = &past
	sweepUC := sales.NewExpireReservationsUseCase(fakeTxRunner{store}, inventory.NewLedger())
	released, err := sweepUC.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, released)
	require.Equal(t, entity.ValeStatePending, store.valeByNumber(vale.Number).State)
	require.True(t, store.stockAt("v1", "w1").Available.Equal(d("10")))

	// El cliente aparece después: el cajero toma el vale barrido...
	claimUC := sales.NewClaimValeUseCase(fakeTxRunner{store})
	claimed, err := claimUC.Claim(context.Background(), vale.Number, "cashier-1")
	require.NoError(t, err)
	assert.Equal(t, entity.ValeStateProcessing, claimed.State)

	// ...y lo cierra: la reserva se repone y se consume en la misma transacción.
	uc, _ := newFinalizeUseCase(store)
	result, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("20000"),
	})
	require.NoError(t, err)
	assert.True(t, result.Total.Equal(d("20000")))

	assert.Equal(t, entity.ValeStateCompleted, store.valeByNumber(vale.Number).State)
	st := store.stockAt("v1", "w1")
	assert.True(t, st.Available.Equal(d("6")))
	assert.True(t, st.Reserved.IsZero())
	require.Len(t, store.sales, 1)
}

func TestFinalize_ValeAnuladoNoEsVendible(t *testing.T) {
	store := newFakeStore()
	store.addVariant("v1", "5000")
	store.addStock("v1", "w1", "10")
	vale := seedVale(t, store, entity.DocumentTicket,
		sales.CreateValeLineInput{VariantID: "v1", Quantity: d("1")})

	cancelUC := sales.NewCancelValeUseCase(fakeTxRunner{store}, inventory.NewLedger(), sales.NopNotifier{})
	require.NoError(t, cancelUC.Cancel(context.Background(), vale.Number, "cliente desistió", "admin-1"))

	uc, _ := newFinalizeUseCase(store)
	_, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        vale.Number,
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("5000"),
	})
	// Anulado no es "lo tiene otro cajero": es una transición ilegal.
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Empty(t, store.sales)
}

func TestFinalize_ValeInexistente(t *testing.T) {
	store := newFakeStore()
	uc, _ := newFinalizeUseCase(store)

	_, err := uc.Finalize(context.Background(), sales.FinalizeValeInput{
		Number:        "VP20250101-9999",
		CashierID:     "cashier-1",
		PaymentMethod: entity.PaymentCash,
		AmountPaid:    d("1000"),
	})
	assert.True(t, errors.Is(err, domain.ErrValeNotFound))
}
