package allocation

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/crismard/ventapos-api/internal/domain"
)

// Candidate es una bodega elegible para satisfacer una reserva: punto de venta con
// stock registrado de la variante. Available ya descuenta lo reservado por otros vales.
type Candidate struct {
	WarehouseID string
	Available   decimal.Decimal
}

// Policy parametriza la asignación: bodega preferida (opcional), permiso de sobreventa
// y bodega de respaldo donde cargar el excedente sobrevendido.
type Policy struct {
	PreferredWarehouseID string
	AllowOversell        bool
	FallbackWarehouseID  string // vacío = usar la primera candidata
}

// Split es la porción de la cantidad solicitada asignada a una bodega.
type Split struct {
	WarehouseID string
	Quantity    decimal.Decimal
	Oversold    bool
}

// Allocate reparte quantity entre las candidatas con un greedy determinista:
// primero la bodega preferida si viene en la política, luego por mayor disponible,
// y a igual disponible por ID de bodega ascendente (desempate estable para
// reproducibilidad). Consume desde la cabeza del orden hasta cubrir la cantidad.
//
// Si las candidatas se agotan y la política permite sobreventa, el remanente se
// asigna sobrevendido a la bodega de respaldo (o a la primera candidata si no hay).
// Si no permite sobreventa, retorna InsufficientStockError con el detalle agregado.
func Allocate(variantID string, quantity decimal.Decimal, candidates []Candidate, policy Policy) ([]Split, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if policy.PreferredWarehouseID != "" {
			if ordered[i].WarehouseID == policy.PreferredWarehouseID {
				return true
			}
			if ordered[j].WarehouseID == policy.PreferredWarehouseID {
				return false
			}
		}
		if !ordered[i].Available.Equal(ordered[j].Available) {
			return ordered[i].Available.GreaterThan(ordered[j].Available)
		}
		return ordered[i].WarehouseID < ordered[j].WarehouseID
	})

	var splits []Split
	remaining := quantity
	totalAvailable := decimal.Zero
	for _, c := range ordered {
		totalAvailable = totalAvailable.Add(c.Available)
		if !remaining.GreaterThan(decimal.Zero) || !c.Available.GreaterThan(decimal.Zero) {
			continue
		}
		take := decimal.Min(remaining, c.Available)
		splits = append(splits, Split{WarehouseID: c.WarehouseID, Quantity: take})
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		if !policy.AllowOversell {
			return nil, &domain.InsufficientStockError{
				VariantID: variantID,
				Requested: quantity,
				Available: totalAvailable,
			}
		}
		fallback := policy.FallbackWarehouseID
		if fallback == "" && len(ordered) > 0 {
			fallback = ordered[0].WarehouseID
		}
		if fallback == "" {
			return nil, &domain.InsufficientStockError{
				VariantID: variantID,
				Requested: quantity,
				Available: totalAvailable,
			}
		}
		splits = append(splits, Split{WarehouseID: fallback, Quantity: remaining, Oversold: true})
	}

	return splits, nil
}
