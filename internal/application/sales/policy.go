package sales

import (
	"context"

	"github.com/crismard/ventapos-api/internal/application/settings"
	"github.com/crismard/ventapos-api/internal/domain/allocation"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// defaultReservationMinutes aplica cuando sales.reservation_minutes no está configurado.
const defaultReservationMinutes = 60

// buildAllocationPolicy arma la política de asignación desde la configuración de
// negocio. preferred (bodega pedida por el vendedor) manda sobre la prioridad
// configurada.
func buildAllocationPolicy(ctx context.Context, cfg *settings.Provider, preferred string) (allocation.Policy, error) {
	allowOversell, err := cfg.GetBool(ctx, entity.ConfigAllowOversell, false)
	if err != nil {
		return allocation.Policy{}, err
	}
	fallback, err := cfg.Get(ctx, entity.ConfigFallbackWarehouse, "")
	if err != nil {
		return allocation.Policy{}, err
	}
	if preferred == "" {
		preferred, err = cfg.Get(ctx, entity.ConfigWarehousePriority, "")
		if err != nil {
			return allocation.Policy{}, err
		}
	}
	return allocation.Policy{
		PreferredWarehouseID: preferred,
		AllowOversell:        allowOversell,
		FallbackWarehouseID:  fallback,
	}, nil
}
