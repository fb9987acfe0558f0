package inventory

import (
	"context"

	"github.com/crismard/ventapos-api/internal/domain/repository"
)

// LedgerRepos agrupa los repositorios que el motor de inventario necesita dentro
// de una transacción: stock por bodega, log de movimientos y reservas.
type LedgerRepos struct {
	Stock        repository.WarehouseStockRepository
	Movements    repository.StockMovementRepository
	Reservations repository.StockReservationRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: cualquier error
// dentro del callback hace rollback completo, nunca quedan reservas parciales.
type TxRunner interface {
	Run(ctx context.Context, fn func(r LedgerRepos) error) error
}
