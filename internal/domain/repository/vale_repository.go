package repository

import (
	"context"
	"time"

	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// ValeRepository define el puerto de persistencia de vales (DIP).
//
// GetByNumberForUpdate bloquea la fila del vale (SELECT FOR UPDATE): es la única
// primitiva de serialización entre cajeros concurrentes; no hay mutex en proceso
// porque pueden correr varias instancias del servidor.
type ValeRepository interface {
	Create(ctx context.Context, vale *entity.Vale) error
	CreateLine(ctx context.Context, line *entity.ValeLine) error
	GetByNumber(ctx context.Context, number string) (*entity.Vale, error)
	GetByNumberForUpdate(ctx context.Context, number string) (*entity.Vale, error)
	// Update persiste estado, totales, cajero en proceso y vigencia de reserva.
	// Siempre actualiza updated_at, base del chequeo de abandono de caja.
	Update(ctx context.Context, vale *entity.Vale) error
	// NextDailySequence incrementa y devuelve el consecutivo diario de vales de forma
	// atómica (upsert con RETURNING), seguro ante vendedores concurrentes.
	NextDailySequence(ctx context.Context, day time.Time) (int, error)
	// ListExpiredReservations devuelve números de vales en voucher_pending cuya
	// reserva venció antes de now; insumo del barrido de reservas.
	ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]string, error)
}
