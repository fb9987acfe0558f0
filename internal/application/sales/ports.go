package sales

import (
	"context"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/domain/repository"
)

// Eventos publicados al bus de notificaciones (best-effort).
const (
	EventValeCreated   = "vale.created"
	EventValeFinalized = "vale.finalized"
	EventValeCancelled = "vale.cancelled"
	EventStockAdjusted = "stock.adjusted"
)

// TxRepos agrupa los repositorios atados a la transacción que los casos de uso de
// venta necesitan. Embebe los repos del motor de inventario para poder pasar la
// misma transacción al Ledger.
type TxRepos struct {
	inventory.LedgerRepos
	Vales     repository.ValeRepository
	Sales     repository.SaleRepository
	Payments  repository.PaymentRepository
	Customers repository.CustomerRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD con los repos de
// venta e inventario atados a ella. Todo punto de entrada que muta un vale corre
// dentro de una sola transacción que toma el lock exclusivo de la fila del vale
// antes de leer su estado mutable.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(r TxRepos) error) error
}

// Notifier publica eventos de cambio de estado al bus de notificaciones.
// Best-effort: la implementación registra el error y nunca lo propaga; publicar
// jamás bloquea ni hace fallar la operación del núcleo.
type Notifier interface {
	Publish(ctx context.Context, event string, payload any)
}

// NopNotifier descarta los eventos; útil en tests y en el worker.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, string, any) {}
