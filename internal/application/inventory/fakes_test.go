package inventory_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crismard/ventapos-api/internal/application/inventory"
	"github.com/crismard/ventapos-api/internal/domain/entity"
)

// fakeLedgerStore es el estado compartido de los repositorios falsos del motor de
// inventario. stocks se indexa por "variantID|warehouseID".
type fakeLedgerStore struct {
	stocks       map[string]*entity.WarehouseStock
	pos          map[string]bool
	movements    []*entity.StockMovement
	reservations map[string]*entity.StockReservation
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		stocks:       make(map[string]*entity.WarehouseStock),
		pos:          make(map[string]bool),
		reservations: make(map[string]*entity.StockReservation),
	}
}

func stockKey(variantID, warehouseID string) string { return variantID + "|" + warehouseID }

func (s *fakeLedgerStore) addStock(variantID, warehouseID, available string) {
	s.stocks[stockKey(variantID, warehouseID)] = &entity.WarehouseStock{
		VariantID:   variantID,
		WarehouseID: warehouseID,
		Available:   decimal.RequireFromString(available),
	}
	s.pos[warehouseID] = true
}

func (s *fakeLedgerStore) stockAt(variantID, warehouseID string) *entity.WarehouseStock {
	if st, ok := s.stocks[stockKey(variantID, warehouseID)]; ok {
		return st
	}
	return &entity.WarehouseStock{VariantID: variantID, WarehouseID: warehouseID}
}

func (s *fakeLedgerStore) repos() inventory.LedgerRepos {
	return inventory.LedgerRepos{
		Stock:        fakeStockRepo{s},
		Movements:    fakeMovementRepo{s},
		Reservations: fakeReservationRepo{s},
	}
}

func (s *fakeLedgerStore) clone() *fakeLedgerStore {
	c := newFakeLedgerStore()
	for k, v := range s.stocks {
		sc := *v
		c.stocks[k] = &sc
	}
	for k, v := range s.pos {
		c.pos[k] = v
	}
	c.movements = append(c.movements, s.movements...)
	for k, v := range s.reservations {
		rc := *v
		c.reservations[k] = &rc
	}
	return c
}

// fakeTxRunner emula el rollback: toma un snapshot al entrar y lo restaura si el
// callback falla.
type fakeTxRunner struct{ s *fakeLedgerStore }

func (t fakeTxRunner) Run(_ context.Context, fn func(r inventory.LedgerRepos) error) error {
	snapshot := t.s.clone()
	if err := fn(t.s.repos()); err != nil {
		*t.s = *snapshot
		return err
	}
	return nil
}

type fakeStockRepo struct{ s *fakeLedgerStore }

func (r fakeStockRepo) Get(_ context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error) {
	if st, ok := r.s.stocks[stockKey(variantID, warehouseID)]; ok {
		c := *st
		return &c, nil
	}
	// Fila inexistente: foto en cero, misma semántica que el adaptador de postgres.
	return &entity.WarehouseStock{VariantID: variantID, WarehouseID: warehouseID}, nil
}

func (r fakeStockRepo) GetForUpdate(_ context.Context, variantID, warehouseID string) (*entity.WarehouseStock, error) {
	// Como el adaptador real: la fila inexistente se materializa en cero al bloquear.
	key := stockKey(variantID, warehouseID)
	if _, ok := r.s.stocks[key]; !ok {
		r.s.stocks[key] = &entity.WarehouseStock{VariantID: variantID, WarehouseID: warehouseID}
	}
	c := *r.s.stocks[key]
	return &c, nil
}

func (r fakeStockRepo) ListPointOfSaleForUpdate(_ context.Context, variantID string) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, st := range r.s.stocks {
		if st.VariantID == variantID && r.s.pos[st.WarehouseID] {
			c := *st
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarehouseID < out[j].WarehouseID })
	return out, nil
}

func (r fakeStockRepo) Upsert(_ context.Context, stock *entity.WarehouseStock) error {
	c := *stock
	r.s.stocks[stockKey(stock.VariantID, stock.WarehouseID)] = &c
	return nil
}

func (r fakeStockRepo) ListByWarehouse(_ context.Context, warehouseID string, belowMin bool, limit, offset int) ([]*entity.WarehouseStock, error) {
	var out []*entity.WarehouseStock
	for _, st := range r.s.stocks {
		if st.WarehouseID != warehouseID {
			continue
		}
		if belowMin && !st.BelowMinimum() {
			continue
		}
		c := *st
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantID < out[j].VariantID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeMovementRepo struct{ s *fakeLedgerStore }

func (r fakeMovementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	c := *movement
	r.s.movements = append(r.s.movements, &c)
	return nil
}

func (r fakeMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r fakeMovementRepo) ListByWarehouse(_ context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.WarehouseID == warehouseID }, from, to, limit, offset)
}

func (r fakeMovementRepo) ListByVariant(_ context.Context, variantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool { return m.VariantID == variantID }, from, to, limit, offset)
}

func (r fakeMovementRepo) list(match func(*entity.StockMovement) bool, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if !match(m) {
			continue
		}
		if from != nil && m.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && m.CreatedAt.After(*to) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeReservationRepo struct{ s *fakeLedgerStore }

func (r fakeReservationRepo) Create(_ context.Context, reservation *entity.StockReservation) error {
	c := *reservation
	r.s.reservations[reservation.ID] = &c
	return nil
}

func (r fakeReservationRepo) ListActiveByVale(_ context.Context, valeID string) ([]*entity.StockReservation, error) {
	var out []*entity.StockReservation
	for _, res := range r.s.reservations {
		if res.ValeID == valeID && res.Status == entity.ReservationActive {
			c := *res
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeReservationRepo) markStatus(id, status string) (bool, error) {
	res, ok := r.s.reservations[id]
	if !ok || res.Status != entity.ReservationActive {
		return false, nil
	}
	res.Status = status
	res.UpdatedAt = time.Now()
	return true, nil
}

func (r fakeReservationRepo) MarkReleased(_ context.Context, id string) (bool, error) {
	return r.markStatus(id, entity.ReservationReleased)
}

func (r fakeReservationRepo) MarkCommitted(_ context.Context, id string) (bool, error) {
	return r.markStatus(id, entity.ReservationCommitted)
}

type fakeVariantRepo struct{ known map[string]bool }

func (r fakeVariantRepo) GetByID(_ context.Context, id string) (*entity.ProductVariant, error) {
	if !r.known[id] {
		return nil, nil
	}
	return &entity.ProductVariant{ID: id, SKU: "SKU-" + id, Name: "tela " + id}, nil
}

type fakeWarehouseRepo struct{ known map[string]bool }

func (r fakeWarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	if !r.known[id] {
		return nil, nil
	}
	return &entity.Warehouse{ID: id, Name: "bodega " + id, IsPointOfSale: true}, nil
}

func (r fakeWarehouseRepo) List(_ context.Context) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	for id := range r.known {
		out = append(out, &entity.Warehouse{ID: id, Name: "bodega " + id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
